package spotify

import (
	"bytes"
	"fmt"
)

// StatusError reports a non-success HTTP status returned by the Spotify
// API or the accounts service, carrying the upstream response body.
type StatusError struct {
	Status int
	Body   []byte
}

func (e *StatusError) Error() string {
	body := bytes.TrimSpace(e.Body)
	if len(body) == 0 {
		return fmt.Sprintf("status %d", e.Status)
	}
	return fmt.Sprintf("status %d: %s", e.Status, body)
}
