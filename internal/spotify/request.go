package spotify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/desertthunder/spotr/internal/shared"
)

// BasicAuth holds a client id/secret pair for HTTP basic authentication.
type BasicAuth struct {
	ID     string
	Secret string
}

// Request describes an outbound API call. A single Request may be mutated
// and prepared multiple times: the dispatcher rewrites the Authorization
// header across retries and the sequencers rewrite the URL, params, and
// body across pages and chunks.
type Request struct {
	Method  string
	URL     string
	Params  map[string]string
	JSON    any               // JSON body; takes priority over Form
	Form    map[string]string // URL-encoded form body
	Headers map[string]string
	Auth    *BasicAuth
}

// NewRequest creates a request for an absolute URL.
func NewRequest(method, url string) *Request {
	return &Request{Method: method, URL: url}
}

// NewAPIRequest creates a request for a resource path, prepending the API
// base URL unless the path is already absolute.
func NewAPIRequest(method, path string) *Request {
	if !strings.HasPrefix(path, DefaultBaseURL) {
		path = DefaultBaseURL + "/" + strings.TrimPrefix(path, "/")
	}
	return &Request{Method: method, URL: path}
}

// SetParam sets a query parameter, initializing the map if needed.
func (r *Request) SetParam(key, value string) {
	if r.Params == nil {
		r.Params = map[string]string{}
	}
	r.Params[key] = value
}

// SetHeader sets a header, initializing the map if needed.
func (r *Request) SetHeader(key, value string) {
	if r.Headers == nil {
		r.Headers = map[string]string{}
	}
	r.Headers[key] = value
}

// Prepare constructs an [http.Request] from the descriptor's current state.
//
// A JSON body takes priority over a form body and sets the JSON content
// type. Query parameters are merged into any query string already present
// on the URL, explicit parameters winning over same-named existing keys.
// Basic-auth credentials overwrite any Authorization header.
func (r *Request) Prepare(ctx context.Context) (*http.Request, error) {
	var body *bytes.Reader
	contentType := ""

	if r.JSON != nil {
		data, err := json.Marshal(r.JSON)
		if err != nil {
			return nil, fmt.Errorf("failed to encode JSON body: %w", err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	} else if len(r.Form) > 0 {
		form := url.Values{}
		for k, v := range r.Form {
			form.Set(k, v)
		}
		body = bytes.NewReader([]byte(form.Encode()))
		contentType = "application/x-www-form-urlencoded"
	}

	target, err := mergeQuery(r.URL, r.Params)
	if err != nil {
		return nil, err
	}

	var req *http.Request
	if body != nil {
		req, err = http.NewRequestWithContext(ctx, r.Method, target, body)
	} else {
		req, err = http.NewRequestWithContext(ctx, r.Method, target, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for k, v := range r.Headers {
		req.Header.Set(k, v)
	}
	if r.Auth != nil {
		req.SetBasicAuth(r.Auth.ID, r.Auth.Secret)
	}

	return req, nil
}

// mergeQuery merges explicit parameters into a URL that may already carry
// a query string. Explicit keys overwrite existing ones; a URL with more
// than one '?' is rejected.
func mergeQuery(rawURL string, params map[string]string) (string, error) {
	parts := strings.Split(rawURL, "?")
	if len(parts) > 2 {
		return "", fmt.Errorf("%w: %q", shared.ErrMalformedURL, rawURL)
	}

	if len(params) == 0 && len(parts) == 1 {
		return rawURL, nil
	}

	merged := url.Values{}
	if len(parts) == 2 {
		existing, err := url.ParseQuery(parts[1])
		if err != nil {
			return "", fmt.Errorf("%w: %q", shared.ErrMalformedURL, rawURL)
		}
		for k, vs := range existing {
			if len(vs) > 0 {
				merged.Set(k, vs[len(vs)-1])
			}
		}
	}
	for k, v := range params {
		merged.Set(k, v)
	}

	if len(merged) == 0 {
		return parts[0], nil
	}
	return parts[0] + "?" + merged.Encode(), nil
}

// chunkIDs splits ids into successive chunks of at most size elements,
// preserving input order.
func chunkIDs(ids []string, size int) [][]string {
	if size <= 0 || len(ids) == 0 {
		return nil
	}
	chunks := make([][]string, 0, (len(ids)+size-1)/size)
	for i := 0; i < len(ids); i += size {
		end := min(i+size, len(ids))
		chunks = append(chunks, ids[i:end])
	}
	return chunks
}
