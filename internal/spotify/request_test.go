package spotify

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/desertthunder/spotr/internal/shared"
)

func TestPrepare(t *testing.T) {
	ctx := context.Background()

	t.Run("PlainGET", func(t *testing.T) {
		req := NewRequest(http.MethodGet, "https://example.com/v1/me")

		httpReq, err := req.Prepare(ctx)
		if err != nil {
			t.Fatalf("prepare failed: %v", err)
		}

		if httpReq.URL.String() != "https://example.com/v1/me" {
			t.Errorf("unexpected URL %s", httpReq.URL)
		}
		if httpReq.Body != nil {
			t.Error("expected no body")
		}
	})

	t.Run("JSONBody", func(t *testing.T) {
		req := NewRequest(http.MethodPost, "https://example.com/v1/playlists")
		req.JSON = map[string]any{"name": "Gym"}

		httpReq, err := req.Prepare(ctx)
		if err != nil {
			t.Fatalf("prepare failed: %v", err)
		}

		if ct := httpReq.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected JSON content type, got %q", ct)
		}

		body, _ := io.ReadAll(httpReq.Body)
		if string(body) != `{"name":"Gym"}` {
			t.Errorf("unexpected body %s", body)
		}
	})

	t.Run("JSONTakesPriorityOverForm", func(t *testing.T) {
		req := NewRequest(http.MethodPost, "https://example.com/token")
		req.JSON = map[string]any{"a": "1"}
		req.Form = map[string]string{"b": "2"}

		httpReq, err := req.Prepare(ctx)
		if err != nil {
			t.Fatalf("prepare failed: %v", err)
		}

		if ct := httpReq.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected JSON content type, got %q", ct)
		}

		body, _ := io.ReadAll(httpReq.Body)
		if string(body) != `{"a":"1"}` {
			t.Errorf("expected JSON body to win, got %s", body)
		}
	})

	t.Run("FormBody", func(t *testing.T) {
		req := NewRequest(http.MethodPost, "https://example.com/token")
		req.Form = map[string]string{"grant_type": "refresh_token", "refresh_token": "r1"}

		httpReq, err := req.Prepare(ctx)
		if err != nil {
			t.Fatalf("prepare failed: %v", err)
		}

		if ct := httpReq.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("expected form content type, got %q", ct)
		}

		body, _ := io.ReadAll(httpReq.Body)
		if string(body) != "grant_type=refresh_token&refresh_token=r1" {
			t.Errorf("unexpected body %s", body)
		}
	})

	t.Run("QueryParams", func(t *testing.T) {
		req := NewRequest(http.MethodGet, "https://example.com/v1/tracks")
		req.SetParam("ids", "a,b")
		req.SetParam("market", "US")

		httpReq, err := req.Prepare(ctx)
		if err != nil {
			t.Fatalf("prepare failed: %v", err)
		}

		query := httpReq.URL.Query()
		if query.Get("ids") != "a,b" {
			t.Errorf("expected ids a,b, got %q", query.Get("ids"))
		}
		if query.Get("market") != "US" {
			t.Errorf("expected market US, got %q", query.Get("market"))
		}
	})

	t.Run("ParamsOverrideExistingQuery", func(t *testing.T) {
		req := NewRequest(http.MethodGet, "https://example.com/v1/tracks?limit=20&offset=40")
		req.SetParam("limit", "50")

		httpReq, err := req.Prepare(ctx)
		if err != nil {
			t.Fatalf("prepare failed: %v", err)
		}

		query := httpReq.URL.Query()
		if query.Get("limit") != "50" {
			t.Errorf("explicit param should win, got limit=%q", query.Get("limit"))
		}
		if query.Get("offset") != "40" {
			t.Errorf("existing param should survive, got offset=%q", query.Get("offset"))
		}
	})

	t.Run("RejectsDoubleQuestionMark", func(t *testing.T) {
		req := NewRequest(http.MethodGet, "https://example.com/v1/tracks?a=1?b=2")

		_, err := req.Prepare(ctx)
		if !errors.Is(err, shared.ErrMalformedURL) {
			t.Errorf("expected ErrMalformedURL, got %v", err)
		}
	})

	t.Run("BasicAuth", func(t *testing.T) {
		req := NewRequest(http.MethodPost, "https://example.com/token")
		req.Auth = &BasicAuth{ID: "client", Secret: "secret"}

		httpReq, err := req.Prepare(ctx)
		if err != nil {
			t.Fatalf("prepare failed: %v", err)
		}

		id, secret, ok := httpReq.BasicAuth()
		if !ok || id != "client" || secret != "secret" {
			t.Errorf("expected basic auth client/secret, got %s/%s ok=%v", id, secret, ok)
		}
	})

	t.Run("Headers", func(t *testing.T) {
		req := NewRequest(http.MethodGet, "https://example.com/v1/me")
		req.SetHeader("Authorization", "Bearer tok")

		httpReq, err := req.Prepare(ctx)
		if err != nil {
			t.Fatalf("prepare failed: %v", err)
		}

		if got := httpReq.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("expected bearer header, got %q", got)
		}
	})
}

func TestNewAPIRequest(t *testing.T) {
	t.Run("PrependsBaseURL", func(t *testing.T) {
		req := NewAPIRequest(http.MethodGet, "me/tracks")
		if req.URL != DefaultBaseURL+"/me/tracks" {
			t.Errorf("unexpected URL %s", req.URL)
		}
	})

	t.Run("TrimsLeadingSlash", func(t *testing.T) {
		req := NewAPIRequest(http.MethodGet, "/me/tracks")
		if req.URL != DefaultBaseURL+"/me/tracks" {
			t.Errorf("unexpected URL %s", req.URL)
		}
	})

	t.Run("KeepsAbsoluteURL", func(t *testing.T) {
		next := DefaultBaseURL + "/me/tracks?offset=50&limit=50"
		req := NewAPIRequest(http.MethodGet, next)
		if req.URL != next {
			t.Errorf("unexpected URL %s", req.URL)
		}
	})
}

func TestChunkIDs(t *testing.T) {
	t.Run("SplitsEvenly", func(t *testing.T) {
		chunks := chunkIDs([]string{"a", "b", "c", "d"}, 2)
		if len(chunks) != 2 {
			t.Fatalf("expected 2 chunks, got %d", len(chunks))
		}
		if chunks[0][0] != "a" || chunks[1][1] != "d" {
			t.Errorf("order not preserved: %v", chunks)
		}
	})

	t.Run("RemainderChunk", func(t *testing.T) {
		ids := make([]string, 130)
		for i := range ids {
			ids[i] = "id"
		}
		chunks := chunkIDs(ids, 50)
		if len(chunks) != 3 {
			t.Fatalf("expected 3 chunks, got %d", len(chunks))
		}
		if len(chunks[0]) != 50 || len(chunks[1]) != 50 || len(chunks[2]) != 30 {
			t.Errorf("unexpected chunk sizes %d/%d/%d", len(chunks[0]), len(chunks[1]), len(chunks[2]))
		}
	})

	t.Run("Empty", func(t *testing.T) {
		if chunks := chunkIDs(nil, 50); chunks != nil {
			t.Errorf("expected nil, got %v", chunks)
		}
	})
}
