package spotify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/desertthunder/spotr/internal/shared"
)

// rewriteTransport redirects every request to the test server so client
// methods built on the production base URL can be exercised.
type rewriteTransport struct {
	base *url.URL
}

func (t rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.URL.Scheme = t.base.Scheme
	req.URL.Host = t.base.Host
	return http.DefaultTransport.RoundTrip(req)
}

// newTestClient builds a client whose API, auth, and token endpoints all
// resolve to the given test server.
func newTestClient(t *testing.T, srv *httptest.Server, opts Options) *Client {
	t.Helper()

	base, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatalf("failed to parse server URL: %v", err)
	}

	opts.HTTPClient = &http.Client{Transport: rewriteTransport{base: base}}
	if opts.TokenURL == "" {
		opts.TokenURL = srv.URL + "/api/token"
	}
	if opts.AuthURL == "" {
		opts.AuthURL = srv.URL + "/authorize"
	}

	return NewClient(Credentials{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURI:  "http://localhost:3000/callback",
	}, opts)
}

func TestClientDo(t *testing.T) {
	ctx := context.Background()

	t.Run("SendsBearerToken", func(t *testing.T) {
		var gotAuth string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			fmt.Fprint(w, `{}`)
		}))
		defer srv.Close()

		client := newTestClient(t, srv, Options{AccessToken: "tok-1"})

		resp, err := client.Do(ctx, NewRequest(http.MethodGet, srv.URL+"/v1/me"))
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		resp.Body.Close()

		if gotAuth != "Bearer tok-1" {
			t.Errorf("expected bearer header, got %q", gotAuth)
		}
	})

	t.Run("RefreshesOnceOn401", func(t *testing.T) {
		var apiCalls, tokenCalls atomic.Int32

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/api/token":
				tokenCalls.Add(1)
				if err := r.ParseForm(); err != nil {
					t.Errorf("bad form: %v", err)
				}
				if grant := r.FormValue("grant_type"); grant != "refresh_token" {
					t.Errorf("expected refresh_token grant, got %q", grant)
				}
				fmt.Fprint(w, `{"access_token":"tok-2","token_type":"Bearer","expires_in":3600}`)
			default:
				apiCalls.Add(1)
				if r.Header.Get("Authorization") != "Bearer tok-2" {
					w.WriteHeader(http.StatusUnauthorized)
					return
				}
				fmt.Fprint(w, `{"id":"user_1"}`)
			}
		}))
		defer srv.Close()

		client := newTestClient(t, srv, Options{AccessToken: "tok-stale", RefreshToken: "refresh-1"})

		var refreshed []Token
		client.SetTokenRefreshCallback(func(tok Token) { refreshed = append(refreshed, tok) })

		resp, err := client.Do(ctx, NewRequest(http.MethodGet, srv.URL+"/v1/me"))
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Errorf("expected 200 after retry, got %d", resp.StatusCode)
		}
		if got := apiCalls.Load(); got != 2 {
			t.Errorf("expected 2 api calls, got %d", got)
		}
		if got := tokenCalls.Load(); got != 1 {
			t.Errorf("expected 1 token call, got %d", got)
		}
		if len(refreshed) != 1 || refreshed[0].AccessToken != "tok-2" {
			t.Errorf("expected refresh callback with tok-2, got %v", refreshed)
		}
		if refreshed[0].RefreshToken != "refresh-1" {
			t.Error("refresh token should persist when the response omits it")
		}
	})

	t.Run("SecondConsecutive401IsFinal", func(t *testing.T) {
		var apiCalls atomic.Int32

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/api/token" {
				fmt.Fprint(w, `{"access_token":"tok-2","token_type":"Bearer"}`)
				return
			}
			apiCalls.Add(1)
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"error":{"status":401,"message":"bad token"}}`)
		}))
		defer srv.Close()

		client := newTestClient(t, srv, Options{AccessToken: "tok-stale", RefreshToken: "refresh-1"})

		_, err := client.Do(ctx, NewRequest(http.MethodGet, srv.URL+"/v1/me"))
		if !errors.Is(err, shared.ErrAuthFailed) {
			t.Fatalf("expected ErrAuthFailed, got %v", err)
		}

		var statusErr *StatusError
		if !errors.As(err, &statusErr) {
			t.Fatal("expected StatusError in chain")
		}
		if statusErr.Status != http.StatusUnauthorized {
			t.Errorf("expected status 401, got %d", statusErr.Status)
		}

		if got := apiCalls.Load(); got != 2 {
			t.Errorf("expected exactly 2 api calls, got %d", got)
		}
	})

	t.Run("RefreshFailureAborts", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/api/token" {
				w.WriteHeader(http.StatusBadRequest)
				fmt.Fprint(w, `{"error":"invalid_grant"}`)
				return
			}
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		client := newTestClient(t, srv, Options{AccessToken: "tok-stale", RefreshToken: "refresh-1"})

		_, err := client.Do(ctx, NewRequest(http.MethodGet, srv.URL+"/v1/me"))
		if !errors.Is(err, shared.ErrRefreshFailed) {
			t.Errorf("expected ErrRefreshFailed, got %v", err)
		}
	})

	t.Run("OtherStatusesPassThrough", func(t *testing.T) {
		var tokenCalls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/api/token" {
				tokenCalls.Add(1)
				return
			}
			w.WriteHeader(http.StatusForbidden)
		}))
		defer srv.Close()

		client := newTestClient(t, srv, Options{AccessToken: "tok-1", RefreshToken: "refresh-1"})

		resp, err := client.Do(ctx, NewRequest(http.MethodGet, srv.URL+"/v1/me"))
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		resp.Body.Close()

		if resp.StatusCode != http.StatusForbidden {
			t.Errorf("expected 403 passed through, got %d", resp.StatusCode)
		}
		if tokenCalls.Load() != 0 {
			t.Error("403 must not trigger a refresh")
		}
	})
}

func TestDoJSON(t *testing.T) {
	ctx := context.Background()

	t.Run("DecodesBody", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"id":"user_1","display_name":"Test"}`)
		}))
		defer srv.Close()

		client := newTestClient(t, srv, Options{AccessToken: "tok-1"})

		var user User
		if err := client.DoJSON(ctx, NewRequest(http.MethodGet, srv.URL+"/v1/me"), &user); err != nil {
			t.Fatalf("request failed: %v", err)
		}
		if user.ID != "user_1" {
			t.Errorf("expected user_1, got %q", user.ID)
		}
	})

	t.Run("WrapsAPIErrors", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"error":{"status":404,"message":"not found"}}`)
		}))
		defer srv.Close()

		client := newTestClient(t, srv, Options{AccessToken: "tok-1"})

		err := client.DoJSON(ctx, NewRequest(http.MethodGet, srv.URL+"/v1/playlists/x"), nil)
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Fatalf("expected ErrAPIRequest, got %v", err)
		}

		var statusErr *StatusError
		if !errors.As(err, &statusErr) {
			t.Fatal("expected StatusError in chain")
		}
		if statusErr.Status != http.StatusNotFound {
			t.Errorf("expected 404, got %d", statusErr.Status)
		}
	})
}

func TestEnsureUserID(t *testing.T) {
	ctx := context.Background()

	t.Run("CachesLookup", func(t *testing.T) {
		var meCalls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			meCalls.Add(1)
			fmt.Fprint(w, `{"id":"user_1"}`)
		}))
		defer srv.Close()

		client := newTestClient(t, srv, Options{AccessToken: "tok-1"})

		for range 3 {
			id, err := client.EnsureUserID(ctx)
			if err != nil {
				t.Fatalf("lookup failed: %v", err)
			}
			if id != "user_1" {
				t.Errorf("expected user_1, got %q", id)
			}
		}

		if got := meCalls.Load(); got != 1 {
			t.Errorf("expected 1 profile call, got %d", got)
		}
	})
}
