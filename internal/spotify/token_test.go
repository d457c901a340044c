package spotify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/desertthunder/spotr/internal/shared"
)

func TestExchangeCode(t *testing.T) {
	ctx := context.Background()

	t.Run("TradesCodeForTokens", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/token" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}

			id, secret, ok := r.BasicAuth()
			if !ok || id != "client-id" || secret != "client-secret" {
				t.Errorf("expected basic auth credentials, got %s/%s", id, secret)
			}

			if err := r.ParseForm(); err != nil {
				t.Fatalf("bad form: %v", err)
			}
			if grant := r.FormValue("grant_type"); grant != "authorization_code" {
				t.Errorf("expected authorization_code grant, got %q", grant)
			}
			if code := r.FormValue("code"); code != "auth-code-1" {
				t.Errorf("expected code auth-code-1, got %q", code)
			}
			if uri := r.FormValue("redirect_uri"); uri != "http://localhost:3000/callback" {
				t.Errorf("unexpected redirect uri %q", uri)
			}

			fmt.Fprint(w, `{"access_token":"tok-1","refresh_token":"refresh-1","token_type":"Bearer","expires_in":3600}`)
		}))
		defer srv.Close()

		client := newTestClient(t, srv, Options{})

		var saved []Token
		client.SetTokenRefreshCallback(func(tok Token) { saved = append(saved, tok) })

		if err := client.ExchangeCode(ctx, "auth-code-1"); err != nil {
			t.Fatalf("exchange failed: %v", err)
		}

		tok := client.Token()
		if tok.AccessToken != "tok-1" || tok.RefreshToken != "refresh-1" {
			t.Errorf("unexpected token pair %+v", tok)
		}
		if len(saved) != 1 {
			t.Errorf("expected 1 callback invocation, got %d", len(saved))
		}
	})

	t.Run("ClearsCachedUserID", func(t *testing.T) {
		var served string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/api/token" {
				fmt.Fprint(w, `{"access_token":"tok-2","token_type":"Bearer"}`)
				return
			}
			fmt.Fprintf(w, `{"id":%q}`, served)
		}))
		defer srv.Close()

		client := newTestClient(t, srv, Options{AccessToken: "tok-1"})

		served = "user_a"
		id, err := client.EnsureUserID(ctx)
		if err != nil || id != "user_a" {
			t.Fatalf("expected user_a, got %q err=%v", id, err)
		}

		if err := client.ExchangeCode(ctx, "code"); err != nil {
			t.Fatalf("exchange failed: %v", err)
		}

		served = "user_b"
		id, err = client.EnsureUserID(ctx)
		if err != nil || id != "user_b" {
			t.Errorf("expected identity re-resolved as user_b, got %q err=%v", id, err)
		}
	})

	t.Run("RequiresCredentials", func(t *testing.T) {
		client := NewClient(Credentials{}, Options{})

		err := client.ExchangeCode(ctx, "code")
		if !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})

	t.Run("RequiresRedirectURI", func(t *testing.T) {
		client := NewClient(Credentials{ClientID: "id", ClientSecret: "secret"}, Options{})

		err := client.ExchangeCode(ctx, "code")
		if !errors.Is(err, shared.ErrMissingRedirectURI) {
			t.Errorf("expected ErrMissingRedirectURI, got %v", err)
		}
	})

	t.Run("WrapsUpstreamFailure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `{"error":"invalid_grant"}`)
		}))
		defer srv.Close()

		client := newTestClient(t, srv, Options{})

		err := client.ExchangeCode(ctx, "bad-code")
		if !errors.Is(err, shared.ErrTokenExchange) {
			t.Errorf("expected ErrTokenExchange, got %v", err)
		}
	})
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()

	t.Run("RequiresRefreshToken", func(t *testing.T) {
		client := NewClient(Credentials{ClientID: "id", ClientSecret: "secret"}, Options{AccessToken: "tok"})

		err := client.Refresh(ctx)
		if !errors.Is(err, shared.ErrNoRefreshToken) {
			t.Errorf("expected ErrNoRefreshToken, got %v", err)
		}
	})

	t.Run("KeepsRefreshTokenWhenOmitted", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"access_token":"tok-2","token_type":"Bearer"}`)
		}))
		defer srv.Close()

		client := newTestClient(t, srv, Options{AccessToken: "tok-1", RefreshToken: "refresh-1"})

		if err := client.Refresh(ctx); err != nil {
			t.Fatalf("refresh failed: %v", err)
		}

		tok := client.Token()
		if tok.AccessToken != "tok-2" {
			t.Errorf("expected new access token, got %q", tok.AccessToken)
		}
		if tok.RefreshToken != "refresh-1" {
			t.Errorf("expected refresh token kept, got %q", tok.RefreshToken)
		}
	})

	t.Run("RotatesRefreshTokenWhenSupplied", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"access_token":"tok-2","refresh_token":"refresh-2","token_type":"Bearer"}`)
		}))
		defer srv.Close()

		client := newTestClient(t, srv, Options{AccessToken: "tok-1", RefreshToken: "refresh-1"})

		if err := client.Refresh(ctx); err != nil {
			t.Fatalf("refresh failed: %v", err)
		}

		if tok := client.Token(); tok.RefreshToken != "refresh-2" {
			t.Errorf("expected rotated refresh token, got %q", tok.RefreshToken)
		}
	})
}

func TestAuthorizeURL(t *testing.T) {
	creds := Credentials{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURI:  "http://localhost:3000/callback",
	}

	t.Run("BuildsURL", func(t *testing.T) {
		client := NewClient(creds, Options{})

		raw, err := client.AuthorizeURL([]string{"user-read-private", "playlist-read-private"}, "state-1")
		if err != nil {
			t.Fatalf("failed to build URL: %v", err)
		}

		parsed, err := url.Parse(raw)
		if err != nil {
			t.Fatalf("invalid URL: %v", err)
		}
		if !strings.HasPrefix(raw, DefaultAuthURL+"?") {
			t.Errorf("expected authorize endpoint, got %s", raw)
		}

		query := parsed.Query()
		if query.Get("client_id") != "client-id" {
			t.Errorf("unexpected client_id %q", query.Get("client_id"))
		}
		if query.Get("response_type") != "code" {
			t.Errorf("unexpected response_type %q", query.Get("response_type"))
		}
		if query.Get("redirect_uri") != creds.RedirectURI {
			t.Errorf("unexpected redirect_uri %q", query.Get("redirect_uri"))
		}
		if query.Get("scope") != "user-read-private playlist-read-private" {
			t.Errorf("unexpected scope %q", query.Get("scope"))
		}
		if query.Get("state") != "state-1" {
			t.Errorf("unexpected state %q", query.Get("state"))
		}
	})

	t.Run("OmitsEmptyState", func(t *testing.T) {
		client := NewClient(creds, Options{})

		raw, err := client.AuthorizeURL([]string{"user-read-private"}, "")
		if err != nil {
			t.Fatalf("failed to build URL: %v", err)
		}

		parsed, _ := url.Parse(raw)
		if _, ok := parsed.Query()["state"]; ok {
			t.Error("state should be omitted when empty")
		}
	})

	t.Run("RejectsUnknownScope", func(t *testing.T) {
		client := NewClient(creds, Options{})

		_, err := client.AuthorizeURL([]string{"user-read-private", "user-mind-control"}, "")
		if !errors.Is(err, shared.ErrInvalidScope) {
			t.Errorf("expected ErrInvalidScope, got %v", err)
		}
	})

	t.Run("RequiresClientID", func(t *testing.T) {
		client := NewClient(Credentials{RedirectURI: "http://localhost/cb"}, Options{})

		_, err := client.AuthorizeURL(nil, "")
		if !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})

	t.Run("DefaultScopesAreValid", func(t *testing.T) {
		client := NewClient(creds, Options{})

		if _, err := client.AuthorizeURL(DefaultScopes, "s"); err != nil {
			t.Errorf("default scopes should validate: %v", err)
		}
	})
}
