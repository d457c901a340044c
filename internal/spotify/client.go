package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotr/internal/shared"
)

const (
	DefaultAuthURL  = "https://accounts.spotify.com/authorize"
	DefaultTokenURL = "https://accounts.spotify.com/api/token"
	DefaultBaseURL  = "https://api.spotify.com/v1"
)

// Credentials holds the registered application's client credentials.
// Required for token exchange, not for calls with already-issued tokens.
type Credentials struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

// Client is an authenticated Spotify Web API client.
//
// The client owns its token pair. Token state is mutated only by
// ExchangeCode, Refresh, and SetToken, none of which are safe for
// concurrent use with in-flight requests; a multi-goroutine embedding
// must serialize access.
type Client struct {
	creds      Credentials
	httpClient *http.Client
	logger     *log.Logger

	accessToken  string
	refreshToken string
	userID       string

	onTokenRefresh func(Token)

	// overridable for tests
	authURL  string
	tokenURL string
}

// Options configures optional client behavior.
type Options struct {
	HTTPClient   *http.Client
	Logger       *log.Logger
	AccessToken  string
	RefreshToken string
	AuthURL      string
	TokenURL     string
}

// NewClient creates a Spotify client with the given application credentials.
func NewClient(creds Credentials, opts Options) *Client {
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.AuthURL == "" {
		opts.AuthURL = DefaultAuthURL
	}
	if opts.TokenURL == "" {
		opts.TokenURL = DefaultTokenURL
	}

	return &Client{
		creds:        creds,
		httpClient:   opts.HTTPClient,
		logger:       opts.Logger,
		accessToken:  opts.AccessToken,
		refreshToken: opts.RefreshToken,
		authURL:      opts.AuthURL,
		tokenURL:     opts.TokenURL,
	}
}

// SetTokenRefreshCallback registers a callback invoked whenever the token
// pair changes (exchange or refresh), so callers can persist new tokens.
func (c *Client) SetTokenRefreshCallback(fn func(Token)) {
	c.onTokenRefresh = fn
}

// Do dispatches a prepared request with the current bearer token.
//
// A 401 response triggers exactly one token refresh and one retry; the
// retry's response is returned whatever its status, except that a second
// consecutive 401 is surfaced as a final error rather than retried again.
// Any other status, including error statuses, is returned for the caller
// to interpret. The caller owns the returned body.
func (c *Client) Do(ctx context.Context, req *Request) (*http.Response, error) {
	req.SetHeader("Authorization", "Bearer "+c.accessToken)

	resp, err := c.send(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}
	resp.Body.Close()

	c.logger.Debug("access token rejected, refreshing", "url", req.URL)
	if err := c.Refresh(ctx); err != nil {
		return nil, err
	}

	req.SetHeader("Authorization", "Bearer "+c.accessToken)
	resp, err = c.send(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %w", shared.ErrAuthFailed, &StatusError{Status: http.StatusUnauthorized, Body: body})
	}
	return resp, nil
}

func (c *Client) send(ctx context.Context, req *Request) (*http.Response, error) {
	httpReq, err := req.Prepare(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}

// DoJSON dispatches a request and decodes the JSON response body into v.
// Non-2xx statuses are returned as an API-request error carrying the
// upstream status and body.
func (c *Client) DoJSON(ctx context.Context, req *Request, v any) error {
	resp, err := c.Do(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %w", shared.ErrAPIRequest, &StatusError{Status: resp.StatusCode, Body: body})
	}

	if v == nil {
		return nil
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// doExpect dispatches a request and requires one specific success status.
// Mutation endpoints signal success with an exact code (200, 201, or 204);
// any other status, 2xx included, is a failure.
func (c *Client) doExpect(ctx context.Context, req *Request, want int) error {
	resp, err := c.Do(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: %w", shared.ErrAPIRequest, &StatusError{Status: resp.StatusCode, Body: body})
	}
	return nil
}

// Me retrieves the current authenticated user's profile.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.DoJSON(ctx, NewAPIRequest(http.MethodGet, "me"), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// EnsureUserID resolves and caches the authenticated user's id. The
// lookup runs at most once per active identity; ExchangeCode clears the
// cache since the active user may have changed.
func (c *Client) EnsureUserID(ctx context.Context) (string, error) {
	if c.userID != "" {
		return c.userID, nil
	}
	user, err := c.Me(ctx)
	if err != nil {
		return "", err
	}
	c.userID = user.ID
	return c.userID, nil
}
