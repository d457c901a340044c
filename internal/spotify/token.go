package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/desertthunder/spotr/internal/shared"
	"golang.org/x/oauth2"
)

// Token is the client's current token pair.
type Token struct {
	AccessToken  string
	RefreshToken string
}

// OAuth2 converts the pair to an [oauth2.Token], the shape persisted by
// the token repository.
func (t Token) OAuth2() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    "Bearer",
	}
}

// TokenFromOAuth2 builds a token pair from a stored [oauth2.Token].
func TokenFromOAuth2(t *oauth2.Token) Token {
	if t == nil {
		return Token{}
	}
	return Token{AccessToken: t.AccessToken, RefreshToken: t.RefreshToken}
}

// Token returns the client's current token pair.
func (c *Client) Token() Token {
	return Token{AccessToken: c.accessToken, RefreshToken: c.refreshToken}
}

// SetToken replaces the client's token pair, e.g. with a stored one.
func (c *Client) SetToken(t Token) {
	c.accessToken = t.AccessToken
	c.refreshToken = t.RefreshToken
}

// tokenResponse is the accounts service's token grant payload.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	Scope        string `json:"scope"`
}

// ExchangeCode trades a one-time authorization code for an access/refresh
// token pair and stores it on the client. Because the exchange can switch
// the active user, the cached user id is cleared.
func (c *Client) ExchangeCode(ctx context.Context, code string) error {
	if c.creds.ClientID == "" || c.creds.ClientSecret == "" {
		return fmt.Errorf("%w: client id and secret are required to exchange a code", shared.ErrMissingCredentials)
	}
	if c.creds.RedirectURI == "" {
		return fmt.Errorf("%w: redirect URI is required to exchange a code", shared.ErrMissingRedirectURI)
	}

	payload, err := c.tokenGrant(ctx, map[string]string{
		"grant_type":   "authorization_code",
		"code":         code,
		"redirect_uri": c.creds.RedirectURI,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", shared.ErrTokenExchange, err)
	}

	c.accessToken = payload.AccessToken
	c.refreshToken = payload.RefreshToken
	c.userID = ""
	c.logger.Debug("authorization code exchanged")

	if c.onTokenRefresh != nil {
		c.onTokenRefresh(c.Token())
	}
	return nil
}

// Refresh trades the refresh token for a new access token. The refresh
// token itself is replaced only when the server supplies a new one;
// omission means "unchanged".
func (c *Client) Refresh(ctx context.Context) error {
	if c.refreshToken == "" {
		return shared.ErrNoRefreshToken
	}

	payload, err := c.tokenGrant(ctx, map[string]string{
		"grant_type":    "refresh_token",
		"refresh_token": c.refreshToken,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", shared.ErrRefreshFailed, err)
	}

	c.accessToken = payload.AccessToken
	if payload.RefreshToken != "" {
		c.refreshToken = payload.RefreshToken
	}
	c.logger.Debug("access token refreshed")

	if c.onTokenRefresh != nil {
		c.onTokenRefresh(c.Token())
	}
	return nil
}

// tokenGrant POSTs a grant to the token endpoint with basic-auth client
// credentials and decodes the token payload.
func (c *Client) tokenGrant(ctx context.Context, form map[string]string) (*tokenResponse, error) {
	req := &Request{
		Method: http.MethodPost,
		URL:    c.tokenURL,
		Form:   form,
		Auth:   &BasicAuth{ID: c.creds.ClientID, Secret: c.creds.ClientSecret},
	}

	resp, err := c.send(ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Status: resp.StatusCode, Body: body}
	}

	var payload tokenResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}
	return &payload, nil
}

// AuthorizeURL crafts the authorization-endpoint URL for the code flow.
// Scopes are validated against [ValidScopes] client-side; no network call
// is made. Pass state to bind the redirect back to this flow.
func (c *Client) AuthorizeURL(scopes []string, state string) (string, error) {
	if c.creds.ClientID == "" {
		return "", fmt.Errorf("%w: client id is required to build an authorize URL", shared.ErrMissingCredentials)
	}
	if c.creds.RedirectURI == "" {
		return "", fmt.Errorf("%w: redirect URI is required to build an authorize URL", shared.ErrMissingRedirectURI)
	}
	for _, s := range scopes {
		if _, ok := validScopeSet[s]; !ok {
			return "", fmt.Errorf("%w: %q", shared.ErrInvalidScope, s)
		}
	}

	params := url.Values{}
	params.Set("client_id", c.creds.ClientID)
	params.Set("response_type", "code")
	params.Set("redirect_uri", c.creds.RedirectURI)
	params.Set("scope", strings.Join(scopes, " "))
	if state != "" {
		params.Set("state", state)
	}

	return c.authURL + "?" + params.Encode(), nil
}
