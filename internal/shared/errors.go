package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing client credentials")
	ErrMissingRedirectURI = fmt.Errorf("missing redirect URI")

	// Authentication errors
	ErrAuthFailed     = fmt.Errorf("authentication failed")
	ErrTokenExchange  = fmt.Errorf("token exchange failed")
	ErrRefreshFailed  = fmt.Errorf("token refresh failed")
	ErrNoRefreshToken = fmt.Errorf("no refresh token available")
	ErrInvalidScope   = fmt.Errorf("invalid scope")
	ErrTimeout        = fmt.Errorf("operation timed out")

	// API and request errors
	ErrAPIRequest       = fmt.Errorf("API request failed")
	ErrMalformedURL     = fmt.Errorf("malformed request URL")
	ErrPlaylistNotFound = fmt.Errorf("playlist not found")
	ErrTokenNotFound    = fmt.Errorf("no stored token")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
