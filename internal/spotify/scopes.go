package spotify

// ValidScopes enumerates every authorization scope the Spotify accounts
// service recognizes. AuthorizeURL rejects anything outside this list
// before a request is made.
//
// https://developer.spotify.com/documentation/web-api/concepts/scopes
var ValidScopes = []string{
	"ugc-image-upload",
	"user-read-recently-played",
	"user-top-read",
	"user-read-playback-position",
	"user-read-playback-state",
	"user-modify-playback-state",
	"user-read-currently-playing",
	"app-remote-control",
	"streaming",
	"playlist-modify-public",
	"playlist-modify-private",
	"playlist-read-private",
	"playlist-read-collaborative",
	"user-follow-modify",
	"user-follow-read",
	"user-library-modify",
	"user-library-read",
	"user-read-email",
	"user-read-private",
}

var validScopeSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(ValidScopes))
	for _, s := range ValidScopes {
		set[s] = struct{}{}
	}
	return set
}()

// DefaultScopes is the scope set requested by the CLI auth flow.
var DefaultScopes = []string{
	"playlist-read-private",
	"playlist-read-collaborative",
	"playlist-modify-public",
	"playlist-modify-private",
	"user-library-read",
	"user-library-modify",
	"user-follow-read",
	"user-follow-modify",
	"user-read-private",
	"user-read-email",
}
