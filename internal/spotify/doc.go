// package spotify implements a client for the Spotify Web API.
//
// The client owns its OAuth2 token pair and refreshes the access token
// once on an authorization failure before surfacing the error. Collection
// endpoints are exposed through pull-driven sequences: [Pager] follows a
// paging object's next cursor, [Batcher] splits identifier lists into
// server-limit-sized chunks.
//
// The token pair is mutated only by [Client.SetToken], ExchangeCode and the
// refresh path. Callers that share a [Client] across goroutines must
// serialize those operations themselves.
//
// https://developer.spotify.com/documentation/web-api
package spotify
