package spotify

import (
	"context"
	"fmt"
	"net/http"

	"github.com/desertthunder/spotr/internal/shared"
)

const (
	playlistPageSize  = 50
	playlistAddChunk  = 100
	defaultVisibility = true
)

// Playlist retrieves a playlist by ID.
func (c *Client) Playlist(ctx context.Context, id string) (*Playlist, error) {
	var playlist Playlist
	req := NewAPIRequest(http.MethodGet, "playlists/"+id)
	if err := c.DoJSON(ctx, req, &playlist); err != nil {
		return nil, err
	}
	return &playlist, nil
}

// Playlists returns a pager over the authenticated user's playlists.
// The user id is resolved lazily on the first page fetch.
func (c *Client) Playlists(ctx context.Context) (*Pager, error) {
	userID, err := c.EnsureUserID(ctx)
	if err != nil {
		return nil, err
	}
	req := NewAPIRequest(http.MethodGet, fmt.Sprintf("users/%s/playlists", userID))
	return c.Paginate(req, PageOpts{PageSize: playlistPageSize}), nil
}

// PlaylistTracks returns a pager over a playlist's tracks. Each item
// decodes into a [PlaylistTrack].
func (c *Client) PlaylistTracks(id string) *Pager {
	req := NewAPIRequest(http.MethodGet, fmt.Sprintf("playlists/%s/tracks", id))
	return c.Paginate(req, PageOpts{PageSize: playlistPageSize})
}

// CreatePlaylistOpts holds the optional fields of a new playlist.
type CreatePlaylistOpts struct {
	Description string
	Public      *bool
}

// CreatePlaylist creates a playlist owned by the authenticated user and
// returns the created object.
func (c *Client) CreatePlaylist(ctx context.Context, name string, opts CreatePlaylistOpts) (*Playlist, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: playlist name", shared.ErrMissingArgument)
	}

	userID, err := c.EnsureUserID(ctx)
	if err != nil {
		return nil, err
	}

	public := defaultVisibility
	if opts.Public != nil {
		public = *opts.Public
	}

	req := NewAPIRequest(http.MethodPost, fmt.Sprintf("users/%s/playlists", userID))
	req.JSON = map[string]any{
		"name":        name,
		"description": opts.Description,
		"public":      public,
	}

	var playlist Playlist
	if err := c.DoJSON(ctx, req, &playlist); err != nil {
		return nil, err
	}
	return &playlist, nil
}

// AddPlaylistTracks appends track URIs to a playlist, issuing one call
// per hundred URIs in order.
func (c *Client) AddPlaylistTracks(ctx context.Context, playlistID string, uris []string) error {
	req := NewAPIRequest(http.MethodPost, fmt.Sprintf("playlists/%s/tracks", playlistID))
	opts := BatchOpts{Param: "uris", ChunkSize: playlistAddChunk, JSONBody: true}
	return c.batchMutate(ctx, req, uris, opts, http.StatusCreated)
}

// UnfollowPlaylist removes the authenticated user as a follower of the
// playlist. The Web API models playlist deletion as unfollowing.
func (c *Client) UnfollowPlaylist(ctx context.Context, id string) error {
	req := NewAPIRequest(http.MethodDelete, fmt.Sprintf("playlists/%s/followers", id))
	return c.doExpect(ctx, req, http.StatusOK)
}
