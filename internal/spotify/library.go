package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/desertthunder/spotr/internal/shared"
)

const libraryChunk = 50

// SavedTracks returns a pager over the user's library tracks. Each item
// decodes into a [SavedTrack].
func (c *Client) SavedTracks() *Pager {
	req := NewAPIRequest(http.MethodGet, "me/tracks")
	return c.Paginate(req, PageOpts{PageSize: libraryChunk})
}

// SaveTracks adds tracks to the user's library, fifty per call.
func (c *Client) SaveTracks(ctx context.Context, ids []string) error {
	req := NewAPIRequest(http.MethodPut, "me/tracks")
	opts := BatchOpts{Param: "ids", ChunkSize: libraryChunk, JSONBody: true}
	return c.batchMutate(ctx, req, ids, opts, http.StatusOK)
}

// RemoveSavedTracks removes tracks from the user's library, fifty per call.
func (c *Client) RemoveSavedTracks(ctx context.Context, ids []string) error {
	req := NewAPIRequest(http.MethodDelete, "me/tracks")
	opts := BatchOpts{Param: "ids", ChunkSize: libraryChunk, JSONBody: true}
	return c.batchMutate(ctx, req, ids, opts, http.StatusOK)
}

// FollowArtists follows artists for the current user, fifty per call.
func (c *Client) FollowArtists(ctx context.Context, ids []string) error {
	req := NewAPIRequest(http.MethodPut, "me/following")
	req.SetParam("type", "artist")
	opts := BatchOpts{Param: "ids", ChunkSize: libraryChunk}
	return c.batchMutate(ctx, req, ids, opts, http.StatusNoContent)
}

// UnfollowArtists unfollows artists for the current user, fifty per call.
func (c *Client) UnfollowArtists(ctx context.Context, ids []string) error {
	req := NewAPIRequest(http.MethodDelete, "me/following")
	req.SetParam("type", "artist")
	opts := BatchOpts{Param: "ids", ChunkSize: libraryChunk}
	return c.batchMutate(ctx, req, ids, opts, http.StatusNoContent)
}

// IsFollowingArtists reports, per input artist in order, whether the
// current user follows them. The endpoint answers with a bare boolean
// array rather than a paging or wrapper object.
func (c *Client) IsFollowingArtists(ctx context.Context, ids []string) ([]bool, error) {
	req := NewAPIRequest(http.MethodGet, "me/following/contains")
	req.SetParam("type", "artist")

	out := make([]bool, 0, len(ids))
	b := c.Batch(req, ids, BatchOpts{Param: "ids", ChunkSize: libraryChunk})
	for b.Next(ctx) {
		resp := b.Resp()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("chunk %d: %w: %w", b.ChunkIndex(), shared.ErrAPIRequest,
				&StatusError{Status: resp.StatusCode, Body: resp.Body})
		}
		var flags []bool
		if err := json.Unmarshal(resp.Body, &flags); err != nil {
			return nil, fmt.Errorf("failed to decode contains response: %w", err)
		}
		out = append(out, flags...)
	}
	if err := b.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
