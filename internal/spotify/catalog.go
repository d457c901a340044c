package spotify

import (
	"context"
	"net/http"
	"strings"
)

// Per-call identifier limits documented by the Web API.
const (
	trackChunk  = 50
	artistChunk = 50
	albumChunk  = 20

	catalogPageSize = 50
)

// Track retrieves a single track by ID.
func (c *Client) Track(ctx context.Context, id string) (*Track, error) {
	var track Track
	if err := c.DoJSON(ctx, NewAPIRequest(http.MethodGet, "tracks/"+id), &track); err != nil {
		return nil, err
	}
	return &track, nil
}

// Tracks retrieves tracks by ID, fifty per call, in input order.
func (c *Client) Tracks(ctx context.Context, ids []string) ([]Track, error) {
	req := NewAPIRequest(http.MethodGet, "tracks")
	return collect[Track](ctx, c.Batch(req, ids, BatchOpts{
		Param: "ids", ChunkSize: trackChunk, ItemsField: "tracks",
	}))
}

// Artist retrieves a single artist by ID.
func (c *Client) Artist(ctx context.Context, id string) (*Artist, error) {
	var artist Artist
	if err := c.DoJSON(ctx, NewAPIRequest(http.MethodGet, "artists/"+id), &artist); err != nil {
		return nil, err
	}
	return &artist, nil
}

// Artists retrieves artists by ID, fifty per call, in input order.
func (c *Client) Artists(ctx context.Context, ids []string) ([]Artist, error) {
	req := NewAPIRequest(http.MethodGet, "artists")
	return collect[Artist](ctx, c.Batch(req, ids, BatchOpts{
		Param: "ids", ChunkSize: artistChunk, ItemsField: "artists",
	}))
}

// Album retrieves a single album by ID.
func (c *Client) Album(ctx context.Context, id string) (*Album, error) {
	var album Album
	if err := c.DoJSON(ctx, NewAPIRequest(http.MethodGet, "albums/"+id), &album); err != nil {
		return nil, err
	}
	return &album, nil
}

// Albums retrieves albums by ID, twenty per call, in input order.
func (c *Client) Albums(ctx context.Context, ids []string) ([]Album, error) {
	req := NewAPIRequest(http.MethodGet, "albums")
	return collect[Album](ctx, c.Batch(req, ids, BatchOpts{
		Param: "ids", ChunkSize: albumChunk, ItemsField: "albums",
	}))
}

// AlbumTracks returns a pager over an album's tracks.
func (c *Client) AlbumTracks(id string) *Pager {
	req := NewAPIRequest(http.MethodGet, "albums/"+id+"/tracks")
	return c.Paginate(req, PageOpts{PageSize: catalogPageSize})
}

// ArtistAlbums returns a pager over an artist's discography. Groups
// filters by release kind (album, single, appears_on, compilation);
// empty means no filter.
func (c *Client) ArtistAlbums(id string, groups []string) *Pager {
	req := NewAPIRequest(http.MethodGet, "artists/"+id+"/albums")
	if len(groups) > 0 {
		req.SetParam("include_groups", strings.Join(groups, ","))
	}
	return c.Paginate(req, PageOpts{PageSize: catalogPageSize})
}

// ArtistTopTracks retrieves an artist's top tracks for a market.
func (c *Client) ArtistTopTracks(ctx context.Context, id, market string) ([]Track, error) {
	req := NewAPIRequest(http.MethodGet, "artists/"+id+"/top-tracks")
	if market != "" {
		req.SetParam("market", market)
	}
	var response struct {
		Tracks []Track `json:"tracks"`
	}
	if err := c.DoJSON(ctx, req, &response); err != nil {
		return nil, err
	}
	return response.Tracks, nil
}

// RelatedArtists retrieves artists similar to the given one.
func (c *Client) RelatedArtists(ctx context.Context, id string) ([]Artist, error) {
	req := NewAPIRequest(http.MethodGet, "artists/"+id+"/related-artists")
	var response struct {
		Artists []Artist `json:"artists"`
	}
	if err := c.DoJSON(ctx, req, &response); err != nil {
		return nil, err
	}
	return response.Artists, nil
}

// Episode retrieves a single podcast episode by ID.
func (c *Client) Episode(ctx context.Context, id string) (*Episode, error) {
	var episode Episode
	if err := c.DoJSON(ctx, NewAPIRequest(http.MethodGet, "episodes/"+id), &episode); err != nil {
		return nil, err
	}
	return &episode, nil
}

// Episodes retrieves episodes by ID, fifty per call, in input order.
func (c *Client) Episodes(ctx context.Context, ids []string) ([]Episode, error) {
	req := NewAPIRequest(http.MethodGet, "episodes")
	return collect[Episode](ctx, c.Batch(req, ids, BatchOpts{
		Param: "ids", ChunkSize: trackChunk, ItemsField: "episodes",
	}))
}

// NewReleases returns a pager over newly released albums. The paging
// object arrives nested under an "albums" key.
func (c *Client) NewReleases() *Pager {
	req := NewAPIRequest(http.MethodGet, "browse/new-releases")
	return c.Paginate(req, PageOpts{ItemsField: "albums", PageSize: catalogPageSize})
}

// FeaturedPlaylists returns a pager over the browse page's featured
// playlists, nested under a "playlists" key.
func (c *Client) FeaturedPlaylists() *Pager {
	req := NewAPIRequest(http.MethodGet, "browse/featured-playlists")
	return c.Paginate(req, PageOpts{ItemsField: "playlists", PageSize: catalogPageSize})
}

// Categories returns a pager over browse categories, nested under a
// "categories" key.
func (c *Client) Categories() *Pager {
	req := NewAPIRequest(http.MethodGet, "browse/categories")
	return c.Paginate(req, PageOpts{ItemsField: "categories", PageSize: catalogPageSize})
}

// collect drains an item-mode batcher into a typed slice.
func collect[T any](ctx context.Context, b *Batcher) ([]T, error) {
	var out []T
	for b.Next(ctx) {
		var item T
		if err := b.Scan(&item); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	if err := b.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
