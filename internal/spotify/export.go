package spotify

import (
	"context"
	"strings"

	"github.com/desertthunder/spotr/internal/models"
)

// trackDTO flattens an API track into the export shape.
func trackDTO(t Track) models.Track {
	names := make([]string, 0, len(t.Artists))
	for _, a := range t.Artists {
		names = append(names, a.Name)
	}
	return models.Track{
		ID:         t.ID,
		Name:       t.Name,
		Artist:     strings.Join(names, ", "),
		Album:      t.Album.Name,
		DurationMS: t.DurationMS,
		ISRC:       t.ExternalIDs.ISRC,
		URI:        t.URI,
	}
}

func playlistDTO(p Playlist) models.Playlist {
	return models.Playlist{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		OwnerID:     p.Owner.ID,
		TrackCount:  p.Tracks.Total,
		Public:      p.Public,
	}
}

// GetPlaylists retrieves every playlist of the authenticated user as
// export DTOs, draining the pager.
func (c *Client) GetPlaylists(ctx context.Context) ([]models.Playlist, error) {
	pager, err := c.Playlists(ctx)
	if err != nil {
		return nil, err
	}

	var out []models.Playlist
	for pager.Next(ctx) {
		var p Playlist
		if err := pager.Scan(&p); err != nil {
			return nil, err
		}
		out = append(out, playlistDTO(p))
	}
	if err := pager.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ExportPlaylist retrieves a playlist and its complete track listing.
func (c *Client) ExportPlaylist(ctx context.Context, id string) (*models.PlaylistExport, error) {
	playlist, err := c.Playlist(ctx, id)
	if err != nil {
		return nil, err
	}

	export := &models.PlaylistExport{Playlist: playlistDTO(*playlist)}

	pager := c.PlaylistTracks(id)
	for pager.Next(ctx) {
		var pt PlaylistTrack
		if err := pager.Scan(&pt); err != nil {
			return nil, err
		}
		if pt.Track.ID == "" {
			// local files and removed tracks come back with a null track
			continue
		}
		export.Tracks = append(export.Tracks, trackDTO(pt.Track))
	}
	if err := pager.Err(); err != nil {
		return nil, err
	}
	return export, nil
}

// ExportSavedTracks retrieves the user's library as export DTOs.
func (c *Client) ExportSavedTracks(ctx context.Context) ([]models.Track, error) {
	var out []models.Track
	pager := c.SavedTracks()
	for pager.Next(ctx) {
		var st SavedTrack
		if err := pager.Scan(&st); err != nil {
			return nil, err
		}
		out = append(out, trackDTO(st.Track))
	}
	if err := pager.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
