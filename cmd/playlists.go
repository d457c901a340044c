package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/spotr/internal/shared"
	"github.com/desertthunder/spotr/internal/spotify"
	"github.com/urfave/cli/v3"
)

// drainPager collects up to limit items from a pager (0 means all).
func drainPager[T any](ctx context.Context, p *spotify.Pager, limit int) ([]T, error) {
	var items []T
	for p.Next(ctx) {
		var item T
		if err := p.Scan(&item); err != nil {
			return nil, err
		}
		items = append(items, item)
		if limit > 0 && len(items) >= limit {
			break
		}
	}
	if err := p.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// PlaylistsList prints the authenticated user's playlists.
func (r *Runner) PlaylistsList(ctx context.Context, cmd *cli.Command) error {
	client, err := r.client()
	if err != nil {
		return err
	}

	pager, err := client.Playlists(ctx)
	if err != nil {
		return err
	}

	playlists, err := drainPager[spotify.Playlist](ctx, pager, int(cmd.Int("limit")))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlists, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Playlists (%d)", len(playlists)))
	for i, pl := range playlists {
		r.writePlain("%d. %s (%d tracks) [%s]\n", i+1, pl.Name, pl.Tracks.Total, pl.ID)
	}
	return nil
}

// PlaylistsShow prints a playlist's metadata and track listing.
func (r *Runner) PlaylistsShow(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: playlist id", shared.ErrMissingArgument)
	}

	client, err := r.client()
	if err != nil {
		return err
	}

	playlist, err := client.Playlist(ctx, id)
	if err != nil {
		return err
	}

	tracks, err := drainPager[spotify.PlaylistTrack](ctx, client.PlaylistTracks(id), 0)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{"playlist": playlist, "tracks": tracks}, cmd.Bool("pretty"))
	}

	r.writePlainHeader(playlist.Name)
	if playlist.Description != "" {
		r.writePlain("%s\n", playlist.Description)
	}
	r.writePlain("Owner: %s\n", playlist.Owner.ID)
	r.writePlain("Visibility: %s\n", shared.VisibilityString(playlist.Public))
	r.writePlainln("Tracks (%d):", len(tracks))
	for i, pt := range tracks {
		if pt.Track.ID == "" {
			continue
		}
		artist := ""
		if len(pt.Track.Artists) > 0 {
			artist = pt.Track.Artists[0].Name
		}
		r.writePlain("%d. %s - %s [%s]\n", i+1, artist, pt.Track.Name, shared.FormatDuration(pt.Track.DurationMS/1000))
	}
	return nil
}

// PlaylistsCreate creates a new playlist for the authenticated user.
func (r *Runner) PlaylistsCreate(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")

	client, err := r.client()
	if err != nil {
		return err
	}

	public := !cmd.Bool("private")
	playlist, err := client.CreatePlaylist(ctx, name, spotify.CreatePlaylistOpts{
		Description: cmd.String("description"),
		Public:      &public,
	})
	if err != nil {
		return err
	}

	r.writePlain("✓ Created playlist '%s' [%s]\n", playlist.Name, playlist.ID)
	return nil
}

// PlaylistsAdd adds tracks to an existing playlist.
func (r *Runner) PlaylistsAdd(ctx context.Context, cmd *cli.Command) error {
	client, err := r.client()
	if err != nil {
		return err
	}

	uris := cmd.StringSlice("uri")
	if err := client.AddPlaylistTracks(ctx, cmd.String("id"), uris); err != nil {
		return err
	}

	r.writePlain("✓ Added %d tracks\n", len(uris))
	return nil
}

// PlaylistsUnfollow removes a playlist from the user's library.
func (r *Runner) PlaylistsUnfollow(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: playlist id", shared.ErrMissingArgument)
	}

	client, err := r.client()
	if err != nil {
		return err
	}

	if err := client.UnfollowPlaylist(ctx, id); err != nil {
		return err
	}

	r.writePlain("✓ Unfollowed playlist [%s]\n", id)
	return nil
}
