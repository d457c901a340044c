package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/spotr/internal/shared"
	"github.com/desertthunder/spotr/internal/spotify"
	"github.com/urfave/cli/v3"
)

// CatalogTracks looks up tracks by ID.
func (r *Runner) CatalogTracks(ctx context.Context, cmd *cli.Command) error {
	client, err := r.client()
	if err != nil {
		return err
	}

	tracks, err := client.Tracks(ctx, cmd.StringSlice("id"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(tracks, cmd.Bool("pretty"))
	}

	for i, track := range tracks {
		artist := ""
		if len(track.Artists) > 0 {
			artist = track.Artists[0].Name
		}
		r.writePlain("%d. %s - %s (%s) [%s]\n", i+1, artist, track.Name, track.Album.Name, shared.FormatDuration(track.DurationMS/1000))
	}
	return nil
}

// CatalogArtists looks up artists by ID.
func (r *Runner) CatalogArtists(ctx context.Context, cmd *cli.Command) error {
	client, err := r.client()
	if err != nil {
		return err
	}

	artists, err := client.Artists(ctx, cmd.StringSlice("id"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(artists, cmd.Bool("pretty"))
	}

	for i, artist := range artists {
		r.writePlain("%d. %s (%d followers)\n", i+1, artist.Name, artist.Followers.Total)
	}
	return nil
}

// CatalogAlbums looks up albums by ID.
func (r *Runner) CatalogAlbums(ctx context.Context, cmd *cli.Command) error {
	client, err := r.client()
	if err != nil {
		return err
	}

	albums, err := client.Albums(ctx, cmd.StringSlice("id"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(albums, cmd.Bool("pretty"))
	}

	for i, album := range albums {
		artist := ""
		if len(album.Artists) > 0 {
			artist = album.Artists[0].Name
		}
		r.writePlain("%d. %s - %s (%s, %d tracks)\n", i+1, artist, album.Name, album.ReleaseDate, album.TotalTracks)
	}
	return nil
}

// CatalogTopTracks shows an artist's top tracks for a market.
func (r *Runner) CatalogTopTracks(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: artist id", shared.ErrMissingArgument)
	}

	client, err := r.client()
	if err != nil {
		return err
	}

	tracks, err := client.ArtistTopTracks(ctx, id, cmd.String("market"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(tracks, cmd.Bool("pretty"))
	}

	for i, track := range tracks {
		r.writePlain("%d. %s (%s)\n", i+1, track.Name, track.Album.Name)
	}
	return nil
}

// CatalogNewReleases browses new album releases.
func (r *Runner) CatalogNewReleases(ctx context.Context, cmd *cli.Command) error {
	client, err := r.client()
	if err != nil {
		return err
	}

	albums, err := drainPager[spotify.Album](ctx, client.NewReleases(), int(cmd.Int("limit")))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(albums, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("New Releases (%d)", len(albums)))
	for i, album := range albums {
		artist := ""
		if len(album.Artists) > 0 {
			artist = album.Artists[0].Name
		}
		r.writePlain("%d. %s - %s (%s)\n", i+1, artist, album.Name, album.ReleaseDate)
	}
	return nil
}

// CatalogFeatured browses featured playlists.
func (r *Runner) CatalogFeatured(ctx context.Context, cmd *cli.Command) error {
	client, err := r.client()
	if err != nil {
		return err
	}

	playlists, err := drainPager[spotify.Playlist](ctx, client.FeaturedPlaylists(), int(cmd.Int("limit")))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlists, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Featured Playlists (%d)", len(playlists)))
	for i, pl := range playlists {
		r.writePlain("%d. %s (%d tracks) [%s]\n", i+1, pl.Name, pl.Tracks.Total, pl.ID)
	}
	return nil
}

// CatalogCategories browses catalog categories.
func (r *Runner) CatalogCategories(ctx context.Context, cmd *cli.Command) error {
	client, err := r.client()
	if err != nil {
		return err
	}

	categories, err := drainPager[spotify.Category](ctx, client.Categories(), int(cmd.Int("limit")))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(categories, cmd.Bool("pretty"))
	}

	for i, category := range categories {
		r.writePlain("%d. %s [%s]\n", i+1, category.Name, category.ID)
	}
	return nil
}
