package main

import (
	"context"

	"github.com/desertthunder/spotr/internal/shared"
	"github.com/desertthunder/spotr/internal/spotify"
	"github.com/urfave/cli/v3"
)

// LibraryTracks lists the user's saved tracks.
func (r *Runner) LibraryTracks(ctx context.Context, cmd *cli.Command) error {
	client, err := r.client()
	if err != nil {
		return err
	}

	saved, err := drainPager[spotify.SavedTrack](ctx, client.SavedTracks(), int(cmd.Int("limit")))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(saved, cmd.Bool("pretty"))
	}

	for i, st := range saved {
		artist := ""
		if len(st.Track.Artists) > 0 {
			artist = st.Track.Artists[0].Name
		}
		r.writePlain("%d. %s - %s [%s]\n", i+1, artist, st.Track.Name, shared.FormatDuration(st.Track.DurationMS/1000))
	}
	return nil
}

// LibrarySave saves tracks to the user's library.
func (r *Runner) LibrarySave(ctx context.Context, cmd *cli.Command) error {
	client, err := r.client()
	if err != nil {
		return err
	}

	ids := cmd.StringSlice("id")
	if err := client.SaveTracks(ctx, ids); err != nil {
		return err
	}
	return r.writePlain("✓ Saved %d tracks\n", len(ids))
}

// LibraryRemove removes saved tracks from the user's library.
func (r *Runner) LibraryRemove(ctx context.Context, cmd *cli.Command) error {
	client, err := r.client()
	if err != nil {
		return err
	}

	ids := cmd.StringSlice("id")
	if err := client.RemoveSavedTracks(ctx, ids); err != nil {
		return err
	}
	return r.writePlain("✓ Removed %d tracks\n", len(ids))
}

// LibraryFollow follows artists.
func (r *Runner) LibraryFollow(ctx context.Context, cmd *cli.Command) error {
	client, err := r.client()
	if err != nil {
		return err
	}

	ids := cmd.StringSlice("id")
	if err := client.FollowArtists(ctx, ids); err != nil {
		return err
	}
	return r.writePlain("✓ Following %d artists\n", len(ids))
}

// LibraryUnfollow unfollows artists.
func (r *Runner) LibraryUnfollow(ctx context.Context, cmd *cli.Command) error {
	client, err := r.client()
	if err != nil {
		return err
	}

	ids := cmd.StringSlice("id")
	if err := client.UnfollowArtists(ctx, ids); err != nil {
		return err
	}
	return r.writePlain("✓ Unfollowed %d artists\n", len(ids))
}

// LibraryFollowing reports which of the given artists the user follows.
func (r *Runner) LibraryFollowing(ctx context.Context, cmd *cli.Command) error {
	client, err := r.client()
	if err != nil {
		return err
	}

	ids := cmd.StringSlice("id")
	flags, err := client.IsFollowingArtists(ctx, ids)
	if err != nil {
		return err
	}

	for i, id := range ids {
		mark := "✗"
		if i < len(flags) && flags[i] {
			mark = "✓"
		}
		r.writePlain("%s %s\n", mark, id)
	}
	return nil
}
