package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/spotr/internal/shared"
	"github.com/desertthunder/spotr/internal/tasks"
	"github.com/urfave/cli/v3"
)

// exportOpts builds engine options from common export flags.
func (r *Runner) exportOpts(cmd *cli.Command) tasks.ExportOpts {
	opts := tasks.ExportOpts{
		Format:    cmd.String("format"),
		OutputDir: cmd.String("output"),
	}
	if opts.Format == "markdown" {
		opts.GetCoverImage = r.coverImage
	}
	return opts
}

// coverImage resolves a playlist's cover image URL for markdown exports.
func (r *Runner) coverImage(ctx context.Context, id string) (string, error) {
	client, err := r.client()
	if err != nil {
		return "", err
	}

	playlist, err := client.Playlist(ctx, id)
	if err != nil {
		return "", err
	}
	if len(playlist.Images) == 0 {
		return "", nil
	}
	return playlist.Images[0].URL, nil
}

// reportProgress drains progress updates to the output writer. The
// returned function closes the channel and waits for the drain to finish.
func (r *Runner) reportProgress(progress chan tasks.ProgressUpdate) func() {
	done := make(chan struct{})
	go func() {
		for update := range progress {
			r.writePlain("%s\n", update.Message)
		}
		close(done)
	}()
	return func() {
		close(progress)
		<-done
	}
}

// ExportRun exports one playlist by ID or name.
func (r *Runner) ExportRun(ctx context.Context, cmd *cli.Command) error {
	idOrName := cmd.StringArg("playlist")
	if idOrName == "" {
		return fmt.Errorf("%w: playlist id or name", shared.ErrMissingArgument)
	}

	engine, err := r.engine()
	if err != nil {
		return err
	}

	progress := make(chan tasks.ProgressUpdate, 50)
	finish := r.reportProgress(progress)

	result, err := engine.Export(ctx, progress, idOrName, r.exportOpts(cmd))
	finish()
	if err != nil {
		return err
	}

	r.writePlain("✓ Exported %s (%d files)\n", result.PlaylistName, len(result.Files))
	for _, f := range result.Files {
		r.writePlain("  %s\n", f)
	}
	return nil
}

// ExportBulk exports several playlists concurrently.
func (r *Runner) ExportBulk(ctx context.Context, cmd *cli.Command) error {
	engine, err := r.engine()
	if err != nil {
		return err
	}

	opts := tasks.BulkExportOpts{
		ExportOpts: r.exportOpts(cmd),
		NumWorkers: int(cmd.Int("workers")),
		RateLimit:  float64(cmd.Int("rate")),
	}

	progress := make(chan tasks.ProgressUpdate, 50)
	finish := r.reportProgress(progress)

	result, err := engine.BulkExport(ctx, progress, cmd.StringSlice("id"), opts)
	finish()
	if err != nil {
		return err
	}

	r.writePlainHeader("Bulk Export Complete")
	r.writePlain("Exported: %d/%d playlists\n", result.SuccessfulExports, result.TotalPlaylists)
	r.writePlain("Output: %s\n", result.OutputDirectory)
	if result.ManifestPath != "" {
		r.writePlain("Manifest: %s\n", result.ManifestPath)
	}

	if result.FailedExports > 0 {
		r.writePlainln("Failures (%d):", result.FailedExports)
		for _, res := range result.Results {
			if !res.Success {
				r.writePlain("  ✗ %s: %s\n", res.PlaylistID, res.ErrorMessage)
			}
		}
	}
	return nil
}
