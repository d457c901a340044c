// package tasks implements playlist export operations.
//
// The core abstraction is ExportEngine, which orchestrates single and bulk playlist exports.
// Operations emit progress updates via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotr/internal/models"
	"github.com/desertthunder/spotr/internal/shared"
)

// Exporter fetches playlists and their track listings.
// Satisfied by the Spotify client.
type Exporter interface {
	GetPlaylists(ctx context.Context) ([]models.Playlist, error)
	ExportPlaylist(ctx context.Context, id string) (*models.PlaylistExport, error)
}

// PlaylistCacher records exported playlist metadata in local storage.
// Satisfied by repositories.PlaylistRepository.
type PlaylistCacher interface {
	Upsert(dto models.Playlist, exportedAt *time.Time) (*models.CachedPlaylist, error)
}

// PlaylistExportJob is a unit of work for the bulk export worker pool.
type PlaylistExportJob struct {
	PlaylistID string
	Export     *models.PlaylistExport
}

// PlaylistExportResult records the outcome of exporting one playlist.
type PlaylistExportResult struct {
	PlaylistID   string   `json:"playlist_id"`
	PlaylistName string   `json:"playlist_name"`
	Success      bool     `json:"success"`
	Files        []string `json:"files,omitempty"`
	Error        error    `json:"-"`
	ErrorMessage string   `json:"error,omitempty"`
}

// BulkExportResult summarizes a bulk export run.
type BulkExportResult struct {
	TotalPlaylists    int                    `json:"total_playlists"`
	SuccessfulExports int                    `json:"successful_exports"`
	FailedExports     int                    `json:"failed_exports"`
	OutputDirectory   string                 `json:"output_directory"`
	ManifestPath      string                 `json:"manifest_path,omitempty"`
	Results           []PlaylistExportResult `json:"results"`
}

// ExportEngine defines playlist export operations.
type ExportEngine interface {
	// Export fetches one playlist by id or name and writes it to disk.
	Export(ctx context.Context, progress chan<- ProgressUpdate, idOrName string, opts ExportOpts) (*PlaylistExportResult, error)

	// BulkExport exports multiple playlists concurrently. An empty id list
	// means every playlist of the authenticated user.
	BulkExport(ctx context.Context, progress chan<- ProgressUpdate, ids []string, opts BulkExportOpts) (*BulkExportResult, error)
}

// Engine implements ExportEngine against the Spotify client.
type Engine struct {
	exporter Exporter
	cache    PlaylistCacher
	logger   *log.Logger
}

// EngineOpts configures optional Engine behavior.
type EngineOpts struct {
	Cache  PlaylistCacher
	Logger *log.Logger
}

// NewEngine creates an Engine backed by the given exporter.
func NewEngine(exporter Exporter, opts EngineOpts) *Engine {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return &Engine{exporter: exporter, cache: opts.Cache, logger: opts.Logger}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *Engine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// cachePlaylist records exported metadata. Failures are logged and swallowed.
func (e *Engine) cachePlaylist(dto models.Playlist) {
	if e.cache == nil {
		return
	}
	now := time.Now()
	if _, err := e.cache.Upsert(dto, &now); err != nil {
		e.logger.Warn("failed to cache playlist", "playlist", dto.ID, "err", err)
	}
}

// resolvePlaylist exports idOrName as an id first, then falls back to
// matching it against the user's playlist names.
func (e *Engine) resolvePlaylist(ctx context.Context, idOrName string) (*models.PlaylistExport, error) {
	export, err := e.exporter.ExportPlaylist(ctx, idOrName)
	if err == nil {
		return export, nil
	}

	playlists, listErr := e.exporter.GetPlaylists(ctx)
	if listErr != nil {
		return nil, fmt.Errorf("%w: failed to get playlists: %v", shared.ErrAPIRequest, listErr)
	}

	var matchedID string
	for _, pl := range playlists {
		if pl.Name == idOrName {
			matchedID = pl.ID
			break
		}
	}
	if matchedID == "" {
		return nil, fmt.Errorf("%w: no playlist found with name '%s'", shared.ErrPlaylistNotFound, idOrName)
	}

	export, err = e.exporter.ExportPlaylist(ctx, matchedID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to export playlist: %v", shared.ErrAPIRequest, err)
	}
	return export, nil
}

// Export fetches one playlist by id or name and writes it to disk in the
// requested format.
func (e *Engine) Export(ctx context.Context, progress chan<- ProgressUpdate, idOrName string, opts ExportOpts) (*PlaylistExportResult, error) {
	if e.exporter == nil {
		return nil, fmt.Errorf("%w: exporter not initialized", shared.ErrMissingConfig)
	}

	e.sendProgress(progress, fetchPlaylistUpdate(1, 1, idOrName))

	export, err := e.resolvePlaylist(ctx, idOrName)
	if err != nil {
		return nil, err
	}

	e.sendProgress(progress, foundPlaylistUpdate(1, 1, export))

	result := e.writeExport(ctx, PlaylistExportJob{PlaylistID: export.Playlist.ID, Export: export}, opts)
	if result.Success {
		e.cachePlaylist(export.Playlist)
		e.sendProgress(progress, exportCompletedUpdate(1, 1, result.PlaylistName, len(result.Files)))
	} else {
		e.sendProgress(progress, exportFailedUpdate(1, 1, result.PlaylistName, result.Error))
	}

	if result.Error != nil {
		return &result, result.Error
	}
	return &result, nil
}
