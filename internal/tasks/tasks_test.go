package tasks

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/desertthunder/spotr/internal/models"
	"github.com/desertthunder/spotr/internal/shared"
)

// fakeExporter serves canned playlists keyed by id.
type fakeExporter struct {
	playlists []models.Playlist
	exports   map[string]*models.PlaylistExport
	listErr   error
	exportErr error
}

func (f *fakeExporter) GetPlaylists(_ context.Context) ([]models.Playlist, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.playlists, nil
}

func (f *fakeExporter) ExportPlaylist(_ context.Context, id string) (*models.PlaylistExport, error) {
	if f.exportErr != nil {
		return nil, f.exportErr
	}
	export, ok := f.exports[id]
	if !ok {
		return nil, fmt.Errorf("unknown playlist %s", id)
	}
	return export, nil
}

type fakeCache struct {
	upserts []models.Playlist
	err     error
}

func (f *fakeCache) Upsert(dto models.Playlist, _ *time.Time) (*models.CachedPlaylist, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.upserts = append(f.upserts, dto)
	return models.NewCachedPlaylist(0, dto), nil
}

func testExport(id, name string, tracks int) *models.PlaylistExport {
	export := &models.PlaylistExport{
		Playlist: models.Playlist{ID: id, Name: name, TrackCount: tracks},
	}
	for i := range tracks {
		export.Tracks = append(export.Tracks, models.Track{
			ID:         fmt.Sprintf("%s_t%d", id, i),
			Name:       fmt.Sprintf("Track %d", i),
			Artist:     "Artist",
			Album:      "Album",
			DurationMS: 180000,
		})
	}
	return export
}

func newTestExporter() *fakeExporter {
	return &fakeExporter{
		playlists: []models.Playlist{
			{ID: "pl_1", Name: "Gym"},
			{ID: "pl_2", Name: "Focus"},
		},
		exports: map[string]*models.PlaylistExport{
			"pl_1": testExport("pl_1", "Gym", 3),
			"pl_2": testExport("pl_2", "Focus", 2),
		},
	}
}

func TestEngineExport(t *testing.T) {
	t.Run("ExportsByID", func(t *testing.T) {
		dir := t.TempDir()
		cache := &fakeCache{}
		engine := NewEngine(newTestExporter(), EngineOpts{Cache: cache})

		result, err := engine.Export(context.Background(), nil, "pl_1", ExportOpts{Format: "json", OutputDir: dir})
		if err != nil {
			t.Fatalf("export failed: %v", err)
		}

		if !result.Success {
			t.Error("expected successful export")
		}
		if len(result.Files) != 1 {
			t.Fatalf("expected 1 file, got %d", len(result.Files))
		}
		if _, err := os.Stat(result.Files[0]); err != nil {
			t.Errorf("export file missing: %v", err)
		}

		if len(cache.upserts) != 1 || cache.upserts[0].ID != "pl_1" {
			t.Errorf("expected playlist pl_1 cached, got %v", cache.upserts)
		}
	})

	t.Run("FallsBackToNameLookup", func(t *testing.T) {
		dir := t.TempDir()
		engine := NewEngine(newTestExporter(), EngineOpts{})

		result, err := engine.Export(context.Background(), nil, "Focus", ExportOpts{Format: "txt", OutputDir: dir})
		if err != nil {
			t.Fatalf("export failed: %v", err)
		}

		if result.PlaylistID != "pl_2" {
			t.Errorf("expected pl_2 resolved from name, got %s", result.PlaylistID)
		}
	})

	t.Run("UnknownPlaylist", func(t *testing.T) {
		engine := NewEngine(newTestExporter(), EngineOpts{})

		_, err := engine.Export(context.Background(), nil, "nope", ExportOpts{Format: "json", OutputDir: t.TempDir()})
		if !errors.Is(err, shared.ErrPlaylistNotFound) {
			t.Errorf("expected ErrPlaylistNotFound, got %v", err)
		}
	})

	t.Run("ReportsProgress", func(t *testing.T) {
		engine := NewEngine(newTestExporter(), EngineOpts{})
		progress := make(chan ProgressUpdate, 16)

		_, err := engine.Export(context.Background(), progress, "pl_1", ExportOpts{Format: "json", OutputDir: t.TempDir()})
		if err != nil {
			t.Fatalf("export failed: %v", err)
		}
		close(progress)

		var phases []Phase
		for update := range progress {
			phases = append(phases, update.Phase)
		}
		if len(phases) < 2 {
			t.Fatalf("expected fetch and export updates, got %v", phases)
		}
		if phases[0] != FetchPlaylist {
			t.Errorf("expected first phase fetch_playlist, got %s", phases[0])
		}
		if phases[len(phases)-1] != ExportPlaylist {
			t.Errorf("expected final phase export_playlist, got %s", phases[len(phases)-1])
		}
	})

	t.Run("CacheFailureDoesNotFailExport", func(t *testing.T) {
		cache := &fakeCache{err: fmt.Errorf("disk full")}
		engine := NewEngine(newTestExporter(), EngineOpts{Cache: cache})

		result, err := engine.Export(context.Background(), nil, "pl_1", ExportOpts{Format: "json", OutputDir: t.TempDir()})
		if err != nil {
			t.Fatalf("export failed: %v", err)
		}
		if !result.Success {
			t.Error("expected successful export despite cache failure")
		}
	})
}

func TestWriteExportFormats(t *testing.T) {
	engine := NewEngine(newTestExporter(), EngineOpts{})
	export := testExport("pl_1", "Gym", 2)

	cases := []struct {
		format string
		files  int
	}{
		{"json", 1},
		{"csv", 2},
		{"txt", 1},
		{"markdown", 1},
	}

	for _, tc := range cases {
		t.Run(tc.format, func(t *testing.T) {
			dir := t.TempDir()
			job := PlaylistExportJob{PlaylistID: "pl_1", Export: export}

			result := engine.writeExport(context.Background(), job, ExportOpts{Format: tc.format, OutputDir: dir})
			if !result.Success {
				t.Fatalf("export failed: %v", result.Error)
			}
			if len(result.Files) != tc.files {
				t.Errorf("expected %d files, got %d", tc.files, len(result.Files))
			}
			for _, file := range result.Files {
				if _, err := os.Stat(file); err != nil {
					t.Errorf("expected file %s: %v", file, err)
				}
				if rel, err := filepath.Rel(dir, file); err != nil || rel == "" {
					t.Errorf("file %s not under output dir %s", file, dir)
				}
			}
		})
	}
}
