package formatter

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/spotr/internal/models"
	helpers "github.com/desertthunder/spotr/internal/testing"
)

func sampleExport() *models.PlaylistExport {
	return &models.PlaylistExport{
		Playlist: models.Playlist{
			ID:          "pl_1",
			Name:        "Gym",
			Description: "Workout mix",
			OwnerID:     "user_1",
			TrackCount:  2,
			Public:      true,
		},
		Tracks: []models.Track{
			{ID: "t1", Name: "One", Artist: "A", Album: "First", DurationMS: 185000, ISRC: "ISRC1"},
			{ID: "t2", Name: "Two", Artist: "B", Album: "", DurationMS: 62000},
		},
	}
}

func TestExportToCSV(t *testing.T) {
	data, err := ExportToCSV(sampleExport())
	if err != nil {
		t.Fatalf("failed to export: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "ID,Name,Artist,Album,Duration,ISRC" {
		t.Errorf("unexpected header %q", lines[0])
	}
	if lines[1] != "t1,One,A,First,185,ISRC1" {
		t.Errorf("unexpected row %q", lines[1])
	}
	if !strings.Contains(lines[2], ",62,") {
		t.Errorf("expected duration in seconds, got %q", lines[2])
	}
}

func TestExportToMarkdown(t *testing.T) {
	t.Run("WithCover", func(t *testing.T) {
		data, err := ExportToMarkdown(sampleExport(), "cover.jpg")
		if err != nil {
			t.Fatalf("failed to export: %v", err)
		}

		md := string(data)
		for _, want := range []string{
			"# Gym",
			"![Cover](cover.jpg)",
			"**Description**: Workout mix",
			"**Tracks**: 2",
			"**Visibility**: Public",
			"1. A - One (First) [3:05]",
			"2. B - Two [1:02]",
		} {
			if !strings.Contains(md, want) {
				t.Errorf("markdown missing %q", want)
			}
		}
	})

	t.Run("WithoutCover", func(t *testing.T) {
		data, err := ExportToMarkdown(sampleExport(), "")
		if err != nil {
			t.Fatalf("failed to export: %v", err)
		}
		if strings.Contains(string(data), "![Cover]") {
			t.Error("cover image line should be omitted")
		}
	})
}

func TestExportToText(t *testing.T) {
	data, err := ExportToText(sampleExport())
	if err != nil {
		t.Fatalf("failed to export: %v", err)
	}

	text := string(data)
	if !strings.Contains(text, "Playlist: Gym") {
		t.Errorf("missing playlist name in %q", text)
	}
	if !strings.Contains(text, "1. A - One") || !strings.Contains(text, "2. B - Two") {
		t.Errorf("missing track lines in %q", text)
	}
}

func TestToMetadataJSON(t *testing.T) {
	data, err := ToMetadataJSON(sampleExport().Playlist)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}

	var playlist models.Playlist
	if err := json.Unmarshal(data, &playlist); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if playlist.ID != "pl_1" || playlist.TrackCount != 2 {
		t.Errorf("unexpected metadata %+v", playlist)
	}
}

func TestWriteCSVExport(t *testing.T) {
	dir := t.TempDir()

	result, err := WriteCSVExport(sampleExport(), filepath.Join(dir, "gym"))
	if err != nil {
		t.Fatalf("failed to write: %v", err)
	}

	helpers.AssertFileExists(t, result.TracksFile)
	helpers.AssertFileExists(t, result.MetadataFile)

	if !strings.HasSuffix(result.TracksFile, "_tracks.csv") {
		t.Errorf("unexpected tracks file %q", result.TracksFile)
	}
	if !strings.Contains(helpers.MustReadFile(t, result.MetadataFile), `"Gym"`) {
		t.Error("metadata file missing playlist name")
	}
}

func TestWriteMarkdownExport(t *testing.T) {
	t.Run("WritesReadme", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "gym")

		result, err := WriteMarkdownExport(sampleExport(), dir, "")
		if err != nil {
			t.Fatalf("failed to write: %v", err)
		}

		helpers.AssertDirExists(t, dir)
		helpers.AssertFileExists(t, filepath.Join(dir, "README.md"))
		if result.CoverImage != "" {
			t.Errorf("expected no cover image, got %q", result.CoverImage)
		}
	})

	t.Run("DownloadsCover", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "jpeg-bytes")
		}))
		defer srv.Close()

		dir := filepath.Join(t.TempDir(), "gym")

		result, err := WriteMarkdownExport(sampleExport(), dir, srv.URL+"/cover.jpg")
		if err != nil {
			t.Fatalf("failed to write: %v", err)
		}

		helpers.AssertFileExists(t, result.CoverImage)
		if len(result.Files) != 2 {
			t.Errorf("expected cover and README, got %v", result.Files)
		}
	})

	t.Run("SurvivesDownloadFailure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		dir := filepath.Join(t.TempDir(), "gym")

		result, err := WriteMarkdownExport(sampleExport(), dir, srv.URL+"/missing.jpg")
		if err != nil {
			t.Fatalf("export should not fail on cover download: %v", err)
		}
		if result.CoverImage != "" {
			t.Error("expected empty cover image on failed download")
		}
		helpers.AssertFileExists(t, filepath.Join(dir, "README.md"))
	})
}

func TestWriteTextExport(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteTextExport(sampleExport(), filepath.Join(dir, "gym.txt"))
	if err != nil {
		t.Fatalf("failed to write: %v", err)
	}

	helpers.AssertFileExists(t, path)
	if !strings.Contains(helpers.MustReadFile(t, path), "Playlist: Gym") {
		t.Error("text file missing playlist header")
	}
}

func TestDownloadImage(t *testing.T) {
	t.Run("EmptyURL", func(t *testing.T) {
		if _, err := DownloadImage(""); err == nil {
			t.Error("expected error for empty URL")
		}
	})

	t.Run("NonOKStatus", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer srv.Close()

		if _, err := DownloadImage(srv.URL); err == nil {
			t.Error("expected error for 403 response")
		}
	})
}
