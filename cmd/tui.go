package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/spotr/internal/shared"
	"github.com/desertthunder/spotr/internal/tasks"
	"github.com/desertthunder/spotr/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI for browsing and exporting playlists.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	client, err := r.client()
	if err != nil {
		return err
	}

	engine, err := r.engine()
	if err != nil {
		return err
	}

	// Redirect logs to a file to avoid interfering with TUI rendering
	if err := os.MkdirAll("tmp", 0755); err == nil {
		if f, err := os.OpenFile("tmp/spotr-tui.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err == nil {
			r.SetLogger(shared.NewLogger(f))
		}
	}

	opts := tasks.ExportOpts{Format: cmd.String("format")}
	model := ui.NewModel(ctx, client, engine, opts)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
