package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotr/internal/models"
	"github.com/desertthunder/spotr/internal/repositories"
	"github.com/desertthunder/spotr/internal/shared"
	"github.com/desertthunder/spotr/internal/spotify"
	"github.com/desertthunder/spotr/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	spotify    *spotify.Client
	db         *sql.DB
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Client     *spotify.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		spotify:    opts.Client,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

// SetLogger swaps the runner's logger, e.g. for a file logger while the TUI owns the terminal.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// Close releases the database handle if one was opened.
func (r *Runner) Close() {
	if r.db != nil {
		r.db.Close()
	}
}

// client lazily builds the Spotify client from configured credentials,
// seeding it with the most recently stored token pair.
func (r *Runner) client() (*spotify.Client, error) {
	if r.spotify != nil {
		return r.spotify, nil
	}

	creds := r.config.Credentials.Spotify
	if creds.ClientID == "" || creds.ClientSecret == "" {
		return nil, fmt.Errorf("%w: set credentials.spotify in %s", shared.ErrMissingCredentials, r.configPath)
	}

	client := spotify.NewClient(spotify.Credentials{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		RedirectURI:  creds.RedirectURI,
	}, spotify.Options{Logger: r.logger})

	if db, err := r.database(); err == nil {
		if stored, err := repositories.NewTokenRepository(db).Latest(); err == nil {
			tok := stored.Token()
			client.SetToken(spotify.TokenFromOAuth2(&tok))
		}
	} else {
		r.logger.Debug("token store unavailable", "error", err)
	}

	client.SetTokenRefreshCallback(r.persistToken)

	r.spotify = client
	return client, nil
}

// database lazily opens the configured SQLite database.
func (r *Runner) database() (*sql.DB, error) {
	if r.db != nil {
		return r.db, nil
	}

	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, err
	}
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	r.db = db
	return db, nil
}

// engine builds the export engine, caching export metadata when storage is available.
func (r *Runner) engine() (*tasks.Engine, error) {
	client, err := r.client()
	if err != nil {
		return nil, err
	}

	opts := tasks.EngineOpts{Logger: shared.WithLogger(r.logger, "component", "export")}
	if db, err := r.database(); err == nil {
		opts.Cache = repositories.NewPlaylistRepository(db)
	}

	return tasks.NewEngine(client, opts), nil
}

// persistToken stores a refreshed token pair so later runs resume the session.
func (r *Runner) persistToken(tok spotify.Token) {
	db, err := r.database()
	if err != nil {
		r.logger.Warn("cannot persist token", "error", err)
		return
	}

	repo := repositories.NewTokenRepository(db)
	if existing, err := repo.Latest(); err == nil {
		existing.SetToken(*tok.OAuth2())
		if err := repo.Update(existing); err != nil {
			r.logger.Warn("failed to update stored token", "error", err)
		}
		return
	}

	stored := models.NewStoredToken(0, *tok.OAuth2(), "")
	if err := repo.Create(stored); err != nil {
		r.logger.Warn("failed to store token", "error", err)
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, playlistsCommand, catalogCommand, libraryCommand, exportCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
