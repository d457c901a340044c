package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/desertthunder/spotr/internal/repositories"
	"github.com/desertthunder/spotr/internal/server"
	"github.com/desertthunder/spotr/internal/shared"
	"github.com/desertthunder/spotr/internal/spotify"
	"github.com/urfave/cli/v3"
)

// AuthLogin runs the OAuth2 authorization code flow against a local
// callback server and persists the resulting token pair.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	client, err := r.client()
	if err != nil {
		return err
	}

	state := shared.GenerateState()
	authURL, err := client.AuthorizeURL(spotify.DefaultScopes, state)
	if err != nil {
		return err
	}

	handler := server.NewOAuthHandler(client, state)
	router := server.NewBasicRouter()
	router.Use(server.Logging(r.logger))
	router.Handler(handler)

	addr := fmt.Sprintf("%s:%d", r.config.Server.Host, r.config.Server.Port)
	srv := &http.Server{Addr: addr, Handler: router}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			r.logger.Error("callback server failed", "error", err)
		}
	}()

	r.logger.Info("waiting for authorization", "addr", addr)

	if cmd.Bool("no-browser") {
		r.writePlain("Open this URL to authorize:\n%s\n", authURL)
	} else if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warn("failed to open browser", "error", err)
		r.writePlain("Open this URL to authorize:\n%s\n", authURL)
	}

	var result server.OAuthResult
	select {
	case result = <-handler.Result():
	case <-ctx.Done():
		srv.Shutdown(context.Background())
		return ctx.Err()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Shutdown(shutdownCtx)

	if err := result.Error(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	// The refresh callback already stored the token pair; attach the
	// account id to the stored row now that the session is live.
	if userID, err := client.EnsureUserID(ctx); err != nil {
		r.logger.Warn("failed to resolve user profile", "error", err)
	} else if db, dbErr := r.database(); dbErr == nil {
		repo := repositories.NewTokenRepository(db)
		if stored, err := repo.Latest(); err == nil && stored.UserID() == "" {
			stored.SetUserID(userID)
			if err := repo.Update(stored); err != nil {
				r.logger.Warn("failed to record user id", "error", err)
			}
		}
	}

	return r.writePlain("✓ Authorization successful\n")
}

// AuthStatus checks the stored session against the API.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	db, err := r.database()
	if err != nil {
		return err
	}

	stored, err := repositories.NewTokenRepository(db).Latest()
	if err != nil {
		if errors.Is(err, shared.ErrTokenNotFound) {
			return r.writePlain("✗ Not authenticated. Run 'spotr auth login' first.\n")
		}
		return err
	}

	r.writePlain("Stored session found (updated %s)\n", stored.UpdatedAt().Format(time.RFC3339))

	client, err := r.client()
	if err != nil {
		return err
	}

	user, err := client.Me(ctx)
	if err != nil {
		return fmt.Errorf("%w: stored token rejected: %v", shared.ErrAuthFailed, err)
	}

	name := user.DisplayName
	if name == "" {
		name = user.ID
	}
	return r.writePlain("✓ Authenticated as %s\n", name)
}

// AuthLogout soft-deletes the stored session.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	db, err := r.database()
	if err != nil {
		return err
	}

	repo := repositories.NewTokenRepository(db)
	stored, err := repo.Latest()
	if err != nil {
		if errors.Is(err, shared.ErrTokenNotFound) {
			return r.writePlain("No stored session to remove.\n")
		}
		return err
	}

	if err := repo.Delete(stored.ID()); err != nil {
		return fmt.Errorf("failed to remove stored session: %w", err)
	}

	return r.writePlain("✓ Logged out\n")
}
