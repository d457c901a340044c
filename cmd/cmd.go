// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand initializes the config file and local database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize configuration and run database migrations",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}

// authCommand handles authentication operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage Spotify authentication",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Authenticate with Spotify using the OAuth2 authorization code flow",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "no-browser",
						Usage: "Print the authorization URL instead of opening a browser",
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:   "status",
				Usage:  "Check the stored session against the API",
				Action: r.AuthStatus,
			},
			{
				Name:   "logout",
				Usage:  "Forget the stored session",
				Action: r.AuthLogout,
			},
		},
	}
}

// playlistsCommand handles playlist operations
func playlistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlists",
		Aliases: []string{"pl"},
		Usage:   "Manage Spotify playlists",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List the authenticated user's playlists",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of playlists to return (0 for all)",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.PlaylistsList,
			},
			{
				Name:  "show",
				Usage: "Show a playlist and its tracks",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.PlaylistsShow,
			},
			{
				Name:  "create",
				Usage: "Create a new playlist",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "description",
						Aliases: []string{"d"},
						Usage:   "Playlist description",
					},
					&cli.BoolFlag{
						Name:  "private",
						Usage: "Make the playlist private",
					},
				},
				Action: r.PlaylistsCreate,
			},
			{
				Name:  "add",
				Usage: "Add tracks to an existing playlist",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Playlist ID to add tracks to",
						Required: true,
					},
					&cli.StringSliceFlag{
						Name:     "uri",
						Usage:    "Track URI to add (repeatable)",
						Required: true,
					},
				},
				Action: r.PlaylistsAdd,
			},
			{
				Name:  "unfollow",
				Usage: "Remove a playlist from the library",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.PlaylistsUnfollow,
			},
		},
	}
}

// catalogCommand handles catalog lookups and browse listings
func catalogCommand(r *Runner) *cli.Command {
	idFlag := func(usage string) *cli.StringSliceFlag {
		return &cli.StringSliceFlag{
			Name:     "id",
			Usage:    usage,
			Required: true,
		}
	}
	outputFlags := []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print output",
			Value: true,
		},
	}

	return &cli.Command{
		Name:  "catalog",
		Usage: "Look up tracks, artists, and albums",
		Commands: []*cli.Command{
			{
				Name:   "tracks",
				Usage:  "Look up tracks by ID",
				Flags:  append([]cli.Flag{idFlag("Track ID (repeatable)")}, outputFlags...),
				Action: r.CatalogTracks,
			},
			{
				Name:   "artists",
				Usage:  "Look up artists by ID",
				Flags:  append([]cli.Flag{idFlag("Artist ID (repeatable)")}, outputFlags...),
				Action: r.CatalogArtists,
			},
			{
				Name:   "albums",
				Usage:  "Look up albums by ID",
				Flags:  append([]cli.Flag{idFlag("Album ID (repeatable)")}, outputFlags...),
				Action: r.CatalogAlbums,
			},
			{
				Name:  "top-tracks",
				Usage: "Show an artist's top tracks",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:  "market",
						Usage: "ISO 3166-1 alpha-2 market code",
						Value: "US",
					},
				}, outputFlags...),
				Action: r.CatalogTopTracks,
			},
			{
				Name:  "new-releases",
				Usage: "Browse new album releases",
				Flags: append([]cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of albums to return (0 for all)",
						Value: 20,
					},
				}, outputFlags...),
				Action: r.CatalogNewReleases,
			},
			{
				Name:  "featured",
				Usage: "Browse featured playlists",
				Flags: append([]cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of playlists to return (0 for all)",
						Value: 20,
					},
				}, outputFlags...),
				Action: r.CatalogFeatured,
			},
			{
				Name:  "categories",
				Usage: "Browse catalog categories",
				Flags: append([]cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of categories to return (0 for all)",
						Value: 20,
					},
				}, outputFlags...),
				Action: r.CatalogCategories,
			},
		},
	}
}

// libraryCommand handles the user's saved tracks and followed artists
func libraryCommand(r *Runner) *cli.Command {
	idFlag := func(usage string) *cli.StringSliceFlag {
		return &cli.StringSliceFlag{
			Name:     "id",
			Usage:    usage,
			Required: true,
		}
	}

	return &cli.Command{
		Name:    "library",
		Aliases: []string{"lib"},
		Usage:   "Manage saved tracks and followed artists",
		Commands: []*cli.Command{
			{
				Name:  "tracks",
				Usage: "List saved tracks",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of tracks to return (0 for all)",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.LibraryTracks,
			},
			{
				Name:   "save",
				Usage:  "Save tracks to the library",
				Flags:  []cli.Flag{idFlag("Track ID (repeatable)")},
				Action: r.LibrarySave,
			},
			{
				Name:   "remove",
				Usage:  "Remove saved tracks from the library",
				Flags:  []cli.Flag{idFlag("Track ID (repeatable)")},
				Action: r.LibraryRemove,
			},
			{
				Name:   "follow",
				Usage:  "Follow artists",
				Flags:  []cli.Flag{idFlag("Artist ID (repeatable)")},
				Action: r.LibraryFollow,
			},
			{
				Name:   "unfollow",
				Usage:  "Unfollow artists",
				Flags:  []cli.Flag{idFlag("Artist ID (repeatable)")},
				Action: r.LibraryUnfollow,
			},
			{
				Name:   "following",
				Usage:  "Check whether the user follows artists",
				Flags:  []cli.Flag{idFlag("Artist ID (repeatable)")},
				Action: r.LibraryFollowing,
			},
		},
	}
}

// exportCommand handles playlist export operations
func exportCommand(r *Runner) *cli.Command {
	formatFlag := &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Export format: json, csv, markdown, txt",
		Value:   "json",
	}
	outputFlag := &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Output directory",
	}

	return &cli.Command{
		Name:  "export",
		Usage: "Export playlists to disk",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Export one playlist by ID or name",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "playlist"},
				},
				Flags:  []cli.Flag{formatFlag, outputFlag},
				Action: r.ExportRun,
			},
			{
				Name:  "bulk",
				Usage: "Export several playlists concurrently (all of them by default)",
				Flags: []cli.Flag{
					formatFlag,
					outputFlag,
					&cli.StringSliceFlag{
						Name:  "id",
						Usage: "Playlist ID to export (repeatable, default: all)",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent export workers",
						Value: 5,
					},
					&cli.IntFlag{
						Name:  "rate",
						Usage: "Playlist fetches per second",
						Value: 5,
					},
				},
				Action: r.ExportBulk,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive playlist browsing.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for browsing and exporting playlists",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Export format: json, csv, markdown, txt",
				Value:   "json",
			},
		},
		Action: r.TUI,
	}
}
