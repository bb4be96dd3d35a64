// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

func userFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "user",
		Aliases: []string{"u"},
		Usage:   "User whose library to operate on (defaults to config)",
	}
}

// setupCommand handles setup operations for config and database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create config.toml, initialize database and run migrations",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Setup,
	}
}

// authCommand handles Spotify OAuth2 authentication.
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "auth",
		Usage:  "Authenticate with Spotify using OAuth2",
		Flags:  []cli.Flag{configFlag()},
		Action: r.SpotifyAuth,
	}
}

// syncCommand reconciles the stored library against the music service.
func syncCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Sync the local tag library with the music service",
		Flags: []cli.Flag{
			userFlag(),
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output sync summary as JSON",
			},
		},
		Action: r.Sync,
	}
}

// libraryCommand browses and exports the stored library.
func libraryCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "library",
		Aliases: []string{"lib"},
		Usage:   "Browse the stored library with its tags",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List stored tracks, optionally filtered by tags",
				Flags: []cli.Flag{
					userFlag(),
					&cli.StringSliceFlag{
						Name:  "tags",
						Usage: "Only show tracks carrying all of these tags",
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
				Action: r.LibraryList,
			},
			{
				Name:  "export",
				Usage: "Export stored tracks to CSV",
				Flags: []cli.Flag{
					userFlag(),
					&cli.StringSliceFlag{
						Name:  "tags",
						Usage: "Only export tracks carrying all of these tags",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path",
						Value:   "library_tracks.csv",
					},
				},
				Action: r.LibraryExport,
			},
		},
	}
}

// tagsCommand mutates track tags in the store.
func tagsCommand(r *Runner) *cli.Command {
	trackFlags := func() []cli.Flag {
		return []cli.Flag{
			userFlag(),
			&cli.StringSliceFlag{
				Name:     "tracks",
				Aliases:  []string{"t"},
				Usage:    "Track IDs to modify",
				Required: true,
			},
			&cli.StringSliceFlag{
				Name:     "tags",
				Usage:    "Tags to apply",
				Required: true,
			},
		}
	}

	return &cli.Command{
		Name:  "tags",
		Usage: "Add or remove tags on stored tracks",
		Commands: []*cli.Command{
			{
				Name:   "add",
				Usage:  "Add tags to tracks",
				Flags:  trackFlags(),
				Action: r.TagsAdd,
			},
			{
				Name:    "remove",
				Aliases: []string{"rm"},
				Usage:   "Remove tags from tracks",
				Flags:   trackFlags(),
				Action:  r.TagsRemove,
			},
			{
				Name:  "show",
				Usage: "Show stored tags for tracks",
				Flags: []cli.Flag{
					userFlag(),
					&cli.StringSliceFlag{
						Name:    "tracks",
						Aliases: []string{"t"},
						Usage:   "Track IDs to show (defaults to all)",
					},
				},
				Action: r.TagsShow,
			},
		},
	}
}

// playlistsCommand projects tags onto service playlists.
func playlistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlists",
		Aliases: []string{"pl"},
		Usage:   "Playlist operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List playlists with tracks annotated by stored tags",
				Flags: []cli.Flag{
					userFlag(),
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
				Name:  "export",
				Usage: "Export one tagged playlist to CSV, Markdown, or text",
				Flags: []cli.Flag{
					userFlag(),
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Playlist ID to export",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "format",
						Usage: "Export format: csv, markdown, or text",
						Value: "csv",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output path (file or directory depending on format)",
					},
				},
				Action: r.PlaylistsExport,
			},
			{
				Name:  "create",
				Usage: "Create a playlist from stored tracks matching tags",
				Flags: []cli.Flag{
					userFlag(),
					&cli.StringFlag{
						Name:     "name",
						Usage:    "Name for the new playlist",
						Required: true,
					},
					&cli.StringSliceFlag{
						Name:     "tags",
						Usage:    "Tags tracks must carry (all of them)",
						Required: true,
					},
				},
				Action: r.PlaylistsCreate,
			},
			{
				Name:  "update",
				Usage: "Add stored tracks matching tags to an existing playlist",
				Flags: []cli.Flag{
					userFlag(),
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Playlist ID to update",
						Required: true,
					},
					&cli.StringSliceFlag{
						Name:     "tags",
						Usage:    "Tags tracks must carry (all of them)",
						Required: true,
					},
				},
				Action: r.PlaylistsUpdate,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive library browsing.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for browsing and syncing the tagged library",
		Action:  r.TUI,
	}
}
