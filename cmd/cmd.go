// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print JSON output",
		},
	}
}

func idArgument() []cli.Argument {
	return []cli.Argument{
		&cli.StringArg{
			Name: "id",
		},
	}
}

// searchCommand searches the video catalog
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search videos (defaults to the configured query)",
		ArgsUsage: "[query...]",
		Flags:     outputFlags(),
		Action:    r.Search,
	}
}

// trendingCommand lists the trending feed
func trendingCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "trending",
		Usage:  "List trending videos",
		Flags:  outputFlags(),
		Action: r.Trending,
	}
}

// savedCommand manages the saved list
func savedCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "saved",
		Usage: "Manage the saved list",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List saved items",
				Flags:  outputFlags(),
				Action: r.SavedList,
			},
			{
				Name:      "add",
				Usage:     "Save an item",
				Arguments: idArgument(),
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "title",
						Aliases:  []string{"t"},
						Usage:    "Item title",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "author",
						Aliases: []string{"a"},
						Usage:   "Author or channel",
					},
					&cli.StringFlag{
						Name:  "year",
						Usage: "Publication year",
					},
					&cli.StringFlag{
						Name:  "source",
						Usage: "Source tag, e.g. youtube",
					},
					&cli.StringFlag{
						Name:  "url",
						Usage: "Link to the item",
					},
				},
				Action: r.SavedAdd,
			},
			{
				Name:      "remove",
				Aliases:   []string{"rm"},
				Usage:     "Remove an item from the saved list",
				Arguments: idArgument(),
				Action:    r.SavedRemove,
			},
		},
	}
}

// progressCommand reads and writes progress records
func progressCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "progress",
		Usage: "Track learning progress",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List tracked progress records",
				Flags:  outputFlags(),
				Action: r.ProgressList,
			},
			{
				Name:      "advance",
				Usage:     "Move an item forward by one step",
				Arguments: idArgument(),
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "step",
						Usage: "Percent to add (defaults to catalog.step_percent)",
					},
				},
				Action: r.ProgressAdvance,
			},
			{
				Name:      "complete",
				Usage:     "Mark an item done",
				Arguments: idArgument(),
				Action:    r.ProgressComplete,
			},
			{
				Name:      "reset",
				Usage:     "Send an item back to zero percent",
				Arguments: idArgument(),
				Action:    r.ProgressReset,
			},
			{
				Name:      "set",
				Usage:     "Set percent and/or status",
				Arguments: idArgument(),
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "percent",
						Aliases: []string{"p"},
						Usage:   "Percent watched, clamped to 0-100",
					},
					&cli.StringFlag{
						Name:    "status",
						Aliases: []string{"s"},
						Usage:   "not_started, in_progress or done",
					},
				},
				Action: r.ProgressSet,
			},
		},
	}
}

// libraryCommand prints the saved list grouped by source
func libraryCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "library",
		Usage: "Show saved items with their progress, grouped by source",
		Flags: append(outputFlags(),
			&cli.StringFlag{
				Name:    "filter",
				Aliases: []string{"f"},
				Usage:   "Fuzzy filter on title and author",
			},
		),
		Action: r.Library,
	}
}

// exportCommand writes the library to a file
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export the library (json, yaml, csv, markdown, txt)",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Export format",
				Value:   "json",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file path (default: library.<ext>)",
			},
		},
		Action: r.Export,
	}
}

// bulkCommand applies one update to many items
func bulkCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "bulk",
		Usage: "Apply one progress update to many items",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:     "ids",
				Usage:    "Item ids (repeat or comma separate)",
				Required: true,
			},
			&cli.IntFlag{
				Name:    "percent",
				Aliases: []string{"p"},
				Usage:   "Percent watched, clamped to 0-100",
			},
			&cli.StringFlag{
				Name:    "status",
				Aliases: []string{"s"},
				Usage:   "not_started, in_progress or done",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Concurrent writers (defaults to tasks.workers)",
			},
			&cli.FloatFlag{
				Name:  "rate",
				Usage: "Writes per second (defaults to tasks.rate_limit)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Bulk,
	}
}

// tuiCommand launches the interactive UI
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"ui"},
		Usage:   "Launch the interactive terminal UI",
		Action:  r.TUI,
	}
}

// setupCommand writes config, database and session files
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize config, database and session",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Write a default config.toml",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Overwrite an existing file",
					},
				},
				Action: r.SetupConfig,
			},
			{
				Name:  "database",
				Usage: "Initialize the cache database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
					&cli.BoolFlag{
						Name:  "rollback",
						Usage: "Roll back the latest migration instead",
					},
				},
				Action: r.SetupDatabase,
			},
			{
				Name:  "session",
				Usage: "Store a session id, taken from a browser cURL or given directly",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "curl",
						Usage: "cURL command copied from the browser",
					},
					&cli.StringFlag{
						Name:  "curl-file",
						Usage: "File containing a cURL command",
					},
					&cli.StringFlag{
						Name:  "value",
						Usage: "Session id",
					},
				},
				Action: r.SetupSession,
			},
		},
	}
}

// cacheCommand inspects the local search cache
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect the local search cache",
		Commands: []*cli.Command{
			{
				Name:   "stats",
				Usage:  "Show cache totals",
				Flags:  outputFlags(),
				Action: r.CacheStats,
			},
			{
				Name:   "list",
				Usage:  "List cached searches",
				Flags:  outputFlags(),
				Action: r.CacheList,
			},
			{
				Name:  "prune",
				Usage: "Drop entries older than a duration",
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:  "older-than",
						Usage: "Age cutoff (defaults to the cache TTL)",
					},
				},
				Action: r.CachePrune,
			},
			{
				Name:   "clear",
				Usage:  "Drop every cached search",
				Action: r.CacheClear,
			},
		},
	}
}

// apiCommand handles direct API calls
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct calls to the learning platform API",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET, prints the JSON response",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output compact JSON",
					},
				},
				Action: r.APIGet,
			},
			{
				Name:  "post",
				Usage: "Direct POST with JSON body",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "JSON body to send",
						Required: true,
					},
				},
				Action: r.APIPost,
			},
			{
				Name:   "health",
				Usage:  "Check that the API is up",
				Action: r.APIHealth,
			},
			{
				Name:   "whoami",
				Usage:  "Show the user id bound to the current session",
				Action: r.APIWhoAmI,
			},
		},
	}
}
