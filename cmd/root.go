package cmd

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/masmgr/gitplay-go/config"
)

// Version is reported by --version and to MCP clients.
var Version = "0.3.0"

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:      "gitplay",
		Usage:     "Scrub through a Git repository's history like a film reel",
		Version:   Version,
		ArgsUsage: "[repository path]",
		Commands: []*cli.Command{
			CommitsCmd(),
			DetailsCmd(),
			SizesCmd(),
			HotspotsCmd(),
			CatCmd(),
			BranchesCmd(),
			ServeCmd(),
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error)",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "Log format (text, json, logfmt)",
			},
			&cli.StringFlag{
				Name:  "backend",
				Usage: "Git backend (gogit, cli)",
			},
		},
		Action: legacyAction,
	}
}

// Common flags shared across commands
func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "repo",
			Aliases: []string{"r"},
			Usage:   "Path to Git repository",
			Value:   ".",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format (console, json, csv, markdown, ci)",
			Value:   "console",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output file path (default: stdout)",
		},
	}
}

// windowFlags select a [start, start+count) slice of the commit sequence.
func windowFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:    "start",
			Aliases: []string{"s"},
			Usage:   "Index of the first commit, oldest is 0",
		},
		&cli.IntFlag{
			Name:    "count",
			Aliases: []string{"n"},
			Usage:   "Number of commits (0 uses the configured default)",
		},
	}
}

func folderFlag() cli.Flag {
	return &cli.StringSliceFlag{
		Name:  "folder",
		Usage: "Only list entries directly inside this folder, \".\" is the root (can be specified multiple times)",
	}
}

func withFlags(groups ...[]cli.Flag) []cli.Flag {
	var out []cli.Flag
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// loadConfig loads configuration from file or defaults and applies global overrides.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if v := c.String("backend"); v != "" {
		cfg.Backend = v
	}
	if v := c.String("log-level"); v != "" {
		cfg.Log.Level = v
	}
	if v := c.String("log-format"); v != "" {
		cfg.Log.Format = v
	}
	if includes := c.StringSlice("include"); len(includes) > 0 {
		cfg.Filters.Include = includes
	}
	if excludes := c.StringSlice("exclude"); len(excludes) > 0 {
		cfg.Filters.Exclude = excludes
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// legacyAction handles the default command behavior.
// When a repository path is provided as an argument, it prints the commit reel summary.
func legacyAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return cli.ShowAppHelp(c)
	}
	return runReel(c, c.Args().Get(0))
}

// Run executes the CLI application.
func Run() {
	if err := App().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
