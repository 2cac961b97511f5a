package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/masmgr/gitplay-go/internal/mcp"
)

// ServeCmd returns the serve command.
func ServeCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the history cache as MCP tools over stdio",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "repo",
				Aliases: []string{"r"},
				Usage:   "Open and prepare this repository before serving",
			},
		},
		Action: serveAction,
	}
}

func serveAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	cache, err := newCache(cfg, logger)
	if err != nil {
		return err
	}

	if repo := c.String("repo"); repo != "" {
		if _, err := cache.Open(repo); err != nil {
			return err
		}
		if _, err := cache.PrepareCache(c.Context); err != nil {
			return err
		}
	}

	return mcp.NewServer(cache, mcp.Options{
		Version:      Version,
		DefaultCount: cfg.Window.DefaultCount,
		Logger:       logger,
	}).Serve()
}
