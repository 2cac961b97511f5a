package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/masmgr/gitplay-go/config"
	"github.com/masmgr/gitplay-go/internal/git"
	"github.com/masmgr/gitplay-go/internal/history"
	"github.com/masmgr/gitplay-go/internal/logging"
	"github.com/masmgr/gitplay-go/internal/output"
)

// CommandContext holds common state for command execution.
// It encapsulates the shared setup logic across all query commands.
type CommandContext struct {
	Config   *config.Config
	RepoPath string
	Logger   *slog.Logger
	Cache    *history.Cache
}

// newCache builds a history cache from configuration.
func newCache(cfg *config.Config, logger *slog.Logger) (*history.Cache, error) {
	backend, err := git.ParseBackend(cfg.Backend)
	if err != nil {
		return nil, err
	}
	return history.NewCache(history.Options{
		Opener: git.NewOpener(backend),
		Logger: logger,
		Ranking: history.RankingOptions{
			Limit:            cfg.Ranking.Limit,
			MinModifications: cfg.Ranking.MinModifications,
			Include:          cfg.Filters.Include,
			Exclude:          cfg.Filters.Exclude,
		},
	}), nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	return logging.New(os.Stderr, cfg.Log.Level, logging.ParseFormat(cfg.Log.Format))
}

// NewCommandContext creates a context from CLI flags.
// It loads configuration, opens the repository and walks its commit history
// into the cache.
func NewCommandContext(c *cli.Context, repoPath string) (*CommandContext, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	logger := newLogger(cfg)

	cache, err := newCache(cfg, logger)
	if err != nil {
		return nil, err
	}
	if _, err := cache.Open(repoPath); err != nil {
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}

	started := time.Now()
	res, err := cache.PrepareCache(c.Context)
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	logger.Debug("history loaded", "commits", res.Count, "elapsed", time.Since(started))

	return &CommandContext{
		Config:   cfg,
		RepoPath: repoPath,
		Logger:   logger,
		Cache:    cache,
	}, nil
}

// Window returns the start/count flags, substituting the configured default count.
func (ctx *CommandContext) Window(c *cli.Context) (int, int) {
	count := c.Int("count")
	if count <= 0 {
		count = ctx.Config.Window.DefaultCount
	}
	return c.Int("start"), count
}

// Header returns the common report header.
func (ctx *CommandContext) Header() output.Header {
	return output.Header{RepoPath: ctx.RepoPath, GeneratedAt: time.Now()}
}

// OutputOptions creates OutputOptions from CLI flags.
func OutputOptions(c *cli.Context) (output.OutputOptions, error) {
	format, err := output.ParseFormat(c.String("format"))
	if err != nil {
		return output.OutputOptions{}, err
	}
	return output.OutputOptions{
		Format:     format,
		OutputPath: c.String("output"),
	}, nil
}
