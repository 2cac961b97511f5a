package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/masmgr/gitplay-go/internal/output"
)

// CommitsCmd returns the commits command.
func CommitsCmd() *cli.Command {
	return &cli.Command{
		Name:    "commits",
		Aliases: []string{"c"},
		Usage:   "List a window of the oldest-first commit sequence",
		Flags:   withFlags(commonFlags(), windowFlags()),
		Action:  commitsAction,
	}
}

func commitsAction(c *cli.Context) error {
	return executeWithContext(c, func(ctx *CommandContext, c *cli.Context) error {
		start, count := ctx.Window(c)
		commits, err := ctx.Cache.Commits(start, count)
		if err != nil {
			return err
		}
		info, err := ctx.Cache.Session()
		if err != nil {
			return err
		}

		return writeReport(c, &output.CommitsReport{
			Header:  ctx.Header(),
			Start:   start,
			Total:   info.Count,
			Commits: commits,
		})
	})
}
