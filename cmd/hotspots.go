package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/masmgr/gitplay-go/internal/output"
)

// HotspotsCmd returns the hotspots command.
func HotspotsCmd() *cli.Command {
	flags := withFlags(commonFlags(), windowFlags(), []cli.Flag{
		&cli.StringSliceFlag{
			Name:  "include",
			Usage: "Glob patterns to include (can be specified multiple times)",
		},
		&cli.StringSliceFlag{
			Name:  "exclude",
			Usage: "Glob patterns to exclude (can be specified multiple times)",
		},
	})

	return &cli.Command{
		Name:    "hotspots",
		Aliases: []string{"hs"},
		Usage:   "Rank the files whose size changed most often in a window of commits",
		Flags:   flags,
		Action:  hotspotsAction,
	}
}

func hotspotsAction(c *cli.Context) error {
	return executeWithContext(c, func(ctx *CommandContext, c *cli.Context) error {
		start, count := ctx.Window(c)

		res, err := ctx.Cache.FilesByModifications(c.Context, start, count)
		if err != nil {
			return err
		}

		return writeReport(c, &output.HotspotsReport{
			Header: ctx.Header(),
			Start:  start,
			Count:  count,
			Result: res,
		})
	})
}
