package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/masmgr/gitplay-go/internal/output"
)

// SizesCmd returns the sizes command.
func SizesCmd() *cli.Command {
	return &cli.Command{
		Name:   "sizes",
		Usage:  "Show how file sizes change across a window of commits",
		Flags:  withFlags(commonFlags(), windowFlags(), []cli.Flag{folderFlag()}),
		Action: sizesAction,
	}
}

func sizesAction(c *cli.Context) error {
	return executeWithContext(c, func(ctx *CommandContext, c *cli.Context) error {
		start, count := ctx.Window(c)
		folders := c.StringSlice("folder")

		res, err := ctx.Cache.SizesForPaths(c.Context, folders, start, count)
		if err != nil {
			return err
		}

		return writeReport(c, &output.SizesReport{
			Header:  ctx.Header(),
			Folders: folders,
			Start:   start,
			Count:   count,
			Result:  res,
		})
	})
}
