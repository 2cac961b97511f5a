package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/masmgr/gitplay-go/internal/output"
)

// DetailsCmd returns the details command.
func DetailsCmd() *cli.Command {
	return &cli.Command{
		Name:      "details",
		Aliases:   []string{"d"},
		Usage:     "Show a commit and the files of its tree",
		ArgsUsage: "[revision]",
		Flags:     withFlags(commonFlags(), []cli.Flag{folderFlag()}),
		Action:    detailsAction,
	}
}

func detailsAction(c *cli.Context) error {
	rev := "HEAD"
	if c.NArg() > 0 {
		rev = c.Args().Get(0)
	}

	return executeWithContext(c, func(ctx *CommandContext, c *cli.Context) error {
		folders := c.StringSlice("folder")
		frame, err := ctx.Cache.CommitDetails(rev, folders)
		if err != nil {
			return err
		}

		return writeReport(c, &output.DetailsReport{
			Header:  ctx.Header(),
			Folders: folders,
			Frame:   frame,
		})
	})
}
