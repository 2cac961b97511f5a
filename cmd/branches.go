package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/masmgr/gitplay-go/internal/output"
)

// BranchesCmd returns the branches command.
func BranchesCmd() *cli.Command {
	return &cli.Command{
		Name:   "branches",
		Usage:  "List local branches",
		Flags:  commonFlags(),
		Action: branchesAction,
	}
}

func branchesAction(c *cli.Context) error {
	return executeWithContext(c, func(ctx *CommandContext, c *cli.Context) error {
		branches, err := ctx.Cache.Branches()
		if err != nil {
			return err
		}
		return writeReport(c, &output.BranchesReport{
			Header:   ctx.Header(),
			Branches: branches,
		})
	})
}
