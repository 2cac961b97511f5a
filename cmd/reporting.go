package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/masmgr/gitplay-go/internal/output"
)

func writeReport(c *cli.Context, report output.Report) error {
	opts, err := OutputOptions(c)
	if err != nil {
		return err
	}
	return output.NewReportWriter(opts.Format).Write(report, opts)
}

// executeWithContext sets up the command context and runs fn.
func executeWithContext(c *cli.Context, fn func(*CommandContext, *cli.Context) error) error {
	if _, err := OutputOptions(c); err != nil {
		return err
	}
	ctx, err := NewCommandContext(c, c.String("repo"))
	if err != nil {
		return err
	}
	return fn(ctx, c)
}
