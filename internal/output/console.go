package output

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
)

// ConsoleWriter writes reports as aligned, colored tables.
type ConsoleWriter struct{}

// Write outputs the report to the console.
func (w *ConsoleWriter) Write(report Report, options OutputOptions) error {
	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	color.New(color.FgGreen).Fprintln(out, report.Title())
	for _, m := range report.Meta() {
		fmt.Fprintf(out, "%s: %s\n", m.Label, m.Value)
	}
	fmt.Fprintln(out)

	rows := report.Rows(true)
	if len(rows) == 0 {
		fmt.Fprintln(out, "Nothing to show.")
	} else {
		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, strings.Join(report.Columns(), "\t"))
		for _, row := range rows {
			fmt.Fprintln(tw, strings.Join(row, "\t"))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if failures := report.Failures(); len(failures) > 0 {
		warn := color.New(color.FgYellow)
		warn.Fprintf(out, "\n%d commit(s) could not be read:\n", len(failures))
		for _, f := range failures {
			fmt.Fprintf(out, "  %s: %v\n", shortID(f.CommitID), f.Err)
		}
	}

	return nil
}
