package output

import (
	"fmt"
	"strings"
)

// MarkdownWriter writes reports as Markdown tables.
type MarkdownWriter struct{}

// Write outputs the report as Markdown.
func (w *MarkdownWriter) Write(report Report, options OutputOptions) error {
	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	fmt.Fprintf(out, "# %s\n\n", report.Title())
	for _, m := range report.Meta() {
		fmt.Fprintf(out, "**%s:** %s\n\n", m.Label, escapeMarkdown(m.Value))
	}

	rows := report.Rows(false)
	if len(rows) == 0 {
		fmt.Fprintln(out, "_Nothing to show._")
	} else {
		cols := report.Columns()
		fmt.Fprintf(out, "| %s |\n", strings.Join(cols, " | "))
		seps := make([]string, len(cols))
		for i, c := range cols {
			seps[i] = strings.Repeat("-", max(3, len(c)))
		}
		fmt.Fprintf(out, "|%s|\n", strings.Join(seps, "|"))

		for _, row := range rows {
			cells := make([]string, len(row))
			for i, cell := range row {
				cells[i] = escapeMarkdown(cell)
			}
			fmt.Fprintf(out, "| %s |\n", strings.Join(cells, " | "))
		}
	}

	if failures := report.Failures(); len(failures) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "## Unreadable Commits")
		fmt.Fprintln(out)
		for _, f := range failures {
			fmt.Fprintf(out, "- `%s`: %s\n", f.CommitID, escapeMarkdown(f.Err.Error()))
		}
	}

	return nil
}
