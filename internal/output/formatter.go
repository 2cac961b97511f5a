package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/masmgr/gitplay-go/internal/history"
)

// Compile-time interface conformance checks.
var (
	_ ReportWriter = (*ConsoleWriter)(nil)
	_ ReportWriter = (*JSONWriter)(nil)
	_ ReportWriter = (*CSVWriter)(nil)
	_ ReportWriter = (*MarkdownWriter)(nil)
	_ ReportWriter = (*CIWriter)(nil)

	_ Report = (*CommitsReport)(nil)
	_ Report = (*DetailsReport)(nil)
	_ Report = (*SizesReport)(nil)
	_ Report = (*HotspotsReport)(nil)
	_ Report = (*BranchesReport)(nil)
)

// OutputFormat represents the output format type.
type OutputFormat string

const (
	FormatConsole  OutputFormat = "console"
	FormatJSON     OutputFormat = "json"
	FormatCSV      OutputFormat = "csv"
	FormatMarkdown OutputFormat = "markdown"
	FormatCI       OutputFormat = "ci"
)

// ParseFormat parses a format name. An empty string selects the console.
func ParseFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatConsole, nil
	case FormatConsole, FormatJSON, FormatCSV, FormatMarkdown, FormatCI:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	case "ndjson":
		return FormatCI, nil
	default:
		return "", fmt.Errorf("unknown format %q (expected console, json, csv, markdown or ci)", s)
	}
}

// OutputOptions controls output behavior.
type OutputOptions struct {
	Format     OutputFormat
	OutputPath string
}

// MetaField is one labelled value shown above a report's table.
type MetaField struct {
	Label string
	Value string
}

// Header carries the fields common to every report.
type Header struct {
	RepoPath    string
	GeneratedAt time.Time
}

// Report is a query result that every writer can render as a table.
type Report interface {
	// Kind is a short machine name such as "commits".
	Kind() string
	Title() string
	Meta() []MetaField
	Columns() []string
	// Rows returns one cell per column. When human is set, sizes and ids are
	// shortened for reading.
	Rows(human bool) [][]string
	// Records returns one typed value per row for structured formats.
	Records() []any
	Failures() []history.CommitError
	header() Header
}

// ReportWriter writes reports in one format.
type ReportWriter interface {
	Write(report Report, options OutputOptions) error
}

// NewReportWriter creates a report writer for the specified format.
func NewReportWriter(format OutputFormat) ReportWriter {
	switch format {
	case FormatJSON:
		return &JSONWriter{}
	case FormatCSV:
		return &CSVWriter{}
	case FormatMarkdown:
		return &MarkdownWriter{}
	case FormatCI:
		return &CIWriter{}
	default:
		return &ConsoleWriter{}
	}
}
