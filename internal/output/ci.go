package output

import (
	"encoding/json"
	"fmt"
	"io"
)

// CIWriter writes reports as NDJSON (one JSON object per line) for CI pipelines.
type CIWriter struct{}

// CISummary is the first line of CI output.
type CISummary struct {
	Type   string `json:"type"`
	Report string `json:"report"`
	Repo   string `json:"repo"`
	Total  int    `json:"total"`
	Errors int    `json:"errors"`
}

// CIEntry is one item line of CI output.
type CIEntry struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Write outputs the report as NDJSON.
func (w *CIWriter) Write(report Report, options OutputOptions) error {
	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	records := report.Records()
	failures := report.Failures()

	summary := CISummary{
		Type:   "summary",
		Report: report.Kind(),
		Repo:   report.header().RepoPath,
		Total:  len(records),
		Errors: len(failures),
	}
	if err := writeNDJSONLine(out, summary); err != nil {
		return err
	}

	for _, rec := range records {
		if err := writeNDJSONLine(out, CIEntry{Type: report.Kind(), Data: rec}); err != nil {
			return err
		}
	}
	for _, f := range failures {
		entry := CIEntry{Type: "error", Data: JSONCommitError{CommitID: f.CommitID, Error: f.Err.Error()}}
		if err := writeNDJSONLine(out, entry); err != nil {
			return err
		}
	}

	return nil
}

func writeNDJSONLine(w io.Writer, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal NDJSON: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}
