package output

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// JSONWriter writes reports as a single indented JSON document.
type JSONWriter struct{}

// JSONReport is the JSON output structure shared by all reports.
type JSONReport struct {
	Kind        string            `json:"kind"`
	RepoPath    string            `json:"repo"`
	GeneratedAt string            `json:"generatedAt"`
	Meta        map[string]string `json:"meta,omitempty"`
	Total       int               `json:"total"`
	Items       []any             `json:"items"`
	Errors      []JSONCommitError `json:"errors,omitempty"`
}

// JSONCommitError is a per-commit failure in JSON output.
type JSONCommitError struct {
	CommitID string `json:"commit_id"`
	Error    string `json:"error"`
}

// Write outputs the report as JSON.
func (w *JSONWriter) Write(report Report, options OutputOptions) error {
	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}
	return writeJSON(out, buildJSONReport(report))
}

func buildJSONReport(report Report) JSONReport {
	h := report.header()
	meta := make(map[string]string)
	for _, m := range report.Meta() {
		if m.Label == "Repository" {
			continue
		}
		meta[m.Label] = m.Value
	}

	items := report.Records()
	if items == nil {
		items = []any{}
	}

	return JSONReport{
		Kind:        report.Kind(),
		RepoPath:    h.RepoPath,
		GeneratedAt: h.GeneratedAt.Format(time.RFC3339),
		Meta:        meta,
		Total:       len(items),
		Items:       items,
		Errors:      jsonErrors(report),
	}
}

func jsonErrors(report Report) []JSONCommitError {
	failures := report.Failures()
	if len(failures) == 0 {
		return nil
	}
	out := make([]JSONCommitError, len(failures))
	for i, f := range failures {
		out[i] = JSONCommitError{CommitID: f.CommitID, Error: f.Err.Error()}
	}
	return out
}

func writeJSON(w io.Writer, data interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
