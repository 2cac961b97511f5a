package output

import (
	"encoding/csv"
)

// CSVWriter writes report rows as CSV with a header line.
type CSVWriter struct{}

// Write outputs the report as CSV.
func (w *CSVWriter) Write(report Report, options OutputOptions) error {
	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	writer := csv.NewWriter(out)
	if err := writer.Write(report.Columns()); err != nil {
		return err
	}
	for _, row := range report.Rows(false) {
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
