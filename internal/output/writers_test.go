package output

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/masmgr/gitplay-go/internal/history"
)

const (
	c0 = "1111111111111111111111111111111111111111"
	c2 = "3333333333333333333333333333333333333333"
)

func testHeader() Header {
	return Header{RepoPath: "/test/repo", GeneratedAt: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func sizesReport() *SizesReport {
	return &SizesReport{
		Header:  testHeader(),
		Folders: []string{"."},
		Start:   0,
		Count:   3,
		Result: history.SizeHistoryResult{
			Paths: history.SizeHistory{
				"b.txt": {{CommitID: c0, Size: 4}},
				"a.txt": {{CommitID: c0, Size: 10}, {CommitID: c2, Size: 20}},
			},
			Errors: []history.CommitError{{CommitID: c2, Err: errors.New("corrupt tree")}},
		},
	}
}

func hotspotsReport() *HotspotsReport {
	return &HotspotsReport{
		Header: testHeader(),
		Count:  100,
		Result: history.ModificationResult{Files: []history.Modification{
			{Path: "hot.go", Count: 5},
			{Path: "warm.go", Count: 3},
		}},
	}
}

func TestJSONWriter_Write(t *testing.T) {
	path := t.TempDir() + "/sizes.json"
	if err := (&JSONWriter{}).Write(sizesReport(), OutputOptions{Format: FormatJSON, OutputPath: path}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	data, err := readTestFile(path)
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}

	var got struct {
		Kind   string       `json:"kind"`
		Repo   string       `json:"repo"`
		Total  int          `json:"total"`
		Items  []SizeRecord `json:"items"`
		Errors []JSONCommitError
	}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, data)
	}
	if got.Kind != "sizes" || got.Repo != "/test/repo" || got.Total != 3 {
		t.Errorf("header = %+v", got)
	}
	want := []SizeRecord{
		{Path: "a.txt", CommitID: c0, Size: 10},
		{Path: "a.txt", CommitID: c2, Size: 20},
		{Path: "b.txt", CommitID: c0, Size: 4},
	}
	for i := range want {
		if got.Items[i] != want[i] {
			t.Errorf("item %d = %+v, want %+v", i, got.Items[i], want[i])
		}
	}
	if len(got.Errors) != 1 || got.Errors[0].Error != "corrupt tree" {
		t.Errorf("errors = %+v", got.Errors)
	}
}

func TestJSONWriter_EmptyItemsIsArray(t *testing.T) {
	path := t.TempDir() + "/commits.json"
	report := &CommitsReport{Header: testHeader()}
	if err := (&JSONWriter{}).Write(report, OutputOptions{OutputPath: path}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	data, _ := readTestFile(path)
	if !strings.Contains(string(data), `"items": []`) {
		t.Errorf("expected empty items array, got %s", data)
	}
}

func TestCSVWriter_Write(t *testing.T) {
	path := t.TempDir() + "/hotspots.csv"
	if err := (&CSVWriter{}).Write(hotspotsReport(), OutputOptions{OutputPath: path}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	data, _ := readTestFile(path)
	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatalf("invalid CSV: %v", err)
	}
	want := [][]string{
		{"#", "Path", "Modifications"},
		{"1", "hot.go", "5"},
		{"2", "warm.go", "3"},
	}
	if len(records) != len(want) {
		t.Fatalf("records = %v", records)
	}
	for i := range want {
		if strings.Join(records[i], ",") != strings.Join(want[i], ",") {
			t.Errorf("row %d = %v, want %v", i, records[i], want[i])
		}
	}
}

func TestCSVWriter_FullIDs(t *testing.T) {
	path := t.TempDir() + "/commits.csv"
	report := &CommitsReport{
		Header:  testHeader(),
		Total:   1,
		Commits: []history.CommitSummary{{ID: c0, Message: "first\n\nbody"}},
	}
	if err := (&CSVWriter{}).Write(report, OutputOptions{OutputPath: path}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	data, _ := readTestFile(path)
	if !strings.Contains(string(data), c0) {
		t.Errorf("CSV should carry the full commit id: %s", data)
	}
}

func TestMarkdownWriter_Write(t *testing.T) {
	path := t.TempDir() + "/sizes.md"
	if err := (&MarkdownWriter{}).Write(sizesReport(), OutputOptions{OutputPath: path}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	out := string(mustRead(t, path))
	for _, want := range []string{
		"# Size History",
		"**Repository:** /test/repo",
		"| Path | Commit | Size |",
		"| a.txt | " + c2 + " | 20 |",
		"## Unreadable Commits",
		"corrupt tree",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q:\n%s", want, out)
		}
	}
}

func TestCIWriter_Write(t *testing.T) {
	path := t.TempDir() + "/sizes.ndjson"
	if err := (&CIWriter{}).Write(sizesReport(), OutputOptions{Format: FormatCI, OutputPath: path}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(mustRead(t, path))), "\n")
	if len(lines) != 5 { // 1 summary + 3 change-points + 1 error
		t.Fatalf("expected 5 lines, got %d: %v", len(lines), lines)
	}

	var summary CISummary
	if err := json.Unmarshal([]byte(lines[0]), &summary); err != nil {
		t.Fatalf("Failed to parse summary: %v", err)
	}
	if summary.Type != "summary" || summary.Report != "sizes" || summary.Total != 3 || summary.Errors != 1 {
		t.Errorf("summary = %+v", summary)
	}

	var entry struct {
		Type string     `json:"type"`
		Data SizeRecord `json:"data"`
	}
	if err := json.Unmarshal([]byte(lines[1]), &entry); err != nil {
		t.Fatalf("Failed to parse entry: %v", err)
	}
	if entry.Type != "sizes" || entry.Data.Path != "a.txt" || entry.Data.Size != 10 {
		t.Errorf("entry = %+v", entry)
	}
	if !strings.Contains(lines[4], `"type":"error"`) {
		t.Errorf("last line = %s, want error entry", lines[4])
	}
}

func TestConsoleWriter_Write(t *testing.T) {
	path := t.TempDir() + "/details.txt"
	size := int64(2048)
	report := &DetailsReport{
		Header:  testHeader(),
		Folders: []string{"src"},
		Frame: history.CommitFrame{
			ID:      c2,
			Message: "add parser\n\nlong body",
			Parents: []string{c0},
			FileStructure: &history.FileTree{Blobs: []history.FileBlob{
				{ObjectID: c0, Path: "src/x.rs", Dir: "src", Name: "x.rs", Size: &size},
			}},
		},
	}
	if err := (&ConsoleWriter{}).Write(report, OutputOptions{OutputPath: path}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	out := string(mustRead(t, path))
	for _, want := range []string{"Commit Details", "Message: add parser", "src/x.rs", "2.0 KiB", "11111111"} {
		if !strings.Contains(out, want) {
			t.Errorf("console output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "long body") {
		t.Errorf("console output should only show the subject line:\n%s", out)
	}
}

func TestConsoleWriter_Empty(t *testing.T) {
	path := t.TempDir() + "/branches.txt"
	if err := (&ConsoleWriter{}).Write(&BranchesReport{Header: testHeader()}, OutputOptions{OutputPath: path}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if out := string(mustRead(t, path)); !strings.Contains(out, "Nothing to show.") {
		t.Errorf("expected empty marker:\n%s", out)
	}
}

func TestCommitsReport_Rows(t *testing.T) {
	report := &CommitsReport{
		Start:   5,
		Commits: []history.CommitSummary{{ID: c0, Message: "first line\nsecond"}},
	}
	human := report.Rows(true)[0]
	if human[0] != "5" || human[1] != "11111111" || human[2] != "first line" {
		t.Errorf("human row = %v", human)
	}
	raw := report.Rows(false)[0]
	if raw[1] != c0 || raw[2] != "first line\nsecond" {
		t.Errorf("raw row = %v", raw)
	}
}

func mustRead(t *testing.T, path string) []byte {
	t.Helper()
	data, err := readTestFile(path)
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}
	return data
}
