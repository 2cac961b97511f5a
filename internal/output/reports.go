package output

import (
	"sort"
	"strconv"
	"strings"

	"github.com/masmgr/gitplay-go/internal/history"
)

func (h Header) header() Header { return h }

// noFailures is embedded by reports that never carry per-commit failures.
type noFailures struct{}

func (noFailures) Failures() []history.CommitError { return nil }

// CommitsReport lists a window of commit summaries.
type CommitsReport struct {
	Header
	noFailures
	Start   int
	Total   int
	Commits []history.CommitSummary
}

func (r *CommitsReport) Kind() string  { return "commits" }
func (r *CommitsReport) Title() string { return "Commit Reel" }

func (r *CommitsReport) Meta() []MetaField {
	return []MetaField{
		{Label: "Repository", Value: r.RepoPath},
		{Label: "Window", Value: windowLabel(r.Start, len(r.Commits))},
		{Label: "Total commits", Value: strconv.Itoa(r.Total)},
	}
}

func (r *CommitsReport) Columns() []string { return []string{"#", "Commit", "Message"} }

func (r *CommitsReport) Rows(human bool) [][]string {
	rows := make([][]string, len(r.Commits))
	for i, c := range r.Commits {
		msg := c.Message
		if human {
			msg = truncateMessage(firstLine(msg), 60)
		}
		rows[i] = []string{strconv.Itoa(r.Start + i), formatID(c.ID, human), msg}
	}
	return rows
}

func (r *CommitsReport) Records() []any {
	out := make([]any, len(r.Commits))
	for i, c := range r.Commits {
		out[i] = c
	}
	return out
}

// DetailsReport shows one commit and its file structure.
type DetailsReport struct {
	Header
	noFailures
	Folders []string
	Frame   history.CommitFrame
}

func (r *DetailsReport) Kind() string  { return "details" }
func (r *DetailsReport) Title() string { return "Commit Details" }

func (r *DetailsReport) Meta() []MetaField {
	meta := []MetaField{
		{Label: "Repository", Value: r.RepoPath},
		{Label: "Commit", Value: r.Frame.ID},
		{Label: "Message", Value: firstLine(r.Frame.Message)},
	}
	if len(r.Frame.Parents) > 0 {
		meta = append(meta, MetaField{Label: "Parents", Value: strings.Join(r.Frame.Parents, ", ")})
	}
	if len(r.Folders) > 0 {
		meta = append(meta, MetaField{Label: "Folders", Value: strings.Join(r.Folders, ", ")})
	}
	return meta
}

func (r *DetailsReport) Columns() []string { return []string{"Path", "Type", "Size", "Object"} }

func (r *DetailsReport) blobs() []history.FileBlob {
	if r.Frame.FileStructure == nil {
		return nil
	}
	return r.Frame.FileStructure.Blobs
}

func (r *DetailsReport) Rows(human bool) [][]string {
	blobs := r.blobs()
	rows := make([][]string, len(blobs))
	for i, b := range blobs {
		kind, size := "file", ""
		if b.IsDirectory {
			kind = "dir"
		}
		if b.Size != nil {
			size = formatSize(*b.Size, human)
		}
		rows[i] = []string{b.Path, kind, size, formatID(b.ObjectID, human)}
	}
	return rows
}

func (r *DetailsReport) Records() []any {
	blobs := r.blobs()
	out := make([]any, len(blobs))
	for i, b := range blobs {
		out[i] = b
	}
	return out
}

// SizesReport shows the size history of paths over a window.
type SizesReport struct {
	Header
	Folders []string
	Start   int
	Count   int
	Result  history.SizeHistoryResult
}

// SizeRecord is one change-point of one path.
type SizeRecord struct {
	Path     string `json:"path"`
	CommitID string `json:"commit_id"`
	Size     int64  `json:"size"`
}

func (r *SizesReport) Kind() string  { return "sizes" }
func (r *SizesReport) Title() string { return "Size History" }

func (r *SizesReport) Meta() []MetaField {
	folders := "(all)"
	if len(r.Folders) > 0 {
		folders = strings.Join(r.Folders, ", ")
	}
	return []MetaField{
		{Label: "Repository", Value: r.RepoPath},
		{Label: "Folders", Value: folders},
		{Label: "Window", Value: windowLabel(r.Start, r.Count)},
		{Label: "Paths", Value: strconv.Itoa(len(r.Result.Paths))},
	}
}

func (r *SizesReport) Columns() []string { return []string{"Path", "Commit", "Size"} }

func (r *SizesReport) records() []SizeRecord {
	paths := make([]string, 0, len(r.Result.Paths))
	for p := range r.Result.Paths {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var out []SizeRecord
	for _, p := range paths {
		for _, cp := range r.Result.Paths[p] {
			out = append(out, SizeRecord{Path: p, CommitID: cp.CommitID, Size: cp.Size})
		}
	}
	return out
}

func (r *SizesReport) Rows(human bool) [][]string {
	recs := r.records()
	rows := make([][]string, len(recs))
	for i, rec := range recs {
		rows[i] = []string{rec.Path, formatID(rec.CommitID, human), formatSize(rec.Size, human)}
	}
	return rows
}

func (r *SizesReport) Records() []any {
	recs := r.records()
	out := make([]any, len(recs))
	for i, rec := range recs {
		out[i] = rec
	}
	return out
}

func (r *SizesReport) Failures() []history.CommitError { return r.Result.Errors }

// HotspotsReport ranks the most frequently resized files of a window.
type HotspotsReport struct {
	Header
	Start  int
	Count  int
	Result history.ModificationResult
}

func (r *HotspotsReport) Kind() string  { return "hotspots" }
func (r *HotspotsReport) Title() string { return "Most Modified Files" }

func (r *HotspotsReport) Meta() []MetaField {
	return []MetaField{
		{Label: "Repository", Value: r.RepoPath},
		{Label: "Window", Value: windowLabel(r.Start, r.Count)},
		{Label: "Ranked files", Value: strconv.Itoa(len(r.Result.Files))},
	}
}

func (r *HotspotsReport) Columns() []string { return []string{"#", "Path", "Modifications"} }

func (r *HotspotsReport) Rows(bool) [][]string {
	rows := make([][]string, len(r.Result.Files))
	for i, f := range r.Result.Files {
		rows[i] = []string{strconv.Itoa(i + 1), f.Path, strconv.Itoa(f.Count)}
	}
	return rows
}

func (r *HotspotsReport) Records() []any {
	out := make([]any, len(r.Result.Files))
	for i, f := range r.Result.Files {
		out[i] = f
	}
	return out
}

func (r *HotspotsReport) Failures() []history.CommitError { return r.Result.Errors }

// BranchesReport lists local branches.
type BranchesReport struct {
	Header
	noFailures
	Branches []string
}

// BranchRecord is one branch in structured output.
type BranchRecord struct {
	Name string `json:"name"`
}

func (r *BranchesReport) Kind() string  { return "branches" }
func (r *BranchesReport) Title() string { return "Branches" }

func (r *BranchesReport) Meta() []MetaField {
	return []MetaField{{Label: "Repository", Value: r.RepoPath}}
}

func (r *BranchesReport) Columns() []string { return []string{"Branch"} }

func (r *BranchesReport) Rows(bool) [][]string {
	rows := make([][]string, len(r.Branches))
	for i, b := range r.Branches {
		rows[i] = []string{b}
	}
	return rows
}

func (r *BranchesReport) Records() []any {
	out := make([]any, len(r.Branches))
	for i, b := range r.Branches {
		out[i] = BranchRecord{Name: b}
	}
	return out
}

func windowLabel(start, count int) string {
	if count <= 0 {
		return "from " + strconv.Itoa(start) + " (empty)"
	}
	return strconv.Itoa(start) + " to " + strconv.Itoa(start+count-1)
}
