package history

// CommitFrame is one frame of the reel: a single commit in the linearized
// history. FileStructure is only populated by detail queries.
type CommitFrame struct {
	ID            string    `json:"commit_id"`
	Message       string    `json:"commit_message"`
	Time          int64     `json:"time"`
	Parents       []string  `json:"parents"`
	FileStructure *FileTree `json:"file_structure,omitempty"`
}

// Summary returns the id/message pair of the frame.
func (f CommitFrame) Summary() CommitSummary {
	return CommitSummary{ID: f.ID, Message: f.Message}
}

// FileTree is the pre-order listing of one commit's root tree.
type FileTree struct {
	ObjectID string     `json:"object_id"`
	Blobs    []FileBlob `json:"blobs"`
}

// FileBlob is one file or directory inside a FileTree.
type FileBlob struct {
	ObjectID    string `json:"object_id"`
	Path        string `json:"path"`
	Dir         string `json:"relative_root_path"`
	Name        string `json:"name"`
	IsDirectory bool   `json:"is_directory"`
	Size        *int64 `json:"size,omitempty"`
}

// CommitSummary is the id and message of a commit.
type CommitSummary struct {
	ID      string `json:"commit_id"`
	Message string `json:"commit_message"`
}

// FileSize is the size of one blob observed in one commit.
type FileSize struct {
	Path string
	Size int64
}

// ChangePoint records the size a path had at the commit where it changed.
type ChangePoint struct {
	CommitID string `json:"commit_id"`
	Size     int64  `json:"size"`
}

// SizeHistory maps a path to its change-points, oldest first.
type SizeHistory map[string][]ChangePoint

// Modification is the number of size changes observed for a path.
type Modification struct {
	Path  string `json:"path"`
	Count int    `json:"count"`
}

// CommitError is a per-commit failure collected during a windowed scan.
type CommitError struct {
	CommitID string `json:"commit_id"`
	Err      error  `json:"-"`
}

// Error implements the error interface.
func (e CommitError) Error() string {
	return e.CommitID + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e CommitError) Unwrap() error {
	return e.Err
}

// SizeHistoryResult is the outcome of a size-history projection.
type SizeHistoryResult struct {
	Paths  SizeHistory
	Errors []CommitError
}

// ModificationResult is the outcome of a modification ranking.
type ModificationResult struct {
	Files  []Modification
	Errors []CommitError
}

// PrepareResult is returned once the cache has been built.
type PrepareResult struct {
	SessionID string
	Count     int
	IDs       []string
}
