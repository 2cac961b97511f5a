package git

// Store defines the read-only capabilities the history engine needs from a
// git object store. Implementations resolve revisions and object ids on
// demand; nothing is cached between calls.
type Store interface {
	// Head returns the commit id HEAD points at.
	// It returns ErrEmptyRepository when HEAD is unborn.
	Head() (string, error)

	// Branches returns the short names of all local branches.
	Branches() ([]string, error)

	// Commit resolves rev (a commit id or any revision the backend accepts)
	// and returns its metadata.
	Commit(rev string) (CommitInfo, error)

	// WalkTree visits every entry of the commit's root tree in pre-order and
	// returns the root tree id. Blob entries carry their size when resolvable.
	WalkTree(commitID string, fn TreeVisitor) (string, error)

	// ReadBlob returns the content of the blob with the given id.
	ReadBlob(objectID string) ([]byte, error)
}

// TreeVisitor is invoked for each entry of a tree walk. dir is the entry's
// immediate containing directory ("." for the root tree).
type TreeVisitor func(dir string, entry TreeEntry) error

// Opener opens a Store for a repository path.
type Opener func(path string) (Store, error)

// Compile-time interface conformance checks.
var (
	_ Store = (*GoGitStore)(nil)
	_ Store = (*CLIStore)(nil)
	_ Store = (*MemoryStore)(nil)
)
