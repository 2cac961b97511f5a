package git

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

// ErrEmptyRepository is returned by Store.Head when the repository has no commits.
var ErrEmptyRepository = errors.New("repository has no commits")

// CommitInfo represents the metadata of a single commit.
type CommitInfo struct {
	SHA     string
	Message string
	When    int64 // committer time, seconds since epoch
	Parents []string
}

// ObjectKind is the type of an entry in a tree.
type ObjectKind int

const (
	ObjectKindBlob ObjectKind = iota
	ObjectKindTree
)

// String returns a string representation of the object kind.
func (k ObjectKind) String() string {
	switch k {
	case ObjectKindBlob:
		return "blob"
	case ObjectKindTree:
		return "tree"
	default:
		return "unknown"
	}
}

// TreeEntry is one entry visited during a tree walk.
type TreeEntry struct {
	ID   string
	Name string
	Kind ObjectKind
	// Size is the blob length in bytes. It is nil for trees and for blobs
	// whose size could not be resolved.
	Size *int64
}

// Backend names a Store implementation.
type Backend string

const (
	BackendGoGit Backend = "gogit"
	BackendCLI   Backend = "cli"
)

// ParseBackend parses a backend name. An empty string selects go-git.
func ParseBackend(s string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "gogit", "go-git":
		return BackendGoGit, nil
	case "cli", "git":
		return BackendCLI, nil
	default:
		return "", fmt.Errorf("unknown backend %q (expected gogit or cli)", s)
	}
}

// NewOpener returns an Opener for the given backend.
func NewOpener(backend Backend) Opener {
	switch backend {
	case BackendCLI:
		return func(path string) (Store, error) { return OpenCLIStore(path) }
	default:
		return func(path string) (Store, error) { return OpenGoGitStore(path) }
	}
}

// JoinPath joins a tree-walk directory and an entry name.
func JoinPath(dir, name string) string {
	if dir == "" || dir == "." {
		return name
	}
	return dir + "/" + name
}

// DirOf returns the immediate containing directory of a slash path, "." at the root.
func DirOf(p string) string {
	return path.Dir(p)
}

// BaseOf returns the leaf name of a slash path.
func BaseOf(p string) string {
	return path.Base(p)
}

func sizePtr(n int64) *int64 {
	return &n
}
