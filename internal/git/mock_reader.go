package git

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/masmgr/gitplay-go/internal/apperr"
)

// MemoryStore is an in-memory Store used as a test double.
// It allows tests to build commit graphs without a real Git repository.
type MemoryStore struct {
	HeadID      string
	BranchNames []string
	Commits     map[string]MemoryCommit
	Blobs       map[string][]byte

	// TreeErrors makes WalkTree fail for the given commit ids.
	TreeErrors map[string]error
	// HeadError, when set, is returned by Head.
	HeadError error
}

// MemoryCommit is one commit of a MemoryStore: metadata plus path -> blob id.
type MemoryCommit struct {
	Info  CommitInfo
	Files map[string]string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		BranchNames: []string{"main"},
		Commits:     make(map[string]MemoryCommit),
		Blobs:       make(map[string][]byte),
		TreeErrors:  make(map[string]error),
	}
}

// AddBlob stores content and returns its git blob id.
func (m *MemoryStore) AddBlob(content string) string {
	id := hashObject("blob", []byte(content))
	m.Blobs[id] = []byte(content)
	return id
}

// AddCommit stores a commit whose tree holds files (path -> content) and
// moves HEAD to it. It returns the commit id.
func (m *MemoryStore) AddCommit(message string, when int64, parents []string, files map[string]string) string {
	blobs := make(map[string]string, len(files))
	paths := make([]string, 0, len(files))
	for p, content := range files {
		blobs[p] = m.AddBlob(content)
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var b strings.Builder
	fmt.Fprintf(&b, "%s\x00%d\x00%s\x00", message, when, strings.Join(parents, ","))
	for _, p := range paths {
		fmt.Fprintf(&b, "%s=%s\x00", p, blobs[p])
	}
	id := hashObject("commit", []byte(b.String()))

	m.Commits[id] = MemoryCommit{
		Info: CommitInfo{
			SHA:     id,
			Message: message,
			When:    when,
			Parents: append([]string(nil), parents...),
		},
		Files: blobs,
	}
	m.HeadID = id
	return id
}

// Head returns the configured HEAD.
func (m *MemoryStore) Head() (string, error) {
	if m.HeadError != nil {
		return "", m.HeadError
	}
	if m.HeadID == "" {
		return "", ErrEmptyRepository
	}
	return m.HeadID, nil
}

// Branches returns the configured branch names.
func (m *MemoryStore) Branches() ([]string, error) {
	return append([]string(nil), m.BranchNames...), nil
}

// Commit returns the stored commit metadata.
func (m *MemoryStore) Commit(rev string) (CommitInfo, error) {
	if rev == "HEAD" {
		rev = m.HeadID
	}
	c, ok := m.Commits[rev]
	if !ok {
		if _, isBlob := m.Blobs[rev]; isBlob {
			return CommitInfo{}, apperr.Newf(apperr.NotACommit, "object %s is a blob", rev)
		}
		return CommitInfo{}, apperr.Newf(apperr.RevisionUnresolvable, "unknown revision %q", rev)
	}
	return c.Info, nil
}

// WalkTree visits the commit's files in pre-order, synthesizing directories.
func (m *MemoryStore) WalkTree(commitID string, fn TreeVisitor) (string, error) {
	c, ok := m.Commits[commitID]
	if !ok {
		return "", apperr.Newf(apperr.RevisionUnresolvable, "unknown revision %q", commitID)
	}
	if err := m.TreeErrors[commitID]; err != nil {
		return "", err
	}

	children := make(map[string][]string)
	seen := make(map[string]bool)
	for p := range c.Files {
		child := p
		for dir := DirOf(child); ; dir = DirOf(dir) {
			if !seen[child] {
				seen[child] = true
				children[dir] = append(children[dir], child)
			}
			if dir == "." {
				break
			}
			child = dir
		}
	}
	for _, list := range children {
		sort.Strings(list)
	}

	var visit func(dir string) error
	visit = func(dir string) error {
		for _, p := range children[dir] {
			if blobID, isFile := c.Files[p]; isFile {
				entry := TreeEntry{ID: blobID, Name: BaseOf(p), Kind: ObjectKindBlob}
				if content, ok := m.Blobs[blobID]; ok {
					entry.Size = sizePtr(int64(len(content)))
				}
				if err := fn(dir, entry); err != nil {
					return err
				}
				continue
			}
			entry := TreeEntry{ID: hashObject("tree", []byte(commitID+":"+p)), Name: BaseOf(p), Kind: ObjectKindTree}
			if err := fn(dir, entry); err != nil {
				return err
			}
			if err := visit(p); err != nil {
				return err
			}
		}
		return nil
	}

	if err := visit("."); err != nil {
		return "", err
	}
	return hashObject("tree", []byte(commitID)), nil
}

// ReadBlob returns stored blob content.
func (m *MemoryStore) ReadBlob(objectID string) ([]byte, error) {
	if content, ok := m.Blobs[objectID]; ok {
		return content, nil
	}
	if _, ok := m.Commits[objectID]; ok {
		return nil, apperr.Newf(apperr.NotABlob, "object %s is a commit", objectID)
	}
	return nil, apperr.Newf(apperr.RevisionUnresolvable, "unknown object %q", objectID)
}

// Opener returns an Opener that always yields this store.
func (m *MemoryStore) Opener() Opener {
	return func(string) (Store, error) { return m, nil }
}

// hashObject computes a git-style object id for content of the given type.
func hashObject(kind string, content []byte) string {
	h := sha1.New()
	fmt.Fprintf(h, "%s %d\x00", kind, len(content))
	h.Write(content)
	return hex.EncodeToString(h.Sum(nil))
}
