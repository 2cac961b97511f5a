// Package gittest builds throwaway git repositories for tests.
package gittest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Repo is a temporary repository with a worktree.
type Repo struct {
	Dir  string
	Repo *gogit.Repository

	tb testing.TB
	wt *gogit.Worktree
}

// NewRepo initializes an empty repository in a temp directory.
func NewRepo(tb testing.TB) *Repo {
	tb.Helper()

	dir := tb.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	if err != nil {
		tb.Fatalf("PlainInit: %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		tb.Fatalf("Worktree: %v", err)
	}
	return &Repo{Dir: dir, Repo: repo, tb: tb, wt: wt}
}

// Write creates or overwrites rel with content and stages it.
func (r *Repo) Write(rel, content string) {
	r.tb.Helper()

	full := filepath.Join(r.Dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		r.tb.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		r.tb.Fatalf("WriteFile: %v", err)
	}
	if _, err := r.wt.Add(rel); err != nil {
		r.tb.Fatalf("Add: %v", err)
	}
}

// Remove deletes rel from the worktree and the index.
func (r *Repo) Remove(rel string) {
	r.tb.Helper()

	if _, err := r.wt.Remove(rel); err != nil {
		r.tb.Fatalf("Remove: %v", err)
	}
}

// Commit records the staged changes at the given time and returns the commit id.
func (r *Repo) Commit(msg string, when time.Time) string {
	r.tb.Helper()

	sig := &object.Signature{Name: "Test", Email: "test@example.com", When: when}
	hash, err := r.wt.Commit(msg, &gogit.CommitOptions{Author: sig, Committer: sig})
	if err != nil {
		r.tb.Fatalf("Commit: %v", err)
	}
	return hash.String()
}

// Branch creates a branch pointing at HEAD.
func (r *Repo) Branch(name string) {
	r.tb.Helper()

	head, err := r.Repo.Head()
	if err != nil {
		r.tb.Fatalf("Head: %v", err)
	}
	ref := plumbing.NewHashReference(plumbing.NewBranchReferenceName(name), head.Hash())
	if err := r.Repo.Storer.SetReference(ref); err != nil {
		r.tb.Fatalf("SetReference: %v", err)
	}
}

// BlobID returns the id of the blob stored at rel in HEAD's tree.
func (r *Repo) BlobID(rel string) string {
	r.tb.Helper()

	head, err := r.Repo.Head()
	if err != nil {
		r.tb.Fatalf("Head: %v", err)
	}
	c, err := r.Repo.CommitObject(head.Hash())
	if err != nil {
		r.tb.Fatalf("CommitObject: %v", err)
	}
	f, err := c.File(rel)
	if err != nil {
		r.tb.Fatalf("File(%s): %v", rel, err)
	}
	return f.Hash.String()
}

// TreeID returns the id of the tree stored at rel in HEAD's tree.
func (r *Repo) TreeID(rel string) string {
	r.tb.Helper()

	head, err := r.Repo.Head()
	if err != nil {
		r.tb.Fatalf("Head: %v", err)
	}
	c, err := r.Repo.CommitObject(head.Hash())
	if err != nil {
		r.tb.Fatalf("CommitObject: %v", err)
	}
	tree, err := c.Tree()
	if err != nil {
		r.tb.Fatalf("Tree: %v", err)
	}
	entry, err := tree.FindEntry(rel)
	if err != nil {
		r.tb.Fatalf("FindEntry(%s): %v", rel, err)
	}
	return entry.Hash.String()
}
