package git

import (
	"testing"
	"time"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/storer"
	"github.com/go-git/go-git/v5/storage/memory"

	"github.com/masmgr/gitplay-go/internal/gittest"
)

// plainStorer hides every method outside storer.EncodedObjectStorer.
type plainStorer struct {
	storer.EncodedObjectStorer
}

func storeBlob(t *testing.T, st storer.EncodedObjectStorer, content string) plumbing.Hash {
	t.Helper()
	obj := st.NewEncodedObject()
	obj.SetType(plumbing.BlobObject)
	w, err := obj.Writer()
	if err != nil {
		t.Fatalf("Writer: %v", err)
	}
	if _, err := w.Write([]byte(content)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	h, err := st.SetEncodedObject(obj)
	if err != nil {
		t.Fatalf("SetEncodedObject: %v", err)
	}
	return h
}

func TestBlobSize_FromObjectHeader(t *testing.T) {
	repo := gittest.NewRepo(t)
	repo.Write("a.txt", "0123456789")
	repo.Commit("init", time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))

	store, err := OpenGoGitStore(repo.Dir)
	if err != nil {
		t.Fatalf("OpenGoGitStore: %v", err)
	}
	if _, ok := store.repo.Storer.(objectSizer); !ok {
		t.Fatalf("filesystem storage %T does not read sizes from headers", store.repo.Storer)
	}

	got := blobSize(store.repo.Storer, plumbing.NewHash(repo.BlobID("a.txt")))
	if got == nil || *got != 10 {
		t.Fatalf("blobSize = %v, want 10", got)
	}
}

func TestBlobSize_Fallback(t *testing.T) {
	st := plainStorer{memory.NewStorage()}
	h := storeBlob(t, st, "hello")

	got := blobSize(st, h)
	if got == nil || *got != 5 {
		t.Fatalf("blobSize = %v, want 5", got)
	}
	if got := blobSize(st, plumbing.NewHash("0123456789012345678901234567890123456789")); got != nil {
		t.Fatalf("blobSize(missing) = %d, want nil", *got)
	}
}
