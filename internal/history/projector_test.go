package history

import (
	"context"
	"errors"
	"testing"

	"github.com/masmgr/gitplay-go/internal/git"
)

func TestSizesForPaths_ThreeCommitScenario(t *testing.T) {
	store, ids := threeCommitStore()
	c := newPreparedCache(t, store)

	res, err := c.SizesForPaths(context.Background(), []string{"."}, 0, 3)
	if err != nil {
		t.Fatalf("SizesForPaths: %v", err)
	}
	if len(res.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}

	want := []ChangePoint{{CommitID: ids[0], Size: 10}, {CommitID: ids[2], Size: 20}}
	got := res.Paths["a.txt"]
	if len(res.Paths) != 1 || len(got) != len(want) {
		t.Fatalf("history = %v, want a.txt: %v", res.Paths, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("change-point %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestSizesForPaths_BaselineFollowsEveryObservation(t *testing.T) {
	store := git.NewMemoryStore()
	c0 := store.AddCommit("c0", 100, nil, map[string]string{"f": "aa"})
	c1 := store.AddCommit("c1", 200, []string{c0}, map[string]string{"f": "aaaa"})
	c2 := store.AddCommit("c2", 300, []string{c1}, map[string]string{"f": "bb"})
	store.AddCommit("c3", 400, []string{c2}, map[string]string{"f": "cc"})
	c := newPreparedCache(t, store)

	res, err := c.SizesForPaths(context.Background(), nil, 0, 10)
	if err != nil {
		t.Fatalf("SizesForPaths: %v", err)
	}
	got := res.Paths["f"]
	want := []ChangePoint{{CommitID: c0, Size: 2}, {CommitID: c1, Size: 4}, {CommitID: c2, Size: 2}}
	if len(got) != len(want) {
		t.Fatalf("history = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("change-point %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestSizesForPaths_FolderFilterAndWindow(t *testing.T) {
	store := git.NewMemoryStore()
	c0 := store.AddCommit("c0", 100, nil, map[string]string{"src/x.rs": "1", "docs/y.md": "1", "a.txt": "1"})
	c1 := store.AddCommit("c1", 200, []string{c0}, map[string]string{"src/x.rs": "22", "docs/y.md": "22", "a.txt": "1"})
	c2 := store.AddCommit("c2", 300, []string{c1}, map[string]string{"src/x.rs": "333", "docs/y.md": "22", "a.txt": "1"})
	c := newPreparedCache(t, store)

	res, err := c.SizesForPaths(context.Background(), []string{"src"}, 1, 2)
	if err != nil {
		t.Fatalf("SizesForPaths: %v", err)
	}
	if len(res.Paths) != 1 {
		t.Fatalf("paths = %v, want only src/x.rs", res.Paths)
	}
	got := res.Paths["src/x.rs"]
	if len(got) != 2 || got[0] != (ChangePoint{CommitID: c1, Size: 2}) || got[1] != (ChangePoint{CommitID: c2, Size: 3}) {
		t.Fatalf("src/x.rs = %v", got)
	}

	empty, err := c.SizesForPaths(context.Background(), []string{"."}, 3, 10)
	if err != nil {
		t.Fatalf("SizesForPaths past end: %v", err)
	}
	if len(empty.Paths) != 0 {
		t.Fatalf("expected empty history, got %v", empty.Paths)
	}
}

func TestSizesForPaths_UnchangedPathHasOnePoint(t *testing.T) {
	store := git.NewMemoryStore()
	prev := ""
	for i := 0; i < 5; i++ {
		var parents []string
		if prev != "" {
			parents = []string{prev}
		}
		prev = store.AddCommit("c", int64(100*(i+1)), parents, map[string]string{
			"stable.txt": "same",
			"moving.txt": string(make([]byte, i+1)),
		})
	}
	c := newPreparedCache(t, store)

	res, err := c.SizesForPaths(context.Background(), nil, 0, 5)
	if err != nil {
		t.Fatalf("SizesForPaths: %v", err)
	}
	if n := len(res.Paths["stable.txt"]); n != 1 {
		t.Fatalf("stable.txt has %d change-points, want 1", n)
	}
	if n := len(res.Paths["moving.txt"]); n != 5 {
		t.Fatalf("moving.txt has %d change-points, want 5", n)
	}
}

func TestSizesForPaths_CollectsPerCommitFailures(t *testing.T) {
	store, ids := threeCommitStore()
	broken := errors.New("corrupt tree")
	store.TreeErrors[ids[1]] = broken
	c := newPreparedCache(t, store)

	res, err := c.SizesForPaths(context.Background(), []string{"."}, 0, 3)
	if err != nil {
		t.Fatalf("SizesForPaths: %v", err)
	}
	if len(res.Errors) != 1 || res.Errors[0].CommitID != ids[1] || !errors.Is(res.Errors[0], broken) {
		t.Fatalf("errors = %v", res.Errors)
	}
	if got := res.Paths["a.txt"]; len(got) != 2 {
		t.Fatalf("a.txt = %v", got)
	}
	if !errors.Is(c.LastError(), broken) {
		t.Fatalf("LastError = %v, want the tree failure", c.LastError())
	}
}

func TestSizesForPaths_Cancelled(t *testing.T) {
	store, _ := threeCommitStore()
	c := newPreparedCache(t, store)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.SizesForPaths(ctx, nil, 0, 3); !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
}
