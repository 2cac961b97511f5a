package history

import (
	"context"
	"errors"
	"testing"

	"github.com/masmgr/gitplay-go/internal/apperr"
	"github.com/masmgr/gitplay-go/internal/git"
)

func frameIDs(frames []CommitFrame) []string {
	ids := make([]string, len(frames))
	for i, f := range frames {
		ids[i] = f.ID
	}
	return ids
}

func assertIDs(t *testing.T, got []CommitFrame, want ...string) {
	t.Helper()
	ids := frameIDs(got)
	if len(ids) != len(want) {
		t.Fatalf("got %d frames %v, want %d %v", len(ids), ids, len(want), want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("frame %d = %s, want %s (order %v)", i, ids[i], want[i], ids)
		}
	}
}

func TestWalk_Linear(t *testing.T) {
	store := git.NewMemoryStore()
	c0 := store.AddCommit("c0", 100, nil, map[string]string{"a.txt": "0123456789"})
	c1 := store.AddCommit("c1", 200, []string{c0}, map[string]string{"a.txt": "9876543210"})
	c2 := store.AddCommit("c2", 300, []string{c1}, map[string]string{"a.txt": "01234567890123456789"})

	frames, err := NewWalker(store, nil).Walk(context.Background())
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	assertIDs(t, frames, c0, c1, c2)

	if frames[2].Message != "c2" || frames[2].Time != 300 {
		t.Fatalf("last frame = %+v", frames[2])
	}
	for _, f := range frames {
		if f.FileStructure != nil {
			t.Fatalf("walk resolved a tree for %s", f.ID)
		}
	}
}

func TestWalk_MergeOrderedByTime(t *testing.T) {
	store := git.NewMemoryStore()
	root := store.AddCommit("root", 100, nil, map[string]string{"a": "1"})
	late := store.AddCommit("late", 300, []string{root}, map[string]string{"a": "2"})
	early := store.AddCommit("early", 200, []string{root}, map[string]string{"a": "3"})
	merge := store.AddCommit("merge", 400, []string{late, early}, map[string]string{"a": "4"})

	frames, err := NewWalker(store, nil).Walk(context.Background())
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	assertIDs(t, frames, root, early, late, merge)
}

func TestWalk_ParentsPrecedeChildrenDespiteClockSkew(t *testing.T) {
	store := git.NewMemoryStore()
	root := store.AddCommit("root", 500, nil, map[string]string{"a": "1"})
	skewed := store.AddCommit("skewed", 100, []string{root}, map[string]string{"a": "2"})
	head := store.AddCommit("head", 50, []string{skewed}, map[string]string{"a": "3"})

	frames, err := NewWalker(store, nil).Walk(context.Background())
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	assertIDs(t, frames, root, skewed, head)
}

func TestWalk_SameTimestampFollowsDiscoveryOrder(t *testing.T) {
	store := git.NewMemoryStore()
	root := store.AddCommit("root", 100, nil, map[string]string{"a": "1"})
	left := store.AddCommit("left", 200, []string{root}, map[string]string{"a": "2"})
	right := store.AddCommit("right", 200, []string{root}, map[string]string{"a": "3"})
	merge := store.AddCommit("merge", 300, []string{left, right}, map[string]string{"a": "4"})

	frames, err := NewWalker(store, nil).Walk(context.Background())
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	assertIDs(t, frames, root, left, right, merge)
}

func TestWalk_EmptyRepository(t *testing.T) {
	frames, err := NewWalker(git.NewMemoryStore(), nil).Walk(context.Background())
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if frames == nil || len(frames) != 0 {
		t.Fatalf("frames = %v, want empty non-nil slice", frames)
	}
}

func TestWalk_HeadFailure(t *testing.T) {
	store := git.NewMemoryStore()
	store.HeadError = errors.New("broken ref")

	_, err := NewWalker(store, nil).Walk(context.Background())
	if !apperr.Is(err, apperr.TraversalFailed) {
		t.Fatalf("error = %v, want TraversalFailed", err)
	}
}

func TestWalk_SkipsUnreadableCommits(t *testing.T) {
	store := git.NewMemoryStore()
	head := store.AddCommit("orphaned", 100, []string{"0000000000000000000000000000000000000001"}, map[string]string{"a": "1"})

	frames, err := NewWalker(store, nil).Walk(context.Background())
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	assertIDs(t, frames, head)
}

func TestWalk_Cancelled(t *testing.T) {
	store := git.NewMemoryStore()
	store.AddCommit("c0", 100, nil, map[string]string{"a": "1"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewWalker(store, nil).Walk(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
}

func TestWalker_FrameFolderFilter(t *testing.T) {
	store := git.NewMemoryStore()
	id := store.AddCommit("init", 100, nil, map[string]string{
		"src/x.rs":  "fn main() {}",
		"docs/y.md": "# y",
		"README":    "r",
	})

	tests := []struct {
		name    string
		folders []string
		want    []string
	}{
		{name: "src only", folders: []string{"src"}, want: []string{"src/x.rs"}},
		{name: "trailing slash", folders: []string{"src/"}, want: []string{"src/x.rs"}},
		{name: "root", folders: []string{"."}, want: []string{"README", "docs", "src"}},
		{name: "empty root alias", folders: []string{""}, want: []string{"README", "docs", "src"}},
		{name: "two folders", folders: []string{"docs", "src"}, want: []string{"docs/y.md", "src/x.rs"}},
		{name: "no filter", folders: nil, want: []string{"README", "docs", "docs/y.md", "src", "src/x.rs"}},
		{name: "unknown folder", folders: []string{"lib"}, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame, err := NewWalker(store, nil).Frame(id, true, tt.folders)
			if err != nil {
				t.Fatalf("Frame: %v", err)
			}
			if frame.FileStructure == nil {
				t.Fatalf("expected file structure")
			}
			var got []string
			for _, b := range frame.FileStructure.Blobs {
				got = append(got, b.Path)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("paths = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("paths = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestWalker_FrameBlobs(t *testing.T) {
	store := git.NewMemoryStore()
	id := store.AddCommit("init", 100, nil, map[string]string{"src/x.rs": "fn main() {}"})

	frame, err := NewWalker(store, nil).Frame(id, true, nil)
	if err != nil {
		t.Fatalf("Frame: %v", err)
	}
	blobs := frame.FileStructure.Blobs
	if len(blobs) != 2 {
		t.Fatalf("blobs = %+v", blobs)
	}

	dir, file := blobs[0], blobs[1]
	if !dir.IsDirectory || dir.Dir != "." || dir.Name != "src" || dir.Size != nil {
		t.Fatalf("directory entry = %+v", dir)
	}
	if file.IsDirectory || file.Dir != "src" || file.Name != "x.rs" || file.Size == nil || *file.Size != 12 {
		t.Fatalf("file entry = %+v", file)
	}
	if file.ObjectID != store.AddBlob("fn main() {}") {
		t.Fatalf("file object id = %s", file.ObjectID)
	}
}

func TestWalker_FrameWithoutTree(t *testing.T) {
	store := git.NewMemoryStore()
	id := store.AddCommit("init", 100, nil, map[string]string{"a": "1"})

	frame, err := NewWalker(store, nil).Frame(id, false, nil)
	if err != nil {
		t.Fatalf("Frame: %v", err)
	}
	if frame.FileStructure != nil {
		t.Fatalf("unexpected file structure")
	}
	if frame.ID != id || frame.Message != "init" {
		t.Fatalf("frame = %+v", frame)
	}
}

func TestWalker_FrameErrors(t *testing.T) {
	store := git.NewMemoryStore()
	store.AddCommit("init", 100, nil, map[string]string{"a": "1"})
	blob := store.AddBlob("1")

	if _, err := NewWalker(store, nil).Frame(blob, true, nil); !apperr.Is(err, apperr.NotACommit) {
		t.Fatalf("Frame(blob) error = %v, want NotACommit", err)
	}
	if _, err := NewWalker(store, nil).Frame("nope", true, nil); !apperr.Is(err, apperr.RevisionUnresolvable) {
		t.Fatalf("Frame(nope) error = %v, want RevisionUnresolvable", err)
	}
}

func TestWalker_FileSizes(t *testing.T) {
	store := git.NewMemoryStore()
	id := store.AddCommit("init", 100, nil, map[string]string{
		"a.txt":    "0123456789",
		"src/x.rs": "fn main() {}",
	})

	sizes, err := NewWalker(store, nil).FileSizes(id, nil)
	if err != nil {
		t.Fatalf("FileSizes: %v", err)
	}
	want := []FileSize{{Path: "a.txt", Size: 10}, {Path: "src/x.rs", Size: 12}}
	if len(sizes) != len(want) {
		t.Fatalf("sizes = %v, want %v", sizes, want)
	}
	for i := range want {
		if sizes[i] != want[i] {
			t.Fatalf("sizes = %v, want %v", sizes, want)
		}
	}

	rootOnly, err := NewWalker(store, nil).FileSizes(id, []string{"."})
	if err != nil {
		t.Fatalf("FileSizes(.): %v", err)
	}
	if len(rootOnly) != 1 || rootOnly[0].Path != "a.txt" {
		t.Fatalf("root sizes = %v", rootOnly)
	}
}

func TestNormalizeFolder(t *testing.T) {
	tests := map[string]string{
		"":       ".",
		".":      ".",
		"./":     ".",
		"/":      ".",
		"src":    "src",
		"src/":   "src",
		"./src":  "src",
		" a/b/ ": "a/b",
		"/a/b":   "a/b",
	}
	for in, want := range tests {
		if got := normalizeFolder(in); got != want {
			t.Errorf("normalizeFolder(%q) = %q, want %q", in, got, want)
		}
	}
}
