package history

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	pq "github.com/emirpasic/gods/queues/priorityqueue"

	"github.com/masmgr/gitplay-go/internal/apperr"
	"github.com/masmgr/gitplay-go/internal/git"
	"github.com/masmgr/gitplay-go/internal/logging"
)

// Walker linearizes the commit graph of a store and materializes trees on demand.
type Walker struct {
	store  git.Store
	logger *slog.Logger
}

// NewWalker creates a walker over store. A nil logger discards output.
func NewWalker(store git.Store, logger *slog.Logger) *Walker {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Walker{store: store, logger: logger}
}

type walkNode struct {
	frame CommitFrame
	seq   int // discovery order from HEAD
}

// Walk visits every commit reachable from HEAD once and returns them oldest
// first. Parents always precede their children; commits without an ordering
// constraint between them are sorted by time, then by discovery order.
// Commits that cannot be read are skipped. An empty repository yields no frames.
func (w *Walker) Walk(ctx context.Context) ([]CommitFrame, error) {
	head, err := w.store.Head()
	if errors.Is(err, git.ErrEmptyRepository) {
		return []CommitFrame{}, nil
	}
	if err != nil {
		if apperr.CodeOf(err) != "" {
			return nil, err
		}
		return nil, apperr.Wrap(apperr.TraversalFailed, "resolve HEAD", err)
	}

	nodes, discovered, err := w.discover(ctx, head)
	if err != nil {
		return nil, err
	}
	return linearize(nodes, discovered), nil
}

// discover performs a breadth-first walk over parent links starting at head.
func (w *Walker) discover(ctx context.Context, head string) (map[string]*walkNode, []string, error) {
	nodes := make(map[string]*walkNode)
	discovered := make([]string, 0, 256)
	seen := map[string]bool{head: true}
	queue := []string{head}

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		id := queue[0]
		queue = queue[1:]

		info, err := w.store.Commit(id)
		if err != nil {
			w.logger.Warn("skipping unreadable commit", "commit", id, "err", err)
			continue
		}

		nodes[id] = &walkNode{
			frame: CommitFrame{
				ID:      id,
				Message: info.Message,
				Time:    info.When,
				Parents: info.Parents,
			},
			seq: len(discovered),
		}
		discovered = append(discovered, id)

		for _, p := range info.Parents {
			if !seen[p] {
				seen[p] = true
				queue = append(queue, p)
			}
		}
	}

	return nodes, discovered, nil
}

// linearize emits nodes in topological order (Kahn) with a frontier ordered
// by (time, discovery order).
func linearize(nodes map[string]*walkNode, discovered []string) []CommitFrame {
	pending := make(map[string]int, len(nodes))
	children := make(map[string][]string, len(nodes))

	for _, id := range discovered {
		counted := make(map[string]bool, len(nodes[id].frame.Parents))
		for _, p := range nodes[id].frame.Parents {
			if _, known := nodes[p]; !known || counted[p] {
				continue
			}
			counted[p] = true
			pending[id]++
			children[p] = append(children[p], id)
		}
	}

	frontier := pq.NewWith(func(a, b interface{}) int {
		na, nb := a.(*walkNode), b.(*walkNode)
		switch {
		case na.frame.Time < nb.frame.Time:
			return -1
		case na.frame.Time > nb.frame.Time:
			return 1
		default:
			return na.seq - nb.seq
		}
	})

	for _, id := range discovered {
		if pending[id] == 0 {
			frontier.Enqueue(nodes[id])
		}
	}

	frames := make([]CommitFrame, 0, len(nodes))
	for !frontier.Empty() {
		v, _ := frontier.Dequeue()
		n := v.(*walkNode)
		frames = append(frames, n.frame)

		for _, child := range children[n.frame.ID] {
			pending[child]--
			if pending[child] == 0 {
				frontier.Enqueue(nodes[child])
			}
		}
	}

	return frames
}

// Frame resolves a single commit. When withTree is set its file structure is
// materialized, restricted to entries whose immediate directory is one of folders.
func (w *Walker) Frame(rev string, withTree bool, folders []string) (CommitFrame, error) {
	info, err := w.store.Commit(rev)
	if err != nil {
		return CommitFrame{}, err
	}

	frame := CommitFrame{
		ID:      info.SHA,
		Message: info.Message,
		Time:    info.When,
		Parents: info.Parents,
	}
	if !withTree {
		return frame, nil
	}

	tree, err := w.Tree(info.SHA, folders)
	if err != nil {
		return CommitFrame{}, err
	}
	frame.FileStructure = tree
	return frame, nil
}

// Tree materializes the file tree of a commit in pre-order.
func (w *Walker) Tree(commitID string, folders []string) (*FileTree, error) {
	filter := newFolderFilter(folders)
	blobs := make([]FileBlob, 0, 64)

	root, err := w.store.WalkTree(commitID, func(dir string, e git.TreeEntry) error {
		if !filter.match(dir) {
			return nil
		}
		blobs = append(blobs, FileBlob{
			ObjectID:    e.ID,
			Path:        git.JoinPath(dir, e.Name),
			Dir:         dir,
			Name:        e.Name,
			IsDirectory: e.Kind == git.ObjectKindTree,
			Size:        e.Size,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &FileTree{ObjectID: root, Blobs: blobs}, nil
}

// FileSizes lists the sizes of the blobs of a commit whose immediate directory
// is one of folders (all blobs when folders is empty). Blobs whose size could
// not be resolved are left out.
func (w *Walker) FileSizes(commitID string, folders []string) ([]FileSize, error) {
	filter := newFolderFilter(folders)
	sizes := make([]FileSize, 0, 64)

	_, err := w.store.WalkTree(commitID, func(dir string, e git.TreeEntry) error {
		if e.Kind != git.ObjectKindBlob || e.Size == nil || !filter.match(dir) {
			return nil
		}
		sizes = append(sizes, FileSize{Path: git.JoinPath(dir, e.Name), Size: *e.Size})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sizes, nil
}

// folderFilter matches a tree-walk directory against requested folders.
// A folder matches only its direct entries, not its whole subtree.
type folderFilter map[string]struct{}

func newFolderFilter(folders []string) folderFilter {
	if len(folders) == 0 {
		return nil
	}
	f := make(folderFilter, len(folders))
	for _, folder := range folders {
		f[normalizeFolder(folder)] = struct{}{}
	}
	return f
}

func (f folderFilter) match(dir string) bool {
	if f == nil {
		return true
	}
	_, ok := f[dir]
	return ok
}

// normalizeFolder maps "", "./" and "/" to "." and strips surrounding slashes.
func normalizeFolder(folder string) string {
	folder = strings.TrimPrefix(strings.TrimSpace(folder), "./")
	folder = strings.Trim(folder, "/")
	if folder == "" {
		return "."
	}
	return folder
}
