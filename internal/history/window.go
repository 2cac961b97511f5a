package history

import "context"

// windowBounds clamps [start, start+count) to a sequence of length n.
// Negative inputs are treated as 0; a start past the end yields an empty window.
func windowBounds(n, start, count int) (int, int) {
	if start < 0 {
		start = 0
	}
	if count < 0 {
		count = 0
	}
	if start >= n {
		return n, n
	}
	end := start + count
	if end > n || end < start {
		end = n
	}
	return start, end
}

// sizeObserver receives the blob sizes of one commit of a window.
type sizeObserver func(commitID string, sizes []FileSize)

// scanWindow resolves the file sizes of every commit in the window, oldest
// first, and hands them to observe. A commit whose tree cannot be resolved is
// recorded and skipped. Only cancellation stops the scan early.
func scanWindow(ctx context.Context, w *Walker, frames []CommitFrame, folders []string, observe sizeObserver) ([]CommitError, error) {
	var failures []CommitError
	for _, frame := range frames {
		if err := ctx.Err(); err != nil {
			return failures, err
		}

		sizes, err := w.FileSizes(frame.ID, folders)
		if err != nil {
			w.logger.Warn("skipping commit in window", "commit", frame.ID, "err", err)
			failures = append(failures, CommitError{CommitID: frame.ID, Err: err})
			continue
		}
		observe(frame.ID, sizes)
	}
	return failures, nil
}
