package history

import "context"

// SizesForPaths projects the size history of every blob directly inside one
// of folders over the commit window [start, start+count). A path gets a
// change-point on its first observation and on every later observation whose
// size differs from the previous one. Commits whose tree cannot be resolved
// are skipped and reported in the result.
func (c *Cache) SizesForPaths(ctx context.Context, folders []string, start, count int) (SizeHistoryResult, error) {
	w, frames, err := c.windowWalker(start, count)
	if err != nil {
		return SizeHistoryResult{}, err
	}

	history := make(SizeHistory)
	lastSize := make(map[string]int64)

	failures, err := scanWindow(ctx, w, frames, folders, func(commitID string, sizes []FileSize) {
		for _, fs := range sizes {
			prev, seen := lastSize[fs.Path]
			if !seen || prev != fs.Size {
				history[fs.Path] = append(history[fs.Path], ChangePoint{CommitID: commitID, Size: fs.Size})
			}
			lastSize[fs.Path] = fs.Size
		}
	})
	c.recordFailures(failures)
	if err != nil {
		return SizeHistoryResult{}, err
	}

	c.logger.Debug("size history projected", "commits", len(frames), "paths", len(history), "failed", len(failures))
	return SizeHistoryResult{Paths: history, Errors: failures}, nil
}
