package history

import (
	"context"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// FilesByModifications ranks paths by how many times their size changed over
// the commit window [start, start+count). The first observation of a path is
// not a change. Paths with fewer changes than the configured minimum are
// dropped; the rest are sorted by count descending, then by path, and
// truncated to the configured limit.
func (c *Cache) FilesByModifications(ctx context.Context, start, count int) (ModificationResult, error) {
	w, frames, err := c.windowWalker(start, count)
	if err != nil {
		return ModificationResult{}, err
	}

	counts := make(map[string]int)
	lastSize := make(map[string]int64)

	failures, err := scanWindow(ctx, w, frames, nil, func(_ string, sizes []FileSize) {
		for _, fs := range sizes {
			if !c.ranking.admits(fs.Path) {
				continue
			}
			if prev, seen := lastSize[fs.Path]; seen && prev != fs.Size {
				counts[fs.Path]++
			}
			lastSize[fs.Path] = fs.Size
		}
	})
	c.recordFailures(failures)
	if err != nil {
		return ModificationResult{}, err
	}

	files := rankModifications(counts, c.ranking.MinModifications, c.ranking.Limit)
	c.logger.Debug("modifications ranked", "commits", len(frames), "candidates", len(counts), "ranked", len(files))
	return ModificationResult{Files: files, Errors: failures}, nil
}

// rankModifications keeps counts >= minCount, sorts them by count descending
// then path ascending, and truncates to limit.
func rankModifications(counts map[string]int, minCount, limit int) []Modification {
	files := make([]Modification, 0, len(counts))
	for p, n := range counts {
		if n >= minCount {
			files = append(files, Modification{Path: p, Count: n})
		}
	}

	sort.Slice(files, func(i, j int) bool {
		if files[i].Count != files[j].Count {
			return files[i].Count > files[j].Count
		}
		return files[i].Path < files[j].Path
	})

	if len(files) > limit {
		files = files[:limit]
	}
	return files
}

// admits reports whether path passes the include/exclude globs.
// An empty include list admits everything not excluded.
func (r RankingOptions) admits(path string) bool {
	for _, pattern := range r.Exclude {
		if ok, _ := doublestar.Match(pattern, path); ok {
			return false
		}
	}
	if len(r.Include) == 0 {
		return true
	}
	for _, pattern := range r.Include {
		if ok, _ := doublestar.Match(pattern, path); ok {
			return true
		}
	}
	return false
}
