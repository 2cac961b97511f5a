// Package history builds and serves the linear commit history of a repository.
//
// A Cache holds one session at a time. Open selects a repository, PrepareCache
// walks its commit graph once, and the remaining operations answer windowed
// queries against the cached sequence. Every query works on an immutable
// snapshot of the session, so a concurrent Open or PrepareCache never mixes
// two generations of state into one answer.
package history

import (
	"context"
	"log/slog"
	"sync"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/masmgr/gitplay-go/internal/apperr"
	"github.com/masmgr/gitplay-go/internal/git"
	"github.com/masmgr/gitplay-go/internal/logging"
)

const (
	// MaxRanked is the upper bound on the number of ranked files.
	MaxRanked = 16
	// MinModifications is the smallest change count a ranked file may have.
	MinModifications = 2
)

// Options configures a Cache.
type Options struct {
	// Opener opens repositories. Defaults to the go-git backend.
	Opener git.Opener
	// Logger receives progress and per-commit failures. Defaults to discard.
	Logger *slog.Logger
	// Ranking tunes FilesByModifications.
	Ranking RankingOptions
}

// RankingOptions tunes the modification ranker.
type RankingOptions struct {
	Limit            int
	MinModifications int
	Include          []string
	Exclude          []string
}

// SessionInfo describes the current session.
type SessionInfo struct {
	ID     string `json:"session_id"`
	Path   string `json:"path"`
	Cached bool   `json:"cached"`
	Count  int    `json:"count"`
}

// session is one generation of cache state. It is never mutated after it
// has been published.
type session struct {
	id       string
	path     string
	open     git.Opener
	cached   bool
	commits  []CommitFrame
	index    map[string]int
	branches []string
}

func (s *session) info() SessionInfo {
	return SessionInfo{ID: s.id, Path: s.path, Cached: s.cached, Count: len(s.commits)}
}

// Cache is the commit history cache. It is safe for concurrent use.
type Cache struct {
	opener  git.Opener
	logger  *slog.Logger
	ranking RankingOptions

	mu      sync.RWMutex
	current *session
	lastErr error

	prepare singleflight.Group
}

// NewCache creates a Cache with no open repository.
func NewCache(opts Options) *Cache {
	if opts.Opener == nil {
		opts.Opener = git.NewOpener(git.BackendGoGit)
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	return &Cache{
		opener:  opts.Opener,
		logger:  opts.Logger,
		ranking: normalizeRanking(opts.Ranking),
	}
}

func normalizeRanking(r RankingOptions) RankingOptions {
	if r.Limit <= 0 || r.Limit > MaxRanked {
		r.Limit = MaxRanked
	}
	if r.MinModifications < MinModifications {
		r.MinModifications = MinModifications
	}
	return r
}

// Open selects the repository at path and starts a new, uncached session.
func (c *Cache) Open(path string) (SessionInfo, error) {
	if _, err := c.opener(path); err != nil {
		if apperr.CodeOf(err) == "" {
			err = apperr.Wrap(apperr.RepositoryUnreadable, "open "+path, err)
		}
		c.setLastError(err)
		return SessionInfo{}, err
	}

	s := &session{id: uuid.NewString(), path: path, open: c.opener}

	c.mu.Lock()
	c.current = s
	c.lastErr = nil
	c.mu.Unlock()

	c.logger.Info("repository opened", "path", path, "session", s.id)
	return s.info(), nil
}

// PrepareCache walks the commit graph of the open repository and publishes
// the result. Concurrent calls for the same session share one walk. The walk
// is not tied to any one caller: a caller whose ctx ends stops waiting, while
// the walk keeps running for the others and still publishes.
func (c *Cache) PrepareCache(ctx context.Context) (PrepareResult, error) {
	s, err := c.openSession()
	if err != nil {
		return PrepareResult{}, err
	}

	walkCtx := context.WithoutCancel(ctx)
	ch := c.prepare.DoChan(s.id, func() (interface{}, error) {
		return c.build(walkCtx, s)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return PrepareResult{}, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		c.setLastError(res.Err)
		return PrepareResult{}, res.Err
	}

	built := res.Val.(*session)
	ids := make([]string, len(built.commits))
	for i, f := range built.commits {
		ids[i] = f.ID
	}
	return PrepareResult{SessionID: built.id, Count: len(built.commits), IDs: ids}, nil
}

func (c *Cache) build(ctx context.Context, s *session) (*session, error) {
	store, err := s.open(s.path)
	if err != nil {
		return nil, err
	}

	commits, err := NewWalker(store, c.logger).Walk(ctx)
	if err != nil {
		return nil, err
	}

	branches, err := store.Branches()
	if err != nil {
		c.logger.Warn("listing branches failed", "path", s.path, "err", err)
		branches = nil
	}

	index := make(map[string]int, len(commits))
	for i, f := range commits {
		index[f.ID] = i
	}

	built := &session{
		id:       s.id,
		path:     s.path,
		open:     s.open,
		cached:   true,
		commits:  commits,
		index:    index,
		branches: branches,
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil || c.current.id != s.id {
		return nil, apperr.New(apperr.NotCached, "repository was reopened while the cache was being prepared")
	}
	c.current = built

	c.logger.Info("cache prepared", "path", s.path, "session", s.id, "commits", len(commits))
	return built, nil
}

// Commits returns the summaries of the commits in [start, start+count).
func (c *Cache) Commits(start, count int) ([]CommitSummary, error) {
	s, err := c.cachedSession()
	if err != nil {
		return nil, err
	}

	lo, hi := windowBounds(len(s.commits), start, count)
	out := make([]CommitSummary, 0, hi-lo)
	for _, f := range s.commits[lo:hi] {
		out = append(out, f.Summary())
	}
	return out, nil
}

// Frames returns the cached frames in [start, start+count).
func (c *Cache) Frames(start, count int) ([]CommitFrame, error) {
	s, err := c.cachedSession()
	if err != nil {
		return nil, err
	}
	lo, hi := windowBounds(len(s.commits), start, count)
	return append([]CommitFrame(nil), s.commits[lo:hi]...), nil
}

// IndexOf returns the position of a commit id in the cached sequence.
func (c *Cache) IndexOf(id string) (int, bool, error) {
	s, err := c.cachedSession()
	if err != nil {
		return 0, false, err
	}
	i, ok := s.index[id]
	return i, ok, nil
}

// CommitDetails resolves rev and materializes its file tree, restricted to
// entries directly inside one of folders (everything when folders is empty).
func (c *Cache) CommitDetails(rev string, folders []string) (CommitFrame, error) {
	s, err := c.cachedSession()
	if err != nil {
		return CommitFrame{}, err
	}
	store, err := s.open(s.path)
	if err != nil {
		return CommitFrame{}, err
	}

	frame, err := NewWalker(store, c.logger).Frame(rev, true, folders)
	if err != nil {
		c.setLastError(err)
		return CommitFrame{}, err
	}
	return frame, nil
}

// ReadFileContents returns the content of a blob as text.
func (c *Cache) ReadFileContents(objectID string) (string, error) {
	s, err := c.cachedSession()
	if err != nil {
		return "", err
	}
	store, err := s.open(s.path)
	if err != nil {
		return "", err
	}

	content, err := store.ReadBlob(objectID)
	if err != nil {
		c.setLastError(err)
		return "", err
	}
	if !utf8.Valid(content) {
		err := apperr.Newf(apperr.DecodeError, "blob %s is not valid UTF-8 text", objectID)
		c.setLastError(err)
		return "", err
	}
	return string(content), nil
}

// Branches lists the local branches recorded when the cache was prepared.
func (c *Cache) Branches() ([]string, error) {
	s, err := c.cachedSession()
	if err != nil {
		return nil, err
	}
	return append([]string(nil), s.branches...), nil
}

// Session describes the current session.
func (c *Cache) Session() (SessionInfo, error) {
	s, err := c.openSession()
	if err != nil {
		return SessionInfo{}, err
	}
	return s.info(), nil
}

// LastError returns the most recent failure recorded by any operation.
// It is informational only.
func (c *Cache) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}

func (c *Cache) setLastError(err error) {
	c.mu.Lock()
	c.lastErr = err
	c.mu.Unlock()
}

func (c *Cache) snapshot() *session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

func (c *Cache) openSession() (*session, error) {
	s := c.snapshot()
	if s == nil {
		return nil, apperr.New(apperr.NotOpen, "no repository is open")
	}
	return s, nil
}

func (c *Cache) cachedSession() (*session, error) {
	s, err := c.openSession()
	if err != nil {
		return nil, err
	}
	if !s.cached {
		return nil, apperr.New(apperr.NotCached, "commit history has not been prepared")
	}
	return s, nil
}

// windowWalker opens a store for a windowed scan over the cached sequence.
func (c *Cache) windowWalker(start, count int) (*Walker, []CommitFrame, error) {
	s, err := c.cachedSession()
	if err != nil {
		return nil, nil, err
	}
	store, err := s.open(s.path)
	if err != nil {
		return nil, nil, err
	}
	lo, hi := windowBounds(len(s.commits), start, count)
	return NewWalker(store, c.logger), s.commits[lo:hi], nil
}

func (c *Cache) recordFailures(failures []CommitError) {
	if len(failures) == 0 {
		return
	}
	c.setLastError(failures[len(failures)-1])
}
