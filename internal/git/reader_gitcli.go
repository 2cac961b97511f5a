package git

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/masmgr/gitplay-go/internal/apperr"
)

// CLIStore reads a repository by shelling out to the git executable.
type CLIStore struct {
	path string
}

type lsTreeEntry struct {
	mode gitFileMode
	kind string // "blob", "tree" or "commit"
	id   string
	size *int64
	path string
}

// OpenCLIStore verifies that path is a git repository readable by the git executable.
func OpenCLIStore(path string) (*CLIStore, error) {
	s := &CLIStore{path: path}
	if _, err := s.run("rev-parse", "--git-dir"); err != nil {
		return nil, apperr.Wrap(apperr.RepositoryUnreadable, "open repository "+path, err)
	}
	return s, nil
}

// Head returns the commit id HEAD points at.
func (s *CLIStore) Head() (string, error) {
	out, err := s.run("rev-parse", "--verify", "-q", "HEAD^{commit}")
	if err != nil {
		// rev-parse exits non-zero without output when HEAD is unborn.
		if _, symErr := s.run("symbolic-ref", "-q", "HEAD"); symErr == nil {
			return "", ErrEmptyRepository
		}
		return "", apperr.Wrap(apperr.TraversalFailed, "resolve HEAD", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// Branches returns the short names of all local branches.
func (s *CLIStore) Branches() ([]string, error) {
	out, err := s.run("for-each-ref", "--format=%(refname:short)", "refs/heads/")
	if err != nil {
		return nil, err
	}
	var names []string
	for _, line := range strings.Split(string(out), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			names = append(names, line)
		}
	}
	return names, nil
}

// Commit resolves rev and returns its metadata.
func (s *CLIStore) Commit(rev string) (CommitInfo, error) {
	sha, err := s.resolveCommit(rev)
	if err != nil {
		return CommitInfo{}, err
	}
	out, err := s.run("cat-file", "commit", sha)
	if err != nil {
		return CommitInfo{}, apperr.Wrap(apperr.RevisionUnresolvable, "read commit "+sha, err)
	}
	info, err := parseRawCommit(out)
	if err != nil {
		return CommitInfo{}, err
	}
	info.SHA = sha
	return info, nil
}

// WalkTree visits the commit's tree in pre-order.
func (s *CLIStore) WalkTree(commitID string, fn TreeVisitor) (string, error) {
	sha, err := s.resolveCommit(commitID)
	if err != nil {
		return "", err
	}
	rootOut, err := s.run("rev-parse", sha+"^{tree}")
	if err != nil {
		return "", apperr.Wrap(apperr.RevisionUnresolvable, "read tree of "+commitID, err)
	}
	out, err := s.run("ls-tree", "-r", "-t", "-l", "-z", sha)
	if err != nil {
		return "", apperr.Wrap(apperr.RevisionUnresolvable, "list tree of "+commitID, err)
	}

	entries, err := parseLsTree(out)
	if err != nil {
		return "", err
	}

	for _, e := range entries {
		var te TreeEntry
		switch {
		case e.mode.IsTree():
			te = TreeEntry{ID: e.id, Name: BaseOf(e.path), Kind: ObjectKindTree}
		case e.mode.IsSubmodule():
			continue
		default:
			te = TreeEntry{ID: e.id, Name: BaseOf(e.path), Kind: ObjectKindBlob, Size: e.size}
		}
		if err := fn(DirOf(e.path), te); err != nil {
			return "", err
		}
	}

	return strings.TrimSpace(string(rootOut)), nil
}

// ReadBlob returns the content of a blob object.
func (s *CLIStore) ReadBlob(objectID string) ([]byte, error) {
	kind, err := s.objectType(objectID)
	if err != nil {
		return nil, err
	}
	if kind != "blob" {
		return nil, apperr.Newf(apperr.NotABlob, "object %s is a %s", objectID, kind)
	}
	out, err := s.run("cat-file", "blob", objectID)
	if err != nil {
		return nil, apperr.Wrap(apperr.RevisionUnresolvable, "read blob "+objectID, err)
	}
	return out, nil
}

func (s *CLIStore) resolveCommit(rev string) (string, error) {
	kind, err := s.objectType(rev)
	if err != nil {
		return "", err
	}
	if kind != "commit" && kind != "tag" {
		return "", apperr.Newf(apperr.NotACommit, "object %s is a %s", rev, kind)
	}
	out, err := s.run("rev-parse", "--verify", "-q", rev+"^{commit}")
	if err != nil {
		return "", apperr.Wrap(apperr.NotACommit, "peel "+rev, err)
	}
	return strings.TrimSpace(string(out)), nil
}

func (s *CLIStore) objectType(rev string) (string, error) {
	if strings.HasPrefix(rev, "-") {
		return "", apperr.Newf(apperr.RevisionUnresolvable, "invalid revision %q", rev)
	}
	out, err := s.run("cat-file", "-t", rev)
	if err != nil {
		return "", apperr.Wrap(apperr.RevisionUnresolvable, "resolve "+rev, err)
	}
	return strings.TrimSpace(string(out)), nil
}

func (s *CLIStore) run(args ...string) ([]byte, error) {
	full := append([]string{"-C", s.path}, args...)
	out, err := exec.Command("git", full...).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("git %s failed: %w: %s", args[0], err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("git %s failed: %w", args[0], err)
	}
	return out, nil
}

// parseRawCommit parses the output of `git cat-file commit`.
// Headers end at the first blank line; the message follows.
func parseRawCommit(data []byte) (CommitInfo, error) {
	header, message, found := bytes.Cut(data, []byte("\n\n"))
	if !found {
		header = data
		message = nil
	}

	var info CommitInfo
	sawCommitter := false
	for _, line := range strings.Split(string(header), "\n") {
		key, value, ok := strings.Cut(line, " ")
		if !ok {
			continue
		}
		switch key {
		case "parent":
			info.Parents = append(info.Parents, strings.TrimSpace(value))
		case "committer":
			when, err := parseSignatureTime(value)
			if err != nil {
				return CommitInfo{}, err
			}
			info.When = when
			sawCommitter = true
		}
	}
	if !sawCommitter {
		return CommitInfo{}, fmt.Errorf("unexpected commit format (missing committer)")
	}

	info.Message = string(message)
	return info, nil
}

// parseSignatureTime extracts the unix timestamp from "Name <email> 1700000000 +0100".
func parseSignatureTime(sig string) (int64, error) {
	end := strings.LastIndexByte(sig, '>')
	if end == -1 {
		return 0, fmt.Errorf("unexpected signature format %q", sig)
	}
	fields := strings.Fields(sig[end+1:])
	if len(fields) == 0 {
		return 0, fmt.Errorf("unexpected signature format %q", sig)
	}
	when, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse signature time %q: %w", fields[0], err)
	}
	return when, nil
}

// parseLsTree parses NUL-terminated `git ls-tree -r -t -l -z` output.
// Format: "<mode> SP <type> SP <object> SP+ <size> TAB <path>\0"; size is "-" for trees.
func parseLsTree(data []byte) ([]lsTreeEntry, error) {
	entries := make([]lsTreeEntry, 0, 128)
	i := 0
	for i < len(data) {
		rec, ok := readUntilNUL(data, &i)
		if !ok {
			return nil, fmt.Errorf("unexpected git ls-tree format (missing NUL)")
		}
		if len(rec) == 0 {
			continue
		}

		meta, path, ok := bytes.Cut(rec, []byte{'\t'})
		if !ok {
			return nil, fmt.Errorf("unexpected git ls-tree record %q", string(rec))
		}
		fields := strings.Fields(string(meta))
		if len(fields) < 4 {
			return nil, fmt.Errorf("unexpected git ls-tree meta %q", string(meta))
		}

		mode, err := parseGitFileMode(fields[0])
		if err != nil {
			return nil, err
		}

		var size *int64
		if fields[3] != "-" {
			n, err := strconv.ParseInt(fields[3], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("parse ls-tree size %q: %w", fields[3], err)
			}
			size = sizePtr(n)
		}

		entries = append(entries, lsTreeEntry{
			mode: mode,
			kind: fields[1],
			id:   fields[2],
			size: size,
			path: string(path),
		})
	}
	return entries, nil
}

func readUntilNUL(b []byte, i *int) ([]byte, bool) {
	if *i >= len(b) {
		return nil, false
	}
	j := bytes.IndexByte(b[*i:], 0)
	if j == -1 {
		return nil, false
	}
	start := *i
	end := *i + j
	*i = end + 1
	return b[start:end], true
}
