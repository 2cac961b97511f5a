package git

import (
	"errors"
	"io"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"

	"github.com/masmgr/gitplay-go/internal/apperr"
)

// GoGitStore reads a repository through go-git.
type GoGitStore struct {
	repo *git.Repository
}

// OpenGoGitStore opens the repository at path.
func OpenGoGitStore(path string) (*GoGitStore, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return nil, apperr.Wrap(apperr.RepositoryUnreadable, "open repository "+path, err)
	}
	return &GoGitStore{repo: repo}, nil
}

// NewGoGitStore wraps an already opened repository.
func NewGoGitStore(repo *git.Repository) *GoGitStore {
	return &GoGitStore{repo: repo}
}

// Head returns the commit id HEAD points at.
func (s *GoGitStore) Head() (string, error) {
	ref, err := s.repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return "", ErrEmptyRepository
		}
		return "", apperr.Wrap(apperr.TraversalFailed, "resolve HEAD", err)
	}
	return ref.Hash().String(), nil
}

// Branches returns the short names of all local branches.
func (s *GoGitStore) Branches() ([]string, error) {
	iter, err := s.repo.Branches()
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var names []string
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		names = append(names, ref.Name().Short())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}

// Commit resolves rev and returns its metadata.
func (s *GoGitStore) Commit(rev string) (CommitInfo, error) {
	c, err := s.commitObject(rev)
	if err != nil {
		return CommitInfo{}, err
	}

	parents := make([]string, 0, len(c.ParentHashes))
	for _, p := range c.ParentHashes {
		parents = append(parents, p.String())
	}

	return CommitInfo{
		SHA:     c.Hash.String(),
		Message: c.Message,
		When:    c.Committer.When.Unix(),
		Parents: parents,
	}, nil
}

// WalkTree visits the commit's tree in pre-order.
func (s *GoGitStore) WalkTree(commitID string, fn TreeVisitor) (string, error) {
	c, err := s.commitObject(commitID)
	if err != nil {
		return "", err
	}

	tree, err := c.Tree()
	if err != nil {
		return "", apperr.Wrap(apperr.RevisionUnresolvable, "read tree of "+commitID, err)
	}

	walker := object.NewTreeWalker(tree, true, nil)
	defer walker.Close()

	for {
		name, entry, err := walker.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}

		var te TreeEntry
		switch entry.Mode {
		case filemode.Dir:
			te = TreeEntry{ID: entry.Hash.String(), Name: entry.Name, Kind: ObjectKindTree}
		case filemode.Submodule:
			continue
		default:
			te = TreeEntry{ID: entry.Hash.String(), Name: entry.Name, Kind: ObjectKindBlob, Size: blobSize(s.repo.Storer, entry.Hash)}
		}

		if err := fn(DirOf(name), te); err != nil {
			return "", err
		}
	}

	return tree.Hash.String(), nil
}

// ReadBlob returns the content of a blob object.
func (s *GoGitStore) ReadBlob(objectID string) ([]byte, error) {
	if !plumbing.IsHash(objectID) {
		return nil, apperr.Newf(apperr.RevisionUnresolvable, "invalid object id %q", objectID)
	}

	obj, err := s.repo.Storer.EncodedObject(plumbing.AnyObject, plumbing.NewHash(objectID))
	if err != nil {
		return nil, apperr.Wrap(apperr.RevisionUnresolvable, "resolve object "+objectID, err)
	}
	if obj.Type() != plumbing.BlobObject {
		return nil, apperr.Newf(apperr.NotABlob, "object %s is a %s", objectID, obj.Type())
	}

	r, err := obj.Reader()
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return io.ReadAll(r)
}

func (s *GoGitStore) commitObject(rev string) (*object.Commit, error) {
	if plumbing.IsHash(rev) {
		obj, err := s.repo.Storer.EncodedObject(plumbing.AnyObject, plumbing.NewHash(rev))
		if err != nil {
			return nil, apperr.Wrap(apperr.RevisionUnresolvable, "resolve commit "+rev, err)
		}
		if obj.Type() != plumbing.CommitObject {
			return nil, apperr.Newf(apperr.NotACommit, "object %s is a %s", rev, obj.Type())
		}
		return object.DecodeCommit(s.repo.Storer, obj)
	}

	hash, err := s.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, apperr.Wrap(apperr.RevisionUnresolvable, "resolve revision "+rev, err)
	}
	c, err := s.repo.CommitObject(*hash)
	if err != nil {
		if errors.Is(err, plumbing.ErrObjectNotFound) {
			return nil, apperr.Wrap(apperr.RevisionUnresolvable, "resolve commit "+rev, err)
		}
		return nil, apperr.Wrap(apperr.NotACommit, "resolve commit "+rev, err)
	}
	return c, nil
}

// objectSizer is implemented by storers that read an object's size from its
// header without inflating the content, such as the filesystem storage.
type objectSizer interface {
	EncodedObjectSize(h plumbing.Hash) (int64, error)
}

func blobSize(st storer.EncodedObjectStorer, h plumbing.Hash) *int64 {
	if sizer, ok := st.(objectSizer); ok {
		if n, err := sizer.EncodedObjectSize(h); err == nil {
			return sizePtr(n)
		}
	}
	obj, err := st.EncodedObject(plumbing.BlobObject, h)
	if err != nil {
		return nil
	}
	return sizePtr(obj.Size())
}
