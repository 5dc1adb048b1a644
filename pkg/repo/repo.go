// Copyright © 2018 One Concern

package repo

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/oneconcern/reviz/pkg/cache"
	"github.com/oneconcern/reviz/pkg/diff"
	"github.com/oneconcern/reviz/pkg/errors"
	"github.com/oneconcern/reviz/pkg/rcs"
	rcsstatus "github.com/oneconcern/reviz/pkg/rcs/status"
	"github.com/oneconcern/reviz/pkg/revision"
	"github.com/oneconcern/reviz/pkg/storage"
	"github.com/oneconcern/reviz/pkg/storage/localfs"
	"github.com/segmentio/ksuid"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const (
	chainSuffix = ",v"
	atticName   = "Attic"
)

// Repository is a directory tree of delta chains
type Repository struct {
	fs    afero.Fs
	store storage.Store
	cache *cache.Cache
	l     *zap.Logger

	owner        string
	lockRetries  uint64
	lockWait     time.Duration
	lockJitter   time.Duration
	alg          diff.Algorithm
	parallelism  int
	instrumented bool
}

// File is a delta chain read from a repository
type File struct {
	Name  string // path of the tracked file in the repository, such as "src/main.c"
	Attic bool
	Chain *rcs.File

	raw []byte
}

// Checkout is a checked out revision
type Checkout struct {
	Rev  revision.Revision
	Text string
	Date time.Time
}

// New repository
func New(opts ...Option) (*Repository, error) {
	r := defaultRepository()
	for _, apply := range opts {
		apply(r)
	}

	if r.owner == "" {
		id, err := ksuid.NewRandom()
		if err != nil {
			return nil, fmt.Errorf("cannot generate lock owner: %w", err)
		}
		r.owner = id.String()
	}

	store, err := localfs.NewAtomic(r.fs)
	if err != nil {
		return nil, err
	}
	if r.instrumented {
		store = storage.Instrument(nil, r.l, store)
	}
	r.store = store
	r.l = r.l.With(zap.String("repository", store.String()))

	return r, nil
}

// String describes the repository storage
func (r *Repository) String() string {
	return r.store.String()
}

// cleanName turns a file name into a slash separated path relative to the root.
// A trailing ",v" is accepted.
func cleanName(name string) (string, error) {
	clean := path.Clean(strings.TrimPrefix(filepath.ToSlash(name), "/"))
	clean = strings.TrimSuffix(clean, chainSuffix)
	if clean == "" || clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", ErrInvalidName.WrapMessage("%q", name)
	}
	for _, component := range strings.Split(clean, "/") {
		if component == atticName || strings.HasPrefix(component, lockNamePrefix) {
			return "", ErrInvalidName.WrapMessage("%q", name)
		}
	}

	return clean, nil
}

func chainPath(name string, attic bool) string {
	dir, base := path.Split(name)
	if attic {
		return path.Join(dir, atticName, base+chainSuffix)
	}

	return path.Join(dir, base+chainSuffix)
}

// Path of the delta chain
func (f *File) Path() string {
	return chainPath(f.Name, f.Attic)
}

// Size of the delta chain, in bytes
func (f *File) Size() int {
	return len(f.raw)
}

// Resolve a revision number, a symbol or a branch, to a revision of the
// file. A branch resolves to its newest revision, the empty string to the head.
func (f *File) Resolve(name string) (revision.Revision, error) {
	if name == "" {
		if f.Chain.Head.IsZero() {
			return revision.Revision{}, rcsstatus.ErrRevisionNotExist.WrapMessage("%s has no revision", f.Name)
		}

		return f.Chain.Head, nil
	}
	rev, err := f.Chain.Resolve(name)
	if err != nil {
		return rev, err
	}
	if rev.IsBranch() {
		return f.Chain.Tip(rev)
	}

	return rev, nil
}

// locate tells if a chain lives in the Attic
func (r *Repository) locate(ctx context.Context, name string) (bool, error) {
	for _, attic := range []bool{false, true} {
		found, err := r.store.Has(ctx, chainPath(name, attic))
		if err != nil {
			return false, err
		}
		if found {
			return attic, nil
		}
	}

	return false, ErrNoFile.WrapMessage("%s", name)
}

func (r *Repository) load(ctx context.Context, name string) (*File, error) {
	attic, err := r.locate(ctx, name)
	if err != nil {
		return nil, err
	}
	f := &File{Name: name, Attic: attic}

	f.raw, err = storage.ReadAll(ctx, r.store, f.Path())
	if err != nil {
		return nil, err
	}
	f.Chain, err = rcs.Parse(f.raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.Path(), err)
	}

	return f, nil
}

// save writes the chain, moving it to or from the Attic when the trunk head changes state.
func (r *Repository) save(ctx context.Context, f *File) error {
	data := f.Chain.Dump()

	attic := false
	if d, ok := f.Chain.Delta(f.Chain.Head); ok {
		attic = d.Dead()
	}

	target := chainPath(f.Name, attic)
	if err := r.store.Put(ctx, target, bytes.NewReader(data)); err != nil {
		return err
	}

	if f.raw != nil && attic != f.Attic {
		if err := r.store.Delete(ctx, f.Path()); err != nil {
			return err
		}
		r.l.Info("moved delta chain", zap.String("from", f.Path()), zap.String("to", target))
	}

	f.Attic = attic
	f.raw = data

	return nil
}

// Open reads the delta chain of a file
func (r *Repository) Open(ctx context.Context, name string) (*File, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}

	unlock, err := r.readLock(ctx, path.Dir(name))
	if err != nil {
		return nil, err
	}
	defer unlock()

	return r.load(ctx, name)
}

// Checkout the text of a revision, a symbol or a branch of a file. The empty
// rev stands for the head.
func (r *Repository) Checkout(ctx context.Context, name, rev string) (Checkout, error) {
	var co Checkout

	f, err := r.Open(ctx, name)
	if err != nil {
		return co, err
	}

	co.Rev, err = f.Resolve(rev)
	if err != nil {
		return co, err
	}

	if r.cache != nil {
		co.Text, co.Date, err = r.cache.Checkout(f.raw, f.Chain, co.Rev)
	} else {
		co.Text, co.Date, err = f.Chain.Checkout(co.Rev)
	}
	if err != nil {
		return co, err
	}
	r.l.Debug("checked out", zap.String("file", f.Name), zap.Stringer("rev", co.Rev))

	return co, nil
}

// Heads of a file, by branch tag. The trunk has tag "".
func (r *Repository) Heads(ctx context.Context, name string) (map[string]*rcs.Head, error) {
	f, err := r.Open(ctx, name)
	if err != nil {
		return nil, err
	}

	return f.Chain.Heads(), nil
}

// update runs fn on a write-locked chain, then saves it. When create is set, a
// missing chain starts empty.
func (r *Repository) update(ctx context.Context, name string, create bool, fn func(*File) (revision.Revision, error)) (revision.Revision, error) {
	var zero revision.Revision

	name, err := cleanName(name)
	if err != nil {
		return zero, err
	}

	unlock, err := r.writeLock(ctx, path.Dir(name))
	if err != nil {
		return zero, err
	}
	defer unlock()

	f, err := r.load(ctx, name)
	switch {
	case create && errors.Is(err, ErrNoFile):
		f = &File{Name: name, Chain: rcs.New()}
	case err != nil:
		return zero, err
	}

	rev, err := fn(f)
	if err != nil {
		return zero, err
	}

	if err := r.save(ctx, f); err != nil {
		return zero, err
	}
	r.l.Info("new revision", zap.String("file", name), zap.Stringer("rev", rev))

	return rev, nil
}

func (r *Repository) commitOptions(opts []rcs.CommitOption) []rcs.CommitOption {
	return append([]rcs.CommitOption{rcs.WithAlgorithm(r.alg)}, opts...)
}

func head(f *File, branch string) (*rcs.Head, error) {
	h, ok := f.Chain.Heads()[branch]
	if !ok {
		return nil, ErrNoBranch.WrapMessage("%q in %s", branch, f.Name)
	}

	return h, nil
}

// Commit records a new revision of a file, creating the chain when missing.
// See rcs.File.Commit for the revision picked.
func (r *Repository) Commit(ctx context.Context, name, contents, log string, opts ...rcs.CommitOption) (revision.Revision, error) {
	return r.update(ctx, name, true, func(f *File) (revision.Revision, error) {
		return f.Chain.Commit(contents, log, r.commitOptions(opts)...)
	})
}

// Checkin records a new version of a live file on a branch. The empty branch is the trunk.
func (r *Repository) Checkin(ctx context.Context, name, branch, contents, log string, opts ...rcs.CommitOption) (revision.Revision, error) {
	return r.update(ctx, name, false, func(f *File) (revision.Revision, error) {
		h, err := head(f, branch)
		if err != nil {
			return revision.Revision{}, err
		}

		return h.Checkin(contents, log, r.commitOptions(opts)...)
	})
}

// Add records a new file on a branch, or revives a removed one.
func (r *Repository) Add(ctx context.Context, name, branch, contents, log string, opts ...rcs.CommitOption) (revision.Revision, error) {
	return r.update(ctx, name, true, func(f *File) (revision.Revision, error) {
		h, err := head(f, branch)
		if err != nil {
			return revision.Revision{}, err
		}

		return h.Add(contents, log, r.commitOptions(opts)...)
	})
}

// Remove records the removal of a file on a branch.
func (r *Repository) Remove(ctx context.Context, name, branch, log string, opts ...rcs.CommitOption) (revision.Revision, error) {
	return r.update(ctx, name, false, func(f *File) (revision.Revision, error) {
		h, err := head(f, branch)
		if err != nil {
			return revision.Revision{}, err
		}

		return h.Remove(log, r.commitOptions(opts)...)
	})
}
