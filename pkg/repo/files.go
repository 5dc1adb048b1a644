package repo

import (
	"context"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func cleanDir(dir string) string {
	return path.Clean(strings.TrimPrefix(filepath.ToSlash(dir), "/"))
}

// chainNames lists the tracked file names of the chains stored directly in
// dir, and of those in its Attic.
func (r *Repository) chainNames(ctx context.Context, dir string) (live, removed []string, err error) {
	var keys []string
	prefix := ""
	if dir == "." {
		keys, err = r.store.Keys(ctx)
	} else {
		prefix = dir + "/"
		keys, err = r.store.KeysPrefix(ctx, prefix)
	}
	if err != nil {
		return nil, nil, err
	}

	for _, key := range keys {
		rest := strings.TrimPrefix(key, prefix)
		if !strings.HasSuffix(rest, chainSuffix) {
			continue
		}
		rest = strings.TrimSuffix(rest, chainSuffix)
		base := strings.TrimPrefix(rest, atticName+"/")
		if base == "" || strings.Contains(base, "/") {
			continue
		}
		if base == rest {
			live = append(live, path.Join(dir, base))
		} else {
			removed = append(removed, path.Join(dir, base))
		}
	}

	return live, removed, nil
}

// ListFiles lists the files tracked in a directory of the repository,
// removed files included.
func (r *Repository) ListFiles(ctx context.Context, dir string) ([]string, error) {
	dir = cleanDir(dir)
	names, removed, err := r.chainNames(ctx, dir)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 && len(removed) == 0 {
		exists, err := afero.DirExists(r.fs, dir)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, ErrNoFile.WrapMessage("no directory %s", dir)
		}
	}

	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		seen[name] = struct{}{}
	}
	for _, name := range removed {
		if _, ok := seen[name]; ok {
			r.l.Warn("delta chain both alive and in the attic", zap.String("file", name))

			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	return names, nil
}

// ParseAll reads every delta chain of a directory, in parallel.
func (r *Repository) ParseAll(ctx context.Context, dir string) (map[string]*File, error) {
	names, err := r.ListFiles(ctx, dir)
	if err != nil {
		return nil, err
	}

	unlock, err := r.readLock(ctx, cleanDir(dir))
	if err != nil {
		return nil, err
	}
	defer unlock()

	var mx sync.Mutex
	files := make(map[string]*File, len(names))
	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(r.parallelism)

	for _, toPin := range names {
		name := toPin
		group.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			f, err := r.load(gctx, name)
			if err != nil {
				r.l.Error("parsing delta chain", zap.String("file", name), zap.Error(err))

				return err
			}

			mx.Lock()
			files[name] = f
			mx.Unlock()

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	r.l.Debug("parsed directory", zap.String("dir", dir), zap.Int("files", len(files)))

	return files, nil
}
