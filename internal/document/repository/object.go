package repository

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/devblog/contentd/internal/storage"
)

// ObjectStorage is the subset of an object store the repository needs.
// *storage.MinIOStorage implements it.
type ObjectStorage interface {
	ListKeys(ctx context.Context, prefix string) ([]string, error)
	ReadObject(ctx context.Context, key string) ([]byte, error)
	Ping(ctx context.Context) error
}

// ObjectRepo reads collections from an object store, treating each
// collection directory as the key prefix "<dir>/".
type ObjectRepo struct {
	store ObjectStorage
	ext   string
}

func NewObjectRepo(store ObjectStorage, ext string) *ObjectRepo {
	if ext == "" {
		ext = DefaultExtension
	}
	return &ObjectRepo{store: store, ext: ext}
}

func prefixFor(dir string) string {
	dir = strings.Trim(dir, "/")
	if dir == "" || dir == "." {
		return ""
	}
	return dir + "/"
}

func (r *ObjectRepo) ListRaw(ctx context.Context, dir string) ([]RawEntry, error) {
	names, err := r.names(ctx, dir)
	if err != nil {
		return nil, err
	}
	entries, err := plan(names)
	if err != nil {
		return nil, err
	}
	prefix := prefixFor(dir)
	return readAll(ctx, entries, func(ctx context.Context, name string) (string, error) {
		b, err := r.store.ReadObject(ctx, prefix+name)
		return string(b), err
	})
}

func (r *ObjectRepo) ReadOne(ctx context.Context, dir, slug string) (string, error) {
	if !ValidSlug(slug) {
		return "", ErrNotFound
	}
	prefix := prefixFor(dir)
	b, err := r.store.ReadObject(ctx, prefix+slug+r.ext)
	if err == nil {
		return string(b), nil
	}
	if !errors.Is(err, storage.ErrObjectNotFound) {
		return "", err
	}

	names, err := r.names(ctx, dir)
	if err != nil {
		return "", err
	}
	for _, name := range names {
		if !hidden(name) && SlugFromName(name) == slug {
			b, err := r.store.ReadObject(ctx, prefix+name)
			if errors.Is(err, storage.ErrObjectNotFound) {
				// removed between list and read
				return "", ErrNotFound
			}
			return string(b), err
		}
	}
	return "", ErrNotFound
}

// Ping checks the bucket and that the collection prefix holds at least one
// key. Object stores have no empty directories, so an empty prefix is
// reported the same way FileRepo reports a missing directory.
func (r *ObjectRepo) Ping(ctx context.Context, dir string) error {
	if err := r.store.Ping(ctx); err != nil {
		return err
	}
	names, err := r.names(ctx, dir)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		return fmt.Errorf("no objects under prefix %q", prefixFor(dir))
	}
	return nil
}

func (r *ObjectRepo) names(ctx context.Context, dir string) ([]string, error) {
	keys, err := r.store.ListKeys(ctx, prefixFor(dir))
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		names = append(names, path.Base(k))
	}
	return names, nil
}
