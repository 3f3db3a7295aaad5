package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
)

// FileRepo reads collections from directories of an fs.FS.
type FileRepo struct {
	fsys fs.FS
	ext  string
}

// NewFileRepo serves collections found under root on the local disk.
func NewFileRepo(root, ext string) *FileRepo {
	return NewFileRepoFS(os.DirFS(root), ext)
}

// NewFileRepoFS is NewFileRepo over an arbitrary file system (tests use fstest.MapFS).
func NewFileRepoFS(fsys fs.FS, ext string) *FileRepo {
	if ext == "" {
		ext = DefaultExtension
	}
	return &FileRepo{fsys: fsys, ext: ext}
}

func (r *FileRepo) ListRaw(ctx context.Context, dir string) ([]RawEntry, error) {
	names, err := r.fileNames(dir)
	if err != nil {
		return nil, err
	}
	entries, err := plan(names)
	if err != nil {
		return nil, err
	}
	return readAll(ctx, entries, func(ctx context.Context, name string) (string, error) {
		return r.read(ctx, path.Join(dir, name))
	})
}

func (r *FileRepo) ReadOne(ctx context.Context, dir, slug string) (string, error) {
	if !ValidSlug(slug) || len(slug)+len(r.ext) > maxNameLen {
		return "", ErrNotFound
	}
	raw, err := r.read(ctx, path.Join(dir, slug+r.ext))
	if err == nil || !errors.Is(err, fs.ErrNotExist) {
		return raw, err
	}

	// fall back to any other file whose name maps to the slug
	names, err := r.fileNames(dir)
	if err != nil {
		return "", err
	}
	for _, name := range names {
		if !hidden(name) && SlugFromName(name) == slug {
			return r.read(ctx, path.Join(dir, name))
		}
	}
	return "", ErrNotFound
}

func (r *FileRepo) Ping(_ context.Context, dir string) error {
	info, err := fs.Stat(r.fsys, dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	return nil
}

// fileNames lists the regular files directly inside dir.
func (r *FileRepo) fileNames(dir string) ([]string, error) {
	dirEntries, err := fs.ReadDir(r.fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}
	names := make([]string, 0, len(dirEntries))
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		names = append(names, de.Name())
	}
	return names, nil
}

func (r *FileRepo) read(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	b, err := fs.ReadFile(r.fsys, name)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
