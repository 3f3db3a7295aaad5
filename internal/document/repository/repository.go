package repository

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

var (
	// ErrNotFound is returned by ReadOne when no file backs the slug.
	ErrNotFound = errors.New("document not found")
	// ErrDuplicateSlug is returned when two files in one directory share a slug.
	ErrDuplicateSlug = errors.New("duplicate slug")
)

// DefaultExtension is tried first when resolving a slug to a file name.
const DefaultExtension = ".md"

// maxNameLen is the longest file name common file systems accept.
const maxNameLen = 255

// RawEntry is one unparsed content file.
type RawEntry struct {
	Slug string
	Name string
	Raw  string
}

// Repository enumerates and reads the raw files of a collection directory.
// Any error that does not match ErrNotFound is a storage failure.
type Repository interface {
	// ListRaw reads every file directly inside dir, in file-name order.
	ListRaw(ctx context.Context, dir string) ([]RawEntry, error)
	// ReadOne returns the raw text of the file whose slug is slug.
	ReadOne(ctx context.Context, dir, slug string) (string, error)
	// Ping reports whether dir can currently be read.
	Ping(ctx context.Context, dir string) error
}

// SlugFromName strips the extension from a file name: "foo.md" -> "foo".
func SlugFromName(name string) string {
	return strings.TrimSuffix(name, path.Ext(name))
}

// ValidSlug rejects slugs that could escape the collection directory, name a
// hidden file, or that no file system would accept as a name.
func ValidSlug(slug string) bool {
	if slug == "" || hidden(slug) || len(slug) > maxNameLen {
		return false
	}
	return !strings.ContainsAny(slug, "/\\\x00")
}

func hidden(name string) bool { return strings.HasPrefix(name, ".") }

// plan sorts the file names, drops hidden ones and assigns slugs.
func plan(names []string) ([]RawEntry, error) {
	sort.Strings(names)
	entries := make([]RawEntry, 0, len(names))
	seen := make(map[string]string, len(names))
	for _, name := range names {
		if hidden(name) {
			continue
		}
		slug := SlugFromName(name)
		if prev, ok := seen[slug]; ok {
			return nil, fmt.Errorf("%w %q: %s and %s", ErrDuplicateSlug, slug, prev, name)
		}
		seen[slug] = name
		entries = append(entries, RawEntry{Slug: slug, Name: name})
	}
	return entries, nil
}

// readAll fills in Raw for every entry with one goroutine per file. Results
// stay in entry order whatever order the reads finish in; the first failure
// cancels the rest.
func readAll(ctx context.Context, entries []RawEntry, read func(ctx context.Context, name string) (string, error)) ([]RawEntry, error) {
	g, gctx := errgroup.WithContext(ctx)
	for i := range entries {
		g.Go(func() error {
			raw, err := read(gctx, entries[i].Name)
			if err != nil {
				return fmt.Errorf("read %s: %w", entries[i].Name, err)
			}
			entries[i].Raw = raw
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return entries, nil
}
