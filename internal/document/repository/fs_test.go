package repository

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// slowFS delays opening selected files and records the order opens finish in.
type slowFS struct {
	fsys   fstest.MapFS
	delays map[string]time.Duration

	mu       sync.Mutex
	finished []string
}

func (s *slowFS) Open(name string) (fs.File, error) {
	if d, ok := s.delays[name]; ok {
		time.Sleep(d)
	}
	f, err := s.fsys.Open(name)
	if err == nil {
		if info, serr := f.Stat(); serr == nil && !info.IsDir() {
			s.mu.Lock()
			s.finished = append(s.finished, name)
			s.mu.Unlock()
		}
	}
	return f, err
}

func file(s string) *fstest.MapFile { return &fstest.MapFile{Data: []byte(s)} }

func TestFileRepo_ListRawOrderIndependentOfCompletion(t *testing.T) {
	slow := &slowFS{
		fsys: fstest.MapFS{
			"articles/a.md": file("A"),
			"articles/b.md": file("B"),
			"articles/c.md": file("C"),
			"articles/d.md": file("D"),
		},
		delays: map[string]time.Duration{
			"articles/a.md": 80 * time.Millisecond,
			"articles/b.md": 40 * time.Millisecond,
			"articles/c.md": 20 * time.Millisecond,
		},
	}
	r := NewFileRepoFS(slow, "")

	entries, err := r.ListRaw(context.Background(), "articles")
	require.NoError(t, err)
	require.Len(t, entries, 4)

	for i, want := range []string{"a", "b", "c", "d"} {
		assert.Equal(t, want, entries[i].Slug)
		assert.Equal(t, want+".md", entries[i].Name)
	}
	assert.Equal(t, "A", entries[0].Raw)
	assert.Equal(t, "D", entries[3].Raw)

	// reads really overlapped: the slowest file finished last
	require.Len(t, slow.finished, 4)
	assert.Equal(t, "articles/a.md", slow.finished[3])
}

func TestFileRepo_ListRawSkipsDirsAndHiddenFiles(t *testing.T) {
	r := NewFileRepoFS(fstest.MapFS{
		"blog/one.md":       file("1"),
		"blog/two.markdown": file("2"),
		"blog/.DS_Store":    file("junk"),
		"blog/drafts/x.md":  file("nested"),
		"articles/other.md": file("other"),
	}, "")

	entries, err := r.ListRaw(context.Background(), "blog")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "one", entries[0].Slug)
	assert.Equal(t, "two", entries[1].Slug)
}

func TestFileRepo_ListRawDuplicateSlug(t *testing.T) {
	r := NewFileRepoFS(fstest.MapFS{
		"blog/post.md":  file("a"),
		"blog/post.txt": file("b"),
	}, "")
	_, err := r.ListRaw(context.Background(), "blog")
	require.ErrorIs(t, err, ErrDuplicateSlug)
}

func TestFileRepo_ListRawMissingDir(t *testing.T) {
	r := NewFileRepoFS(fstest.MapFS{}, "")
	_, err := r.ListRaw(context.Background(), "nope")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound), "a missing directory is a storage failure")
}

func TestFileRepo_ListRawEmptyDir(t *testing.T) {
	r := NewFileRepoFS(fstest.MapFS{"blog": &fstest.MapFile{Mode: fs.ModeDir}}, "")
	entries, err := r.ListRaw(context.Background(), "blog")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFileRepo_ReadOne(t *testing.T) {
	r := NewFileRepoFS(fstest.MapFS{
		"articles/hello.md":   file("hello"),
		"articles/notes.txt":  file("notes"),
		"articles/.hidden.md": file("hidden"),
		"secret.md":           file("top secret"),
	}, "")
	ctx := context.Background()

	raw, err := r.ReadOne(ctx, "articles", "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", raw)

	raw, err = r.ReadOne(ctx, "articles", "notes")
	require.NoError(t, err, "non-default extensions resolve through the directory scan")
	assert.Equal(t, "notes", raw)

	for _, slug := range []string{"missing", "", ".", "..", "../secret", "a/b", `a\b`, ".hidden", "a\x00b"} {
		_, err = r.ReadOne(ctx, "articles", slug)
		assert.ErrorIs(t, err, ErrNotFound, "slug %q", slug)
	}
}

func TestFileRepo_ReadOneMissingDirIsStorageFailure(t *testing.T) {
	r := NewFileRepoFS(fstest.MapFS{}, "")
	_, err := r.ReadOne(context.Background(), "gone", "x")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestFileRepo_CanceledContext(t *testing.T) {
	r := NewFileRepoFS(fstest.MapFS{"blog/a.md": file("a")}, "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := r.ListRaw(ctx, "blog")
	require.ErrorIs(t, err, context.Canceled)
}

func TestFileRepo_OnDisk(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "blog"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "blog", "first.md"), []byte("---\ntitle: t\n---\nx"), 0o644))

	r := NewFileRepo(root, ".md")
	require.NoError(t, r.Ping(context.Background(), "blog"))
	require.Error(t, r.Ping(context.Background(), "articles"))

	entries, err := r.ListRaw(context.Background(), "blog")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "first", entries[0].Slug)
}

func TestFileRepo_ReadOneNamesTheOSRejects(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "articles"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "articles", "a.md"), []byte("A"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "articles", ".draft.md"), []byte("D"), 0o644))

	r := NewFileRepo(root, ".md")
	ctx := context.Background()
	for _, slug := range []string{
		strings.Repeat("z", 300),
		strings.Repeat("z", maxNameLen-2), // fits alone, too long with ".md"
		"a\x00b",
		".draft",
	} {
		_, err := r.ReadOne(ctx, "articles", slug)
		assert.ErrorIs(t, err, ErrNotFound, "slug of length %d", len(slug))
	}

	entries, err := r.ListRaw(ctx, "articles")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a", entries[0].Slug)
}

func TestValidSlug(t *testing.T) {
	for _, ok := range []string{"hello", "2024-01-01-post", "a.b", strings.Repeat("x", maxNameLen)} {
		assert.True(t, ValidSlug(ok), ok)
	}
	for _, bad := range []string{"", ".", "..", ".draft", "a/b", `a\b`, "a\x00b", strings.Repeat("x", maxNameLen+1)} {
		assert.False(t, ValidSlug(bad), "%q", bad)
	}
}

func TestSlugFromName(t *testing.T) {
	for _, name := range []string{"foo.md", "my-post.md", "2024-01-01-hello.md", "a.b.md"} {
		assert.Equal(t, name[:len(name)-3], SlugFromName(name))
	}
	assert.Equal(t, "README", SlugFromName("README"))
}
