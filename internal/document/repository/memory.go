package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-process Repository used by unit tests and local
// tooling. Delays lets a test hold back individual reads to shuffle the
// order in which concurrent reads complete.
type MemoryRepo struct {
	mu     sync.RWMutex
	dirs   map[string]map[string]string
	delays map[string]time.Duration
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{dirs: map[string]map[string]string{}, delays: map[string]time.Duration{}}
}

// Put stores a file under dir, creating the directory if needed.
func (m *MemoryRepo) Put(dir, name, raw string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	files, ok := m.dirs[dir]
	if !ok {
		files = map[string]string{}
		m.dirs[dir] = files
	}
	files[name] = raw
}

// Delay makes every read of dir/name wait d first.
func (m *MemoryRepo) Delay(dir, name string, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delays[dir+"/"+name] = d
}

func (m *MemoryRepo) ListRaw(ctx context.Context, dir string) ([]RawEntry, error) {
	names, err := m.names(dir)
	if err != nil {
		return nil, err
	}
	entries, err := plan(names)
	if err != nil {
		return nil, err
	}
	return readAll(ctx, entries, func(ctx context.Context, name string) (string, error) {
		return m.read(ctx, dir, name)
	})
}

func (m *MemoryRepo) ReadOne(ctx context.Context, dir, slug string) (string, error) {
	if !ValidSlug(slug) {
		return "", ErrNotFound
	}
	names, err := m.names(dir)
	if err != nil {
		return "", err
	}
	for _, name := range names {
		if !hidden(name) && SlugFromName(name) == slug {
			return m.read(ctx, dir, name)
		}
	}
	return "", ErrNotFound
}

func (m *MemoryRepo) Ping(_ context.Context, dir string) error {
	_, err := m.names(dir)
	return err
}

func (m *MemoryRepo) names(dir string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	files, ok := m.dirs[dir]
	if !ok {
		return nil, fmt.Errorf("directory %q does not exist", dir)
	}
	out := make([]string, 0, len(files))
	for name := range files {
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}

func (m *MemoryRepo) read(ctx context.Context, dir, name string) (string, error) {
	m.mu.RLock()
	d := m.delays[dir+"/"+name]
	raw, ok := m.dirs[dir][name]
	m.mu.RUnlock()

	if d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if !ok {
		return "", fmt.Errorf("%s/%s vanished", dir, name)
	}
	return raw, nil
}
