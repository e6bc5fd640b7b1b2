// Package persist writes report artifacts (the text transcript and group charts).
package persist

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	benchErrors "github.com/AndreyAkinshin/stagebench/internal/errors"
)

// Store writes named artifacts. Failures are reported to the caller, which treats
// them as warnings.
type Store interface {
	Write(name, content string) error
}

// Dir stores artifacts as files below a directory.
type Dir struct {
	root string
}

// NewDir creates a store rooted at dir. Relative names are resolved against it;
// absolute names are used as they are.
func NewDir(dir string) *Dir {
	if dir == "" {
		dir = "."
	}
	return &Dir{root: dir}
}

// Path returns the file path used for name.
func (d *Dir) Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(d.root, name)
}

// Write replaces the file for name with content. The file is written to a
// temporary sibling first and renamed into place.
func (d *Dir) Write(name, content string) error {
	path := d.Path(name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return benchErrors.Persistence(path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return benchErrors.Persistence(path, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.WriteString(content); err != nil {
		_ = tmp.Close()
		return benchErrors.Persistence(path, err)
	}
	if err := tmp.Close(); err != nil {
		return benchErrors.Persistence(path, err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return benchErrors.Persistence(path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return benchErrors.Persistence(path, fmt.Errorf("rename: %w", err))
	}
	return nil
}

// Memory keeps artifacts in memory. It is safe for concurrent use.
type Memory struct {
	mu    sync.Mutex
	files map[string]string
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{files: make(map[string]string)}
}

// Write stores content under name.
func (m *Memory) Write(name, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[name] = content
	return nil
}

// Get returns the content stored under name.
func (m *Memory) Get(name string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.files[name]
	return c, ok
}

// Names returns the stored names, sorted.
func (m *Memory) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.files))
	for name := range m.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
