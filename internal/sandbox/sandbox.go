// Package sandbox allocates and releases a unique per-batch working
// directory: every batch gets its own subdirectory under the configured
// root, rather than a single shared path with fixed file names that two
// concurrent batches could collide on.
package sandbox

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v3"
)

// Manager owns the sandbox root and tracks in-flight batch directories so
// operators (and tests) can observe how many batches are concurrently
// occupying disk.
type Manager struct {
	root   string
	active *xsync.MapOf[string, struct{}]
}

// New returns a Manager rooted at root, creating it if missing.
func New(root string) (*Manager, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("sandbox: create root %s: %w", root, err)
	}
	return &Manager{
		root:   root,
		active: xsync.NewMapOf[string, struct{}](),
	}, nil
}

// Acquire creates and returns a fresh, uniquely named subdirectory under the
// sandbox root. The caller must call Release when the batch finishes, on
// every exit path.
func (m *Manager) Acquire() (string, error) {
	id := uuid.New().String()
	dir := filepath.Join(m.root, id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("sandbox: create batch dir: %w", err)
	}
	m.active.Store(id, struct{}{})
	return dir, nil
}

// Release removes dir and drops it from the active set. A deletion failure
// is returned; the Batch Evaluator logs it and does not let it fail a batch
// that has already produced a result.
func (m *Manager) Release(dir string) error {
	id := filepath.Base(dir)
	m.active.Delete(id)
	return os.RemoveAll(dir)
}

// ActiveCount reports how many batch directories are currently allocated.
func (m *Manager) ActiveCount() int {
	return m.active.Size()
}
