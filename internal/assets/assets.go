// Package assets loads scene assets in the background and caches them.
//
// Loads never block the frame loop: LoadAsync returns a Handle right away
// and callers poll Ready once per tick. Dropping a handle is the only
// cancellation; its result is simply never read.
package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/racer/internal/logger"
)

// Handle is the pending result of an asynchronous load.
type Handle struct {
	path string
	done chan struct{}
	data []byte
	err  error
}

// Path returns the resolved path the handle loads.
func (h *Handle) Path() string { return h.path }

// Ready reports whether the load has finished, successfully or not.
func (h *Handle) Ready() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

// Data returns the loaded bytes, or nil while loading or after a failure.
func (h *Handle) Data() []byte {
	if !h.Ready() {
		return nil
	}
	return h.data
}

// Err returns the load error, or nil while loading or after success.
func (h *Handle) Err() error {
	if !h.Ready() {
		return nil
	}
	return h.err
}

func (h *Handle) finish(data []byte, err error) {
	h.data, h.err = data, err
	close(h.done)
}

// Manager resolves asset paths against a base directory and shares handles
// for repeated loads.
type Manager struct {
	baseDir string
	read    func(path string) ([]byte, error)
	cache   *Cache
	handles map[string]*Handle
	mu      sync.Mutex
}

// NewManager creates an asset manager rooted at baseDir.
func NewManager(baseDir string) *Manager {
	return NewManagerWithReader(baseDir, os.ReadFile)
}

// NewManagerWithReader creates a manager that loads through read. Used by
// tests to hold loads open.
func NewManagerWithReader(baseDir string, read func(path string) ([]byte, error)) *Manager {
	return &Manager{
		baseDir: baseDir,
		read:    read,
		cache:   NewCache(),
		handles: make(map[string]*Handle),
	}
}

// Resolve returns the path an asset reference loads from.
func (m *Manager) Resolve(path string) string {
	if filepath.IsAbs(path) || m.baseDir == "" {
		return filepath.Clean(path)
	}
	return filepath.Join(m.baseDir, path)
}

// LoadAsync starts loading path unless a load is already in flight or
// finished, and returns its handle.
func (m *Manager) LoadAsync(path string) *Handle {
	resolved := m.Resolve(path)

	m.mu.Lock()
	defer m.mu.Unlock()

	if h, ok := m.handles[resolved]; ok {
		return h
	}
	h := &Handle{path: resolved, done: make(chan struct{})}
	m.handles[resolved] = h

	if data, ok := m.cache.Get(resolved); ok {
		h.finish(data, nil)
		return h
	}

	go func() {
		data, err := m.read(resolved)
		if err != nil {
			logger.Warn("asset load failed", zap.String("path", resolved), zap.Error(err))
			h.finish(nil, fmt.Errorf("loading asset %s: %w", path, err))
			return
		}
		m.cache.Set(resolved, data)
		h.finish(data, nil)
	}()
	return h
}

// Pending returns how many handles are still loading.
func (m *Manager) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, h := range m.handles {
		if !h.Ready() {
			n++
		}
	}
	return n
}

// Stats returns the cache hit and miss counts.
func (m *Manager) Stats() (hits, misses int) {
	return m.cache.Stats()
}

// Reset forgets all handles so the next scene starts fresh. Cached bytes
// are kept; in-flight loads finish into handles nobody reads.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handles = make(map[string]*Handle)
}

// Close drops handles and cached data.
func (m *Manager) Close() {
	m.Reset()
	m.cache.Clear()
}

// Cache is a simple in-memory cache for loaded assets.
type Cache struct {
	data map[string][]byte
	mu   sync.RWMutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string][]byte),
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return data, ok
}

// Set stores an item in cache.
func (c *Cache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string][]byte)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
