// Package fakefs provides an in-memory FileSystem implementation for testing.
package fakefs

import (
	"io/fs"
	"path/filepath"
	"sync"
)

// FS is an in-memory filesystem for testing.
type FS struct {
	mu      sync.RWMutex
	files   map[string][]byte
	homeDir string
	env     map[string]string
}

// New creates a new in-memory filesystem.
func New() *FS {
	return &FS{
		files:   make(map[string][]byte),
		homeDir: "/home/test",
		env:     make(map[string]string),
	}
}

// ReadFile reads the named file and returns its contents.
func (f *FS) ReadFile(name string) ([]byte, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	data, ok := f.files[filepath.Clean(name)]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}

	// Return a copy to prevent mutation
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// AddFile stores data under name.
func (f *FS) AddFile(name string, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files[filepath.Clean(name)] = append([]byte(nil), data...)
}

// UserHomeDir returns the fake home directory.
func (f *FS) UserHomeDir() (string, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.homeDir, nil
}

// SetHomeDir changes the fake home directory.
func (f *FS) SetHomeDir(dir string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.homeDir = dir
}

// Getenv returns a fake environment variable.
func (f *FS) Getenv(key string) string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.env[key]
}

// SetEnv sets a fake environment variable.
func (f *FS) SetEnv(key, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.env[key] = value
}
