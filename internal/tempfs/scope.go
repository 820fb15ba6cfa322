// Package tempfs tracks temporary files for the lifetime of one request.
package tempfs

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// Scope owns every file created or adopted through it. Close removes them all;
// call it with defer right after NewScope so every exit path cleans up.
type Scope struct {
	mu    sync.Mutex
	paths []string
}

func NewScope() *Scope {
	return &Scope{}
}

// Create makes a new uniquely named file in dir.
func (s *Scope) Create(dir, suffix string) (*os.File, error) {
	path := filepath.Join(dir, uuid.NewString()+suffix)
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return nil, err
	}
	s.Adopt(path)
	return f, nil
}

// Adopt hands an existing path to the scope.
func (s *Scope) Adopt(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paths = append(s.paths, path)
}

func (s *Scope) Paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.paths...)
}

// Close removes every file, newest first. Failures are logged only.
func (s *Scope) Close() {
	s.mu.Lock()
	paths := s.paths
	s.paths = nil
	s.mu.Unlock()

	for i := len(paths) - 1; i >= 0; i-- {
		if err := os.Remove(paths[i]); err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.Printf("temp file cleanup failed for %s: %v", paths[i], err)
		}
	}
}

// EnsureDirs creates the given directories if they are missing.
func EnsureDirs(dirs ...string) error {
	for _, d := range dirs {
		if d == "" {
			continue
		}
		if err := os.MkdirAll(d, 0o755); err != nil {
			return err
		}
	}
	return nil
}
