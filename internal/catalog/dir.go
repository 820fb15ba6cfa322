package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

type summaryEntry struct {
	modTime time.Time
	size    int64
	course  Course
	err     error
}

// DirStore keeps courses as <name>.gpx files in a directory. Summaries are
// cached per file until its modification time or size changes.
type DirStore struct {
	dir        string
	projection string

	mu        sync.Mutex
	summaries map[string]summaryEntry
	summarize func(name string, gpx []byte, projectionName string) (Course, error)
}

func NewDirStore(dir, projectionName string) *DirStore {
	return &DirStore{
		dir:        dir,
		projection: projectionName,
		summaries:  map[string]summaryEntry{},
		summarize:  Summarize,
	}
}

func (s *DirStore) path(name string) string {
	return filepath.Join(s.dir, name+".gpx")
}

func (s *DirStore) List(_ context.Context) ([]Course, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []Course{}, nil
		}
		return nil, err
	}

	courses := []Course{}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".gpx") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		c, err := s.summary(strings.TrimSuffix(e.Name(), ".gpx"), info)
		if err != nil {
			continue
		}
		courses = append(courses, c)
	}
	s.forget(entries)
	sort.Slice(courses, func(i, j int) bool { return courses[i].Name < courses[j].Name })
	return courses, nil
}

func (s *DirStore) summary(name string, info fs.FileInfo) (Course, error) {
	s.mu.Lock()
	cached, ok := s.summaries[name]
	s.mu.Unlock()
	if ok && cached.modTime.Equal(info.ModTime()) && cached.size == info.Size() {
		return cached.course, cached.err
	}

	entry := summaryEntry{modTime: info.ModTime(), size: info.Size()}
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		log.Printf("course %s unreadable: %v", name, err)
		return Course{}, err
	}
	entry.course, entry.err = s.summarize(name, data, s.projection)
	if entry.err != nil {
		log.Printf("course %s skipped: %v", name, entry.err)
	}
	entry.course.CreatedAt = info.ModTime()

	s.mu.Lock()
	s.summaries[name] = entry
	s.mu.Unlock()
	return entry.course, entry.err
}

// forget drops cached summaries of files no longer in the directory.
func (s *DirStore) forget(entries []fs.DirEntry) {
	present := make(map[string]bool, len(entries))
	for _, e := range entries {
		present[strings.TrimSuffix(e.Name(), ".gpx")] = true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for name := range s.summaries {
		if !present[name] {
			delete(s.summaries, name)
		}
	}
}

func (s *DirStore) Load(_ context.Context, name string) ([]byte, error) {
	n, err := CleanName(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path(n))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrCourseNotFound, n)
		}
		return nil, err
	}
	return data, nil
}

func (s *DirStore) Save(_ context.Context, name string, gpx []byte) (Course, error) {
	n, err := CleanName(name)
	if err != nil {
		return Course{}, err
	}
	c, err := s.summarize(n, gpx, s.projection)
	if err != nil {
		return Course{}, err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return Course{}, err
	}

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return Course{}, err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(gpx); err != nil {
		_ = tmp.Close()
		return Course{}, err
	}
	if err := tmp.Close(); err != nil {
		return Course{}, err
	}
	if err := os.Rename(tmp.Name(), s.path(n)); err != nil {
		return Course{}, err
	}

	if info, err := os.Stat(s.path(n)); err == nil {
		c.CreatedAt = info.ModTime()
		s.mu.Lock()
		s.summaries[n] = summaryEntry{modTime: info.ModTime(), size: info.Size(), course: c}
		s.mu.Unlock()
	}
	return c, nil
}
