// Package artifact stores rendered text artifacts.
package artifact

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// ErrNotExist is returned by Append and Read for a missing artifact.
var ErrNotExist = fs.ErrNotExist

// Sink is where artifacts are written. Create truncates, Append requires the
// artifact to exist already. Both return only after the data is flushed.
type Sink interface {
	Create(name string, data []byte) error
	Append(name string, data []byte) error
	Read(name string) ([]byte, error)
}

// DirSink keeps artifacts as files in one directory.
type DirSink struct {
	Dir string
}

// NewDirSink returns a sink rooted at dir, creating the directory.
func NewDirSink(dir string) (*DirSink, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %q: %w", dir, err)
	}
	return &DirSink{Dir: dir}, nil
}

// Path returns the file path of artifact name.
func (s *DirSink) Path(name string) string {
	return filepath.Join(s.Dir, name)
}

func (s *DirSink) Create(name string, data []byte) error {
	f, err := os.OpenFile(s.Path(name), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	return writeAndClose(f, data)
}

func (s *DirSink) Append(name string, data []byte) error {
	f, err := os.OpenFile(s.Path(name), os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		return err
	}
	return writeAndClose(f, data)
}

func (s *DirSink) Read(name string) ([]byte, error) {
	return os.ReadFile(s.Path(name))
}

func writeAndClose(f *os.File, data []byte) error {
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// MemSink keeps artifacts in memory.
type MemSink struct {
	mu    sync.Mutex
	files map[string][]byte
	order []string
}

func NewMemSink() *MemSink {
	return &MemSink{files: make(map[string][]byte)}
}

func (s *MemSink) Create(name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.files[name]; !ok {
		s.order = append(s.order, name)
	}
	s.files[name] = append([]byte(nil), data...)
	return nil
}

func (s *MemSink) Append(name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.files[name]
	if !ok {
		return &fs.PathError{Op: "append", Path: name, Err: ErrNotExist}
	}
	s.files[name] = append(cur, data...)
	return nil
}

func (s *MemSink) Read(name string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.files[name]
	if !ok {
		return nil, &fs.PathError{Op: "read", Path: name, Err: ErrNotExist}
	}
	return append([]byte(nil), cur...), nil
}

// Names lists artifacts in creation order.
func (s *MemSink) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.order...)
}

// Snapshot copies every artifact, keyed by name.
func (s *MemSink) Snapshot() map[string][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string][]byte, len(s.files))
	for name, data := range s.files {
		out[name] = append([]byte(nil), data...)
	}
	return out
}

// SortedNames lists artifacts alphabetically.
func SortedNames(files map[string][]byte) []string {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsNotExist reports whether err means the artifact is missing.
func IsNotExist(err error) bool {
	return errors.Is(err, ErrNotExist)
}
