package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// FileStore persists session state as a single JSON file. Writes go through
// a temp file and rename so readers never observe a partial session.
type FileStore struct {
	path string
	mu   sync.RWMutex // process-local concurrency
}

func NewFileStore(path string) (*FileStore, error) {
	// Parent dir (e.g. ~/.sessionkit) with 0700, credentials live here
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}
	return &FileStore{path: path}, nil
}

func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Load() (*State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read()
}

func (s *FileStore) read() (*State, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read session file: %w", err)
	}
	var st State
	if err := json.Unmarshal(b, &st); err != nil {
		return nil, fmt.Errorf("decode session file: %w", err)
	}
	return &st, nil
}

func (s *FileStore) Save(st *State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	// 0600, the file may hold tokens and passwords
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Watch reports external changes to the session file until ctx is done.
// onChange receives the freshly loaded state, nil when the file is gone or
// unreadable. The watch is on the parent directory because editors and this
// store itself replace the file by rename.
func (s *FileStore) Watch(ctx context.Context, onChange func(st *State)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("session watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(s.path)); err != nil {
		w.Close()
		return fmt.Errorf("watch session dir: %w", err)
	}

	go func() {
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Name != s.path {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}
				st, err := s.Load()
				if err != nil {
					st = nil
				}
				onChange(st)
			case _, ok := <-w.Errors:
				if !ok {
					return
				}
			}
		}
	}()
	return nil
}
