package kv

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-faster/errors"
)

var _ Store = (*FileStore)(nil)

// FileStore implements Store with one file per key under a base directory.
// Writes go through a temp file and rename, so a crash mid-write never leaves
// a half-written value. A process-wide mutex serializes writes; separate
// processes sharing the directory are last-writer-wins.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore creates the base directory if needed and returns a FileStore.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create storage dir")
	}
	return &FileStore{dir: dir}, nil
}

// path maps a key to a file path. Keys contain separators like ':' so they
// are escaped to stay within the base directory.
func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, url.QueryEscape(key))
}

// Get returns the stored value for key, or ErrNotFound.
func (s *FileStore) Get(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrapf(err, "read key %q", key)
	}
	return data, nil
}

// Set stores value under key, replacing any previous value atomically.
func (s *FileStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dst := s.path(key)
	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return errors.Wrap(err, "create temp file")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrapf(err, "write key %q", key)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrapf(err, "close temp file for key %q", key)
	}
	if err := os.Rename(tmpName, dst); err != nil {
		os.Remove(tmpName)
		return errors.Wrapf(err, "rename key %q", key)
	}
	return nil
}

// Delete removes the value for key. Deleting an absent key is not an error.
func (s *FileStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "delete key %q", key)
	}
	return nil
}
