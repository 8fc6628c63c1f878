// Package file implements cache.Store as a single JSON file.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pario-ai/cinecache/pkg/cache"
	"github.com/pario-ai/cinecache/pkg/models"
)

// record is the on-disk layout.
type record struct {
	Timestamp time.Time   `json:"timestamp"`
	Page      models.Page `json:"page"`
}

// Store keeps the cache slot in one file. Writes go to a temporary file in
// the same directory and are renamed over the target, so readers only ever
// see a complete record.
type Store struct {
	mu   sync.Mutex
	path string
}

var _ cache.Store = (*Store)(nil)

// New returns a Store writing to path. The file is not touched until the
// first operation.
func New(path string) *Store {
	return &Store{path: filepath.Clean(path)}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// DeleteCachedPage removes the file. A missing file is not an error.
func (s *Store) DeleteCachedPage(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cache.NewStoreError("delete", err)
	}
	return nil
}

// Insert replaces the file contents with page and ts.
func (s *Store) Insert(ctx context.Context, page models.Page, ts time.Time) error {
	data, err := json.Marshal(record{Timestamp: ts, Page: page})
	if err != nil {
		return cache.NewStoreError("encode", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := writeFileAtomic(s.path, data); err != nil {
		return cache.NewStoreError("insert", err)
	}
	return nil
}

// Retrieve reads the file. A missing file means an empty cache.
func (s *Store) Retrieve(ctx context.Context) (*models.CachedPage, error) {
	s.mu.Lock()
	data, err := os.ReadFile(s.path)
	s.mu.Unlock()

	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, cache.NewStoreError("retrieve", err)
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, cache.NewStoreError("decode", err)
	}
	return &models.CachedPage{Page: rec.Page, Timestamp: rec.Timestamp}, nil
}

// Close is a no-op; the store holds no open handles.
func (s *Store) Close() error {
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	dir, name := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+name+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}

	// Directory sync is best effort; some platforms reject it.
	if d, err := os.Open(dir); err == nil {
		_ = d.Sync()
		_ = d.Close()
	}
	return nil
}
