package storage

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// File stores one JSON record per key in a directory. Writes go to a temp file that is
// renamed over the target, so a reader sees either the old or the new value.
type File struct {
	dir string
	mu  sync.Mutex
	now func() time.Time
}

type fileRecord struct {
	Value     []byte     `json:"value"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

func NewFile(dir string) (*File, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("storage: create dir: %w", err)
	}
	return &File{dir: dir, now: time.Now}, nil
}

func (f *File) path(key string) string {
	return filepath.Join(f.dir, base64.RawURLEncoding.EncodeToString([]byte(key))+".json")
}

func (f *File) Get(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(f.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", key, err)
	}

	var rec fileRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("storage: decode %s: %w", key, err)
	}
	if rec.ExpiresAt != nil && !f.now().Before(*rec.ExpiresAt) {
		return nil, ErrNotFound
	}
	return rec.Value, nil
}

func (f *File) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	rec := fileRecord{Value: value}
	if ttl > 0 {
		exp := f.now().Add(ttl)
		rec.ExpiresAt = &exp
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("storage: encode %s: %w", key, err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	tmp, err := os.CreateTemp(f.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("storage: temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("storage: write %s: %w", key, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("storage: sync %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage: close %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), f.path(key)); err != nil {
		return fmt.Errorf("storage: rename %s: %w", key, err)
	}
	return nil
}

func (f *File) Delete(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, k := range keys {
		if err := os.Remove(f.path(k)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("storage: delete %s: %w", k, err)
		}
	}
	return nil
}

func (f *File) Close() error { return nil }
