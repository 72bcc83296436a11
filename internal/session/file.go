package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// FileStore keeps one JSON document per profile in a directory.
type FileStore struct {
	dir    string
	logger *zap.Logger
}

// NewFileStore creates a store rooted at dir, creating it if needed.
func NewFileStore(dir string, opts ...Option) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("file store: directory required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}
	o := buildOptions(opts)
	return &FileStore{dir: dir, logger: o.logger}, nil
}

func (f *FileStore) path(profile string) string {
	return filepath.Join(f.dir, profile+".json")
}

// Load implements Store.
func (f *FileStore) Load(_ context.Context, profile string) (Snapshot, error) {
	if err := validateProfile(profile); err != nil {
		return Snapshot{}, err
	}
	data, err := os.ReadFile(f.path(profile))
	if err != nil {
		if os.IsNotExist(err) {
			return Snapshot{}, ErrNotFound
		}
		return Snapshot{}, fmt.Errorf("reading snapshot: %w", err)
	}

	snap, fallbacks := Decode(data)
	warnFallbacks(f.logger, profile, fallbacks)
	return snap, nil
}

// Save implements Store. The file is replaced atomically.
func (f *FileStore) Save(_ context.Context, profile string, snap Snapshot) error {
	if err := validateProfile(profile); err != nil {
		return err
	}
	data, err := Encode(snap)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(f.dir, "."+profile+"-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path(profile)); err != nil {
		return fmt.Errorf("replacing snapshot: %w", err)
	}
	return nil
}

// Close implements Store.
func (f *FileStore) Close() error { return nil }
