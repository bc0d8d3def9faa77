package storage

import (
	"context"
	"os"
	"path"
	"path/filepath"
)

// Store persists a processed avatar and returns the URL (absolute or
// server-relative) to record on the user document.
type Store interface {
	Save(ctx context.Context, name, contentType string, data []byte) (string, error)
}

type LocalStore struct {
	dir string
}

// NewLocalStore writes avatars under dir and returns "avatars/<name>" URLs,
// served by the public static route.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &LocalStore{dir: dir}, nil
}

func (s *LocalStore) Save(_ context.Context, name, _ string, data []byte) (string, error) {
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", err
	}
	return path.Join("avatars", name), nil
}
