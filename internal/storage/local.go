package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// LocalStore writes media below a directory that the HTTP server exposes at baseURL
type LocalStore struct {
	root    string
	baseURL string
}

func NewLocalStore(root, baseURL string) *LocalStore {
	return &LocalStore{root: root, baseURL: strings.TrimRight(baseURL, "/")}
}

func (s *LocalStore) Save(_ context.Context, key string, data []byte, _ string) (string, error) {
	clean := path.Clean("/" + key)[1:]
	if clean == "" {
		return "", errors.New("empty media key")
	}

	target := filepath.Join(s.root, filepath.FromSlash(clean))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("failed to create media directory: %w", err)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write media file: %w", err)
	}
	return s.baseURL + "/" + clean, nil
}

// Delete removes the file behind url. Unknown URLs and missing files are ignored.
func (s *LocalStore) Delete(_ context.Context, url string) error {
	key, ok := strings.CutPrefix(url, s.baseURL+"/")
	if !ok {
		return nil
	}
	clean := path.Clean("/" + key)[1:]
	if clean == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(clean)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete media file: %w", err)
	}
	return nil
}
