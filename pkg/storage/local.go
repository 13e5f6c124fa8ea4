package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrForeignURL is returned for URLs the store did not issue.
var ErrForeignURL = errors.New("url not owned by this store")

// LocalStore writes photos under a directory served at baseURL.
type LocalStore struct {
	dir     string
	baseURL string
}

func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Dir is the directory the router serves statically.
func (s *LocalStore) Dir() string { return s.dir }

func (s *LocalStore) Save(_ context.Context, key string, data []byte, _ string) (string, error) {
	path, err := s.pathFor(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create photo dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write photo: %w", err)
	}
	return s.baseURL + "/" + filepath.ToSlash(key), nil
}

func (s *LocalStore) Load(_ context.Context, url string) ([]byte, error) {
	path, err := s.pathForURL(url)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

// Delete removes the file; a file that is already gone is not an error.
func (s *LocalStore) Delete(_ context.Context, url string) error {
	path, err := s.pathForURL(url)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove photo: %w", err)
	}
	return nil
}

func (s *LocalStore) pathForURL(url string) (string, error) {
	key, ok := strings.CutPrefix(url, s.baseURL+"/")
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrForeignURL, url)
	}
	return s.pathFor(key)
}

// pathFor keeps keys inside dir.
func (s *LocalStore) pathFor(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if clean == "." || filepath.IsAbs(clean) || strings.HasPrefix(clean, "..") {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(s.dir, clean), nil
}
