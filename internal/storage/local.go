package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// localStorage keeps uploads on the local filesystem under
// {root}/{dir}/{uuid}{ext} and serves them through the files endpoint
type localStorage struct {
	root    string
	baseURL string
}

func newLocalStorage(root, baseURL string) *localStorage {
	return &localStorage{root: root, baseURL: strings.TrimRight(baseURL, "/")}
}

func (s *localStorage) Store(_ context.Context, dir, filename, _ string, r io.Reader, _ int64) (string, error) {
	name := objectName(filename)
	target := filepath.Join(s.root, dir)

	if err := os.MkdirAll(target, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	f, err := os.Create(filepath.Join(target, name))
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return fmt.Sprintf("%s/api/v1/files/%s/%s", s.baseURL, dir, name), nil
}

func (s *localStorage) Open(_ context.Context, dir, name string) (io.ReadCloser, error) {
	// Stored names are uuids; reject anything that could walk the tree
	if name != filepath.Base(name) || dir != filepath.Base(dir) {
		return nil, os.ErrNotExist
	}
	return os.Open(filepath.Join(s.root, dir, name))
}

func (s *localStorage) Delete(_ context.Context, dir, name string) error {
	if name != filepath.Base(name) || dir != filepath.Base(dir) {
		return os.ErrNotExist
	}
	return os.Remove(filepath.Join(s.root, dir, name))
}
