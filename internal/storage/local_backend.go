package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

type LocalBackend struct {
	basePath    string
	externalURL string
}

func NewLocalBackend(config *BackendConfig) (*LocalBackend, error) {
	basePath := config.LocalPath
	if basePath == "" {
		basePath = "./blobs"
	}

	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create blob directory: %w", err)
	}

	return &LocalBackend{
		basePath:    basePath,
		externalURL: config.ExternalURL,
	}, nil
}

func (b *LocalBackend) Store(ctx context.Context, path string, reader io.Reader) error {
	fullPath := filepath.Join(b.basePath, path)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return err
	}
	defer file.Close()

	if _, err := io.Copy(file, reader); err != nil {
		os.Remove(fullPath)
		return err
	}

	return nil
}

func (b *LocalBackend) Get(ctx context.Context, path string) (io.ReadCloser, error) {
	file, err := os.Open(filepath.Join(b.basePath, path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("blob not found: %s", path)
		}
		return nil, err
	}

	return file, nil
}

func (b *LocalBackend) Delete(ctx context.Context, path string) error {
	if err := os.Remove(filepath.Join(b.basePath, path)); err != nil && !os.IsNotExist(err) {
		return err
	}

	return nil
}

func (b *LocalBackend) DeletePrefix(ctx context.Context, prefix string) error {
	return os.RemoveAll(filepath.Join(b.basePath, prefix))
}

func (b *LocalBackend) Exists(ctx context.Context, path string) (bool, error) {
	_, err := os.Stat(filepath.Join(b.basePath, path))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

// GetURL returns a URL served by this process. Local blobs are not directly
// reachable, so the path is proxied through the public blob route.
func (b *LocalBackend) GetURL(ctx context.Context, path string) (string, error) {
	return fmt.Sprintf("%s/blobs/%s", b.externalURL, path), nil
}
