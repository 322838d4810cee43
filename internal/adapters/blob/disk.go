package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/supriyo522/event-api-backend/internal/domain"
)

type diskStore struct {
	dir       string
	urlPrefix string
}

// NewDiskStore returns a BlobStore writing into dir. Stored paths are
// urlPrefix + "/" + name, matching the static /uploads route.
func NewDiskStore(config DiskConfig) (domain.BlobStore, error) {
	if config.Dir == "" {
		return nil, errors.New("disk store: directory is required")
	}
	if err := os.MkdirAll(config.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("disk store: create directory: %w", err)
	}
	prefix := config.URLPrefix
	if prefix == "" {
		prefix = "/uploads"
	}
	return &diskStore{dir: config.Dir, urlPrefix: strings.TrimSuffix(prefix, "/")}, nil
}

func (s *diskStore) Store(ctx context.Context, r io.Reader, name, _ string) (string, error) {
	if name == "" || name != filepath.Base(name) {
		return "", fmt.Errorf("disk store: invalid name %q", name)
	}
	f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("disk store: create file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("disk store: write file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("disk store: close file: %w", err)
	}
	return s.urlPrefix + "/" + name, nil
}

func (s *diskStore) Delete(ctx context.Context, storedPath string) error {
	err := os.Remove(filepath.Join(s.dir, path.Base(storedPath)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("disk store: remove file: %w", err)
	}
	return nil
}
