package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"funkosrest/internal/apperr"
)

type FileSystem struct {
	root      string
	publicURL string
}

// NewFileSystem creates root if needed. publicURL is the address /storage
// is served under, e.g. http://localhost:8080/storage.
func NewFileSystem(root, publicURL string) (*FileSystem, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &FileSystem{root: root, publicURL: strings.TrimRight(publicURL, "/")}, nil
}

func (s *FileSystem) Store(_ context.Context, filename, _ string, body io.Reader, _ int64) error {
	if err := checkName(filename); err != nil {
		return err
	}
	f, err := os.OpenFile(filepath.Join(s.root, filename), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return apperr.Internal(fmt.Errorf("create %s: %w", filename, err))
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		os.Remove(f.Name())
		return apperr.Internal(fmt.Errorf("write %s: %w", filename, err))
	}
	if err := f.Close(); err != nil {
		return apperr.Internal(fmt.Errorf("close %s: %w", filename, err))
	}
	return nil
}

func (s *FileSystem) Load(_ context.Context, filename string) (io.ReadCloser, error) {
	if err := checkName(filename); err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Join(s.root, filename))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, notFound(filename)
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return f, nil
}

func (s *FileSystem) Delete(_ context.Context, filename string) error {
	if err := checkName(filename); err != nil {
		return err
	}
	err := os.Remove(filepath.Join(s.root, filename))
	if errors.Is(err, fs.ErrNotExist) {
		return notFound(filename)
	}
	if err != nil {
		return apperr.Internal(err)
	}
	return nil
}

func (s *FileSystem) URL(filename string) string {
	return s.publicURL + "/" + filename
}
