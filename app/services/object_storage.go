package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

var (
	ErrInvalidObjectPath = errors.New("invalid object path")
	ErrObjectNotFound    = errors.New("object not found")
)

// ObjectStorage stores uploaded files and exposes them under public URLs
type ObjectStorage interface {
	Upload(ctx context.Context, objectPath string, r io.Reader) error
	PublicURL(objectPath string) string
	// Resolve returns the local file backing objectPath for serving
	Resolve(objectPath string) (string, error)
}

// LocalObjectStorage writes objects below a root directory on disk
type LocalObjectStorage struct {
	root    string
	baseURL string
}

func NewLocalObjectStorage(root, publicBaseURL string) (*LocalObjectStorage, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", root, err)
	}
	return &LocalObjectStorage{
		root:    root,
		baseURL: strings.TrimRight(publicBaseURL, "/"),
	}, nil
}

// Upload writes r to objectPath. The file appears atomically once fully written.
func (s *LocalObjectStorage) Upload(ctx context.Context, objectPath string, r io.Reader) error {
	clean, err := cleanObjectPath(objectPath)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	fullPath := filepath.Join(s.root, filepath.FromSlash(clean))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return fmt.Errorf("failed to create object directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(fullPath), ".upload-*")
	if err != nil {
		return fmt.Errorf("failed to create temp object: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write object: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close object: %w", err)
	}
	if err := os.Rename(tmpName, fullPath); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to publish object: %w", err)
	}

	return nil
}

func (s *LocalObjectStorage) PublicURL(objectPath string) string {
	clean, err := cleanObjectPath(objectPath)
	if err != nil {
		return ""
	}
	return s.baseURL + "/" + clean
}

func (s *LocalObjectStorage) Resolve(objectPath string) (string, error) {
	clean, err := cleanObjectPath(objectPath)
	if err != nil {
		return "", err
	}
	fullPath := filepath.Join(s.root, filepath.FromSlash(clean))
	info, err := os.Stat(fullPath)
	if err != nil || info.IsDir() {
		return "", ErrObjectNotFound
	}
	return fullPath, nil
}

// cleanObjectPath normalizes a slash-separated object path and rejects anything escaping the root
func cleanObjectPath(objectPath string) (string, error) {
	if strings.TrimSpace(objectPath) == "" {
		return "", ErrInvalidObjectPath
	}
	if strings.Contains(objectPath, "\\") {
		return "", ErrInvalidObjectPath
	}
	cleaned := path.Clean("/" + objectPath)
	cleaned = strings.TrimPrefix(cleaned, "/")
	if cleaned == "" || cleaned == "." {
		return "", ErrInvalidObjectPath
	}
	for _, part := range strings.Split(objectPath, "/") {
		if part == ".." {
			return "", ErrInvalidObjectPath
		}
	}
	return cleaned, nil
}
