package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ObjectStorage abstracts the service holding uploaded file bytes.
// S3Storage (Cloudflare R2, MinIO, AWS S3) is the production backend;
// LocalStorage serves development and tests.
type ObjectStorage interface {
	// Upload stores content at the given key.
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error

	// Download returns a ReadCloser for the object content and its size.
	// Caller must close the reader.
	Download(ctx context.Context, key string) (io.ReadCloser, int64, error)

	// Remove deletes the objects at the given keys. Missing keys are not
	// an error.
	Remove(ctx context.Context, keys []string) error

	// PublicURL returns the publicly addressable URL for a stored key.
	PublicURL(key string) string

	// Name returns a human-readable backend identifier ("s3", "local").
	Name() string
}

// KeyFromURL recovers the storage key from a public URL: the final path
// segment. This mirrors how the delete flow derives object names from the
// stored file URLs.
func KeyFromURL(url string) string {
	if idx := strings.LastIndex(url, "/"); idx >= 0 {
		return url[idx+1:]
	}
	return url
}

// ---------------------------------------------------------------------------
// LocalStorage — wraps os.* calls for local filesystem storage
// ---------------------------------------------------------------------------

type LocalStorage struct {
	baseDir       string
	publicBaseURL string
}

func NewLocalStorage(baseDir, publicBaseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &LocalStorage{
		baseDir:       baseDir,
		publicBaseURL: strings.TrimSuffix(publicBaseURL, "/"),
	}, nil
}

func (s *LocalStorage) Name() string { return "local" }

// resolve validates and resolves a key to an absolute filesystem path,
// preventing directory traversal outside baseDir.
func (s *LocalStorage) resolve(key string) (string, error) {
	if strings.Contains(key, "..") || strings.Contains(key, "/") {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(s.baseDir, key), nil
}

func (s *LocalStorage) Upload(_ context.Context, key string, reader io.Reader, _ int64, _ string) error {
	full, err := s.resolve(key)
	if err != nil {
		return err
	}
	f, err := os.Create(full)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(f, reader)
	return err
}

func (s *LocalStorage) Download(_ context.Context, key string) (io.ReadCloser, int64, error) {
	full, err := s.resolve(key)
	if err != nil {
		return nil, 0, err
	}
	f, err := os.Open(full)
	if err != nil {
		return nil, 0, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, err
	}
	return f, info.Size(), nil
}

func (s *LocalStorage) Remove(_ context.Context, keys []string) error {
	for _, key := range keys {
		full, err := s.resolve(key)
		if err != nil {
			return err
		}
		if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

func (s *LocalStorage) PublicURL(key string) string {
	return s.publicBaseURL + "/" + key
}
