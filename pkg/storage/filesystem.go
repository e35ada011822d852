package storage

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
)

// LocalStorage keeps uploaded files on disk under a base directory.
type LocalStorage struct {
	baseDir string
	prefix  string
}

// NewLocalStorage ensures the base directory exists and returns a handle. Stored files
// are addressed by the service-relative path prefix + name (e.g. "uploads/a.pdf").
func NewLocalStorage(baseDir, prefix string) (*LocalStorage, error) {
	if baseDir == "" {
		baseDir = "./uploads"
	}
	if prefix == "" {
		prefix = "uploads"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}
	return &LocalStorage{baseDir: baseDir, prefix: strings.Trim(prefix, "/")}, nil
}

// SaveStream copies from reader into the named file and returns its public path.
func (s *LocalStorage) SaveStream(filename string, r io.Reader) (string, error) {
	name := SecureFilename(filename)
	if name == "" {
		return "", fmt.Errorf("invalid upload filename %q", filename)
	}
	file, err := os.Create(filepath.Join(s.baseDir, name))
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer file.Close() //nolint:errcheck
	if _, err := io.Copy(file, r); err != nil {
		_ = s.Delete(name)
		return "", fmt.Errorf("write upload stream: %w", err)
	}
	return path.Join(s.prefix, name), nil
}

// Open returns a read-only handle for a stored file by its bare name.
func (s *LocalStorage) Open(filename string) (*os.File, error) {
	name := SecureFilename(filename)
	if name == "" {
		return nil, os.ErrNotExist
	}
	file, err := os.Open(filepath.Join(s.baseDir, name))
	if err != nil {
		return nil, fmt.Errorf("open upload file: %w", err)
	}
	return file, nil
}

// Delete removes a stored file if present.
func (s *LocalStorage) Delete(filename string) error {
	name := SecureFilename(filename)
	if name == "" {
		return nil
	}
	if err := os.Remove(filepath.Join(s.baseDir, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete upload file: %w", err)
	}
	return nil
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// SecureFilename flattens a client supplied name to a single safe path segment.
func SecureFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(strings.TrimSpace(name))
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeChars.ReplaceAllString(name, "")
	name = strings.Trim(name, "._")
	return name
}
