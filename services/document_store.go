package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DocumentStore persists uploaded files in the documents directory and
// guards against unsafe filenames.
type DocumentStore struct {
	Dir string // absolute path to the documents directory
}

// NewDocumentStore creates the documents directory if needed.
func NewDocumentStore(dir string) (*DocumentStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("documents directory not configured")
	}
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("could not determine absolute documents path: %w", err)
	}
	if err := os.MkdirAll(absPath, 0o755); err != nil {
		return nil, fmt.Errorf("could not create documents directory: %w", err)
	}
	return &DocumentStore{Dir: absPath}, nil
}

// SafePath validates the filename and returns the absolute path it should be
// stored at inside the documents directory.
func (s *DocumentStore) SafePath(filename string) (string, error) {
	if !IsSupportedFile(filename) {
		return "", fmt.Errorf("only %s files are supported", strings.Join(SupportedExtensions(), ", "))
	}
	// filepath.Base prevents path traversal (e.g. "../../etc/passwd").
	cleanPath := filepath.Join(s.Dir, filepath.Base(filename))
	if !strings.HasPrefix(cleanPath, s.Dir) {
		return "", fmt.Errorf("invalid filename, attempts to escape documents directory")
	}
	return cleanPath, nil
}

// Remove deletes a stored document. Missing files are not an error.
func (s *DocumentStore) Remove(filename string) error {
	path, err := s.SafePath(filename)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove document %q: %w", filename, err)
	}
	return nil
}

// SupportedExtensions lists the upload extensions the extractor handles.
func SupportedExtensions() []string {
	return []string{".pdf", ".txt", ".md"}
}

// IsSupportedFile reports whether the path has a supported extension.
func IsSupportedFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, supported := range SupportedExtensions() {
		if ext == supported {
			return true
		}
	}
	return false
}
