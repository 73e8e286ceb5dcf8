package receipt

import (
	"fmt"
	"os"
	"path/filepath"
)

// DirArchive implements the Archive interface on the local filesystem.
type DirArchive struct {
	basePath string
}

// NewDirArchive creates a new DirArchive rooted at basePath, creating the
// directory if needed.
func NewDirArchive(basePath string) (*DirArchive, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("creating archive directory: %w", err)
	}
	return &DirArchive{basePath: basePath}, nil
}

// Save writes a document under the archive root.
func (d *DirArchive) Save(filename string, data []byte) (string, error) {
	path := filepath.Join(d.basePath, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing file: %w", err)
	}
	return filename, nil
}

// Get reads a document back.
func (d *DirArchive) Get(path string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(d.basePath, path))
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return data, nil
}

// Delete removes a document.
func (d *DirArchive) Delete(path string) error {
	if err := os.Remove(filepath.Join(d.basePath, path)); err != nil {
		return fmt.Errorf("deleting file: %w", err)
	}
	return nil
}

// Close is a no-op for the filesystem archive.
func (d *DirArchive) Close() error {
	return nil
}
