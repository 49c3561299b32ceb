// Package filestore stores uploaded file content on the local filesystem.
// Records reference files by the path returned from Save.
package filestore

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// FileStore writes, reads, and removes file blobs under a single directory.
type FileStore struct {
	// dir is the root directory for stored files.
	dir string
}

// New creates a FileStore rooted at dir, creating the directory if it
// does not exist.
func New(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

// GenerateName produces a filesystem-safe unique stored name for a file,
// keeping the original extension: <unix-ms>-<random>.<ext>.
func (fs *FileStore) GenerateName(originalName string) string {
	ext := filepath.Ext(originalName)
	return fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), uuid.NewString(), ext)
}

// Save writes data under the given stored name and returns the path that
// should be persisted with the record. The write goes through a temp file
// and rename so a partial write never surfaces under the final name.
func (fs *FileStore) Save(name string, data []byte) (string, error) {
	path := filepath.Join(fs.dir, name)
	tmp := path + ".tmp"

	if err := os.WriteFile(tmp, data, 0o640); err != nil {
		return "", fmt.Errorf("write file %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("rename file %s: %w", name, err)
	}

	return path, nil
}

// Open opens a stored file for reading. The caller must close it.
func (fs *FileStore) Open(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file %s: %w", path, err)
	}
	return f, nil
}

// Exists reports whether the blob at path is present on disk.
func (fs *FileStore) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Remove deletes the blob at path. A missing blob is not an error:
// delete tolerates records whose file is already gone.
func (fs *FileStore) Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove file %s: %w", path, err)
	}
	return nil
}
