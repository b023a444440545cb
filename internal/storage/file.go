package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore is a SaveStore writing one JSON file per slot under a directory.
type FileStore struct {
	dir string
}

var _ SaveStore = (*FileStore)(nil)

// NewFileStore returns a FileStore rooted at dir, creating it if needed.
//
// Postcondition: dir exists or a non-nil error is returned.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: NewFileStore: creating %q: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

func (f *FileStore) path(slot string) string {
	return filepath.Join(f.dir, slot+".json")
}

// Save writes data to the slot file via a temp file and rename.
func (f *FileStore) Save(_ context.Context, slot string, data []byte) error {
	if !ValidSlot(slot) {
		return fmt.Errorf("storage: FileStore.Save: %w: %q", ErrInvalidSlot, slot)
	}
	tmp, err := os.CreateTemp(f.dir, slot+".*.tmp")
	if err != nil {
		return fmt.Errorf("storage: FileStore.Save: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("storage: FileStore.Save: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("storage: FileStore.Save: %w", err)
	}
	if err := os.Rename(tmpName, f.path(slot)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("storage: FileStore.Save: %w", err)
	}
	return nil
}

// Load returns the slot file's contents.
//
// Postcondition: returns ErrSaveNotFound when the slot file does not exist.
func (f *FileStore) Load(_ context.Context, slot string) ([]byte, error) {
	if !ValidSlot(slot) {
		return nil, fmt.Errorf("storage: FileStore.Load: %w: %q", ErrInvalidSlot, slot)
	}
	data, err := os.ReadFile(f.path(slot))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("storage: FileStore.Load: %w: %q", ErrSaveNotFound, slot)
	}
	if err != nil {
		return nil, fmt.Errorf("storage: FileStore.Load: %w", err)
	}
	return data, nil
}

// Delete removes the slot file, succeeding when it is already absent.
func (f *FileStore) Delete(_ context.Context, slot string) error {
	if !ValidSlot(slot) {
		return fmt.Errorf("storage: FileStore.Delete: %w: %q", ErrInvalidSlot, slot)
	}
	err := os.Remove(f.path(slot))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: FileStore.Delete: %w", err)
	}
	return nil
}
