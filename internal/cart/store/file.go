package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"giftcard-store/internal/cart"
)

// File stores the snapshot as JSON at a fixed path.
type File struct {
	path string
}

// NewFile returns a store that keeps its snapshot at path.
func NewFile(path string) *File {
	return &File{path: path}
}

// Path returns the snapshot file location.
func (f *File) Path() string {
	return f.path
}

// Save writes to a temporary file in the same directory and renames it over
// the target so readers never observe a partial write.
func (f *File) Save(snap cart.Snapshot) error {
	data, err := cart.EncodeSnapshot(snap)
	if err != nil {
		return err
	}
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create cart dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".cart-*.json")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

// Load reads the snapshot. A missing file reports ok=false with no error.
func (f *File) Load() (cart.Snapshot, bool, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cart.Snapshot{}, false, nil
		}
		return cart.Snapshot{}, false, fmt.Errorf("read snapshot: %w", err)
	}
	snap, err := cart.DecodeSnapshot(data)
	if err != nil {
		return cart.Snapshot{}, false, err
	}
	return snap, true, nil
}

// Clear removes the snapshot file if it exists.
func (f *File) Clear() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove snapshot: %w", err)
	}
	return nil
}
