package region

import (
	// Standard libraries
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileSlot persists the decision as a small JSON file on disk.
type FileSlot struct {
	Path string
}

// DefaultFilePath returns the slot file location inside the user config directory
func DefaultFilePath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "storelink_region.json"
	}
	return filepath.Join(configDir, "storelink", "region.json")
}

// NewFileSlot - creates a file slot; an empty path selects DefaultFilePath
func NewFileSlot(path string) *FileSlot {
	if path == "" {
		path = DefaultFilePath()
	}
	return &FileSlot{Path: path}
}

// Get reads the file; a missing file is ErrSlotEmpty
func (f *FileSlot) Get(_ context.Context) (string, error) {
	content, err := os.ReadFile(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", ErrSlotEmpty
	}
	if err != nil {
		return "", fmt.Errorf("read region file %s: %w", f.Path, err)
	}
	return string(content), nil
}

// Set replaces the file contents, creating the parent directory when needed
func (f *FileSlot) Set(_ context.Context, value string) error {
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o755); err != nil {
		return fmt.Errorf("create region dir: %w", err)
	}

	tmp := f.Path + ".tmp"
	if err := os.WriteFile(tmp, []byte(value), 0o644); err != nil {
		return fmt.Errorf("write region file %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, f.Path); err != nil {
		return fmt.Errorf("replace region file %s: %w", f.Path, err)
	}
	return nil
}
