package storage

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/emimontesdeoca/poc-dgt-cameras-scraper/pkg/errors"
)

// Manager handles writing camera snapshots to the output directory.
// Distinct image URLs can share a final path segment; when they do, the
// last write wins, same as the portal's own naming would imply.
type Manager struct {
	outputDir string
	saved     map[string]bool
	mu        sync.RWMutex
}

// NewManager creates a new storage manager, creating the output directory
// if it does not exist.
func NewManager(outputDir string) (*Manager, error) {
	if outputDir == "" {
		return nil, errors.NewInvalidArgument("output directory must not be empty")
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, errors.NewIO("failed to create output directory", err)
	}

	return &Manager{
		outputDir: outputDir,
		saved:     make(map[string]bool),
	}, nil
}

// SaveImage writes the image bytes to name inside the output directory,
// overwriting any existing file of the same name. The write goes through a
// temporary file and an atomic rename so a failed download never leaves a
// torn snapshot behind.
func (m *Manager) SaveImage(r io.Reader, name string) error {
	if name == "" {
		return errors.NewInvalidArgument("file name must not be empty")
	}

	filename := filepath.Join(m.outputDir, name)

	tempFile := filename + ".tmp"
	out, err := os.Create(tempFile)
	if err != nil {
		return errors.NewIO("failed to create temporary file", err)
	}

	_, err = io.Copy(out, r)
	closeErr := out.Close()

	if err != nil {
		os.Remove(tempFile)
		return errors.NewIO("failed to write image data", err)
	}

	if closeErr != nil {
		os.Remove(tempFile)
		return errors.NewIO("failed to close file", closeErr)
	}

	if err := os.Rename(tempFile, filename); err != nil {
		os.Remove(tempFile)
		return errors.NewIO("failed to rename temporary file", err)
	}

	m.mu.Lock()
	m.saved[name] = true
	m.mu.Unlock()

	return nil
}

// OutputDir returns the output directory path
func (m *Manager) OutputDir() string {
	return m.outputDir
}

// SavedCount returns the number of distinct file names written this run
func (m *Manager) SavedCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.saved)
}
