package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-ports/ctxtrack/internal/models"
)

// JSONFile stores the snapshot as a single pretty-printed JSON file.
type JSONFile struct {
	path string
}

// NewJSONFile returns a JSON file backend writing to path.
func NewJSONFile(path string) *JSONFile {
	return &JSONFile{path: path}
}

// Path returns the backing file path.
func (j *JSONFile) Path() string { return j.path }

// Load reads and parses the backing file.
func (j *JSONFile) Load() (*models.Snapshot, error) {
	data, err := os.ReadFile(j.path)
	if os.IsNotExist(err) {
		return models.NewSnapshot(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("jsonfile.Load: %w", err)
	}

	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("jsonfile.Load %s: %w: %v", j.path, ErrCorrupt, err)
	}
	if snap.Contexts == nil {
		snap.Contexts = make(map[string]*models.Context)
	}
	return &snap, nil
}

// Save writes snap to a temp file in the same directory and renames it over
// the target, so readers never observe a half-written file.
func (j *JSONFile) Save(snap *models.Snapshot) error {
	dir := filepath.Dir(j.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("jsonfile.Save: %w", err)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("jsonfile.Save: marshal: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".contexts-*.json")
	if err != nil {
		return fmt.Errorf("jsonfile.Save: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("jsonfile.Save: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("jsonfile.Save: close: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("jsonfile.Save: chmod: %w", err)
	}
	if err := os.Rename(tmpName, j.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("jsonfile.Save: rename: %w", err)
	}
	return nil
}

// Close is a no-op; the file is not held open between operations.
func (j *JSONFile) Close() error { return nil }
