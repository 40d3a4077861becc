package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// File represents the persisted audit data
type File struct {
	Records []*Record `json:"records"`
}

// Store handles JSON persistence of the audit log
type Store struct {
	filePath string
}

// NewStore creates a new store for the given file path
func NewStore(filePath string) *Store {
	return &Store{filePath: filePath}
}

// Path returns the backing file path
func (s *Store) Path() string {
	return s.filePath
}

// Save persists records to the JSON file
func (s *Store) Save(records []*Record) error {
	if err := os.MkdirAll(filepath.Dir(s.filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := json.MarshalIndent(File{Records: records}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal audit log: %w", err)
	}

	// Replace atomically; readers never see a partial file.
	tmp := s.filePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write audit file: %w", err)
	}
	if err := os.Rename(tmp, s.filePath); err != nil {
		return fmt.Errorf("failed to replace audit file: %w", err)
	}

	return nil
}

// Load loads records from the JSON file
func (s *Store) Load() ([]*Record, error) {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []*Record{}, nil
		}
		return nil, fmt.Errorf("failed to read audit file: %w", err)
	}

	var file File
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal audit log: %w", err)
	}

	return file.Records, nil
}
