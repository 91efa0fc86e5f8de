package mappings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// File names of the persisted dataset inside the data directory.
const (
	ATCFile       = "atc_mapping_complete.json"
	NDCFile       = "ndc_mapping.json"
	NDCSimpleFile = "ndc_mapping_simple.json"
)

// Store reads and writes the dataset as JSON files in a data directory.
type Store struct {
	dataDir string
}

// NewStore creates a Store rooted at dataDir.
func NewStore(dataDir string) *Store {
	if dataDir == "" {
		dataDir = "data"
	}
	return &Store{dataDir: dataDir}
}

// Save writes the three dataset files, creating the directory if needed.
func (s *Store) Save(ds Dataset) error {
	if err := os.MkdirAll(s.dataDir, os.ModePerm); err != nil {
		return fmt.Errorf("failed to create data directory %s: %w", s.dataDir, err)
	}
	if err := s.writeJSON(ATCFile, ds.ATC); err != nil {
		return err
	}
	if err := s.writeJSON(NDCFile, ds.NDCFull); err != nil {
		return err
	}
	return s.writeJSON(NDCSimpleFile, ds.NDCSimple)
}

// Load reads a previously saved dataset. Missing files are an error; a
// dataset is only usable when all three tables are present.
func (s *Store) Load() (Dataset, error) {
	var ds Dataset
	if err := s.readJSON(ATCFile, &ds.ATC); err != nil {
		return Dataset{}, err
	}
	if err := s.readJSON(NDCFile, &ds.NDCFull); err != nil {
		return Dataset{}, err
	}
	if err := s.readJSON(NDCSimpleFile, &ds.NDCSimple); err != nil {
		return Dataset{}, err
	}
	return ds, nil
}

// Exists reports whether a saved dataset is present on disk.
func (s *Store) Exists() bool {
	for _, name := range []string{ATCFile, NDCFile, NDCSimpleFile} {
		if _, err := os.Stat(filepath.Join(s.dataDir, name)); err != nil {
			return false
		}
	}
	return true
}

func (s *Store) writeJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", name, err)
	}
	path := filepath.Join(s.dataDir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func (s *Store) readJSON(name string, v any) error {
	path := filepath.Join(s.dataDir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}
