package togglestore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Storage is the persistence backend for a store: one JSON array of strings
// per store name.
type Storage interface {
	Load(name string) ([]string, error)
	Save(name string, keys []string) error
}

// FileStorage persists each store as <dataDir>/<name>.json.
type FileStorage struct {
	dataDir string
}

// NewFileStorage creates a file-backed storage rooted at dataDir.
func NewFileStorage(dataDir string) *FileStorage {
	return &FileStorage{dataDir: dataDir}
}

func (fs *FileStorage) path(name string) string {
	return filepath.Join(fs.dataDir, name+".json")
}

// Load reads the persisted entry. A missing file or malformed JSON yields an
// empty set, not an error; only genuine read failures surface.
func (fs *FileStorage) Load(name string) ([]string, error) {
	data, err := os.ReadFile(fs.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	var keys []string
	if err := json.Unmarshal(data, &keys); err != nil {
		// Corrupt entry: treat as empty rather than failing the store.
		return nil, nil
	}
	return keys, nil
}

// Save writes the entry back as an indented JSON array.
func (fs *FileStorage) Save(name string, keys []string) error {
	if err := os.MkdirAll(fs.dataDir, 0755); err != nil {
		return err
	}
	if keys == nil {
		keys = []string{}
	}
	data, err := json.MarshalIndent(keys, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(fs.path(name), data, 0644)
}

// MemStorage is an in-memory backend for tests and ephemeral sessions.
type MemStorage struct {
	entries map[string][]string
}

// NewMemStorage creates an empty in-memory storage.
func NewMemStorage() *MemStorage {
	return &MemStorage{entries: make(map[string][]string)}
}

func (ms *MemStorage) Load(name string) ([]string, error) {
	return ms.entries[name], nil
}

func (ms *MemStorage) Save(name string, keys []string) error {
	cp := make([]string, len(keys))
	copy(cp, keys)
	ms.entries[name] = cp
	return nil
}
