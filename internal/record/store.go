package record

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// Storage errors.
var (
	// ErrNotFound is returned when no record exists for the requested ID.
	ErrNotFound = errors.New("record: game not found")

	// ErrCorrupted is returned when a stored record fails to parse.
	ErrCorrupted = errors.New("record: game file corrupted")
)

// FileStore persists game records as JSON files in a single directory,
// one file per game, named <id>.json. Files are the system of record;
// the redis archive only mirrors them.
type FileStore struct {
	dir string
	mu  sync.RWMutex
}

// NewFileStore creates a FileStore rooted at dir, creating the directory
// if it does not exist.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create record directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the directory records are stored in.
func (s *FileStore) Dir() string {
	return s.dir
}

// Path returns the file path a record with the given ID is stored at.
func (s *FileStore) Path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// Save writes the record atomically. A record without an ID is assigned
// one first, so the caller can read it back from g.ID afterwards.
func (s *FileStore) Save(g *Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if g.ID == "" {
		g.ID = NewID(g.PuzzleIndex, time.Now())
	}
	if err := validateID(g.ID); err != nil {
		return err
	}

	data, err := encodeGame(g)
	if err != nil {
		return err
	}
	return atomicWriteFile(s.Path(g.ID), data, 0644)
}

// Load retrieves a record by ID.
func (s *FileStore) Load(id string) (*Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := validateID(id); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.Path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read record: %w", err)
	}

	g, err := decodeGame(data)
	if err != nil {
		return nil, err
	}
	g.ID = id
	return g, nil
}

// List returns the IDs of all stored records in lexical order, which is
// chronological for IDs produced by NewID.
func (s *FileStore) List() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}

	var ids []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(ids)
	return ids, nil
}

// Delete removes a stored record.
func (s *FileStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := validateID(id); err != nil {
		return err
	}
	if err := os.Remove(s.Path(id)); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete record: %w", err)
	}
	return nil
}

// Exists checks whether a record with the given ID is stored, without
// reading it.
func (s *FileStore) Exists(id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := validateID(id); err != nil {
		return false, err
	}
	if _, err := os.Stat(s.Path(id)); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check record existence: %w", err)
	}
	return true, nil
}

// validateID rejects IDs that would escape the store directory.
func validateID(id string) error {
	if id == "" {
		return fmt.Errorf("record: game ID cannot be empty")
	}
	if id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return fmt.Errorf("record: invalid game ID %q", id)
	}
	return nil
}

// atomicWriteFile writes data to a temporary file in the target directory
// and renames it into place, so the target is never observed in a
// partially-written state.
func atomicWriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)

	tmpFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}
