package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const DirName = ".pixie"

var ErrNotFound = errors.New("not found")

// Store is the per-user app directory. It holds configuration, UI state,
// logs and, for the file backend, the persisted habits.
type Store struct {
	path string
}

// New creates a Store in ~/.pixie, ensuring the directory exists.
func New() (*Store, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return Open(filepath.Join(home, DirName))
}

// Open creates a Store rooted at path, ensuring the directory exists.
func Open(path string) (*Store, error) {
	s := &Store{path: path}
	if err := s.init(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	return os.MkdirAll(s.path, 0755)
}

// Path returns the full path to the app directory.
func (s *Store) Path() string {
	return s.path
}

// Write replaces a file in the app directory. The data is written to a
// temporary file first so a crash never leaves a truncated file behind.
func (s *Store) Write(name string, data []byte) error {
	filePath := filepath.Join(s.path, name)
	tmp, err := os.CreateTemp(s.path, "."+name+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), filePath)
}

// Read reads a file from the app directory.
func (s *Store) Read(name string) ([]byte, error) {
	filePath := filepath.Join(s.path, name)
	data, err := os.ReadFile(filePath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	return data, err
}

// WriteJSON marshals v to indented JSON and writes it to the app directory.
func (s *Store) WriteJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return s.Write(name, data)
}

// ReadJSON reads a JSON file from the app directory and unmarshals it into v.
func (s *Store) ReadJSON(name string, v any) error {
	data, err := s.Read(name)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// SubDir returns a new Store scoped to a subdirectory.
func (s *Store) SubDir(name string) (*Store, error) {
	return Open(filepath.Join(s.path, name))
}

// Get implements Backend. Each key is stored as <key>.json.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	return s.Read(key + ".json")
}

// Set implements Backend.
func (s *Store) Set(_ context.Context, key string, value []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}
	return s.Write(key+".json", value)
}

// Close implements Backend. The directory store holds no resources.
func (s *Store) Close() error {
	return nil
}

func checkKey(key string) error {
	if key == "" || key != filepath.Base(key) || key == "." || key == ".." {
		return fmt.Errorf("invalid storage key %q", key)
	}
	return nil
}
