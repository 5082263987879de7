// Package storage provides the persisted key/value state the session
// manager mirrors itself into. Values survive process restarts and are
// scoped to the local installation.
package storage

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/caresync/caresync/internal/errors"
)

// Well-known keys used by the session manager.
const (
	KeyToken     = "token"
	KeyUser      = "user"
	KeyChallenge = "challenge"
)

// Store is simple key/value persistence surviving process restarts.
type Store interface {
	// GetItem returns the stored value and whether the key existed.
	GetItem(key string) ([]byte, bool, error)

	// SetItem stores a value, replacing any previous one.
	SetItem(key string, value []byte) error

	// RemoveItem deletes a key. Removing an absent key is not an error.
	RemoveItem(key string) error
}

// FileStore persists each key as a file under a state directory.
// Writes are atomic: a temp file is written and renamed into place.
type FileStore struct {
	dir string
}

// NewFileStore creates the state directory if needed and returns a store over it.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.Wrap(errors.ErrCodeDirectoryFailed, "could not create state directory", err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the state directory backing the store.
func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) path(key string) (string, error) {
	// Keys are single path elements; anything else would escape the state dir.
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", errors.New(errors.ErrCodeStoreRead, "invalid storage key: "+key)
	}
	return filepath.Join(s.dir, key), nil
}

// GetItem returns the stored value and whether the key existed.
func (s *FileStore) GetItem(key string) ([]byte, bool, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, false, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeStoreRead, "could not read persisted state", err)
	}
	return data, true, nil
}

// SetItem stores a value, replacing any previous one.
func (s *FileStore) SetItem(key string, value []byte) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.dir, "."+key+".tmp-*")
	if err != nil {
		return errors.Wrap(errors.ErrCodeStoreWrite, "could not stage persisted state", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrap(errors.ErrCodeStoreWrite, "could not write persisted state", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrap(errors.ErrCodeStoreWrite, "could not protect persisted state", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(errors.ErrCodeStoreWrite, "could not flush persisted state", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(errors.ErrCodeStoreWrite, "could not commit persisted state", err)
	}
	return nil
}

// RemoveItem deletes a key. Removing an absent key is not an error.
func (s *FileStore) RemoveItem(key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeStoreRemove, "could not remove persisted state", err)
	}
	return nil
}
