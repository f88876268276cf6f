package keystore

import (
	"context"
	"os"
	"path/filepath"

	"github.com/allisson/phiguard/internal/errors"
)

const (
	dirMode  = 0o700
	fileMode = 0o600
)

// FileStore keeps one file per key in a private directory.
//
// Writes go to a temporary file in the same directory which is renamed over the
// target, so readers never observe a partially written value.
type FileStore struct {
	dir string
}

// NewFileStore creates the directory if needed and returns a FileStore rooted at it.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, errors.Wrap(errors.ErrInvalidInput, "key store path is required")
	}
	if err := os.MkdirAll(dir, dirMode); err != nil {
		return nil, errors.Wrapf(errors.ErrUnavailable, "failed to create key store directory: %v", err)
	}
	return &FileStore{dir: dir}, nil
}

func (f *FileStore) path(key string) string {
	return filepath.Join(f.dir, key+".key")
}

// Save atomically replaces the value of key.
func (f *FileStore) Save(ctx context.Context, key string, data []byte) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(f.dir, ".tmp-*")
	if err != nil {
		return errors.Wrapf(errors.ErrUnavailable, "failed to create temp file: %v", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if err := tmp.Chmod(fileMode); err != nil {
		_ = tmp.Close()
		return errors.Wrapf(errors.ErrUnavailable, "failed to set permissions: %v", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.Wrapf(errors.ErrUnavailable, "failed to write value: %v", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return errors.Wrapf(errors.ErrUnavailable, "failed to sync value: %v", err)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(errors.ErrUnavailable, "failed to close value: %v", err)
	}
	if err := os.Rename(tmpName, f.path(key)); err != nil {
		return errors.Wrapf(errors.ErrUnavailable, "failed to commit value: %v", err)
	}
	return nil
}

// Retrieve reads the value of key.
func (f *FileStore) Retrieve(ctx context.Context, key string) ([]byte, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.path(key))
	if os.IsNotExist(err) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(errors.ErrUnavailable, "failed to read value: %v", err)
	}
	return data, nil
}

// Delete removes the file backing key.
func (f *FileStore) Delete(ctx context.Context, key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	err := os.Remove(f.path(key))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(errors.ErrUnavailable, "failed to delete value: %v", err)
	}
	return nil
}
