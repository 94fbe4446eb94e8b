package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the credentials file inside the client config dir.
const FileName = "credentials.yaml"

// DefaultDir returns the client config dir, honouring INKLINE_HOME.
func DefaultDir() (string, error) {
	if dir := os.Getenv("INKLINE_HOME"); dir != "" {
		return dir, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(base, "inkline"), nil
}

// FileStore persists the identity as YAML with owner-only permissions.
type FileStore struct {
	Path string
}

// NewFileStore stores credentials in dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{Path: filepath.Join(dir, FileName)}
}

// Load returns nil without error when no credentials were saved.
func (f *FileStore) Load() (*Identity, error) {
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}

	var id Identity
	if err := yaml.Unmarshal(data, &id); err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	if id.Token == "" {
		return nil, nil
	}
	return &id, nil
}

func (f *FileStore) Save(id *Identity) error {
	data, err := yaml.Marshal(id)
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(f.Path, data, 0o600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	return nil
}

func (f *FileStore) Remove() error {
	err := os.Remove(f.Path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove credentials: %w", err)
	}
	return nil
}
