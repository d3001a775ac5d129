// Package credential persists the user's API credentials.
//
// Values are stored in plain text in a per-user JSON file with mode 0600.
// Callers depend on the Store interface so a keychain-backed
// implementation can replace FileStore without changing them.
package credential

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"
)

// Well-known credential names.
const (
	GitHubToken = "githubToken"
	AIAPIKey    = "aiApiKey"
)

const fileName = "credentials.json"

// Store is durable key-value storage for credentials.
type Store interface {
	// Get returns the stored value and whether it exists.
	Get(name string) (string, bool, error)
	// Set writes value through to durable storage before returning.
	Set(name, value string) error
}

// Credentials is the snapshot loaded at startup.
type Credentials struct {
	GitHubToken string
	AIAPIKey    string
}

// Load reads both well-known credentials from s. Missing values are empty.
func Load(s Store) (Credentials, error) {
	var c Credentials
	var err error
	if c.GitHubToken, _, err = s.Get(GitHubToken); err != nil {
		return Credentials{}, fmt.Errorf("load %s: %w", GitHubToken, err)
	}
	if c.AIAPIKey, _, err = s.Get(AIAPIKey); err != nil {
		return Credentials{}, fmt.Errorf("load %s: %w", AIAPIKey, err)
	}
	return c, nil
}

// FileStore keeps credentials in a single JSON object on disk.
type FileStore struct {
	mu   sync.Mutex
	fs   afero.Fs
	path string
}

// NewFileStore returns a store backed by path on fs. The file is created on
// the first Set.
func NewFileStore(fs afero.Fs, path string) *FileStore {
	return &FileStore{fs: fs, path: path}
}

// DefaultPath returns <user config dir>/gh-search/credentials.json.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "gh-search", fileName), nil
}

// Path returns the file backing the store.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Get(name string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return "", false, err
	}
	v, ok := values[name]
	return v, ok, nil
}

func (s *FileStore) Set(name, value string) error {
	if name == "" {
		return errors.New("credential name required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return err
	}
	values[name] = value
	return s.save(values)
}

func (s *FileStore) load() (map[string]string, error) {
	values := map[string]string{}
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return values, nil
		}
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	if len(data) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parse credentials %s: %w", s.path, err)
	}
	return values, nil
}

func (s *FileStore) save(values map[string]string) error {
	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create credentials dir: %w", err)
	}
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, 0o600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	if err := s.fs.Rename(tmp, s.path); err != nil {
		_ = s.fs.Remove(tmp)
		return fmt.Errorf("rename credentials: %w", err)
	}
	return nil
}
