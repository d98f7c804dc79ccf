package authsdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// FileTokenStore persists the token pair as a JSON file, surviving process
// restarts. Writes go through a temp file and rename so the pair is replaced
// atomically and a crash never leaves a half-written file.
type FileTokenStore struct {
	mu   sync.RWMutex
	path string

	// cached last-read state; the file stays authoritative across processes
	loaded bool
	pair   storedTokens
}

type storedTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

func (s *FileTokenStore) Set(access, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loadLocked()
	s.pair.AccessToken = access
	if refresh != "" {
		s.pair.RefreshToken = refresh
	}
	return s.writeLocked()
}

func (s *FileTokenStore) Access() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loadLocked()
	return s.pair.AccessToken
}

func (s *FileTokenStore) Refresh() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loadLocked()
	return s.pair.RefreshToken
}

func (s *FileTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pair = storedTokens{}
	s.loaded = true

	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("clear token file: %w", err)
	}
	return nil
}

func (s *FileTokenStore) loadLocked() {
	if s.loaded {
		return
	}
	s.loaded = true

	data, err := os.ReadFile(s.path)
	if err != nil {
		return // absent or unreadable file means no stored tokens
	}
	_ = json.Unmarshal(data, &s.pair)
}

func (s *FileTokenStore) writeLocked() error {
	data, err := json.Marshal(s.pair)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tokens-*")
	if err != nil {
		return fmt.Errorf("create temp token file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write token file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod token file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), s.path)
}
