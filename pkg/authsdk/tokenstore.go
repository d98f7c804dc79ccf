package authsdk

import "sync"

// TokenStore persists the access/refresh token pair. It is a dumb persistent
// map: no validation, expiry checking or encryption happens here. The pair is
// always written and cleared together.
type TokenStore interface {
	// Set overwrites both tokens. An empty refresh keeps the stored one,
	// matching a gateway that rotates refresh tokens only sometimes.
	Set(access, refresh string) error

	// Access returns the stored access token, or "".
	Access() string

	// Refresh returns the stored refresh token, or "".
	Refresh() string

	// Clear removes both tokens.
	Clear() error
}

// MemoryTokenStore keeps tokens in process memory only. It mirrors the
// tab-lifetime semantics of browser session storage and is the default store.
type MemoryTokenStore struct {
	mu      sync.RWMutex
	access  string
	refresh string
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

func (s *MemoryTokenStore) Set(access, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.access = access
	if refresh != "" {
		s.refresh = refresh
	}
	return nil
}

func (s *MemoryTokenStore) Access() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.access
}

func (s *MemoryTokenStore) Refresh() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refresh
}

func (s *MemoryTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.access = ""
	s.refresh = ""
	return nil
}
