package authsdk

import "sync"

// Navigator is where the SDK sends the application when a flow demands a
// page change: the OAuth authorize redirect, the post-callback return-to
// jump, and the forced move to the login route on logout.
type Navigator interface {
	// Navigate performs a normal navigation, pushing a history entry.
	Navigate(url string)

	// Replace navigates while replacing the current history entry, so
	// back-navigation cannot loop into a guarded page.
	Replace(url string)
}

// NavigatorFuncs adapts two functions to the Navigator interface. A nil
// function makes that operation a no-op.
type NavigatorFuncs struct {
	NavigateFunc func(url string)
	ReplaceFunc  func(url string)
}

func (n NavigatorFuncs) Navigate(url string) {
	if n.NavigateFunc != nil {
		n.NavigateFunc(url)
	}
}

func (n NavigatorFuncs) Replace(url string) {
	if n.ReplaceFunc != nil {
		n.ReplaceFunc(url)
	}
}

// ReturnStore records the path to return to after an OAuth round trip. It is
// short-lived by contract: one Save, one Pop.
type ReturnStore interface {
	// Save records path, replacing any previous record.
	Save(path string)

	// Pop returns the recorded path and removes it. The second return is
	// false when nothing was recorded.
	Pop() (string, bool)
}

// MemoryReturnStore is the default one-shot ReturnStore.
type MemoryReturnStore struct {
	mu    sync.Mutex
	path  string
	saved bool
}

func NewMemoryReturnStore() *MemoryReturnStore {
	return &MemoryReturnStore{}
}

func (s *MemoryReturnStore) Save(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.path, s.saved = path, true
}

func (s *MemoryReturnStore) Pop() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, ok := s.path, s.saved
	s.path, s.saved = "", false
	return path, ok
}
