package authsdk

import "sync"

// Session is the single source of truth for "is someone logged in and who".
// Every UI surface reads from it; only the auth flows in this package write
// to it. The token store is updated through the same mutation entry points,
// which keeps the authenticated flag and the stored access token in lockstep.
type Session struct {
	mu            sync.RWMutex
	tokens        TokenStore
	authenticated bool
	user          *User

	subs    map[int]func(Snapshot)
	nextSub int
}

// Snapshot is an immutable read of the session state.
type Snapshot struct {
	Authenticated bool
	User          *User
}

func NewSession(tokens TokenStore) *Session {
	return &Session{
		tokens: tokens,
		subs:   make(map[int]func(Snapshot)),
	}
}

// SetAuth is the sole mutation entry point after a successful credential
// exchange. It persists the token pair and flips the session state together.
// user may be nil: token validity is independent of profile-fetch success.
func (s *Session) SetAuth(authenticated bool, user *User, pair TokenPair) error {
	s.mu.Lock()

	var err error
	if authenticated {
		err = s.tokens.Set(pair.AccessToken, pair.RefreshToken)
	} else {
		err = s.tokens.Clear()
	}
	if err != nil {
		s.mu.Unlock()
		return err
	}

	s.authenticated = authenticated
	s.user = user
	snap, subs := s.snapshotLocked(), s.subscribersLocked()
	s.mu.Unlock()

	notify(subs, snap)
	return nil
}

// SetUser replaces the profile without touching tokens or the authenticated
// flag. Used when a current-user refetch completes.
func (s *Session) SetUser(user *User) {
	s.mu.Lock()
	s.user = user
	snap, subs := s.snapshotLocked(), s.subscribersLocked()
	s.mu.Unlock()

	notify(subs, snap)
}

// Clear drops tokens and session state together. This is the logout path's
// state transition; navigation is handled by the caller.
func (s *Session) Clear() error {
	s.mu.Lock()

	if err := s.tokens.Clear(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.authenticated = false
	s.user = nil
	snap, subs := s.snapshotLocked(), s.subscribersLocked()
	s.mu.Unlock()

	notify(subs, snap)
	return nil
}

// Authenticated reports whether a login or OAuth callback has succeeded and
// not been logged out since.
func (s *Session) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

// User returns the current profile, which may be nil even when
// authenticated.
func (s *Session) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Snapshot returns a consistent read of both fields.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Subscribe registers fn to run after every state change. The returned
// function removes the subscription.
func (s *Session) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{Authenticated: s.authenticated, User: s.user}
}

func (s *Session) subscribersLocked() []func(Snapshot) {
	subs := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	return subs
}

// notify runs outside the session lock so subscribers may read the session.
func notify(subs []func(Snapshot), snap Snapshot) {
	for _, fn := range subs {
		fn(snap)
	}
}
