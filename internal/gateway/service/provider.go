package service

import (
	"context"
	"errors"
)

// ErrProviderNotFound is returned for a provider name the gateway does not
// broker.
var ErrProviderNotFound = errors.New("provider_not_found")

// Identity is the provider-verified subset of a profile the gateway needs to
// find or create an account.
type Identity struct {
	Email   string
	Name    string
	Picture string
}

// IdentityProvider abstracts one external identity provider. The gateway owns
// the full code exchange; the SPA only ever sees the gateway's endpoints.
type IdentityProvider interface {
	// Name is the provider's path segment ("google", "kakao", "legacy").
	Name() string

	// AuthCodeURL is the provider consent URL carrying the given CSRF state.
	AuthCodeURL(state string) string

	// Identity exchanges the authorization code and returns the verified
	// identity. An email is mandatory; providers that cannot supply one fail.
	Identity(ctx context.Context, code string) (Identity, error)
}

// ProviderSet holds the configured providers keyed by name.
type ProviderSet struct {
	providers map[string]IdentityProvider
}

func NewProviderSet(providers ...IdentityProvider) *ProviderSet {
	set := &ProviderSet{providers: make(map[string]IdentityProvider, len(providers))}
	for _, p := range providers {
		set.providers[p.Name()] = p
	}
	return set
}

// Get returns the named provider or ErrProviderNotFound.
func (s *ProviderSet) Get(name string) (IdentityProvider, error) {
	p, ok := s.providers[name]
	if !ok {
		return nil, ErrProviderNotFound
	}
	return p, nil
}

var errNoEmail = errors.New("provider returned no email")
