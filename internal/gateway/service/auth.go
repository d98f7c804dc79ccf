package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jamescompany/qa-portal/internal/gateway/domain"
	"github.com/jamescompany/qa-portal/internal/gateway/store"
	"github.com/jamescompany/qa-portal/pkg/cryptox"
	"github.com/jamescompany/qa-portal/pkg/idx"
	"github.com/jamescompany/qa-portal/pkg/jwtx"
	"github.com/jamescompany/qa-portal/pkg/slogx"
)

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrEmailTaken         = errors.New("email_taken")
	ErrInvalidRefresh     = errors.New("invalid_refresh_token")
	ErrEmailConflict      = errors.New("email_conflict")
	ErrUserNotFound       = errors.New("user_not_found")
)

// AuthService implements the credential flows: password login, signup,
// refresh rotation and profile lookup. External (OAuth) logins funnel into
// LoginExternal after the provider exchange.
type AuthService struct {
	Store      store.Store
	Signer     *jwtx.Signer
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Login validates the email/password pair and issues tokens. Every failure
// mode collapses into ErrInvalidCredentials so responses cannot be used to
// probe which emails exist.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.TokenPair, domain.User, error) {
	log := slogx.FromContext(ctx)
	email = normalizeEmail(email)

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domain.User{}, ErrInvalidCredentials
		}
		return nil, domain.User{}, err
	}

	// External accounts have no password; they must go through their provider.
	if user.PasswordHash == "" {
		return nil, domain.User{}, ErrInvalidCredentials
	}
	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		log.Info("password login rejected", slog.String("user_id", user.ID))
		return nil, domain.User{}, ErrInvalidCredentials
	}

	pair, err := s.issuePair(ctx, s.Store.RefreshTokens(), user)
	if err != nil {
		return nil, domain.User{}, err
	}
	return pair, user, nil
}

// Signup registers a local account. It issues no tokens; the client logs in
// afterwards.
func (s *AuthService) Signup(ctx context.Context, email, password, name string) (domain.User, error) {
	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:             idx.New().String(),
		Email:          normalizeEmail(email),
		Name:           name,
		PasswordHash:   hash,
		Role:           domain.RoleUser,
		MembershipTier: "free",
		Provider:       domain.ProviderLocal,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrEmailTaken
		}
		return domain.User{}, err
	}
	return user, nil
}

// Refresh rotates the refresh token: the presented token is revoked and a
// new pair is issued, atomically. A revoked, expired or unknown token yields
// ErrInvalidRefresh.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	now := time.Now().UTC()
	hash := cryptox.FingerprintToken(refreshToken)

	var pair *domain.TokenPair
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		record, err := tx.RefreshTokens().GetRefreshTokenByHash(ctx, hash)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInvalidRefresh
			}
			return err
		}
		if record.Revoked || now.After(record.ExpiresAt) {
			return ErrInvalidRefresh
		}

		user, err := tx.Users().GetUserByID(ctx, record.UserID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInvalidRefresh
			}
			return err
		}

		if err := tx.RefreshTokens().RevokeRefreshToken(ctx, hash); err != nil {
			return err
		}

		pair, err = s.issuePair(ctx, tx.RefreshTokens(), user)
		return err
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// CurrentUser returns the profile behind an access token's subject.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (domain.User, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

// Logout revokes every live refresh token for the user. The access token
// stays valid until expiry; it is short-lived by design of the flows.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	return s.Store.RefreshTokens().RevokeAllUserRefreshTokens(ctx, userID)
}

// LoginExternal completes an OAuth login for a provider-verified identity:
// find-or-create the account, refresh the cached profile fields, issue
// tokens. The reported bool is true when the account was created just now.
func (s *AuthService) LoginExternal(ctx context.Context, ident Identity, provider string) (*domain.TokenPair, domain.User, bool, error) {
	log := slogx.FromContext(ctx)
	email := normalizeEmail(ident.Email)

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	switch {
	case errors.Is(err, store.ErrNotFound):
		now := time.Now().UTC()
		user = domain.User{
			ID:             idx.New().String(),
			Email:          email,
			Name:           ident.Name,
			Role:           domain.RoleUser,
			MembershipTier: "free",
			Provider:       provider,
			ProfileImage:   optional(ident.Picture),
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := s.Store.Users().CreateUser(ctx, user); err != nil {
			// Lost a race with a concurrent first login for the same email.
			if errors.Is(err, store.ErrAlreadyExists) {
				return nil, domain.User{}, false, ErrEmailConflict
			}
			return nil, domain.User{}, false, err
		}
		log.Info("external account created",
			slog.String("user_id", user.ID), slog.String("provider", provider))

		pair, err := s.issuePair(ctx, s.Store.RefreshTokens(), user)
		if err != nil {
			return nil, domain.User{}, false, err
		}
		return pair, user, true, nil

	case err != nil:
		return nil, domain.User{}, false, err
	}

	// The email is bound to whichever provider registered it first.
	if user.Provider != provider {
		return nil, domain.User{}, false, ErrEmailConflict
	}

	// Freshen cached profile data; a failure here must not block the login.
	if ident.Name != "" && (ident.Name != user.Name || !sameImage(user.ProfileImage, ident.Picture)) {
		if err := s.Store.Users().UpdateProfile(ctx, user.ID, ident.Name, optional(ident.Picture)); err != nil {
			log.Warn("profile refresh failed", slog.String("user_id", user.ID), "err", err)
		} else {
			user.Name = ident.Name
			user.ProfileImage = optional(ident.Picture)
		}
	}

	pair, err := s.issuePair(ctx, s.Store.RefreshTokens(), user)
	if err != nil {
		return nil, domain.User{}, false, err
	}
	return pair, user, false, nil
}

// issuePair mints an access JWT and a fresh opaque refresh token, storing
// the refresh fingerprint through rt (which may be tx-scoped).
func (s *AuthService) issuePair(ctx context.Context, rt store.RefreshTokens, user domain.User) (*domain.TokenPair, error) {
	now := time.Now().UTC()

	access, err := s.Signer.Issue(user.ID, user.Email, user.Role, s.AccessTTL, now)
	if err != nil {
		return nil, err
	}

	refresh, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return nil, err
	}

	record := domain.RefreshToken{
		ID:        idx.New().String(),
		UserID:    user.ID,
		TokenHash: cryptox.FingerprintToken(refresh),
		ExpiresAt: now.Add(s.RefreshTTL),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := rt.CreateRefreshToken(ctx, record); err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    s.AccessTTL,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func sameImage(current *string, incoming string) bool {
	if current == nil {
		return incoming == ""
	}
	return *current == incoming
}
