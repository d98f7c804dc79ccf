package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/oauth2"

	"github.com/jamescompany/qa-portal/internal/gateway/domain"
)

// LegacyProvider authenticates against the original James Company identity
// service that predates the portal's own accounts. It speaks plain OAuth2
// with a userinfo endpoint; all URLs come from configuration since the
// service runs on-premises.
type LegacyProvider struct {
	config      *oauth2.Config
	userInfoURL string
}

func NewLegacyProvider(baseURL, clientID, clientSecret, redirectURL string) *LegacyProvider {
	baseURL = strings.TrimSuffix(baseURL, "/")
	return &LegacyProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint: oauth2.Endpoint{
				AuthURL:  baseURL + "/oauth/authorize",
				TokenURL: baseURL + "/oauth/token",
			},
		},
		userInfoURL: baseURL + "/api/me",
	}
}

func (l *LegacyProvider) Name() string { return domain.ProviderLegacy }

func (l *LegacyProvider) AuthCodeURL(state string) string {
	return l.config.AuthCodeURL(state)
}

func (l *LegacyProvider) Identity(ctx context.Context, code string) (Identity, error) {
	token, err := l.config.Exchange(ctx, code)
	if err != nil {
		return Identity{}, fmt.Errorf("token exchange: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.userInfoURL, nil)
	if err != nil {
		return Identity{}, err
	}

	resp, err := l.config.Client(ctx, token).Do(req)
	if err != nil {
		return Identity{}, fmt.Errorf("fetch userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Identity{}, fmt.Errorf("userinfo returned HTTP %d", resp.StatusCode)
	}

	var payload struct {
		Email        string `json:"email"`
		Name         string `json:"name"`
		ProfileImage string `json:"profile_image"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Identity{}, fmt.Errorf("decode userinfo: %w", err)
	}

	if payload.Email == "" {
		return Identity{}, errNoEmail
	}
	return Identity{
		Email:   payload.Email,
		Name:    payload.Name,
		Picture: payload.ProfileImage,
	}, nil
}
