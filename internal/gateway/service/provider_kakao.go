package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/jamescompany/qa-portal/internal/gateway/domain"
)

const (
	kakaoAuthURL     = "https://kauth.kakao.com/oauth/authorize"
	kakaoTokenURL    = "https://kauth.kakao.com/oauth/token"
	kakaoUserInfoURL = "https://kapi.kakao.com/v2/user/me"
)

// KakaoProvider authenticates through Kakao's OAuth2 flow. Kakao is plain
// OAuth2 (no OIDC ID token), so the identity comes from a userinfo fetch
// with the exchanged access token.
type KakaoProvider struct {
	config      *oauth2.Config
	userInfoURL string
}

func NewKakaoProvider(clientID, clientSecret, redirectURL string) *KakaoProvider {
	return &KakaoProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint: oauth2.Endpoint{
				AuthURL:  kakaoAuthURL,
				TokenURL: kakaoTokenURL,
			},
			Scopes: []string{"account_email", "profile_nickname", "profile_image"},
		},
		userInfoURL: kakaoUserInfoURL,
	}
}

func (k *KakaoProvider) Name() string { return domain.ProviderKakao }

func (k *KakaoProvider) AuthCodeURL(state string) string {
	return k.config.AuthCodeURL(state)
}

func (k *KakaoProvider) Identity(ctx context.Context, code string) (Identity, error) {
	token, err := k.config.Exchange(ctx, code)
	if err != nil {
		return Identity{}, fmt.Errorf("token exchange: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, k.userInfoURL, nil)
	if err != nil {
		return Identity{}, err
	}

	resp, err := k.config.Client(ctx, token).Do(req)
	if err != nil {
		return Identity{}, fmt.Errorf("fetch userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Identity{}, fmt.Errorf("userinfo returned HTTP %d", resp.StatusCode)
	}

	var payload struct {
		KakaoAccount struct {
			Email   string `json:"email"`
			Profile struct {
				Nickname        string `json:"nickname"`
				ProfileImageURL string `json:"profile_image_url"`
			} `json:"profile"`
		} `json:"kakao_account"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Identity{}, fmt.Errorf("decode userinfo: %w", err)
	}

	account := payload.KakaoAccount
	if account.Email == "" {
		return Identity{}, errNoEmail
	}
	return Identity{
		Email:   account.Email,
		Name:    account.Profile.Nickname,
		Picture: account.Profile.ProfileImageURL,
	}, nil
}
