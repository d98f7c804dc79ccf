package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jamescompany/qa-portal/internal/gateway/domain"
	"github.com/stretchr/testify/require"
)

func TestProviderSet(t *testing.T) {
	t.Parallel()

	kakao := NewKakaoProvider("app-key", "app-secret", "http://localhost/cb")
	set := NewProviderSet(kakao)

	got, err := set.Get(domain.ProviderKakao)
	require.NoError(t, err)
	require.Equal(t, kakao, got)

	_, err = set.Get("github")
	require.ErrorIs(t, err, ErrProviderNotFound)
	_, err = set.Get(domain.ProviderGoogle)
	require.ErrorIs(t, err, ErrProviderNotFound)
}

func TestKakaoAuthCodeURL(t *testing.T) {
	t.Parallel()

	kakao := NewKakaoProvider("app-key", "app-secret", "http://localhost/cb")
	u := kakao.AuthCodeURL("state-token")

	require.Contains(t, u, kakaoAuthURL)
	require.Contains(t, u, "state=state-token")
	require.Contains(t, u, "client_id=app-key")
}

// TestLegacyProviderIdentity drives the full code-for-identity exchange
// against a stub of the legacy identity service.
func TestLegacyProviderIdentity(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /oauth/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		require.Equal(t, "good-code", r.Form.Get("code"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "legacy-access",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("GET /api/me", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer legacy-access", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]string{
			"email":         "veteran@jamescompany.kr",
			"name":          "Veteran Tester",
			"profile_image": "https://legacy.jamescompany.kr/img/7.png",
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	legacy := NewLegacyProvider(srv.URL, "portal", "portal-secret", "http://localhost/cb")

	ident, err := legacy.Identity(context.Background(), "good-code")
	require.NoError(t, err)
	require.Equal(t, "veteran@jamescompany.kr", ident.Email)
	require.Equal(t, "Veteran Tester", ident.Name)
	require.Equal(t, "https://legacy.jamescompany.kr/img/7.png", ident.Picture)

	t.Run("missing email fails the exchange", func(t *testing.T) {
		mux.HandleFunc("GET /api/me-no-email", func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]string{"name": "No Email"})
		})
		bare := NewLegacyProvider(srv.URL, "portal", "portal-secret", "http://localhost/cb")
		bare.userInfoURL = srv.URL + "/api/me-no-email"

		_, err := bare.Identity(context.Background(), "good-code")
		require.ErrorIs(t, err, errNoEmail)
	})
}
