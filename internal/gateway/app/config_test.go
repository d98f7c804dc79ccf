package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()

	require.Equal(t, "qa-portal-gateway", cfg.Issuer)
	require.Equal(t, "gateway.db", cfg.DatabaseFile)
	require.Equal(t, "dev", cfg.Env)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	require.Equal(t, 30*24*time.Hour, cfg.RefreshTokenTTL)
	require.Equal(t, time.Hour, cfg.HousekeepingInterval)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("AUTH_ISSUER", "qa-portal-staging")
	t.Setenv("AUTH_JWT_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("AUTH_KAKAO_CLIENT_ID", "kakao-app")
	t.Setenv("PORT", "9000")
	t.Setenv("AUTH_ACCESS_TOKEN_TTL", "5m")
	t.Setenv("AUTH_REFRESH_TOKEN_TTL", "168h")

	cfg := LoadConfig()

	require.Equal(t, "qa-portal-staging", cfg.Issuer)
	require.Equal(t, "0123456789abcdef0123456789abcdef", cfg.JWTSecret)
	require.Equal(t, "kakao-app", cfg.KakaoClientID)
	require.Equal(t, 9000, cfg.Port)
	require.Equal(t, 5*time.Minute, cfg.AccessTokenTTL)
	require.Equal(t, 7*24*time.Hour, cfg.RefreshTokenTTL)
}

func TestDurationEnvAcceptsBareMinutes(t *testing.T) {
	t.Setenv("AUTH_ACCESS_TOKEN_TTL", "30")
	cfg := LoadConfig()
	require.Equal(t, 30*time.Minute, cfg.AccessTokenTTL)

	t.Setenv("AUTH_ACCESS_TOKEN_TTL", "not-a-duration")
	cfg = LoadConfig()
	require.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
}
