package gateway_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	httpapi "github.com/jamescompany/qa-portal/internal/gateway/http"
	"github.com/jamescompany/qa-portal/internal/gateway/service"
	"github.com/jamescompany/qa-portal/internal/gateway/store/drivers/sqlite"
	"github.com/jamescompany/qa-portal/pkg/authsdk"
	"github.com/jamescompany/qa-portal/pkg/jwtx"
	"github.com/jamescompany/qa-portal/pkg/slogx"
	"github.com/stretchr/testify/require"
)

/*
 * Helpers for gateway end-to-end tests. These boot the whole gateway stack
 * in-process (sqlite in memory, real router, real middleware) and drive it
 * through the SDK the SPA uses, so both halves are verified against each
 * other.
 */

const (
	testEmail    = "qa@jamescompany.kr"
	testPassword = "correct-horse-battery"
	testName     = "QA Lead"

	spaCallbackURL = "https://portal.jamescompany.kr/auth/callback"
)

// startGateway boots a fully wired gateway on an ephemeral port.
func startGateway(t *testing.T, providers ...service.IdentityProvider) string {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	signer, err := jwtx.NewSigner([]byte("0123456789abcdef0123456789abcdef"), "qa-portal-test")
	require.NoError(t, err)

	logger := slogx.New(slogx.Config{Service: "gateway-e2e", Level: "error", Format: "text"})
	router := httpapi.NewRouter(signer, "e2e", st, logger)
	router.AuthService = &service.AuthService{
		Store:      st,
		Signer:     signer,
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 30 * 24 * time.Hour,
	}
	router.Providers = service.NewProviderSet(providers...)
	router.SPACallbackURL = spaCallbackURL
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv.URL
}

// startLegacyIdentityStub fakes the legacy identity service: it accepts any
// authorization code and reports a fixed account.
func startLegacyIdentityStub(t *testing.T, email, name string) string {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /oauth/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "legacy-access",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("GET /api/me", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"email": email, "name": name})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv.URL
}

// recordingNavigator captures navigation requests instead of moving a page.
type recordingNavigator struct {
	mu        sync.Mutex
	navigated []string
	replaced  []string
}

func (n *recordingNavigator) Navigate(url string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.navigated = append(n.navigated, url)
}

func (n *recordingNavigator) Replace(url string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.replaced = append(n.replaced, url)
}

func (n *recordingNavigator) lastReplaced() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.replaced) == 0 {
		return ""
	}
	return n.replaced[len(n.replaced)-1]
}

// newSDK builds the SPA-side auth facade against a running gateway.
func newSDK(baseURL string) (*authsdk.Auth, authsdk.TokenStore, *recordingNavigator) {
	tokens := authsdk.NewMemoryTokenStore()
	nav := &recordingNavigator{}
	auth := authsdk.New(authsdk.Config{
		BaseURL:   baseURL,
		Tokens:    tokens,
		Navigator: nav,
	})
	return auth, tokens, nav
}

// registerAccount provisions the standard test account through the public
// signup endpoint.
func registerAccount(t *testing.T, auth *authsdk.Auth) {
	t.Helper()
	resp, err := auth.Signup(t.Context(), testEmail, testPassword, testName)
	require.NoError(t, err)
	require.NotEmpty(t, resp.UserID)
}
