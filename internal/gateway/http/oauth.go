package http

import (
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jamescompany/qa-portal/internal/gateway/domain"
	"github.com/jamescompany/qa-portal/internal/gateway/service"
	"github.com/jamescompany/qa-portal/pkg/cryptox"
	"github.com/jamescompany/qa-portal/pkg/slogx"
)

const (
	oauthStateCookieName = "qa_portal_oauth_state"
	oauthStateCookieTTL  = 10 * time.Minute
)

// oauthStatePayload holds the CSRF state and optional return path.
type oauthStatePayload struct {
	State    string `json:"s"`
	ReturnTo string `json:"r,omitempty"`
}

// isValidRedirectPath validates that a path is a safe relative redirect.
// It prevents open redirects by requiring a single leading "/" and rejecting
// anything with a scheme or host, including encoded bypasses like /%2f%2f.
func isValidRedirectPath(path string) bool {
	if path == "" {
		return false
	}

	decoded, err := url.QueryUnescape(path)
	if err != nil {
		return false
	}

	if !strings.HasPrefix(decoded, "/") || strings.HasPrefix(decoded, "//") {
		return false
	}

	parsed, err := url.Parse(decoded)
	if err != nil {
		return false
	}
	return parsed.Scheme == "" && parsed.Host == ""
}

// OAuthHandler brokers external logins: it sends the browser to the provider
// consent screen and completes the round trip on the provider's callback. The
// callback NEVER returns an error status; every failure becomes a redirect to
// the SPA callback route with an error code the SDK knows how to present.
type OAuthHandler struct {
	AuthService *service.AuthService
	Providers   *service.ProviderSet

	// SPACallbackURL is the SPA route that consumes the result, e.g.
	// "https://portal.jamescompany.kr/auth/callback".
	SPACallbackURL string

	// SecureCookies should be false only in local development.
	SecureCookies bool
}

// HandleAuthorize serves GET /v1/oauth/{provider}/authorize.
func (h *OAuthHandler) HandleAuthorize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	provider, err := h.Providers.Get(r.PathValue("provider"))
	if err != nil {
		h.redirectWithError(w, r, "provider_not_found")
		return
	}

	state, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		log.Error("state generation failed", "err", err)
		errServerError.WriteError(w)
		return
	}

	// The cookie half of the state is what makes the callback CSRF-proof.
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookieName,
		Value:    state,
		Path:     "/v1/oauth",
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(oauthStateCookieTTL.Seconds()),
	})

	payload := oauthStatePayload{State: state}
	if returnTo := r.URL.Query().Get("return_to"); isValidRedirectPath(returnTo) {
		payload.ReturnTo = returnTo
	}

	// Base64 JSON keeps the provider-visible state free of delimiter issues.
	stateJSON, _ := json.Marshal(payload)
	fullState := base64.RawURLEncoding.EncodeToString(stateJSON)

	http.Redirect(w, r, provider.AuthCodeURL(fullState), http.StatusTemporaryRedirect)
}

// HandleCallback serves GET /v1/oauth/{provider}/callback.
func (h *OAuthHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	providerName := r.PathValue("provider")
	provider, err := h.Providers.Get(providerName)
	if err != nil {
		h.redirectWithError(w, r, "provider_not_found")
		return
	}

	stateCookie, err := r.Cookie(oauthStateCookieName)
	if err != nil {
		log.Warn("oauth callback: missing state cookie")
		h.redirectWithError(w, r, "invalid_state")
		return
	}

	stateBytes, err := base64.RawURLEncoding.DecodeString(r.URL.Query().Get("state"))
	if err != nil {
		log.Warn("oauth callback: invalid state encoding")
		h.redirectWithError(w, r, "invalid_state")
		return
	}
	var payload oauthStatePayload
	if err := json.Unmarshal(stateBytes, &payload); err != nil {
		log.Warn("oauth callback: invalid state payload")
		h.redirectWithError(w, r, "invalid_state")
		return
	}
	if subtle.ConstantTimeCompare([]byte(payload.State), []byte(stateCookie.Value)) != 1 {
		log.Warn("oauth callback: state mismatch")
		h.redirectWithError(w, r, "invalid_state")
		return
	}

	h.clearStateCookie(w)

	// A provider-side denial or failure comes back as an error param.
	if errParam := r.URL.Query().Get("error"); errParam != "" {
		log.Warn("oauth callback: provider error", "provider", providerName, "error", errParam)
		if errParam == "access_denied" {
			h.redirectWithError(w, r, "access_denied")
		} else {
			h.redirectWithError(w, r, providerName+"_auth_failed")
		}
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		h.redirectWithError(w, r, "invalid_state")
		return
	}

	ident, err := provider.Identity(ctx, code)
	if err != nil {
		log.Warn("oauth callback: identity exchange failed", "provider", providerName, "err", err)
		h.redirectWithError(w, r, providerName+"_auth_failed")
		return
	}

	pair, _, isNew, err := h.AuthService.LoginExternal(ctx, ident, providerName)
	if err != nil {
		if errors.Is(err, service.ErrEmailConflict) {
			h.redirectWithError(w, r, "email_conflict")
			return
		}
		log.Error("oauth callback: login failed", "provider", providerName, "err", err)
		h.redirectWithError(w, r, providerName+"_auth_failed")
		return
	}

	dest := h.callbackURL()
	q := dest.Query()
	q.Set("token", pair.AccessToken)
	q.Set("refresh_token", pair.RefreshToken)
	if isNew {
		q.Set("isNew", "true")
	}
	if payload.ReturnTo != "" {
		q.Set("return_to", payload.ReturnTo)
	}
	dest.RawQuery = q.Encode()

	http.Redirect(w, r, dest.String(), http.StatusFound)
}

func (h *OAuthHandler) redirectWithError(w http.ResponseWriter, r *http.Request, code string) {
	dest := h.callbackURL()
	q := dest.Query()
	q.Set("error", code)
	dest.RawQuery = q.Encode()
	http.Redirect(w, r, dest.String(), http.StatusFound)
}

func (h *OAuthHandler) callbackURL() *url.URL {
	u, err := url.Parse(h.SPACallbackURL)
	if err != nil {
		// Misconfiguration; fall back to a root-relative callback route.
		return &url.URL{Path: "/auth/callback"}
	}
	return u
}

func (h *OAuthHandler) clearStateCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookieName,
		Value:    "",
		Path:     "/v1/oauth",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.SecureCookies,
	})
}

// providerNames reports the configured provider set for readiness output.
func providerNames(set *service.ProviderSet) []string {
	names := make([]string, 0, 3)
	for _, name := range []string{domain.ProviderGoogle, domain.ProviderKakao, domain.ProviderLegacy} {
		if _, err := set.Get(name); err == nil {
			names = append(names, name)
		}
	}
	return names
}
