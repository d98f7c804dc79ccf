package http

import (
	"errors"
	"net/http"

	"github.com/jamescompany/qa-portal/internal/gateway/service"
	"github.com/jamescompany/qa-portal/pkg/httpx"
	"github.com/jamescompany/qa-portal/pkg/slogx"
)

// MeHandler serves GET /v1/auth/me behind bearer authentication.
type MeHandler struct {
	AuthService *service.AuthService
}

func (h *MeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID := httpx.UserIDFromContext(ctx)
	if userID == "" {
		errInvalidToken.WriteError(w)
		return
	}

	user, err := h.AuthService.CurrentUser(ctx, userID)
	if err != nil {
		// A valid token whose subject was deleted reads as unauthenticated.
		if errors.Is(err, service.ErrUserNotFound) {
			errInvalidToken.WriteError(w)
			return
		}
		log.Error("current user lookup failed", "err", err)
		errServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toUserPayload(user))
}

// LogoutHandler serves POST /v1/auth/logout: revokes every live refresh token
// for the authenticated user. The SPA does not call this on normal logout;
// it exists for "sign out everywhere" and for admins handling a compromise.
type LogoutHandler struct {
	AuthService *service.AuthService
}

func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID := httpx.UserIDFromContext(ctx)
	if userID == "" {
		errInvalidToken.WriteError(w)
		return
	}

	if err := h.AuthService.Logout(ctx, userID); err != nil {
		log.Error("logout revocation failed", "err", err)
		errServerError.WriteError(w)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
