package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jamescompany/qa-portal/internal/gateway/service"
	"github.com/jamescompany/qa-portal/pkg/httpx"
	"github.com/jamescompany/qa-portal/pkg/slogx"
)

// RefreshHandler serves POST /v1/auth/refresh. Every successful call rotates
// the refresh token; the presented one is dead afterwards.
type RefreshHandler struct {
	AuthService *service.AuthService
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		errInvalidRequest.WriteError(w)
		return
	}

	pair, err := h.AuthService.Refresh(ctx, req.RefreshToken)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRefresh) {
			errInvalidGrant.WriteError(w)
			return
		}
		log.Error("refresh failed", "err", err)
		errServerError.WriteError(w)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, toTokenPayload(pair))
}
