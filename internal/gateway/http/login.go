package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jamescompany/qa-portal/internal/gateway/service"
	"github.com/jamescompany/qa-portal/pkg/httpx"
	"github.com/jamescompany/qa-portal/pkg/slogx"
)

// LoginHandler serves POST /v1/auth/login.
type LoginHandler struct {
	AuthService *service.AuthService
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	tokenPayload

	User userPayload `json:"user"`
}

func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Password == "" {
		errInvalidRequest.WriteError(w)
		return
	}

	pair, user, err := h.AuthService.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			errInvalidCredentials.WriteError(w)
			return
		}
		log.Error("login failed", "err", err)
		errServerError.WriteError(w)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, loginResponse{
		tokenPayload: toTokenPayload(pair),
		User:         toUserPayload(user),
	})
}
