package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/jamescompany/qa-portal/internal/gateway/service"
	"github.com/jamescompany/qa-portal/pkg/httpx"
	"github.com/jamescompany/qa-portal/pkg/slogx"
)

const minPasswordLength = 8

// SignupHandler serves POST /v1/auth/signup.
type SignupHandler struct {
	AuthService *service.AuthService
}

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type signupResponse struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

func (h *SignupHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errInvalidRequest.WriteError(w)
		return
	}
	if !strings.Contains(req.Email, "@") || len(req.Password) < minPasswordLength || req.Name == "" {
		errInvalidRequest.WriteError(w)
		return
	}

	user, err := h.AuthService.Signup(ctx, req.Email, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			errEmailTaken.WriteError(w)
			return
		}
		log.Error("signup failed", "err", err)
		errServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, signupResponse{
		UserID: user.ID,
		Email:  user.Email,
	})
}
