package http

import (
	"net/http"

	"github.com/jamescompany/qa-portal/pkg/authsdk"
)

// Wire errors shared by the gateway handlers. The APIError type and its JSON
// shape live in pkg/authsdk so the SDK decodes exactly what we write.
var (
	errInvalidRequest = &authsdk.APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        "invalid_request",
		Description: "the request is malformed or missing required parameters",
	}

	errInvalidCredentials = &authsdk.APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        "invalid_credentials",
		Description: "email or password is incorrect",
	}

	errInvalidGrant = &authsdk.APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        "invalid_grant",
		Description: "refresh token is invalid, expired or revoked",
	}

	errInvalidToken = &authsdk.APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        "invalid_token",
		Description: "access token is invalid or its subject no longer exists",
	}

	errEmailTaken = &authsdk.APIError{
		StatusCode:  http.StatusConflict,
		Code:        "email_taken",
		Description: "an account with this email already exists",
	}

	errServerError = &authsdk.APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        "server_error",
		Description: "the server encountered an unexpected condition",
	}
)
