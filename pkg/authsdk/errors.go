package authsdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrInvalidCredentials is returned when the gateway rejects a login.
	// The session is unaffected; the form should show an inline error.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrRefreshExpired is returned when the gateway rejects the refresh
	// token. Handling it always forces a logout; stale tokens never survive it.
	ErrRefreshExpired = errors.New("refresh token expired")

	// ErrUnauthenticated is returned when an operation requiring a stored
	// access token ran with none present.
	ErrUnauthenticated = errors.New("no access token stored")

	// ErrSessionExpired is returned when a request got a 401 and no refresh
	// token exists to attempt recovery.
	ErrSessionExpired = errors.New("session expired")

	// ErrMissingToken is returned when an OAuth callback carried neither a
	// token nor an error code.
	ErrMissingToken = errors.New("oauth callback carried no token")
)

// APIError is a structured error response from the gateway.
type APIError struct {
	StatusCode  int    `json:"-"`
	Code        string `json:"error"`
	Description string `json:"error_description"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// OAuthCallbackError is a provider or gateway error delivered on the OAuth
// callback route, mapped to a fixed user-facing message.
type OAuthCallbackError struct {
	// Code is the raw error code from the callback query string.
	Code string
	// Message is the fixed human-readable message for Code.
	Message string
}

func (e *OAuthCallbackError) Error() string { return e.Message }

// oauthErrorMessages is the closed mapping from callback error codes to
// user-facing messages. Codes outside the table get genericOAuthMessage.
var oauthErrorMessages = map[string]string{
	"access_denied":      "Login was cancelled.",
	"invalid_state":      "Your login attempt expired. Please try again.",
	"google_auth_failed": "Google sign-in failed. Please try again.",
	"kakao_auth_failed":  "Kakao sign-in failed. Please try again.",
	"legacy_auth_failed": "James Company ID sign-in failed. Please try again.",
	"provider_not_found": "This sign-in method is not available.",
	"email_conflict":     "This email is already registered with a different sign-in method.",
}

const genericOAuthMessage = "Something went wrong during sign-in. Please try again."

func mapOAuthError(code string) *OAuthCallbackError {
	msg, ok := oauthErrorMessages[code]
	if !ok {
		msg = genericOAuthMessage
	}
	return &OAuthCallbackError{Code: code, Message: msg}
}

// parseErrorResponse turns a non-2xx gateway response body into an APIError.
// The body may be empty or non-JSON; the status code alone still produces a
// usable error.
func parseErrorResponse(resp *http.Response, body []byte) error {
	var apiErr APIError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Code != "" {
		apiErr.StatusCode = resp.StatusCode
		return &apiErr
	}

	return &APIError{
		StatusCode:  resp.StatusCode,
		Code:        "server_error",
		Description: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
