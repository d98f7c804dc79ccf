package authsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client performs the credential-exchange calls against the auth gateway.
// It never touches session state; orchestration lives on Auth.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a gateway client with a sane request timeout.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Login exchanges email/password for a token pair and the user profile.
// A 401 from the gateway surfaces as ErrInvalidCredentials.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	body := map[string]string{"email": email, "password": password}

	var out LoginResponse
	err := c.postJSON(ctx, "/v1/auth/login", body, http.StatusOK, &out)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
			return nil, fmt.Errorf("%w: %s", ErrInvalidCredentials, apiErr.Description)
		}
		return nil, err
	}
	if out.AccessToken == "" {
		return nil, errors.New("login response carried no access token")
	}
	return &out, nil
}

// Signup registers a new account. It has no session side effect; callers
// typically follow up with Login.
func (c *Client) Signup(ctx context.Context, email, password, name string) (*SignupResponse, error) {
	body := map[string]string{"email": email, "password": password, "name": name}

	var out SignupResponse
	if err := c.postJSON(ctx, "/v1/auth/signup", body, http.StatusCreated, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Refresh exchanges a refresh token for a new pair. A 401 surfaces as
// ErrRefreshExpired.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	body := map[string]string{"refresh_token": refreshToken}

	var out TokenResponse
	err := c.postJSON(ctx, "/v1/auth/refresh", body, http.StatusOK, &out)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
			return nil, fmt.Errorf("%w: %s", ErrRefreshExpired, apiErr.Description)
		}
		return nil, err
	}
	return &out, nil
}

// CurrentUser fetches the profile for the bearer token carried by httpClient.
// It is meant to be called with the intercepted client so an expired access
// token is refreshed transparently.
func (c *Client) CurrentUser(ctx context.Context, httpClient *http.Client) (*User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url("/v1/auth/me"), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch current user: %w", err)
	}

	var out User
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// AuthorizeURL is the gateway endpoint that begins an OAuth login with the
// given provider. The gateway, not the SPA, talks to the provider.
func (c *Client) AuthorizeURL(provider Provider) string {
	return c.url("/v1/oauth/" + string(provider) + "/authorize")
}

func (c *Client) url(path string) string {
	return c.BaseURL + path
}

func (c *Client) postJSON(ctx context.Context, path string, body any, expectedStatus int, target any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(path), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}

	return decodeJSON(resp, target, expectedStatus)
}

// decodeJSON decodes a response into target, turning non-expected statuses
// into typed APIErrors.
func decodeJSON(resp *http.Response, target any, expectedStatus int) error {
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode != expectedStatus {
		return parseErrorResponse(resp, bodyBytes)
	}

	if err := json.Unmarshal(bodyBytes, target); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
