package authsdk

import (
	"context"
	"net/url"
)

// StartOAuthLogin begins an external login. It records currentPath so the
// callback can send the user back where they were, then navigates the full
// page to the gateway's authorize endpoint for the provider. The gateway
// performs the actual provider exchange; the client never talks to Google,
// Kakao or the legacy identity service directly.
func (a *Auth) StartOAuthLogin(provider Provider, currentPath string) {
	a.returns.Save(currentPath)
	a.nav.Navigate(a.client.AuthorizeURL(provider))
}

// HandleOAuthCallback consumes the query parameters the gateway attached
// when redirecting back to the SPA callback route.
//
// Error precedence: a provider error code wins, then a missing token, then
// success. On success the tokens are persisted and the session becomes
// authenticated even if the follow-up profile fetch fails; the token is
// authoritative for "logged in", the profile is best-effort enrichment.
// The recorded return-to path is consumed exactly once.
func (a *Auth) HandleOAuthCallback(ctx context.Context, params url.Values) (*CallbackResult, error) {
	if code := params.Get("error"); code != "" {
		return nil, mapOAuthError(code)
	}

	access := params.Get("token")
	if access == "" {
		return nil, ErrMissingToken
	}
	pair := TokenPair{
		AccessToken:  access,
		RefreshToken: params.Get("refresh_token"),
	}

	// Persist first so the profile fetch below can authenticate.
	if err := a.tokens.Set(pair.AccessToken, pair.RefreshToken); err != nil {
		return nil, err
	}

	// Best-effort: a down profile endpoint must not undo a valid login.
	user, err := a.client.CurrentUser(ctx, a.httpClient)
	if err != nil {
		user = nil
	}

	if err := a.session.SetAuth(true, user, pair); err != nil {
		return nil, err
	}

	dest, ok := a.returns.Pop()
	if !ok || dest == "" {
		dest = PathHome
	}
	a.nav.Navigate(dest)

	return &CallbackResult{
		Path:  dest,
		IsNew: params.Get("isNew") == "true",
		User:  user,
	}, nil
}
