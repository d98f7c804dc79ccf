package authsdk

import (
	"context"
	"net/http"
)

// Route constants shared by the guard and the logout/OAuth flows.
const (
	// PathLogin is the login entry point every unauthenticated redirect
	// lands on.
	PathLogin = "/login"
	// PathHome is the default authenticated landing route.
	PathHome = "/"
)

// Config configures an Auth. Zero values get working defaults.
type Config struct {
	// BaseURL of the auth gateway, e.g. "https://portal.jamescompany.kr/api".
	BaseURL string

	// HTTPClient used for credential exchanges. Defaults to the Client's own.
	HTTPClient *http.Client

	// Tokens persists the token pair. Defaults to an in-memory store.
	Tokens TokenStore

	// Returns records the OAuth return-to path. Defaults to in-memory.
	Returns ReturnStore

	// Navigator receives navigation requests. Defaults to a no-op.
	Navigator Navigator
}

// Auth wires the gateway client, token store, session and navigator into the
// portal's authentication flows. It is the only writer of session state.
type Auth struct {
	client  *Client
	tokens  TokenStore
	session *Session
	returns ReturnStore
	nav     Navigator

	httpClient *http.Client // intercepted client for authenticated API calls
}

func New(cfg Config) *Auth {
	client := NewClient(cfg.BaseURL)
	if cfg.HTTPClient != nil {
		client.HTTPClient = cfg.HTTPClient
	}

	tokens := cfg.Tokens
	if tokens == nil {
		tokens = NewMemoryTokenStore()
	}
	returns := cfg.Returns
	if returns == nil {
		returns = NewMemoryReturnStore()
	}
	var nav Navigator = NavigatorFuncs{}
	if cfg.Navigator != nil {
		nav = cfg.Navigator
	}

	a := &Auth{
		client:  client,
		tokens:  tokens,
		session: NewSession(tokens),
		returns: returns,
		nav:     nav,
	}

	a.httpClient = &http.Client{
		Transport: &Transport{
			Base:        client.HTTPClient.Transport,
			Tokens:      tokens,
			RefreshFunc: a.refreshTokens,
			EndSession:  a.Logout,
		},
		Timeout: client.HTTPClient.Timeout,
	}

	return a
}

// Session exposes read access and change subscription to UI consumers.
func (a *Auth) Session() *Session { return a.session }

// HTTPClient returns the intercepted client every authenticated API call
// should go through: bearer attachment plus single refresh-and-retry on 401.
func (a *Auth) HTTPClient() *http.Client { return a.httpClient }

// Client returns the underlying gateway client.
func (a *Auth) Client() *Client { return a.client }

// Login authenticates with email/password, persists the token pair and
// flips the session to authenticated. Failure leaves the session untouched.
func (a *Auth) Login(ctx context.Context, email, password string) (*User, error) {
	resp, err := a.client.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	pair := TokenPair{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken}
	if err := a.session.SetAuth(true, resp.User, pair); err != nil {
		return nil, err
	}
	return resp.User, nil
}

// Signup registers an account. No session side effect.
func (a *Auth) Signup(ctx context.Context, email, password, name string) (*SignupResponse, error) {
	return a.client.Signup(ctx, email, password, name)
}

// CurrentUser fetches the profile for the stored token and replaces the
// session's user on success. Fails with ErrUnauthenticated when no access
// token is stored.
func (a *Auth) CurrentUser(ctx context.Context) (*User, error) {
	if a.tokens.Access() == "" {
		return nil, ErrUnauthenticated
	}

	user, err := a.client.CurrentUser(ctx, a.httpClient)
	if err != nil {
		return nil, err
	}

	a.session.SetUser(user)
	return user, nil
}

// Logout is terminal, synchronous and side-effect-only: clear the token
// store, clear the session, move the app to the login entry point. No
// network call happens here.
func (a *Auth) Logout() {
	_ = a.session.Clear()
	a.nav.Replace(PathLogin)
}

// refreshTokens is the Transport's refresh hook: network exchange only, the
// transport persists the result.
func (a *Auth) refreshTokens(ctx context.Context, refreshToken string) (TokenPair, error) {
	resp, err := a.client.Refresh(ctx, refreshToken)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken}, nil
}
