package authsdk

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// Transport is an http.RoundTripper decorator shared by every authenticated
// API call. On the way out it attaches the stored access token as a bearer
// credential; on a 401 it performs exactly one refresh-and-retry.
//
// Guarantees:
//   - at most one refresh call and one retried request per original request,
//     a second 401 on the retry is passed through untouched;
//   - a failed refresh deterministically ends the session via EndSession,
//     stale tokens never linger.
//
// Concurrent requests that 401 together each run their own refresh; the
// gateway tolerates that and the client stores whichever pair lands last.
type Transport struct {
	// Base performs the actual round trips. nil means http.DefaultTransport.
	Base http.RoundTripper

	// Tokens supplies the bearer credential and receives refreshed pairs.
	Tokens TokenStore

	// RefreshFunc exchanges a refresh token for a new pair over the network.
	// It must not touch the token store; the transport persists the result.
	RefreshFunc func(ctx context.Context, refreshToken string) (TokenPair, error)

	// EndSession is the documented logout path: clear tokens, clear session,
	// navigate to the login entry point. Invoked when a refresh fails.
	EndSession func()
}

// retriedKey marks a logical request as already retried, so a second 401
// can never trigger a second refresh, even through nested transports.
type retriedKey struct{}

func markRetried(req *http.Request) *http.Request {
	return req.WithContext(context.WithValue(req.Context(), retriedKey{}, true))
}

func isRetried(req *http.Request) bool {
	v, _ := req.Context().Value(retriedKey{}).(bool)
	return v
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	// RoundTrippers must not mutate the caller's request.
	out := req.Clone(req.Context())
	if access := t.Tokens.Access(); access != "" {
		out.Header.Set("Authorization", "Bearer "+access)
	}

	resp, err := t.base().RoundTrip(out)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized || isRetried(req) {
		return resp, nil
	}

	// A body we cannot replay cannot be retried safely.
	if req.Body != nil && req.GetBody == nil {
		return resp, nil
	}

	refresh := t.Tokens.Refresh()
	if refresh == "" {
		drain(resp)
		return nil, fmt.Errorf("%w: 401 with no refresh token", ErrSessionExpired)
	}
	drain(resp)

	pair, err := t.RefreshFunc(req.Context(), refresh)
	if err != nil {
		if t.EndSession != nil {
			t.EndSession()
		}
		return nil, fmt.Errorf("%w: %v", ErrRefreshExpired, err)
	}

	if err := t.Tokens.Set(pair.AccessToken, pair.RefreshToken); err != nil {
		return nil, fmt.Errorf("persist refreshed tokens: %w", err)
	}

	// Re-issue the original request once with the fresh credential. Its
	// outcome, success or failure, belongs to the caller.
	retry := markRetried(req.Clone(req.Context()))
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, fmt.Errorf("replay request body: %w", err)
		}
		retry.Body = body
	}
	retry.Header.Set("Authorization", "Bearer "+pair.AccessToken)

	return t.base().RoundTrip(retry)
}

// drain releases the response body so the underlying connection can be
// reused before the retry.
func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	_ = resp.Body.Close()
}
