package authsdk_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/jamescompany/qa-portal/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

func newIntercepted(t *testing.T, tokens authsdk.TokenStore, refresh func(ctx context.Context, refreshToken string) (authsdk.TokenPair, error), endSession func()) *http.Client {
	t.Helper()
	return &http.Client{
		Transport: &authsdk.Transport{
			Tokens:      tokens,
			RefreshFunc: refresh,
			EndSession:  endSession,
		},
	}
}

func TestTransportAttachesBearer(t *testing.T) {
	t.Parallel()

	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
	}))
	defer srv.Close()

	tokens := authsdk.NewMemoryTokenStore()
	require.NoError(t, tokens.Set("access-1", "refresh-1"))

	client := newIntercepted(t, tokens, nil, nil)
	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()

	require.Equal(t, "Bearer access-1", gotAuth)
}

func TestTransportNoTokenNoHeader(t *testing.T) {
	t.Parallel()

	var gotAuth string
	var hadHeader bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, hadHeader = r.Header["Authorization"]
	}))
	defer srv.Close()

	client := newIntercepted(t, authsdk.NewMemoryTokenStore(), nil, nil)
	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()

	require.False(t, hadHeader, "no stored token means no Authorization header")
	require.Empty(t, gotAuth)
}

// TestTransportRefreshAndRetry covers the silent-recovery path: first call
// 401s, one refresh happens, the retried call carries the fresh credential
// and its response reaches the caller as if nothing happened.
func TestTransportRefreshAndRetry(t *testing.T) {
	t.Parallel()

	var calls int32
	var retryAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		retryAuth = r.Header.Get("Authorization")
		io.WriteString(w, `{"ok":true}`)
	}))
	defer srv.Close()

	tokens := authsdk.NewMemoryTokenStore()
	require.NoError(t, tokens.Set("stale-access", "refresh-1"))

	var refreshCalls int32
	refresh := func(ctx context.Context, refreshToken string) (authsdk.TokenPair, error) {
		atomic.AddInt32(&refreshCalls, 1)
		require.Equal(t, "refresh-1", refreshToken)
		return authsdk.TokenPair{AccessToken: "fresh-access", RefreshToken: "refresh-2"}, nil
	}

	client := newIntercepted(t, tokens, refresh, func() {
		t.Fatal("EndSession must not run on a successful refresh")
	})

	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.JSONEq(t, `{"ok":true}`, string(body))
	require.Equal(t, int32(2), atomic.LoadInt32(&calls))
	require.Equal(t, int32(1), atomic.LoadInt32(&refreshCalls))
	require.Equal(t, "Bearer fresh-access", retryAuth)

	// The rotated pair was persisted for subsequent requests.
	require.Equal(t, "fresh-access", tokens.Access())
	require.Equal(t, "refresh-2", tokens.Refresh())
}

// TestTransportSecondUnauthorizedPassesThrough pins the at-most-once rule:
// when the retried request 401s again, the response goes back to the caller
// with no further refresh attempt.
func TestTransportSecondUnauthorizedPassesThrough(t *testing.T) {
	t.Parallel()

	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	tokens := authsdk.NewMemoryTokenStore()
	require.NoError(t, tokens.Set("stale-access", "refresh-1"))

	var refreshCalls int32
	refresh := func(ctx context.Context, refreshToken string) (authsdk.TokenPair, error) {
		atomic.AddInt32(&refreshCalls, 1)
		return authsdk.TokenPair{AccessToken: "fresh-access", RefreshToken: ""}, nil
	}

	client := newIntercepted(t, tokens, refresh, nil)
	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()

	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, int32(2), atomic.LoadInt32(&calls), "exactly one retry")
	require.Equal(t, int32(1), atomic.LoadInt32(&refreshCalls), "exactly one refresh")
}

// TestTransportRefreshFailureEndsSession covers the expired-refresh path:
// the session teardown hook runs and the caller sees ErrRefreshExpired, not
// the raw 401.
func TestTransportRefreshFailureEndsSession(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	tokens := authsdk.NewMemoryTokenStore()
	require.NoError(t, tokens.Set("stale-access", "dead-refresh"))

	refresh := func(ctx context.Context, refreshToken string) (authsdk.TokenPair, error) {
		return authsdk.TokenPair{}, errors.New("refresh rejected")
	}

	var endedSession bool
	client := newIntercepted(t, tokens, refresh, func() {
		endedSession = true
		tokens.Clear()
	})

	resp, err := client.Get(srv.URL) //nolint:bodyclose // error path returns no body
	require.ErrorIs(t, err, authsdk.ErrRefreshExpired)
	require.Nil(t, resp)
	require.True(t, endedSession)
	require.Empty(t, tokens.Access(), "teardown wiped the stale tokens")
}

func TestTransportNoRefreshTokenSignalsSessionExpired(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	tokens := authsdk.NewMemoryTokenStore()
	require.NoError(t, tokens.Set("stale-access", ""))

	client := newIntercepted(t, tokens, func(ctx context.Context, _ string) (authsdk.TokenPair, error) {
		t.Fatal("no refresh attempt without a refresh token")
		return authsdk.TokenPair{}, nil
	}, nil)

	resp, err := client.Get(srv.URL) //nolint:bodyclose // error path returns no body
	require.ErrorIs(t, err, authsdk.ErrSessionExpired)
	require.Nil(t, resp)
}

func TestTransportReplaysRequestBodyOnRetry(t *testing.T) {
	t.Parallel()

	var calls int32
	var retryBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		b, _ := io.ReadAll(r.Body)
		retryBody = string(b)
	}))
	defer srv.Close()

	tokens := authsdk.NewMemoryTokenStore()
	require.NoError(t, tokens.Set("stale-access", "refresh-1"))

	refresh := func(ctx context.Context, _ string) (authsdk.TokenPair, error) {
		return authsdk.TokenPair{AccessToken: "fresh-access"}, nil
	}

	client := newIntercepted(t, tokens, refresh, nil)
	resp, err := client.Post(srv.URL, "application/json", strings.NewReader(`{"q":"cypress"}`))
	require.NoError(t, err)
	resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, `{"q":"cypress"}`, retryBody)
}

func TestTransportOtherStatusesPassThrough(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	tokens := authsdk.NewMemoryTokenStore()
	require.NoError(t, tokens.Set("access-1", "refresh-1"))

	client := newIntercepted(t, tokens, func(ctx context.Context, _ string) (authsdk.TokenPair, error) {
		t.Fatal("non-401 statuses never trigger a refresh")
		return authsdk.TokenPair{}, nil
	}, nil)

	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestTransportDoesNotMutateCallerRequest(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	tokens := authsdk.NewMemoryTokenStore()
	require.NoError(t, tokens.Set("access-1", "refresh-1"))

	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)

	client := newIntercepted(t, tokens, nil, nil)
	resp, err := client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	require.Empty(t, req.Header.Get("Authorization"))
}
