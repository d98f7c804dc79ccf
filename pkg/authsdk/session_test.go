package authsdk_test

import (
	"testing"

	"github.com/jamescompany/qa-portal/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

// TestSessionStateAndTokensMoveTogether pins the lockstep invariant: after
// any mutation sequence, the session is authenticated exactly when an access
// token is stored.
func TestSessionStateAndTokensMoveTogether(t *testing.T) {
	t.Parallel()

	tokens := authsdk.NewMemoryTokenStore()
	session := authsdk.NewSession(tokens)

	check := func(t *testing.T) {
		t.Helper()
		require.Equal(t, session.Authenticated(), tokens.Access() != "")
	}

	check(t)

	user := &authsdk.User{ID: "u1", Email: "u1@jamescompany.kr", Role: authsdk.RoleUser}
	pair := authsdk.TokenPair{AccessToken: "access-1", RefreshToken: "refresh-1"}

	require.NoError(t, session.SetAuth(true, user, pair))
	check(t)
	require.True(t, session.Authenticated())
	require.Equal(t, user, session.User())
	require.Equal(t, "access-1", tokens.Access())

	require.NoError(t, session.Clear())
	check(t)
	require.False(t, session.Authenticated())
	require.Nil(t, session.User())
	require.Empty(t, tokens.Refresh())

	// Login again after a logout works from a clean slate.
	require.NoError(t, session.SetAuth(true, user, pair))
	check(t)

	require.NoError(t, session.SetAuth(false, nil, authsdk.TokenPair{}))
	check(t)
	require.False(t, session.Authenticated())
}

func TestSessionAuthenticatedWithNilUser(t *testing.T) {
	t.Parallel()

	session := authsdk.NewSession(authsdk.NewMemoryTokenStore())
	pair := authsdk.TokenPair{AccessToken: "access-1", RefreshToken: "refresh-1"}

	require.NoError(t, session.SetAuth(true, nil, pair))
	require.True(t, session.Authenticated())
	require.Nil(t, session.User())

	snap := session.Snapshot()
	require.True(t, snap.Authenticated)
	require.Nil(t, snap.User)
}

func TestSessionSetUserLeavesTokensAlone(t *testing.T) {
	t.Parallel()

	tokens := authsdk.NewMemoryTokenStore()
	session := authsdk.NewSession(tokens)
	require.NoError(t, session.SetAuth(true, nil, authsdk.TokenPair{
		AccessToken: "access-1", RefreshToken: "refresh-1",
	}))

	user := &authsdk.User{ID: "u1", Role: authsdk.RoleMentor, MentorStatus: authsdk.MentorApproved}
	session.SetUser(user)

	require.True(t, session.Authenticated())
	require.Equal(t, user, session.User())
	require.Equal(t, "access-1", tokens.Access())
	require.Equal(t, "refresh-1", tokens.Refresh())
}

func TestSessionSubscribe(t *testing.T) {
	t.Parallel()

	session := authsdk.NewSession(authsdk.NewMemoryTokenStore())

	var seen []authsdk.Snapshot
	unsubscribe := session.Subscribe(func(snap authsdk.Snapshot) {
		seen = append(seen, snap)
	})

	user := &authsdk.User{ID: "u1"}
	require.NoError(t, session.SetAuth(true, user, authsdk.TokenPair{AccessToken: "a"}))
	require.NoError(t, session.Clear())

	require.Len(t, seen, 2)
	require.True(t, seen[0].Authenticated)
	require.Equal(t, user, seen[0].User)
	require.False(t, seen[1].Authenticated)
	require.Nil(t, seen[1].User)

	unsubscribe()
	require.NoError(t, session.SetAuth(true, user, authsdk.TokenPair{AccessToken: "a"}))
	require.Len(t, seen, 2, "no notifications after unsubscribe")
}

func TestSessionSubscriberMayReadSession(t *testing.T) {
	t.Parallel()

	session := authsdk.NewSession(authsdk.NewMemoryTokenStore())

	var sawAuthenticated bool
	session.Subscribe(func(authsdk.Snapshot) {
		// Reading back during notification must not deadlock.
		sawAuthenticated = session.Authenticated()
	})

	require.NoError(t, session.SetAuth(true, nil, authsdk.TokenPair{AccessToken: "a"}))
	require.True(t, sawAuthenticated)
}
