package authsdk_test

import (
	"fmt"
	"testing"

	"github.com/jamescompany/qa-portal/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

func snapshotFor(role authsdk.Role, status authsdk.MentorStatus) authsdk.Snapshot {
	return authsdk.Snapshot{
		Authenticated: true,
		User: &authsdk.User{
			ID:           "u1",
			Email:        "u1@jamescompany.kr",
			Role:         role,
			MentorStatus: status,
		},
	}
}

func TestDecideUnauthenticatedAlwaysRedirectsToLogin(t *testing.T) {
	t.Parallel()

	for _, req := range []authsdk.Requirement{
		authsdk.RequireNone, authsdk.RequireAdmin, authsdk.RequireMentor,
	} {
		got := authsdk.Decide(authsdk.Snapshot{}, req)
		require.Equal(t, authsdk.DecideRedirect, got.Kind)
		require.Equal(t, authsdk.PathLogin, got.Path)
	}
}

func TestDecideNoRequirementRendersForAnyAuthenticatedUser(t *testing.T) {
	t.Parallel()

	got := authsdk.Decide(snapshotFor(authsdk.RoleUser, authsdk.MentorNone), authsdk.RequireNone)
	require.Equal(t, authsdk.RouteDecision{Kind: authsdk.DecideRender}, got)

	// A profile-less session still renders unguarded routes.
	got = authsdk.Decide(authsdk.Snapshot{Authenticated: true}, authsdk.RequireNone)
	require.Equal(t, authsdk.RouteDecision{Kind: authsdk.DecideRender}, got)
}

func TestDecideAdminRequirement(t *testing.T) {
	t.Parallel()

	t.Run("admin renders", func(t *testing.T) {
		got := authsdk.Decide(snapshotFor(authsdk.RoleAdmin, authsdk.MentorNone), authsdk.RequireAdmin)
		require.Equal(t, authsdk.RouteDecision{Kind: authsdk.DecideRender}, got)
	})

	t.Run("non-admin redirects home", func(t *testing.T) {
		for _, role := range []authsdk.Role{authsdk.RoleUser, authsdk.RoleMentor, authsdk.RoleCompany} {
			got := authsdk.Decide(snapshotFor(role, authsdk.MentorNone), authsdk.RequireAdmin)
			require.Equal(t, authsdk.DecideRedirect, got.Kind, "role=%s", role)
			require.Equal(t, authsdk.PathHome, got.Path)
		}
	})

	t.Run("authenticated with nil user redirects home", func(t *testing.T) {
		got := authsdk.Decide(authsdk.Snapshot{Authenticated: true}, authsdk.RequireAdmin)
		require.Equal(t, authsdk.DecideRedirect, got.Kind)
		require.Equal(t, authsdk.PathHome, got.Path)
	})
}

// TestDecideMentorRequirementTable pins the full role x mentor-status
// decision table, including the admin bypass and the difference between a
// silent redirect and an explicit blocking view.
func TestDecideMentorRequirementTable(t *testing.T) {
	t.Parallel()

	render := authsdk.RouteDecision{Kind: authsdk.DecideRender}
	redirectHome := authsdk.RouteDecision{Kind: authsdk.DecideRedirect, Path: authsdk.PathHome}
	blockPending := authsdk.RouteDecision{Kind: authsdk.DecideBlock, Block: authsdk.BlockMentorPending}
	blockRejected := authsdk.RouteDecision{Kind: authsdk.DecideBlock, Block: authsdk.BlockMentorRejected}

	cases := []struct {
		role   authsdk.Role
		status authsdk.MentorStatus
		want   authsdk.RouteDecision
	}{
		{authsdk.RoleUser, authsdk.MentorPending, blockPending},
		{authsdk.RoleUser, authsdk.MentorApproved, render},
		{authsdk.RoleUser, authsdk.MentorRejected, blockRejected},
		{authsdk.RoleUser, authsdk.MentorNone, redirectHome},

		// Admins bypass the status gate in every state.
		{authsdk.RoleAdmin, authsdk.MentorPending, render},
		{authsdk.RoleAdmin, authsdk.MentorApproved, render},
		{authsdk.RoleAdmin, authsdk.MentorRejected, render},
		{authsdk.RoleAdmin, authsdk.MentorNone, render},

		{authsdk.RoleMentor, authsdk.MentorPending, blockPending},
		{authsdk.RoleMentor, authsdk.MentorApproved, render},
		{authsdk.RoleMentor, authsdk.MentorRejected, blockRejected},
		{authsdk.RoleMentor, authsdk.MentorNone, redirectHome},

		{authsdk.RoleCompany, authsdk.MentorPending, blockPending},
		{authsdk.RoleCompany, authsdk.MentorApproved, render},
		{authsdk.RoleCompany, authsdk.MentorRejected, blockRejected},
		{authsdk.RoleCompany, authsdk.MentorNone, redirectHome},
	}

	for _, tc := range cases {
		name := fmt.Sprintf("role=%s status=%q", tc.role, string(tc.status))
		t.Run(name, func(t *testing.T) {
			got := authsdk.Decide(snapshotFor(tc.role, tc.status), authsdk.RequireMentor)
			require.Equal(t, tc.want, got)
		})
	}

	t.Run("unknown status value redirects home", func(t *testing.T) {
		got := authsdk.Decide(snapshotFor(authsdk.RoleUser, authsdk.MentorStatus("maybe")), authsdk.RequireMentor)
		require.Equal(t, redirectHome, got)
	})

	t.Run("nil user redirects home", func(t *testing.T) {
		got := authsdk.Decide(authsdk.Snapshot{Authenticated: true}, authsdk.RequireMentor)
		require.Equal(t, redirectHome, got)
	})
}
