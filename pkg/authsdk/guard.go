package authsdk

// Requirement is the access rule attached to a protected route.
type Requirement int

const (
	// RequireNone gates on authentication only.
	RequireNone Requirement = iota
	// RequireAdmin renders only for admins.
	RequireAdmin
	// RequireMentor renders for approved mentors; pending and rejected
	// applicants get blocking views instead. Admins bypass the status check.
	RequireMentor
)

// DecisionKind discriminates RouteDecision.
type DecisionKind int

const (
	// DecideRender renders the protected subtree.
	DecideRender DecisionKind = iota
	// DecideRedirect navigates away silently, replacing the history entry.
	DecideRedirect
	// DecideBlock renders an explanatory blocking view in place of the
	// subtree. Unlike a redirect, the user sees why they were stopped.
	DecideBlock
)

// BlockKind names the blocking view to render.
type BlockKind int

const (
	// BlockMentorPending shows the "awaiting approval" view.
	BlockMentorPending BlockKind = iota
	// BlockMentorRejected shows the "access denied" view with rejection
	// messaging.
	BlockMentorRejected
)

// RouteDecision is the guard's verdict for one render of a protected route.
type RouteDecision struct {
	Kind  DecisionKind
	Path  string    // set when Kind == DecideRedirect
	Block BlockKind // set when Kind == DecideBlock
}

// Decide evaluates the protected-route table for the given session state.
// It is pure and runs fresh on every render; nothing is cached.
//
// Unauthenticated visitors always redirect to the login route. Authenticated
// ones pass unless the route requires a role: admin routes redirect
// non-admins home, mentor routes branch on the mentor approval status, with
// admins bypassing that gate entirely.
func Decide(snap Snapshot, req Requirement) RouteDecision {
	if !snap.Authenticated {
		return RouteDecision{Kind: DecideRedirect, Path: PathLogin}
	}

	switch req {
	case RequireAdmin:
		if snap.User != nil && snap.User.Role == RoleAdmin {
			return RouteDecision{Kind: DecideRender}
		}
		return RouteDecision{Kind: DecideRedirect, Path: PathHome}

	case RequireMentor:
		if snap.User != nil && snap.User.Role == RoleAdmin {
			return RouteDecision{Kind: DecideRender}
		}
		var status MentorStatus
		if snap.User != nil {
			status = snap.User.MentorStatus
		}
		switch status {
		case MentorPending:
			return RouteDecision{Kind: DecideBlock, Block: BlockMentorPending}
		case MentorRejected:
			return RouteDecision{Kind: DecideBlock, Block: BlockMentorRejected}
		case MentorApproved:
			return RouteDecision{Kind: DecideRender}
		default:
			return RouteDecision{Kind: DecideRedirect, Path: PathHome}
		}

	default:
		return RouteDecision{Kind: DecideRender}
	}
}
