package authsdk

// Role is a portal-wide user role.
type Role string

const (
	RoleUser    Role = "user"
	RoleAdmin   Role = "admin"
	RoleMentor  Role = "mentor"
	RoleCompany Role = "company"
)

// MentorStatus is the mentor approval workflow state. The zero value means
// the user never applied.
type MentorStatus string

const (
	MentorNone     MentorStatus = ""
	MentorPending  MentorStatus = "pending"
	MentorApproved MentorStatus = "approved"
	MentorRejected MentorStatus = "rejected"
)

// User is the profile returned by the gateway's login and current-user
// endpoints. It is replaced wholesale on every successful fetch.
type User struct {
	ID             string       `json:"id"`
	Email          string       `json:"email"`
	Name           string       `json:"name"`
	Role           Role         `json:"role"`
	MembershipTier string       `json:"membership_tier"`
	IsAdmin        bool         `json:"is_admin"`
	MentorStatus   MentorStatus `json:"mentor_status,omitempty"`
	ProfileImage   string       `json:"profile_image,omitempty"`
}

// TokenPair is the client-side view of the two bearer credentials. Both are
// opaque to the client; no expiry inspection happens here.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// TokenResponse is the gateway token payload shared by login, refresh and
// the OAuth callback redirect.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

// LoginResponse is the body of a successful POST /v1/auth/login.
type LoginResponse struct {
	TokenResponse

	User *User `json:"user"`
}

// SignupResponse is the body of a successful POST /v1/auth/signup. Signup
// deliberately has no session side effect; the UI logs in afterwards.
type SignupResponse struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// Provider identifies an external identity provider the gateway brokers.
type Provider string

const (
	ProviderGoogle Provider = "google"
	ProviderKakao  Provider = "kakao"
	// ProviderLegacy is the original James Company identity service that
	// predates the portal's own accounts.
	ProviderLegacy Provider = "legacy"
)

// HealthResponse is the body of the gateway's /livez and /readyz probes.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports per-dependency readiness.
type HealthChecks struct {
	Database  string   `json:"database"`
	Providers []string `json:"providers,omitempty"`
}

// CallbackResult reports where the application should navigate after a
// successful OAuth callback.
type CallbackResult struct {
	// Path is the recorded return-to path, or the default landing route.
	Path string
	// IsNew reports whether the gateway created the account during this login.
	IsNew bool
	// User is the fetched profile, nil when the best-effort fetch failed.
	User *User
}
