package domain

import "time"

// Portal roles. Stored as plain strings so new roles are a data change.
const (
	RoleUser    = "user"
	RoleAdmin   = "admin"
	RoleMentor  = "mentor"
	RoleCompany = "company"
)

// Mentor approval workflow states.
const (
	MentorPending  = "pending"
	MentorApproved = "approved"
	MentorRejected = "rejected"
)

// Account providers. Local accounts carry a password hash; external ones
// authenticate through the provider every time.
const (
	ProviderLocal  = "local"
	ProviderGoogle = "google"
	ProviderKakao  = "kakao"
	ProviderLegacy = "legacy"
)

type User struct {
	ID             string
	Email          string
	Name           string
	PasswordHash   string // argon2 encoded, empty for external accounts
	Role           string
	MembershipTier string
	IsAdmin        bool
	Provider       string
	MentorStatus   *string // nil until the user applies for mentorship
	ProfileImage   *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
