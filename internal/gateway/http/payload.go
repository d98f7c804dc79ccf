package http

import (
	"time"

	"github.com/jamescompany/qa-portal/internal/gateway/domain"
)

// userPayload is the wire shape of a user profile. It matches the SDK's User
// type field for field.
type userPayload struct {
	ID             string  `json:"id"`
	Email          string  `json:"email"`
	Name           string  `json:"name"`
	Role           string  `json:"role"`
	MembershipTier string  `json:"membership_tier"`
	IsAdmin        bool    `json:"is_admin"`
	MentorStatus   *string `json:"mentor_status,omitempty"`
	ProfileImage   *string `json:"profile_image,omitempty"`
}

func toUserPayload(u domain.User) userPayload {
	return userPayload{
		ID:             u.ID,
		Email:          u.Email,
		Name:           u.Name,
		Role:           u.Role,
		MembershipTier: u.MembershipTier,
		IsAdmin:        u.IsAdmin,
		MentorStatus:   u.MentorStatus,
		ProfileImage:   u.ProfileImage,
	}
}

// tokenPayload is the wire shape of an issued token pair.
type tokenPayload struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

func toTokenPayload(pair *domain.TokenPair) tokenPayload {
	return tokenPayload{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
		ExpiresIn:    int(pair.ExpiresIn / time.Second),
	}
}
