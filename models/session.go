package models

import (
	"time"

	"github.com/google/uuid"
)

// Role mirrors the backend's user_role enum.
type Role string

const (
	RoleGuest Role = "guest"
	RoleOwner Role = "owner"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleGuest, RoleOwner, RoleAdmin:
		return true
	}
	return false
}

// Session is the identity a caller acts as. It is passed explicitly to every
// operation that depends on who is asking; a nil *Session is an anonymous guest.
type Session struct {
	Token              string     `json:"token"`
	UserID             uuid.UUID  `json:"userId"`
	Name               string     `json:"name"`
	Email              string     `json:"email"`
	Role               Role       `json:"role"`
	IsSubscribed       bool       `json:"isSubscribed"`
	SubscriptionExpiry *time.Time `json:"subscriptionExpiry,omitempty"`
	ExpiresAt          time.Time  `json:"expiresAt"`
}

// EffectiveRole returns the session's role, treating nil or unknown roles as guest.
func (s *Session) EffectiveRole() Role {
	if s == nil || !s.Role.Valid() {
		return RoleGuest
	}
	return s.Role
}

// Is reports whether the session carries the given role.
func (s *Session) Is(role Role) bool {
	return s.EffectiveRole() == role
}

// Expired reports whether the session is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return s == nil || (!s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt))
}
