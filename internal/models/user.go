package models

import "time"

const (
	NonMember = "non-member"
	Member    = "member"
)

// User represents a row in the PostgreSQL users table.
type User struct {
	ID               string    `json:"id"`
	Username         string    `json:"username"`
	PasswordHash     string    `json:"-"` // never serialize
	MembershipStatus string    `json:"membership_status"`
	IsAdmin          bool      `json:"is_admin"`
	CreatedAt        time.Time `json:"created_at"`
}

// Principal is the identity a request acts as. The zero value is anonymous.
type Principal struct {
	ID               string `json:"id,omitempty"`
	Username         string `json:"username,omitempty"`
	MembershipStatus string `json:"membership_status,omitempty"`
	IsAdmin          bool   `json:"is_admin"`
}

func Anonymous() Principal { return Principal{} }

func PrincipalFor(u *User) Principal {
	return Principal{
		ID:               u.ID,
		Username:         u.Username,
		MembershipStatus: u.MembershipStatus,
		IsAdmin:          u.IsAdmin,
	}
}

func (p Principal) Authenticated() bool { return p.ID != "" }

// SignUpRequest is the JSON body for POST /api/auth/sign-up.
type SignUpRequest struct {
	Username        string `json:"username" validate:"required,min=3,max=255"`
	Password        string `json:"password" validate:"required,min=6,max=72"`
	ConfirmPassword string `json:"confirm_password" validate:"eqfield=Password"`
}

// LoginRequest is the JSON body for POST /api/auth/log-in.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SecretRequest is the JSON body for the club join and admin endpoints.
type SecretRequest struct {
	Secret string `json:"secret"`
}
