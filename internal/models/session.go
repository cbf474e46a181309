package models

import "time"

// Credentials are posted to the backend login endpoint.
type Credentials struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

// LoginResult is the backend's answer to a successful login.
type LoginResult struct {
	AccessToken string  `json:"access_token"`
	Token       string  `json:"token"`
	User        Account `json:"user"`
}

// BearerToken returns whichever token field the backend filled.
func (r LoginResult) BearerToken() string {
	if r.AccessToken != "" {
		return r.AccessToken
	}
	return r.Token
}

// SessionUser is the logged-in user kept in the cookie session.
type SessionUser struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	UserType   UserType  `json:"user_type"`
	Department string    `json:"department,omitempty"`
	Token      string    `json:"token"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// Expired reports whether the token has expired at now. A zero expiry never expires.
func (u SessionUser) Expired(now time.Time) bool {
	return !u.ExpiresAt.IsZero() && !now.Before(u.ExpiresAt)
}

// HasRole reports whether the user has any of roles.
func (u SessionUser) HasRole(roles ...UserType) bool {
	for _, r := range roles {
		if u.UserType == r {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the user is an admin.
func (u SessionUser) IsAdmin() bool { return u.UserType == UserTypeAdmin }
