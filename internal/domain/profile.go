package domain

import (
	"strings"
	"time"
)

// Profile is the local record of an identity-provider user.
type Profile struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	FullName  string    `json:"full_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DisplayUsername returns the username, falling back to the email local part.
func (p *Profile) DisplayUsername() string {
	if u := strings.TrimSpace(p.Username); u != "" {
		return u
	}
	local, _, _ := strings.Cut(p.Email, "@")
	return local
}

// DisplayName returns the full name, falling back to the username.
func (p *Profile) DisplayName() string {
	if n := strings.TrimSpace(p.FullName); n != "" {
		return n
	}
	return p.DisplayUsername()
}
