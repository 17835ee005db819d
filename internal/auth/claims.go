package auth

import (
	"time"
)

// Claims are the identity claims carried in a token.
// Username and Name are optional; profile resolution falls back to the email.
type Claims struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Username string `json:"username,omitempty"`
	Name     string `json:"name,omitempty"`

	// Standard PASETO claims
	Issuer     string    `json:"iss"`
	Subject    string    `json:"sub"`
	Audience   string    `json:"aud"`
	Expiration time.Time `json:"exp"`
	NotBefore  time.Time `json:"nbf"`
	IssuedAt   time.Time `json:"iat"`
	TokenID    string    `json:"jti"`
}

// Identity is the subset of claims supplied when issuing a token.
type Identity struct {
	UserID   string
	Email    string
	Username string
	Name     string
}
