// Package model defines domain entities for the application.
package model

import "time"

// User represents a registered account.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialize
	PhotoURL     string    `json:"photoURL,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Identity is the verified claim attached to a request after session verification.
// This is injected into the request context by the session middleware.
type Identity struct {
	UserID string
	Name   string
}
