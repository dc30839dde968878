// Package models defines server-side data models persisted by the backend.
package models

import "time"

// User is an identity-provider account. PasswordHash is a bcrypt hash.
type User struct {
	ID           string
	Email        string
	PasswordHash []byte
	CreatedAt    time.Time
}
