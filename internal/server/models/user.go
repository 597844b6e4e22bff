// Package models defines the row types stored by the server repositories,
// plus the partial-update structs the services apply field by field.
package models

import "time"

// User is a registered account. Email is stored lowercase and is globally
// unique; PasswordHash is the peppered bcrypt hash, never the plaintext.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserPatch is a partial update: nil fields are left unchanged.
// Password carries a plaintext candidate; the service hashes it before the
// repository ever sees it.
type UserPatch struct {
	Email    *string
	Password *string
}
