package domain

import (
	"github.com/google/uuid"
)

// Credential is the authentication record paired one-to-one with a User by id.
// It carries only what login needs; everything else lives on the profile.
type Credential struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash []byte    `db:"password_hash" json:"-"`
	PasswordSalt []byte    `db:"password_salt" json:"-"`
	Active       bool      `db:"active" json:"active"`
}
