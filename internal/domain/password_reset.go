package domain

import (
	"time"

	"github.com/google/uuid"
)

type PasswordResetToken struct {
	Token     string    `db:"token" json:"-"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Email     string    `db:"email" json:"email"`
	ExpiresAt time.Time `db:"expires_at" json:"expires_at"`
	Used      bool      `db:"used" json:"used"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Valid reports whether the token can still be consumed at the given instant.
func (t *PasswordResetToken) Valid(now time.Time) bool {
	return !t.Used && t.ExpiresAt.After(now)
}
