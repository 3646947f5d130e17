package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/njprem/Identity_APP_BackEnd/internal/domain"
)

// NewAccount carries everything needed to create the credential row and its
// paired profile row together.
type NewAccount struct {
	Email           string
	PasswordHash    []byte
	PasswordSalt    []byte
	Name            string
	Role            string
	ProfileImageURL string
	UserType        string
	DateOfBirth     *time.Time
	Phone           *string
	OrganizationID  *string
}

type CredentialRepository interface {
	// CreateAccount inserts one credential and one profile inside a single
	// transaction. Either both rows exist afterwards or neither does.
	CreateAccount(ctx context.Context, acct NewAccount) (*domain.User, error)
	FindActiveByEmail(ctx context.Context, email string) (*domain.Credential, error)
	FindActiveByID(ctx context.Context, id uuid.UUID) (*domain.Credential, error)
	// UpdatePassword reports false when no row matched.
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash, passwordSalt []byte) (bool, error)
	// UpdateEmail rewrites the credential and profile addresses in one
	// transaction. Returns false when the credential row did not exist.
	UpdateEmail(ctx context.Context, id uuid.UUID, email string) (bool, error)
	// DeleteAccount removes the profile first and only then the credential,
	// committing both deletes together. Returns false when the profile row
	// did not exist.
	DeleteAccount(ctx context.Context, id uuid.UUID) (bool, error)
}
