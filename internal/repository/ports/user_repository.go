package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/njprem/Identity_APP_BackEnd/internal/domain"
)

// UserRepository is the read side of the user directory. Profile creation,
// deletion and email changes go through CredentialRepository so they stay
// transactional with the credential row.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	FindByAPIKey(ctx context.Context, apiKey string) (*domain.User, error)
	List(ctx context.Context, limit, offset int) ([]domain.User, error)
	SetAPIKey(ctx context.Context, id uuid.UUID, apiKey string) (bool, error)
	TouchLastActive(ctx context.Context, id uuid.UUID) error
}
