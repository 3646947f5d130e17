package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/njprem/Identity_APP_BackEnd/internal/domain"
)

// OrganizationUpdate carries partial updates; nil fields are left untouched.
type OrganizationUpdate struct {
	OrgName       *string
	OrgCode       *string
	DarkLogo      *string
	LightLogo     *string
	Plans         *domain.StringList
	Users         *domain.StringList
	Status        *string
	SignupEnabled *bool
}

type OrganizationRepository interface {
	Create(ctx context.Context, org domain.Organization) (*domain.Organization, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Organization, error)
	FindByCode(ctx context.Context, code string) (*domain.Organization, error)
	List(ctx context.Context) ([]domain.Organization, error)
	Update(ctx context.Context, id uuid.UUID, update OrganizationUpdate) (*domain.Organization, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)

	// The set mutations below run as single UPDATE statements so concurrent
	// callers cannot lose each other's writes. Duplicates collapse and
	// removing an absent member leaves the row unchanged apart from
	// updated_at.
	AddUsers(ctx context.Context, id uuid.UUID, userIDs []string) (*domain.Organization, error)
	RemoveUsers(ctx context.Context, id uuid.UUID, userIDs []string) (*domain.Organization, error)
	AddPlans(ctx context.Context, id uuid.UUID, planIDs []string) (*domain.Organization, error)
	RemovePlans(ctx context.Context, id uuid.UUID, planIDs []string) (*domain.Organization, error)
}
