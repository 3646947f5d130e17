package ports

import (
	"context"
	"time"

	"github.com/njprem/Identity_APP_BackEnd/internal/domain"
)

type PasswordResetRepository interface {
	// Create deletes the user's unused tokens and inserts the new one in a
	// single transaction, so at most one live token exists per user.
	Create(ctx context.Context, token domain.PasswordResetToken) (*domain.PasswordResetToken, error)
	FindByToken(ctx context.Context, token string) (*domain.PasswordResetToken, error)
	// MarkUsed flips used=false to true and reports whether exactly one row
	// changed. Concurrent calls on the same token yield one true.
	MarkUsed(ctx context.Context, token string) (bool, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
