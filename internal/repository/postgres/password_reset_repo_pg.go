package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/njprem/Identity_APP_BackEnd/internal/domain"
	"github.com/njprem/Identity_APP_BackEnd/internal/repository/ports"
)

type PasswordResetRepository struct {
	db *sqlx.DB
}

func NewPasswordResetRepo(db *sqlx.DB) *PasswordResetRepository {
	return &PasswordResetRepository{db: db}
}

// Create replaces any unused tokens for the user and inserts the new one in a
// single transaction, keeping the one-live-token invariant even if the process
// dies between the two statements.
func (r *PasswordResetRepository) Create(ctx context.Context, token domain.PasswordResetToken) (*domain.PasswordResetToken, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	const deleteUnused = `
        DELETE FROM password_reset_token
        WHERE user_id = $1 AND used = FALSE
    `
	if _, err := tx.ExecContext(ctx, deleteUnused, token.UserID); err != nil {
		return nil, err
	}

	const insert = `
        INSERT INTO password_reset_token (token, user_id, email, expires_at, used, created_at)
        VALUES ($1, $2, $3, $4, FALSE, $5)
        RETURNING token, user_id, email, expires_at, used, created_at
    `
	row := tx.QueryRowxContext(ctx, insert, token.Token, token.UserID, token.Email, token.ExpiresAt, token.CreatedAt)
	var created domain.PasswordResetToken
	if err := row.StructScan(&created); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *PasswordResetRepository) FindByToken(ctx context.Context, token string) (*domain.PasswordResetToken, error) {
	const query = `
        SELECT token, user_id, email, expires_at, used, created_at
        FROM password_reset_token
        WHERE token = $1
    `
	var record domain.PasswordResetToken
	if err := r.db.GetContext(ctx, &record, query, token); err != nil {
		return nil, err
	}
	return &record, nil
}

// MarkUsed is conditional on used=FALSE so two racing consumers cannot both
// win; the row count decides the single winner.
func (r *PasswordResetRepository) MarkUsed(ctx context.Context, token string) (bool, error) {
	const query = `
        UPDATE password_reset_token
        SET used = TRUE
        WHERE token = $1 AND used = FALSE
    `
	result, err := r.db.ExecContext(ctx, query, token)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func (r *PasswordResetRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	const query = `
        DELETE FROM password_reset_token
        WHERE expires_at < $1
    `
	result, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

var _ ports.PasswordResetRepository = (*PasswordResetRepository)(nil)
