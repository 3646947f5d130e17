package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/njprem/Identity_APP_BackEnd/internal/domain"
	"github.com/njprem/Identity_APP_BackEnd/internal/repository/ports"
)

const userCols = `id, name, email, role, profile_image_url, user_type, date_of_birth, phone, organization_id, api_key, last_active_at, created_at, updated_at`

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepo(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `
        SELECT ` + userCols + `
        FROM user_account
        WHERE email = $1
        LIMIT 1
    `
	var user domain.User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	const query = `
        SELECT ` + userCols + `
        FROM user_account
        WHERE id = $1
    `
	var user domain.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByAPIKey(ctx context.Context, apiKey string) (*domain.User, error) {
	const query = `
        SELECT ` + userCols + `
        FROM user_account
        WHERE api_key = $1
    `
	var user domain.User
	if err := r.db.GetContext(ctx, &user, query, apiKey); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]domain.User, error) {
	const query = `
        SELECT ` + userCols + `
        FROM user_account
        ORDER BY created_at ASC, id ASC
        LIMIT $1 OFFSET $2
    `
	rows, err := r.db.QueryxContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		var user domain.User
		if err := rows.StructScan(&user); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepository) SetAPIKey(ctx context.Context, id uuid.UUID, apiKey string) (bool, error) {
	const query = `
        UPDATE user_account
        SET api_key = $2,
            updated_at = NOW()
        WHERE id = $1
    `
	result, err := r.db.ExecContext(ctx, query, id, apiKey)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func (r *UserRepository) TouchLastActive(ctx context.Context, id uuid.UUID) error {
	const query = `
        UPDATE user_account
        SET last_active_at = NOW()
        WHERE id = $1
    `
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

var _ ports.UserRepository = (*UserRepository)(nil)
