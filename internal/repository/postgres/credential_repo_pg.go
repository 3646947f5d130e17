package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/njprem/Identity_APP_BackEnd/internal/domain"
	"github.com/njprem/Identity_APP_BackEnd/internal/repository/ports"
)

type CredentialRepository struct {
	db *sqlx.DB
}

func NewCredentialRepo(db *sqlx.DB) *CredentialRepository {
	return &CredentialRepository{db: db}
}

func (r *CredentialRepository) CreateAccount(ctx context.Context, acct ports.NewAccount) (*domain.User, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	id := uuid.New()

	const insertAuth = `
        INSERT INTO auth (id, email, password_hash, password_salt, active)
        VALUES ($1, $2, $3, $4, TRUE)
    `
	if _, err := tx.ExecContext(ctx, insertAuth, id, acct.Email, acct.PasswordHash, acct.PasswordSalt); err != nil {
		return nil, err
	}

	const insertUser = `
        INSERT INTO user_account (id, name, email, role, profile_image_url, user_type, date_of_birth, phone, organization_id)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id, name, email, role, profile_image_url, user_type, date_of_birth, phone, organization_id, api_key, last_active_at, created_at, updated_at
    `
	row := tx.QueryRowxContext(ctx, insertUser,
		id, acct.Name, acct.Email, acct.Role, acct.ProfileImageURL, acct.UserType,
		acct.DateOfBirth, acct.Phone, acct.OrganizationID)
	var user domain.User
	if err := row.StructScan(&user); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *CredentialRepository) FindActiveByEmail(ctx context.Context, email string) (*domain.Credential, error) {
	const query = `
        SELECT id, email, password_hash, password_salt, active
        FROM auth
        WHERE email = $1 AND active = TRUE
        LIMIT 1
    `
	var cred domain.Credential
	if err := r.db.GetContext(ctx, &cred, query, email); err != nil {
		return nil, err
	}
	return &cred, nil
}

func (r *CredentialRepository) FindActiveByID(ctx context.Context, id uuid.UUID) (*domain.Credential, error) {
	const query = `
        SELECT id, email, password_hash, password_salt, active
        FROM auth
        WHERE id = $1 AND active = TRUE
    `
	var cred domain.Credential
	if err := r.db.GetContext(ctx, &cred, query, id); err != nil {
		return nil, err
	}
	return &cred, nil
}

func (r *CredentialRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash, passwordSalt []byte) (bool, error) {
	const query = `
        UPDATE auth
        SET password_hash = $2,
            password_salt = $3
        WHERE id = $1
    `
	result, err := r.db.ExecContext(ctx, query, id, passwordHash, passwordSalt)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

// UpdateEmail rewrites the address on the credential and the profile in one
// transaction so a crash between the two writes cannot diverge them.
func (r *CredentialRepository) UpdateEmail(ctx context.Context, id uuid.UUID, email string) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	const updateAuth = `
        UPDATE auth
        SET email = $2
        WHERE id = $1
    `
	result, err := tx.ExecContext(ctx, updateAuth, id, email)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected == 0 {
		return false, nil
	}

	const updateUser = `
        UPDATE user_account
        SET email = $2,
            updated_at = NOW()
        WHERE id = $1
    `
	if _, err := tx.ExecContext(ctx, updateUser, id, email); err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

// DeleteAccount removes the profile before the credential so a failed profile
// delete leaves the account intact rather than orphaning the credential row.
func (r *CredentialRepository) DeleteAccount(ctx context.Context, id uuid.UUID) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	const deleteUser = `DELETE FROM user_account WHERE id = $1`
	result, err := tx.ExecContext(ctx, deleteUser, id)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected == 0 {
		return false, nil
	}

	const deleteAuth = `DELETE FROM auth WHERE id = $1`
	if _, err := tx.ExecContext(ctx, deleteAuth, id); err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

var _ ports.CredentialRepository = (*CredentialRepository)(nil)
