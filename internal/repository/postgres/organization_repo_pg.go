package postgres

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/njprem/Identity_APP_BackEnd/internal/domain"
	"github.com/njprem/Identity_APP_BackEnd/internal/repository/ports"
)

const orgCols = `id, org_name, org_code, dark_logo, light_logo, plans, users, status, signup_enabled, created_at, updated_at`

type OrganizationRepository struct {
	db *sqlx.DB
}

func NewOrganizationRepo(db *sqlx.DB) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

// Create relies on the org_code unique constraint for the real conflict
// guarantee; callers translate the unique violation.
func (r *OrganizationRepository) Create(ctx context.Context, org domain.Organization) (*domain.Organization, error) {
	const query = `
        INSERT INTO organization (id, org_name, org_code, dark_logo, light_logo, plans, users, status, signup_enabled)
        VALUES ($1, $2, $3, $4, $5, $6::jsonb, $7::jsonb, $8, $9)
        RETURNING ` + orgCols + `
    `
	row := r.db.QueryRowxContext(ctx, query,
		org.ID, org.OrgName, org.OrgCode, org.DarkLogo, org.LightLogo,
		org.Plans, org.Users, org.Status, org.SignupEnabled)
	var created domain.Organization
	if err := row.StructScan(&created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *OrganizationRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Organization, error) {
	const query = `
        SELECT ` + orgCols + `
        FROM organization
        WHERE id = $1
    `
	var org domain.Organization
	if err := r.db.GetContext(ctx, &org, query, id); err != nil {
		return nil, err
	}
	return &org, nil
}

func (r *OrganizationRepository) FindByCode(ctx context.Context, code string) (*domain.Organization, error) {
	const query = `
        SELECT ` + orgCols + `
        FROM organization
        WHERE org_code = $1
    `
	var org domain.Organization
	if err := r.db.GetContext(ctx, &org, query, code); err != nil {
		return nil, err
	}
	return &org, nil
}

func (r *OrganizationRepository) List(ctx context.Context) ([]domain.Organization, error) {
	const query = `
        SELECT ` + orgCols + `
        FROM organization
        ORDER BY updated_at DESC
    `
	rows, err := r.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orgs := make([]domain.Organization, 0)
	for rows.Next() {
		var org domain.Organization
		if err := rows.StructScan(&org); err != nil {
			return nil, err
		}
		orgs = append(orgs, org)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orgs, nil
}

func (r *OrganizationRepository) Update(ctx context.Context, id uuid.UUID, update ports.OrganizationUpdate) (*domain.Organization, error) {
	const query = `
        UPDATE organization
        SET org_name = COALESCE($2, org_name),
            org_code = COALESCE($3, org_code),
            dark_logo = COALESCE($4, dark_logo),
            light_logo = COALESCE($5, light_logo),
            plans = COALESCE($6::jsonb, plans),
            users = COALESCE($7::jsonb, users),
            status = COALESCE($8, status),
            signup_enabled = COALESCE($9, signup_enabled),
            updated_at = NOW()
        WHERE id = $1
        RETURNING ` + orgCols + `
    `
	row := r.db.QueryRowxContext(ctx, query,
		id, update.OrgName, update.OrgCode, update.DarkLogo, update.LightLogo,
		update.Plans, update.Users, update.Status, update.SignupEnabled)
	var org domain.Organization
	if err := row.StructScan(&org); err != nil {
		return nil, err
	}
	return &org, nil
}

func (r *OrganizationRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	const query = `DELETE FROM organization WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func (r *OrganizationRepository) AddUsers(ctx context.Context, id uuid.UUID, userIDs []string) (*domain.Organization, error) {
	return r.addToSet(ctx, id, "users", userIDs)
}

func (r *OrganizationRepository) RemoveUsers(ctx context.Context, id uuid.UUID, userIDs []string) (*domain.Organization, error) {
	return r.removeFromSet(ctx, id, "users", userIDs)
}

func (r *OrganizationRepository) AddPlans(ctx context.Context, id uuid.UUID, planIDs []string) (*domain.Organization, error) {
	return r.addToSet(ctx, id, "plans", planIDs)
}

func (r *OrganizationRepository) RemovePlans(ctx context.Context, id uuid.UUID, planIDs []string) (*domain.Organization, error) {
	return r.removeFromSet(ctx, id, "plans", planIDs)
}

// addToSet performs the union and dedup inside one UPDATE so concurrent
// mutations of the same column cannot lose each other's ids.
func (r *OrganizationRepository) addToSet(ctx context.Context, id uuid.UUID, column string, ids []string) (*domain.Organization, error) {
	encoded, err := json.Marshal(ids)
	if err != nil {
		return nil, err
	}
	query := `
        UPDATE organization
        SET ` + column + ` = (
            SELECT COALESCE(jsonb_agg(DISTINCT elem), '[]'::jsonb)
            FROM jsonb_array_elements_text(` + column + ` || $2::jsonb) AS t(elem)
        ),
        updated_at = NOW()
        WHERE id = $1
        RETURNING ` + orgCols + `
    `
	row := r.db.QueryRowxContext(ctx, query, id, string(encoded))
	var org domain.Organization
	if err := row.StructScan(&org); err != nil {
		return nil, err
	}
	return &org, nil
}

func (r *OrganizationRepository) removeFromSet(ctx context.Context, id uuid.UUID, column string, ids []string) (*domain.Organization, error) {
	encoded, err := json.Marshal(ids)
	if err != nil {
		return nil, err
	}
	query := `
        UPDATE organization
        SET ` + column + ` = (
            SELECT COALESCE(jsonb_agg(DISTINCT elem), '[]'::jsonb)
            FROM jsonb_array_elements_text(` + column + `) AS t(elem)
            WHERE NOT ($2::jsonb @> to_jsonb(elem))
        ),
        updated_at = NOW()
        WHERE id = $1
        RETURNING ` + orgCols + `
    `
	row := r.db.QueryRowxContext(ctx, query, id, string(encoded))
	var org domain.Organization
	if err := row.StructScan(&org); err != nil {
		return nil, err
	}
	return &org, nil
}

var _ ports.OrganizationRepository = (*OrganizationRepository)(nil)
