package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"tenderwork/models"
)

func (q *queries) CreateOrganization(ctx context.Context, o *models.Organization) error {
	query := `
        INSERT INTO organization (name, description, type)
        VALUES ($1, $2, $3)
        RETURNING id, created_at, updated_at`
	return q.ext.QueryRowxContext(ctx, query, o.Name, o.Description, o.Type).
		Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
}

func (q *queries) GetOrganization(ctx context.Context, id uuid.UUID) (*models.Organization, error) {
	o := &models.Organization{}
	query := `SELECT * FROM organization WHERE id=$1`
	err := sqlx.GetContext(ctx, q.ext, o, query, id)
	if err != nil {
		return nil, notFound(err, "organization %s does not exist", id)
	}
	return o, nil
}

func (q *queries) AddOrganizationResponsible(ctx context.Context, orgID, userID uuid.UUID) error {
	query := `
        INSERT INTO organization_responsible (organization_id, user_id)
        VALUES ($1, $2)
        ON CONFLICT (organization_id, user_id) DO NOTHING`
	_, err := q.ext.ExecContext(ctx, query, orgID, userID)
	return err
}

func (q *queries) IsUserResponsibleForOrganization(ctx context.Context, userID, orgID uuid.UUID) (bool, error) {
	var count int
	query := `SELECT COUNT(1) FROM organization_responsible WHERE user_id=$1 AND organization_id=$2`
	if err := sqlx.GetContext(ctx, q.ext, &count, query, userID, orgID); err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetUserOrganizations lists the organizations the employee is
// responsible for. An empty result is not an error.
func (q *queries) GetUserOrganizations(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	orgs := []uuid.UUID{}
	query := `SELECT organization_id FROM organization_responsible WHERE user_id=$1`
	err := sqlx.SelectContext(ctx, q.ext, &orgs, query, userID)
	return orgs, err
}

func (q *queries) GetResponsibleCount(ctx context.Context, orgID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(1) FROM organization_responsible WHERE organization_id=$1`
	err := sqlx.GetContext(ctx, q.ext, &count, query, orgID)
	return count, err
}
