package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"tenderwork/models"
)

func (q *queries) CreateTender(ctx context.Context, t *models.Tender) error {
	query := `
        INSERT INTO tender
            (name, description, service_type, status, version, organization_id, creator_id)
        VALUES
            ($1, $2, $3, $4, 1, $5, $6)
        RETURNING id, version, created_at`
	return q.ext.QueryRowxContext(ctx, query,
		t.Name, t.Description, t.ServiceType, t.Status, t.OrganizationID, t.CreatorID).
		Scan(&t.ID, &t.Version, &t.CreatedAt)
}

func (q *queries) GetTender(ctx context.Context, id uuid.UUID) (*models.Tender, error) {
	return q.getTender(ctx, id, `SELECT * FROM tender WHERE id=$1`)
}

// GetTenderForUpdate locks the tender row for the rest of the
// transaction, serializing concurrent version bumps.
func (q *queries) GetTenderForUpdate(ctx context.Context, id uuid.UUID) (*models.Tender, error) {
	return q.getTender(ctx, id, `SELECT * FROM tender WHERE id=$1 FOR UPDATE`)
}

func (q *queries) getTender(ctx context.Context, id uuid.UUID, query string) (*models.Tender, error) {
	t := &models.Tender{}
	if err := sqlx.GetContext(ctx, q.ext, t, query, id); err != nil {
		return nil, notFound(err, "tender %s does not exist", id)
	}
	return t, nil
}

func (q *queries) UpdateTender(ctx context.Context, t *models.Tender) error {
	query := `
        UPDATE tender
        SET name=$1, description=$2, service_type=$3, status=$4, version=$5
        WHERE id=$6`
	_, err := q.ext.ExecContext(ctx, query,
		t.Name, t.Description, t.ServiceType, t.Status, t.Version, t.ID)
	return err
}

// GetPublishedTenders lists Published tenders, optionally narrowed to a
// single service type.
func (q *queries) GetPublishedTenders(ctx context.Context, serviceType string) ([]models.Tender, error) {
	tenders := []models.Tender{}
	if serviceType != "" {
		query := `SELECT * FROM tender WHERE status=$1 AND service_type=$2 ORDER BY name ASC`
		err := sqlx.SelectContext(ctx, q.ext, &tenders, query, models.TenderPublished, serviceType)
		return tenders, err
	}
	query := `SELECT * FROM tender WHERE status=$1 ORDER BY name ASC`
	err := sqlx.SelectContext(ctx, q.ext, &tenders, query, models.TenderPublished)
	return tenders, err
}

func (q *queries) GetUserTenders(ctx context.Context, username string) ([]models.Tender, error) {
	query := `
        SELECT t.*
        FROM tender t
        JOIN organization_responsible orr ON t.organization_id = orr.organization_id
        JOIN employee e ON orr.user_id = e.id
        WHERE e.username = $1
        ORDER BY t.name ASC`
	tenders := []models.Tender{}
	err := sqlx.SelectContext(ctx, q.ext, &tenders, query, username)
	return tenders, err
}

func (q *queries) SaveTenderSnapshot(ctx context.Context, snap models.TenderSnapshot) error {
	query := `
        INSERT INTO tender_version (tender_id, name, description, service_type, version)
        VALUES ($1, $2, $3, $4, $5)`
	_, err := q.ext.ExecContext(ctx, query,
		snap.TenderID, snap.Name, snap.Description, snap.ServiceType, snap.Version)
	return err
}

func (q *queries) GetTenderSnapshot(ctx context.Context, tenderID uuid.UUID, version int) (models.TenderSnapshot, error) {
	var snap models.TenderSnapshot
	query := `
        SELECT tender_id, name, description, service_type, version
        FROM tender_version
        WHERE tender_id=$1 AND version=$2`
	if err := sqlx.GetContext(ctx, q.ext, &snap, query, tenderID, version); err != nil {
		return snap, notFound(err, "tender %s has no version %d", tenderID, version)
	}
	return snap, nil
}
