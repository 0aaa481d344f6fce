package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"tenderwork/models"
)

func (q *queries) CreateBid(ctx context.Context, b *models.Bid) error {
	query := `
        INSERT INTO bid
            (name, description, status, author_type, version, approvements,
             creator_id, organization_id, tender_id)
        VALUES
            ($1, $2, $3, $4, 1, 0, $5, $6, $7)
        RETURNING id, version, approvements, created_at`
	return q.ext.QueryRowxContext(ctx, query,
		b.Name, b.Description, b.Status, b.AuthorType,
		b.CreatorID, b.OrganizationID, b.TenderID).
		Scan(&b.ID, &b.Version, &b.Approvements, &b.CreatedAt)
}

func (q *queries) GetBid(ctx context.Context, id uuid.UUID) (*models.Bid, error) {
	return q.getBid(ctx, id, `SELECT * FROM bid WHERE id=$1`)
}

// GetBidForUpdate locks the bid row for the rest of the transaction,
// serializing concurrent version bumps and decisions.
func (q *queries) GetBidForUpdate(ctx context.Context, id uuid.UUID) (*models.Bid, error) {
	return q.getBid(ctx, id, `SELECT * FROM bid WHERE id=$1 FOR UPDATE`)
}

func (q *queries) getBid(ctx context.Context, id uuid.UUID, query string) (*models.Bid, error) {
	b := &models.Bid{}
	if err := sqlx.GetContext(ctx, q.ext, b, query, id); err != nil {
		return nil, notFound(err, "bid %s does not exist", id)
	}
	return b, nil
}

func (q *queries) UpdateBid(ctx context.Context, b *models.Bid) error {
	query := `
        UPDATE bid
        SET name=$1, description=$2, status=$3, version=$4, approvements=$5, approved=$6
        WHERE id=$7`
	_, err := q.ext.ExecContext(ctx, query,
		b.Name, b.Description, b.Status, b.Version, b.Approvements, b.Approved, b.ID)
	return err
}

// GetUserBids lists the bids the employee created plus, when orgID is
// set, the bids owned by the employee's organization.
func (q *queries) GetUserBids(ctx context.Context, creatorID uuid.UUID, orgID uuid.NullUUID) ([]models.Bid, error) {
	query := `
        SELECT * FROM bid
        WHERE creator_id = $1
           OR (CAST($2 AS uuid) IS NOT NULL AND organization_id = $2)
        ORDER BY name ASC`
	bids := []models.Bid{}
	err := sqlx.SelectContext(ctx, q.ext, &bids, query, creatorID, orgID)
	return bids, err
}

func (q *queries) GetPublishedBidsForTender(ctx context.Context, tenderID uuid.UUID) ([]models.Bid, error) {
	query := `SELECT * FROM bid WHERE tender_id=$1 AND status=$2 ORDER BY name ASC`
	bids := []models.Bid{}
	err := sqlx.SelectContext(ctx, q.ext, &bids, query, tenderID, models.BidPublished)
	return bids, err
}

func (q *queries) HasBidsForTender(ctx context.Context, tenderID uuid.UUID) (bool, error) {
	var count int
	query := `SELECT COUNT(1) FROM bid WHERE tender_id=$1`
	if err := sqlx.GetContext(ctx, q.ext, &count, query, tenderID); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (q *queries) SaveBidSnapshot(ctx context.Context, snap models.BidSnapshot) error {
	query := `
        INSERT INTO bid_version (bid_id, name, description, version)
        VALUES ($1, $2, $3, $4)`
	_, err := q.ext.ExecContext(ctx, query, snap.BidID, snap.Name, snap.Description, snap.Version)
	return err
}

func (q *queries) GetBidSnapshot(ctx context.Context, bidID uuid.UUID, version int) (models.BidSnapshot, error) {
	var snap models.BidSnapshot
	query := `
        SELECT bid_id, name, description, version
        FROM bid_version
        WHERE bid_id=$1 AND version=$2`
	if err := sqlx.GetContext(ctx, q.ext, &snap, query, bidID, version); err != nil {
		return snap, notFound(err, "bid %s has no version %d", bidID, version)
	}
	return snap, nil
}
