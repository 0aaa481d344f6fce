// Package db is the sqlx storage layer over PostgreSQL. All mutating
// flows run inside Storage.InTx with the entity row taken FOR UPDATE,
// so version increments are strictly sequential per entity.
package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"tenderwork/internal/apperr"
	"tenderwork/models"
)

// Store is the query surface, implemented both by the pool-backed
// Storage and by the transaction handed to an InTx callback.
type Store interface {
	CreateEmployee(ctx context.Context, e *models.Employee) error
	GetEmployee(ctx context.Context, id uuid.UUID) (*models.Employee, error)
	GetEmployeeByUsername(ctx context.Context, username string) (*models.Employee, error)

	CreateOrganization(ctx context.Context, o *models.Organization) error
	GetOrganization(ctx context.Context, id uuid.UUID) (*models.Organization, error)
	AddOrganizationResponsible(ctx context.Context, orgID, userID uuid.UUID) error
	IsUserResponsibleForOrganization(ctx context.Context, userID, orgID uuid.UUID) (bool, error)
	GetUserOrganizations(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	GetResponsibleCount(ctx context.Context, orgID uuid.UUID) (int, error)

	CreateTender(ctx context.Context, t *models.Tender) error
	GetTender(ctx context.Context, id uuid.UUID) (*models.Tender, error)
	GetTenderForUpdate(ctx context.Context, id uuid.UUID) (*models.Tender, error)
	UpdateTender(ctx context.Context, t *models.Tender) error
	GetPublishedTenders(ctx context.Context, serviceType string) ([]models.Tender, error)
	GetUserTenders(ctx context.Context, username string) ([]models.Tender, error)
	SaveTenderSnapshot(ctx context.Context, snap models.TenderSnapshot) error
	GetTenderSnapshot(ctx context.Context, tenderID uuid.UUID, version int) (models.TenderSnapshot, error)

	CreateBid(ctx context.Context, b *models.Bid) error
	GetBid(ctx context.Context, id uuid.UUID) (*models.Bid, error)
	GetBidForUpdate(ctx context.Context, id uuid.UUID) (*models.Bid, error)
	UpdateBid(ctx context.Context, b *models.Bid) error
	GetUserBids(ctx context.Context, creatorID uuid.UUID, orgID uuid.NullUUID) ([]models.Bid, error)
	GetPublishedBidsForTender(ctx context.Context, tenderID uuid.UUID) ([]models.Bid, error)
	HasBidsForTender(ctx context.Context, tenderID uuid.UUID) (bool, error)
	SaveBidSnapshot(ctx context.Context, snap models.BidSnapshot) error
	GetBidSnapshot(ctx context.Context, bidID uuid.UUID, version int) (models.BidSnapshot, error)

	CreateFeedback(ctx context.Context, f *models.Feedback) error
	GetFeedbackForAuthorBids(ctx context.Context, tenderID, authorID uuid.UUID) ([]models.Feedback, error)
}

// queries runs over either *sqlx.DB or *sqlx.Tx.
type queries struct {
	ext sqlx.ExtContext
}

type Storage struct {
	queries
	db *sqlx.DB
}

func NewStorage(db *sqlx.DB) *Storage {
	return &Storage{queries: queries{ext: db}, db: db}
}

// InTx runs fn against a transaction-bound Store. The transaction is
// rolled back on any error, including a panic unwinding through fn.
func (s *Storage) InTx(ctx context.Context, fn func(Store) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()
	if err := fn(&queries{ext: tx}); err != nil {
		return err
	}
	return tx.Commit()
}

// notFound translates sql.ErrNoRows into the taxonomy so handlers never
// see driver errors for missing rows.
func notFound(err error, format string, args ...any) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFoundf(format, args...)
	}
	return err
}
