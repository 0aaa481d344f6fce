// Package access decides whether a principal, identified by a bare
// username claim, may act on a tender or a bid. Checks are pure reads.
package access

import (
	"context"

	"github.com/google/uuid"

	"tenderwork/internal/apperr"
	"tenderwork/models"
)

// Store is the read surface the evaluator needs; db.Store satisfies it.
type Store interface {
	GetEmployeeByUsername(ctx context.Context, username string) (*models.Employee, error)
	GetTender(ctx context.Context, id uuid.UUID) (*models.Tender, error)
	GetBid(ctx context.Context, id uuid.UUID) (*models.Bid, error)
	GetUserOrganizations(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

type Evaluator struct {
	store Store
}

func NewEvaluator(store Store) *Evaluator {
	return &Evaluator{store: store}
}

// ResolveEmployee is the single existence check used by every handler.
// A missing employee surfaces as Unauthenticated, since the username is
// the request's principal claim.
func (e *Evaluator) ResolveEmployee(ctx context.Context, username string) (*models.Employee, error) {
	emp, err := e.store.GetEmployeeByUsername(ctx, username)
	if apperr.IsNotFound(err) {
		return nil, apperr.Unauthenticatedf("user with username %s does not exist", username)
	}
	return emp, err
}

// CanActOnTender reports whether the employee is responsible for the
// organization that owns the tender.
func (e *Evaluator) CanActOnTender(ctx context.Context, tenderID uuid.UUID, username string) (bool, error) {
	tender, err := e.store.GetTender(ctx, tenderID)
	if err != nil {
		return false, err
	}
	emp, err := e.store.GetEmployeeByUsername(ctx, username)
	if err != nil {
		return false, err
	}
	orgs, err := e.store.GetUserOrganizations(ctx, emp.ID)
	if err != nil {
		return false, err
	}
	for _, org := range orgs {
		if org == tender.OrganizationID {
			return true, nil
		}
	}
	return false, nil
}

// CanActOnBid reports whether the employee has standing on the bid.
// An employee with any organization membership passes only when one of
// those organizations owns the bid; the creator fallback applies only
// to employees with no memberships at all. A creator who belongs to an
// unrelated organization is therefore denied.
func (e *Evaluator) CanActOnBid(ctx context.Context, bidID uuid.UUID, username string) (bool, error) {
	bid, err := e.store.GetBid(ctx, bidID)
	if err != nil {
		return false, err
	}
	emp, err := e.store.GetEmployeeByUsername(ctx, username)
	if err != nil {
		return false, err
	}
	orgs, err := e.store.GetUserOrganizations(ctx, emp.ID)
	if err != nil {
		return false, err
	}
	if len(orgs) > 0 {
		if !bid.OrganizationID.Valid {
			return false, nil
		}
		for _, org := range orgs {
			if org == bid.OrganizationID.UUID {
				return true, nil
			}
		}
		return false, nil
	}
	return bid.CreatorID == emp.ID, nil
}
