// Package decision implements the quorum state machine that accepts or
// rejects a bid, and the feedback append gated on acceptance.
package decision

import (
	"context"

	"github.com/google/uuid"

	"tenderwork/internal/apperr"
	"tenderwork/models"
)

// MaxQuorum caps the number of Approved votes a bid ever needs.
const MaxQuorum = 3

// Store is the slice of the storage surface the engine needs; db.Store
// satisfies it. Callers run the engine inside a transaction holding the
// bid row lock.
type Store interface {
	GetTender(ctx context.Context, id uuid.UUID) (*models.Tender, error)
	GetResponsibleCount(ctx context.Context, orgID uuid.UUID) (int, error)
	UpdateBid(ctx context.Context, b *models.Bid) error
	CreateFeedback(ctx context.Context, f *models.Feedback) error
}

// SubmitDecision applies one Approved or Rejected vote to the bid.
// A cancelled or already-decided bid rejects further votes outright;
// re-submission is an error, not a no-op. Rejected is terminal: the bid
// is cancelled with approved=false. Approved votes accumulate until
// they reach min(MaxQuorum, R) where R is the responsible-employee
// count of the tender's organization, recomputed at every vote.
func SubmitDecision(ctx context.Context, store Store, bid *models.Bid, d models.Decision) error {
	if bid.Status == models.BidCancelled {
		return apperr.Conflictf("bid cancelled")
	}
	if bid.Approved != nil {
		return apperr.Conflictf("bid already has decision")
	}

	switch d {
	case models.DecisionRejected:
		approved := false
		bid.Approved = &approved
		bid.Status = models.BidCancelled
	case models.DecisionApproved:
		bid.Approvements++
		tender, err := store.GetTender(ctx, bid.TenderID)
		if err != nil {
			return err
		}
		responsible, err := store.GetResponsibleCount(ctx, tender.OrganizationID)
		if err != nil {
			return err
		}
		quorum := responsible
		if quorum > MaxQuorum {
			quorum = MaxQuorum
		}
		if bid.Approvements >= quorum {
			approved := true
			bid.Approved = &approved
		}
	default:
		return apperr.Validationf("decision must be Approved or Rejected")
	}

	return store.UpdateBid(ctx, bid)
}

// SendFeedback appends a feedback record for an accepted bid. The
// feedback is attributed to the bid's creator (the "executor"), not the
// submitter. The bid itself is untouched.
func SendFeedback(ctx context.Context, store Store, bid *models.Bid, text string) (*models.Feedback, error) {
	if bid.Approved == nil || !*bid.Approved {
		return nil, apperr.Conflictf("you can not send feedback because bid was not approved")
	}
	feedback := &models.Feedback{
		BidID:       bid.ID,
		Description: text,
		ExecutorID:  bid.CreatorID,
	}
	if err := store.CreateFeedback(ctx, feedback); err != nil {
		return nil, err
	}
	return feedback, nil
}
