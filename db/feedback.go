package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"tenderwork/models"
)

func (q *queries) CreateFeedback(ctx context.Context, f *models.Feedback) error {
	query := `
        INSERT INTO feedback (bid_id, description, executor_id)
        VALUES ($1, $2, $3)
        RETURNING id, created_at`
	return q.ext.QueryRowxContext(ctx, query, f.BidID, f.Description, f.ExecutorID).
		Scan(&f.ID, &f.CreatedAt)
}

// GetFeedbackForAuthorBids lists feedback left on the author's bids
// under the given tender, newest first.
func (q *queries) GetFeedbackForAuthorBids(ctx context.Context, tenderID, authorID uuid.UUID) ([]models.Feedback, error) {
	query := `
        SELECT f.*
        FROM feedback f
        JOIN bid b ON f.bid_id = b.id
        WHERE b.tender_id = $1 AND b.creator_id = $2
        ORDER BY f.created_at DESC`
	feedbacks := []models.Feedback{}
	err := sqlx.SelectContext(ctx, q.ext, &feedbacks, query, tenderID, authorID)
	return feedbacks, err
}
