package decision_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"tenderwork/internal/apperr"
	"tenderwork/internal/decision"
	"tenderwork/models"
)

type fakeStore struct {
	tender      *models.Tender
	responsible int

	updatedBid *models.Bid
	feedbacks  []*models.Feedback
}

func (f *fakeStore) GetTender(_ context.Context, id uuid.UUID) (*models.Tender, error) {
	if f.tender == nil || f.tender.ID != id {
		return nil, apperr.NotFoundf("tender %s does not exist", id)
	}
	return f.tender, nil
}

func (f *fakeStore) GetResponsibleCount(_ context.Context, _ uuid.UUID) (int, error) {
	return f.responsible, nil
}

func (f *fakeStore) UpdateBid(_ context.Context, b *models.Bid) error {
	f.updatedBid = b
	return nil
}

func (f *fakeStore) CreateFeedback(_ context.Context, fb *models.Feedback) error {
	fb.ID = uuid.New()
	f.feedbacks = append(f.feedbacks, fb)
	return nil
}

func newFixture(responsible int) (*fakeStore, *models.Bid) {
	tender := &models.Tender{
		ID:             uuid.New(),
		Status:         models.TenderPublished,
		OrganizationID: uuid.New(),
	}
	bid := &models.Bid{
		ID:        uuid.New(),
		Status:    models.BidPublished,
		TenderID:  tender.ID,
		CreatorID: uuid.New(),
		Version:   1,
	}
	return &fakeStore{tender: tender, responsible: responsible}, bid
}

func TestRejectedCancelsBid(t *testing.T) {
	store, bid := newFixture(3)

	err := decision.SubmitDecision(context.Background(), store, bid, models.DecisionRejected)
	require.NoError(t, err)

	require.NotNil(t, bid.Approved)
	require.False(t, *bid.Approved)
	require.Equal(t, models.BidCancelled, bid.Status)
	require.Equal(t, bid, store.updatedBid)
}

func TestApprovalBelowQuorumLeavesBidUndecided(t *testing.T) {
	ctx := context.Background()
	store, bid := newFixture(3)

	require.NoError(t, decision.SubmitDecision(ctx, store, bid, models.DecisionApproved))
	require.NoError(t, decision.SubmitDecision(ctx, store, bid, models.DecisionApproved))

	require.Equal(t, 2, bid.Approvements)
	require.Nil(t, bid.Approved)

	require.NoError(t, decision.SubmitDecision(ctx, store, bid, models.DecisionApproved))
	require.Equal(t, 3, bid.Approvements)
	require.NotNil(t, bid.Approved)
	require.True(t, *bid.Approved)
	require.Equal(t, models.BidPublished, bid.Status)
}

func TestQuorumIsCappedAtThree(t *testing.T) {
	ctx := context.Background()
	store, bid := newFixture(5)

	require.NoError(t, decision.SubmitDecision(ctx, store, bid, models.DecisionApproved))
	require.NoError(t, decision.SubmitDecision(ctx, store, bid, models.DecisionApproved))
	require.Nil(t, bid.Approved)

	require.NoError(t, decision.SubmitDecision(ctx, store, bid, models.DecisionApproved))
	require.NotNil(t, bid.Approved)
	require.True(t, *bid.Approved)
}

func TestQuorumFollowsMembershipChanges(t *testing.T) {
	ctx := context.Background()
	store, bid := newFixture(5)

	require.NoError(t, decision.SubmitDecision(ctx, store, bid, models.DecisionApproved))
	require.Equal(t, 1, bid.Approvements)
	require.Nil(t, bid.Approved)

	// Membership shrinks between votes; the next vote is judged against
	// the recomputed min(3, 2) threshold.
	store.responsible = 2
	require.NoError(t, decision.SubmitDecision(ctx, store, bid, models.DecisionApproved))
	require.Equal(t, 2, bid.Approvements)
	require.NotNil(t, bid.Approved)
	require.True(t, *bid.Approved)
}

func TestSingleResponsibleApprovesImmediately(t *testing.T) {
	store, bid := newFixture(1)

	require.NoError(t, decision.SubmitDecision(context.Background(), store, bid, models.DecisionApproved))
	require.Equal(t, 1, bid.Approvements)
	require.NotNil(t, bid.Approved)
	require.True(t, *bid.Approved)
}

func TestDecisionOnCancelledBid(t *testing.T) {
	store, bid := newFixture(3)
	bid.Status = models.BidCancelled

	err := decision.SubmitDecision(context.Background(), store, bid, models.DecisionApproved)
	require.Equal(t, apperr.Conflict, apperr.KindOf(err))
}

func TestDecisionAfterDecisionIsRejected(t *testing.T) {
	ctx := context.Background()
	store, bid := newFixture(1)

	require.NoError(t, decision.SubmitDecision(ctx, store, bid, models.DecisionApproved))
	require.NotNil(t, bid.Approved)

	err := decision.SubmitDecision(ctx, store, bid, models.DecisionApproved)
	require.Equal(t, apperr.Conflict, apperr.KindOf(err))
	require.Equal(t, 1, bid.Approvements)
}

func TestInvalidDecision(t *testing.T) {
	store, bid := newFixture(3)

	err := decision.SubmitDecision(context.Background(), store, bid, models.Decision("Maybe"))
	require.Equal(t, apperr.Validation, apperr.KindOf(err))
	require.Nil(t, store.updatedBid)
}

func TestFeedbackRequiresApproval(t *testing.T) {
	store, bid := newFixture(3)

	_, err := decision.SendFeedback(context.Background(), store, bid, "great work")
	require.Equal(t, apperr.Conflict, apperr.KindOf(err))
	require.Empty(t, store.feedbacks)

	rejected := false
	bid.Approved = &rejected
	_, err = decision.SendFeedback(context.Background(), store, bid, "great work")
	require.Equal(t, apperr.Conflict, apperr.KindOf(err))
	require.Empty(t, store.feedbacks)
}

func TestFeedbackAttributedToBidCreator(t *testing.T) {
	store, bid := newFixture(3)
	approved := true
	bid.Approved = &approved

	feedback, err := decision.SendFeedback(context.Background(), store, bid, "delivered on time")
	require.NoError(t, err)

	require.Equal(t, bid.ID, feedback.BidID)
	require.Equal(t, bid.CreatorID, feedback.ExecutorID)
	require.Equal(t, "delivered on time", feedback.Description)
	require.Len(t, store.feedbacks, 1)
}
