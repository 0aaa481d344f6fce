package db

import (
	"context"

	"github.com/google/uuid"

	"tenderwork/internal/versioning"
	"tenderwork/models"
)

// TenderSnapshots binds the snapshot sequence of one tender to a Store,
// typically the transaction inside InTx.
func TenderSnapshots(s Store, tenderID uuid.UUID) versioning.SnapshotStore {
	return tenderSnapshots{s: s, id: tenderID}
}

type tenderSnapshots struct {
	s  Store
	id uuid.UUID
}

func (t tenderSnapshots) SaveSnapshot(ctx context.Context, snap versioning.Snapshot) error {
	return t.s.SaveTenderSnapshot(ctx, models.TenderSnapshot{
		TenderID:    t.id,
		Name:        snap.Name,
		Description: snap.Description,
		ServiceType: snap.ServiceType,
		Version:     snap.Version,
	})
}

func (t tenderSnapshots) GetSnapshot(ctx context.Context, version int) (versioning.Snapshot, error) {
	snap, err := t.s.GetTenderSnapshot(ctx, t.id, version)
	if err != nil {
		return versioning.Snapshot{}, err
	}
	return versioning.Snapshot{
		Name:        snap.Name,
		Description: snap.Description,
		ServiceType: snap.ServiceType,
		Version:     snap.Version,
	}, nil
}

// BidSnapshots is the bid counterpart of TenderSnapshots.
func BidSnapshots(s Store, bidID uuid.UUID) versioning.SnapshotStore {
	return bidSnapshots{s: s, id: bidID}
}

type bidSnapshots struct {
	s  Store
	id uuid.UUID
}

func (b bidSnapshots) SaveSnapshot(ctx context.Context, snap versioning.Snapshot) error {
	return b.s.SaveBidSnapshot(ctx, models.BidSnapshot{
		BidID:       b.id,
		Name:        snap.Name,
		Description: snap.Description,
		Version:     snap.Version,
	})
}

func (b bidSnapshots) GetSnapshot(ctx context.Context, version int) (versioning.Snapshot, error) {
	snap, err := b.s.GetBidSnapshot(ctx, b.id, version)
	if err != nil {
		return versioning.Snapshot{}, err
	}
	return versioning.Snapshot{
		Name:        snap.Name,
		Description: snap.Description,
		Version:     snap.Version,
	}, nil
}
