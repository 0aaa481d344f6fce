package versioning_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"tenderwork/internal/apperr"
	"tenderwork/internal/versioning"
	"tenderwork/models"
)

type memSnapshots struct {
	saved map[int]versioning.Snapshot
}

func newMemSnapshots() *memSnapshots {
	return &memSnapshots{saved: map[int]versioning.Snapshot{}}
}

func (m *memSnapshots) SaveSnapshot(_ context.Context, snap versioning.Snapshot) error {
	m.saved[snap.Version] = snap
	return nil
}

func (m *memSnapshots) GetSnapshot(_ context.Context, version int) (versioning.Snapshot, error) {
	snap, ok := m.saved[version]
	if !ok {
		return versioning.Snapshot{}, apperr.NotFoundf("no version %d", version)
	}
	return snap, nil
}

func TestEditAppliesPatchAndSnapshotsOldVersion(t *testing.T) {
	store := newMemSnapshots()
	tender := &models.Tender{Name: "X", Description: "old", ServiceType: "Delivery", Version: 1}

	err := versioning.Edit(context.Background(), store, tender, versioning.Patch{Name: "Y"})
	require.NoError(t, err)

	require.Equal(t, "Y", tender.Name)
	require.Equal(t, "old", tender.Description)
	require.Equal(t, "Delivery", tender.ServiceType)
	require.Equal(t, 2, tender.Version)

	snap, ok := store.saved[1]
	require.True(t, ok)
	require.Equal(t, "X", snap.Name)
	require.Equal(t, "old", snap.Description)
	require.Equal(t, 1, snap.Version)
}

func TestEditEmptyStringMeansNoChange(t *testing.T) {
	store := newMemSnapshots()
	bid := &models.Bid{Name: "offer", Description: "first", Version: 1}

	err := versioning.Edit(context.Background(), store, bid, versioning.Patch{Description: "second"})
	require.NoError(t, err)

	require.Equal(t, "offer", bid.Name)
	require.Equal(t, "second", bid.Description)
	require.Equal(t, 2, bid.Version)
}

func TestEditRejectsEmptyPatch(t *testing.T) {
	store := newMemSnapshots()
	tender := &models.Tender{Name: "X", Version: 1}

	err := versioning.Edit(context.Background(), store, tender, versioning.Patch{})
	require.Equal(t, apperr.Validation, apperr.KindOf(err))
	require.Equal(t, 1, tender.Version)
	require.Empty(t, store.saved)
}

func TestEditRejectsOversizedName(t *testing.T) {
	store := newMemSnapshots()
	tender := &models.Tender{Name: "X", Version: 1}

	patch := versioning.Patch{Name: strings.Repeat("a", models.MaxNameLen+1)}
	err := versioning.Edit(context.Background(), store, tender, patch)
	require.Equal(t, apperr.Validation, apperr.KindOf(err))
	require.Equal(t, "X", tender.Name)
	require.Empty(t, store.saved)
}

func TestEditRejectsOversizedServiceType(t *testing.T) {
	store := newMemSnapshots()
	tender := &models.Tender{Name: "X", Version: 1}

	patch := versioning.Patch{ServiceType: strings.Repeat("s", models.MaxServiceTypeLen+1)}
	err := versioning.Edit(context.Background(), store, tender, patch)
	require.Equal(t, apperr.Validation, apperr.KindOf(err))
}

func TestRollbackRestoresFieldsAndKeepsHistory(t *testing.T) {
	ctx := context.Background()
	store := newMemSnapshots()
	tender := &models.Tender{Name: "X", Description: "d", ServiceType: "Delivery", Version: 1}

	require.NoError(t, versioning.Edit(ctx, store, tender, versioning.Patch{Name: "Y"}))
	require.Equal(t, 2, tender.Version)

	require.NoError(t, versioning.Rollback(ctx, store, tender, 1))
	require.Equal(t, "X", tender.Name)
	require.Equal(t, 3, tender.Version)

	// Both prior versions are still fetchable.
	first, err := store.GetSnapshot(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "X", first.Name)

	second, err := store.GetSnapshot(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, "Y", second.Name)
}

func TestRollbackUnknownVersion(t *testing.T) {
	store := newMemSnapshots()
	tender := &models.Tender{Name: "X", Version: 1}

	err := versioning.Rollback(context.Background(), store, tender, 5)
	require.Equal(t, apperr.NotFound, apperr.KindOf(err))
	require.Equal(t, "X", tender.Name)
	require.Equal(t, 1, tender.Version)
	require.Empty(t, store.saved)
}

func TestVersionEqualsOnePlusOperations(t *testing.T) {
	ctx := context.Background()
	store := newMemSnapshots()
	bid := &models.Bid{Name: "a", Description: "d", Version: 1}

	require.NoError(t, versioning.Edit(ctx, store, bid, versioning.Patch{Name: "b"}))
	require.NoError(t, versioning.Edit(ctx, store, bid, versioning.Patch{Name: "c"}))
	require.NoError(t, versioning.Rollback(ctx, store, bid, 1))
	require.NoError(t, versioning.Edit(ctx, store, bid, versioning.Patch{Description: "e"}))

	require.Equal(t, 5, bid.Version)
	require.Len(t, store.saved, 4)
}
