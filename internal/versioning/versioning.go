// Package versioning implements edit-with-snapshot and
// rollback-to-snapshot over a versioned entity. Tenders and bids share
// the same discipline: before any mutation the current fields are
// captured under the current version number, then the version counter
// advances. History is append-only; version numbers are never reused.
package versioning

import (
	"context"

	"tenderwork/internal/apperr"
)

// Length bounds for the editable fields of every versioned entity.
// models re-exports these for the request boundary.
const (
	MaxNameLen        = 255
	MaxServiceTypeLen = 100
)

// Patch carries replacement values for an edit. The empty string means
// "leave unchanged", so clearing a field is not expressible through a
// patch.
type Patch struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ServiceType string `json:"serviceType"`
}

func (p Patch) isZero() bool {
	return p.Name == "" && p.Description == "" && p.ServiceType == ""
}

// Validate enforces the boundary rules: at least one field supplied and
// every supplied field within its length bound.
func (p Patch) Validate() error {
	if len(p.Name) > MaxNameLen {
		return apperr.Validationf("name must be %d characters length maximum", MaxNameLen)
	}
	if len(p.ServiceType) > MaxServiceTypeLen {
		return apperr.Validationf("serviceType must be %d characters length maximum", MaxServiceTypeLen)
	}
	if p.isZero() {
		return apperr.Validationf("provide at least 1 param: name, description, serviceType")
	}
	return nil
}

// Snapshot is one captured version of an entity's editable fields.
// ServiceType is empty for entities without one.
type Snapshot struct {
	Name        string
	Description string
	ServiceType string
	Version     int
}

// Entity is a record under version control. *models.Tender and
// *models.Bid implement it (see models/versioned.go).
type Entity interface {
	// Snapshot captures the current editable fields at the current version.
	Snapshot() Snapshot
	// Restore overwrites the editable fields from a snapshot, leaving
	// the version counter alone.
	Restore(Snapshot)
	// Apply overwrites fields from the patch's non-empty values.
	Apply(Patch)
	BumpVersion()
}

// SnapshotStore persists the snapshot sequence of a single entity. The
// db package provides transaction-bound implementations.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, snap Snapshot) error
	GetSnapshot(ctx context.Context, version int) (Snapshot, error)
}

// Edit snapshots the entity's pre-edit fields under its current
// version, applies the patch's non-empty fields and advances the
// version. The caller persists the entity afterwards, in the same
// transaction that backs the store.
func Edit(ctx context.Context, store SnapshotStore, e Entity, p Patch) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if err := store.SaveSnapshot(ctx, e.Snapshot()); err != nil {
		return err
	}
	e.Apply(p)
	e.BumpVersion()
	return nil
}

// Rollback restores the fields captured at targetVersion. The
// pre-rollback state is snapshotted first, so rolling back never loses
// history: a rollback advances the version counter like an edit does,
// and every prior version stays fetchable.
func Rollback(ctx context.Context, store SnapshotStore, e Entity, targetVersion int) error {
	snap, err := store.GetSnapshot(ctx, targetVersion)
	if err != nil {
		return err
	}
	if err := store.SaveSnapshot(ctx, e.Snapshot()); err != nil {
		return err
	}
	e.Restore(snap)
	e.BumpVersion()
	return nil
}
