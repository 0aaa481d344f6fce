package models

import "tenderwork/internal/versioning"

// Tender and Bid implement versioning.Entity so edits and rollbacks run
// through the shared snapshot discipline.

func (t *Tender) Snapshot() versioning.Snapshot {
	return versioning.Snapshot{
		Name:        t.Name,
		Description: t.Description,
		ServiceType: t.ServiceType,
		Version:     t.Version,
	}
}

func (t *Tender) Restore(s versioning.Snapshot) {
	t.Name = s.Name
	t.Description = s.Description
	t.ServiceType = s.ServiceType
}

func (t *Tender) Apply(p versioning.Patch) {
	if p.Name != "" {
		t.Name = p.Name
	}
	if p.Description != "" {
		t.Description = p.Description
	}
	if p.ServiceType != "" {
		t.ServiceType = p.ServiceType
	}
}

func (t *Tender) BumpVersion() { t.Version++ }

func (b *Bid) Snapshot() versioning.Snapshot {
	return versioning.Snapshot{
		Name:        b.Name,
		Description: b.Description,
		Version:     b.Version,
	}
}

func (b *Bid) Restore(s versioning.Snapshot) {
	b.Name = s.Name
	b.Description = s.Description
}

func (b *Bid) Apply(p versioning.Patch) {
	if p.Name != "" {
		b.Name = p.Name
	}
	if p.Description != "" {
		b.Description = p.Description
	}
}

func (b *Bid) BumpVersion() { b.Version++ }
