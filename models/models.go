package models

import (
	"time"

	"github.com/google/uuid"

	"tenderwork/internal/versioning"
)

// Field length bounds enforced at the request boundary. Name and
// serviceType bounds come from the versioning package, which validates
// them on every patch.
const (
	MaxNameLen        = versioning.MaxNameLen
	MaxServiceTypeLen = versioning.MaxServiceTypeLen
	MaxUsernameLen    = 50
	MaxOrgNameLen     = 100
)

type OrganizationType string

const (
	OrgTypeIE  OrganizationType = "IE"
	OrgTypeLLC OrganizationType = "LLC"
	OrgTypeJSC OrganizationType = "JSC"
)

func (t OrganizationType) Valid() bool {
	switch t {
	case OrgTypeIE, OrgTypeLLC, OrgTypeJSC:
		return true
	default:
		return false
	}
}

type TenderStatus string

const (
	TenderCreated   TenderStatus = "Created"
	TenderPublished TenderStatus = "Published"
	TenderClosed    TenderStatus = "Closed"
)

func (s TenderStatus) Valid() bool {
	switch s {
	case TenderCreated, TenderPublished, TenderClosed:
		return true
	default:
		return false
	}
}

type BidStatus string

const (
	BidCreated   BidStatus = "Created"
	BidPublished BidStatus = "Published"
	BidCancelled BidStatus = "Cancelled"
)

func (s BidStatus) Valid() bool {
	switch s {
	case BidCreated, BidPublished, BidCancelled:
		return true
	default:
		return false
	}
}

type AuthorType string

const (
	AuthorOrganization AuthorType = "Organization"
	AuthorUser         AuthorType = "User"
)

func (t AuthorType) Valid() bool {
	switch t {
	case AuthorOrganization, AuthorUser:
		return true
	default:
		return false
	}
}

type Decision string

const (
	DecisionApproved Decision = "Approved"
	DecisionRejected Decision = "Rejected"
)

func (d Decision) Valid() bool {
	switch d {
	case DecisionApproved, DecisionRejected:
		return true
	default:
		return false
	}
}

// Employee is created externally (cmd/seed); it only anchors authorship
// and access checks.
type Employee struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Username  string    `db:"username" json:"username"`
	FirstName string    `db:"first_name" json:"firstName"`
	LastName  string    `db:"last_name" json:"lastName"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"-"`
}

type Organization struct {
	ID          uuid.UUID        `db:"id" json:"id"`
	Name        string           `db:"name" json:"name"`
	Description string           `db:"description" json:"description"`
	Type        OrganizationType `db:"type" json:"type"`
	CreatedAt   time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time        `db:"updated_at" json:"-"`
}

// Tender versions start at 1 and only grow; every edit or rollback first
// captures the current fields as a TenderSnapshot, so version is always
// 1 + the number of snapshots on record.
type Tender struct {
	ID             uuid.UUID    `db:"id" json:"id"`
	Name           string       `db:"name" json:"name"`
	Description    string       `db:"description" json:"description"`
	ServiceType    string       `db:"service_type" json:"serviceType"`
	Status         TenderStatus `db:"status" json:"status"`
	Version        int          `db:"version" json:"version"`
	OrganizationID uuid.UUID    `db:"organization_id" json:"-"`
	CreatorID      uuid.UUID    `db:"creator_id" json:"-"`
	CreatedAt      time.Time    `db:"created_at" json:"createdAt"`
}

// TenderSnapshot is an immutable capture of a tender's editable fields,
// keyed by (tender, version). Never updated or deleted.
type TenderSnapshot struct {
	TenderID    uuid.UUID `db:"tender_id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	ServiceType string    `db:"service_type"`
	Version     int       `db:"version"`
}

// Bid.Approved is tri-state: nil until a decision lands, then true or
// false exactly once. OrganizationID is set iff AuthorType is
// Organization.
type Bid struct {
	ID             uuid.UUID     `db:"id" json:"id"`
	Name           string        `db:"name" json:"name"`
	Description    string        `db:"description" json:"description"`
	Status         BidStatus     `db:"status" json:"status"`
	AuthorType     AuthorType    `db:"author_type" json:"authorType"`
	Version        int           `db:"version" json:"version"`
	Approvements   int           `db:"approvements" json:"-"`
	Approved       *bool         `db:"approved" json:"-"`
	CreatorID      uuid.UUID     `db:"creator_id" json:"-"`
	OrganizationID uuid.NullUUID `db:"organization_id" json:"-"`
	TenderID       uuid.UUID     `db:"tender_id" json:"-"`
	CreatedAt      time.Time     `db:"created_at" json:"createdAt"`
}

type BidSnapshot struct {
	BidID       uuid.UUID `db:"bid_id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	Version     int       `db:"version"`
}

// Feedback is always attributed to the bid's creator ("executor"),
// regardless of who submitted it.
type Feedback struct {
	ID          uuid.UUID `db:"id" json:"id"`
	BidID       uuid.UUID `db:"bid_id" json:"-"`
	Description string    `db:"description" json:"description"`
	ExecutorID  uuid.UUID `db:"executor_id" json:"-"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}
