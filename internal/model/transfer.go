package model

import "time"

// Transfer statuses. A transfer is created pending (cashier path) or
// completed (privileged path); pending resolves to exactly one of
// accepted or rejected and never re-enters pending.
const (
	TransferStatusPending   = "pending"
	TransferStatusAccepted  = "accepted"
	TransferStatusRejected  = "rejected"
	TransferStatusCompleted = "completed"
)

type Transfer struct {
	ID               string     `db:"id" json:"id"`
	SourceLocationID string     `db:"source_location" json:"source_location"`
	DestLocationID   string     `db:"destination_location" json:"destination_location"`
	ItemID           string     `db:"item_id" json:"item_id"`
	Quantity         float64    `db:"quantity" json:"quantity"`
	Status           string     `db:"status" json:"status"`
	RequestedBy      string     `db:"requested_by" json:"requested_by"`
	ApprovedBy       *string    `db:"approved_by" json:"approved_by,omitempty"`
	Notes            string     `db:"notes" json:"notes,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	CompletedAt      *time.Time `db:"completed_at" json:"completed_at,omitempty"`
}
