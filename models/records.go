package models

import "time"

// DecisionRecord is the persisted audit trail for one processed ticket.
type DecisionRecord struct {
	ID              string                    `bson:"id" json:"id"`
	TicketID        string                    `bson:"ticket_id" json:"ticket_id"`
	Result          DecisionResult            `bson:"result" json:"result"`
	VerifiedBooking *VerifiedBooking          `bson:"verified_booking,omitempty" json:"verified_booking,omitempty"`
	Duplicates      *DuplicateDetectionResult `bson:"duplicates,omitempty" json:"duplicates,omitempty"`
	Note            string                    `bson:"note" json:"note"` // Rendered verification note
	CreatedAt       time.Time                 `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time                 `bson:"updated_at" json:"updated_at"`
}
