package models

// DuplicateAction is what the pipeline should do about a duplicate cluster.
type DuplicateAction string

const (
	DuplicateActionDeny     DuplicateAction = "deny"
	DuplicateActionRefund   DuplicateAction = "refund_duplicate"
	DuplicateActionEscalate DuplicateAction = "escalate"
)

// DuplicateDetectionResult is the outcome of clustering a customer's bookings
// by location and time overlap. Never carries both HasDuplicates=true and
// Action=deny.
type DuplicateDetectionResult struct {
	HasDuplicates   bool            `json:"has_duplicates"`
	DuplicateCount  int             `json:"duplicate_count"`
	Action          DuplicateAction `json:"action"`
	UsedBookingID   string          `json:"used_booking_id,omitempty"`   // Booking to keep
	UnusedBookingID string          `json:"unused_booking_id,omitempty"` // Refund candidate
	Explanation     string          `json:"explanation"`
}
