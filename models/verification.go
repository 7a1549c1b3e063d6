package models

// PassUsageStatus indicates whether the parking pass for a booking was used.
type PassUsageStatus string

const (
	PassUsed    PassUsageStatus = "used"
	PassNotUsed PassUsageStatus = "not_used"
	PassUnknown PassUsageStatus = "unknown"
)

// MatchConfidence grades how well a provider booking agrees with the
// customer-reported facts.
type MatchConfidence string

const (
	MatchExact   MatchConfidence = "exact"
	MatchPartial MatchConfidence = "partial"
	MatchWeak    MatchConfidence = "weak"
)

// VerifiedBooking is the scored result of matching one provider booking
// against extracted customer info. Produced once per verification attempt,
// read-only thereafter.
type VerifiedBooking struct {
	BookingID       string          `bson:"booking_id" json:"booking_id"`
	CustomerEmail   string          `bson:"customer_email" json:"customer_email"`
	ArrivalDate     string          `bson:"arrival_date" json:"arrival_date"` // ISO-8601 date
	ExitDate        string          `bson:"exit_date" json:"exit_date"`       // ISO-8601 date
	Location        string          `bson:"location" json:"location"`
	PassUsed        bool            `bson:"pass_used" json:"pass_used"`
	PassUsageStatus PassUsageStatus `bson:"pass_usage_status" json:"pass_usage_status"`
	AmountPaid      float64         `bson:"amount_paid" json:"amount_paid"`
	MatchConfidence MatchConfidence `bson:"match_confidence" json:"match_confidence"`
}

// VerificationOutcome is the terminal state of one verification attempt.
type VerificationOutcome string

const (
	OutcomeVerified           VerificationOutcome = "verified"
	OutcomeNoBookingFound     VerificationOutcome = "no_booking_found"
	OutcomeMultipleBookings   VerificationOutcome = "multiple_bookings"
	OutcomeVerificationFailed VerificationOutcome = "verification_failed"
)

// BookingVerificationResult carries the outcome of a provider lookup.
// On OutcomeMultipleBookings the raw candidates are passed forward for
// duplicate analysis rather than picking one unilaterally.
type BookingVerificationResult struct {
	Outcome       VerificationOutcome `json:"outcome"`
	Booking       *VerifiedBooking    `json:"booking,omitempty"`
	Candidates    []Booking           `json:"candidates,omitempty"`
	FailureReason string              `json:"failure_reason,omitempty"`
}
