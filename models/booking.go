package models

// Booking statuses used by the provider. Completed and checked-out bookings
// count as "used" for duplicate resolution.
const (
	BookingStatusCompleted  = "completed"
	BookingStatusCheckedOut = "checked_out"
	BookingStatusConfirmed  = "confirmed"
	BookingStatusPending    = "pending"
)

// BookingLocation identifies the garage/lot a booking belongs to.
type BookingLocation struct {
	ID   string `bson:"id" json:"id"`     // Provider location identifier
	Name string `bson:"name" json:"name"` // Human-readable location name
}

// Booking is a single reservation record as returned by the booking provider.
// The provider owns this data; the pipeline only reads it. Records may arrive
// malformed and every consumer must degrade gracefully instead of raising.
type Booking struct {
	ID            string          `bson:"id" json:"id"`                           // Provider booking identifier
	StartTime     string          `bson:"start_time" json:"start_time"`           // ISO-8601 timestamp
	EndTime       string          `bson:"end_time" json:"end_time"`               // ISO-8601 timestamp
	Location      BookingLocation `bson:"location" json:"location"`               // Garage/lot
	Status        string          `bson:"status" json:"status"`                   // completed | checked_out | confirmed | pending
	CustomerEmail string          `bson:"customer_email" json:"customer_email"`   // Email the booking was made under
	AmountPaid    float64         `bson:"amount" json:"amount"`                   // Amount paid, provider currency
}

// Used reports whether the booking's pass was consumed per provider status.
func (b Booking) Used() bool {
	return b.Status == BookingStatusCompleted || b.Status == BookingStatusCheckedOut
}
