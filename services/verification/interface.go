package verification

import (
	"context"

	"parkrefund/models"
)

// SearchWindow bounds the provider lookup. Zero-value bounds fall back to a
// window derived from the customer's reported dates.
type SearchWindow struct {
	StartDate string // ISO-8601 date, inclusive
	EndDate   string // ISO-8601 date, inclusive
}

// BookingVerifier looks up and scores candidate bookings from the provider
// for a given customer.
type BookingVerifier interface {
	Verify(ctx context.Context, info models.CustomerInfo, window SearchWindow) (models.BookingVerificationResult, error)
}

// bookingSource abstracts the provider client so the verifier is testable
// without HTTP.
type bookingSource interface {
	SearchBookings(ctx context.Context, email, startDate, endDate string) ([]models.Booking, error)
}
