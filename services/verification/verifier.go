package verification

import (
	"context"
	"strings"
	"time"

	"parkrefund/models"

	"go.uber.org/zap"
)

const (
	defaultMaxAttempts = 3
	defaultBackoff     = time.Second
)

// DefaultVerifier implements BookingVerifier against a booking source with
// bounded retry on timeout-class failures.
type DefaultVerifier struct {
	Source      bookingSource
	Logger      *zap.Logger
	MaxAttempts int           // 0 means defaultMaxAttempts
	Backoff     time.Duration // base backoff, grows linearly per attempt
}

func (v *DefaultVerifier) logger() *zap.Logger {
	if v.Logger != nil {
		return v.Logger
	}
	return zap.L()
}

func (v *DefaultVerifier) maxAttempts() int {
	if v.MaxAttempts > 0 {
		return v.MaxAttempts
	}
	return defaultMaxAttempts
}

func (v *DefaultVerifier) backoff() time.Duration {
	if v.Backoff > 0 {
		return v.Backoff
	}
	return defaultBackoff
}

// Verify queries the provider for bookings matching the customer, retrying
// timeouts up to the attempt bound. Authentication failures propagate
// immediately; exhausted retries surface as a verification_failed outcome,
// never a crash.
func (v *DefaultVerifier) Verify(ctx context.Context, info models.CustomerInfo, window SearchWindow) (models.BookingVerificationResult, error) {
	if !info.HasEmail() {
		return models.BookingVerificationResult{
			Outcome:       models.OutcomeVerificationFailed,
			FailureReason: "no customer email available to query the provider",
		}, nil
	}

	if window.StartDate == "" && window.EndDate == "" {
		window = windowFromCustomer(info)
	}

	var bookings []models.Booking
	var lastErr error
	for attempt := 1; attempt <= v.maxAttempts(); attempt++ {
		var err error
		bookings, err = v.Source.SearchBookings(ctx, info.Email, window.StartDate, window.EndDate)
		if err == nil {
			lastErr = nil
			break
		}
		if IsAuthentication(err) {
			return models.BookingVerificationResult{}, err
		}
		if !IsTimeout(err) {
			v.logger().Warn("Provider lookup failed", zap.Error(err))
			return models.BookingVerificationResult{
				Outcome:       models.OutcomeVerificationFailed,
				FailureReason: err.Error(),
			}, nil
		}
		lastErr = err
		v.logger().Warn("Provider lookup timed out",
			zap.Int("attempt", attempt),
			zap.Int("maxAttempts", v.maxAttempts()),
			zap.Error(err))
		if attempt < v.maxAttempts() {
			select {
			case <-time.After(time.Duration(attempt) * v.backoff()):
			case <-ctx.Done():
				return models.BookingVerificationResult{
					Outcome:       models.OutcomeVerificationFailed,
					FailureReason: "verification cancelled: " + ctx.Err().Error(),
				}, nil
			}
		}
	}
	if lastErr != nil {
		return models.BookingVerificationResult{
			Outcome:       models.OutcomeVerificationFailed,
			FailureReason: "provider lookup timed out after retries: " + lastErr.Error(),
		}, nil
	}

	switch len(bookings) {
	case 0:
		return models.BookingVerificationResult{Outcome: models.OutcomeNoBookingFound}, nil
	case 1:
		vb := ScoreBooking(bookings[0], info)
		return models.BookingVerificationResult{Outcome: models.OutcomeVerified, Booking: &vb}, nil
	default:
		return models.BookingVerificationResult{
			Outcome:    models.OutcomeMultipleBookings,
			Candidates: bookings,
		}, nil
	}
}

// windowFromCustomer pads the customer's reported dates by a day on each
// side. With no dates at all the window stays open and the provider filters
// by email alone.
func windowFromCustomer(info models.CustomerInfo) SearchWindow {
	if info.ArrivalDate == "" {
		return SearchWindow{}
	}
	start, err := time.Parse("2006-01-02", info.ArrivalDate)
	if err != nil {
		return SearchWindow{}
	}
	end := start
	if info.ExitDate != "" {
		if t, err := time.Parse("2006-01-02", info.ExitDate); err == nil {
			end = t
		}
	}
	return SearchWindow{
		StartDate: start.AddDate(0, 0, -1).Format("2006-01-02"),
		EndDate:   end.AddDate(0, 0, 1).Format("2006-01-02"),
	}
}

// ScoreBooking grades a provider booking against the customer-reported
// facts. Fields the customer never stated cannot disagree.
func ScoreBooking(b models.Booking, info models.CustomerInfo) models.VerifiedBooking {
	arrival := datePart(b.StartTime)
	exit := datePart(b.EndTime)

	emailMatch := info.Email != "" && strings.EqualFold(b.CustomerEmail, info.Email)
	datesMatch := (info.ArrivalDate == "" || info.ArrivalDate == arrival) &&
		(info.ExitDate == "" || info.ExitDate == exit)
	locationMatch := info.Location == "" ||
		strings.Contains(strings.ToLower(b.Location.Name), strings.ToLower(info.Location)) ||
		strings.Contains(strings.ToLower(info.Location), strings.ToLower(b.Location.Name))

	var confidence models.MatchConfidence
	switch {
	case emailMatch && datesMatch && locationMatch:
		confidence = models.MatchExact
	case emailMatch:
		confidence = models.MatchPartial
	default:
		confidence = models.MatchWeak
	}

	used := b.Used()
	usage := models.PassUnknown
	switch b.Status {
	case models.BookingStatusCompleted, models.BookingStatusCheckedOut:
		usage = models.PassUsed
	case models.BookingStatusConfirmed, models.BookingStatusPending:
		usage = models.PassNotUsed
	}

	return models.VerifiedBooking{
		BookingID:       b.ID,
		CustomerEmail:   b.CustomerEmail,
		ArrivalDate:     arrival,
		ExitDate:        exit,
		Location:        b.Location.Name,
		PassUsed:        used,
		PassUsageStatus: usage,
		AmountPaid:      b.AmountPaid,
		MatchConfidence: confidence,
	}
}

// datePart extracts the ISO date from a provider timestamp; malformed
// timestamps yield an empty string.
func datePart(ts string) string {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, ts); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return ""
}
