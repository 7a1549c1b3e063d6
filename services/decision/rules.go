package decision

import (
	"fmt"
	"strings"
	"time"

	"parkrefund/models"
)

// Rule names recorded in DecisionResult.PolicyApplied.
const (
	RuleDuplicateEscalation = "duplicate_escalation"
	RuleDuplicateRefund     = "duplicate_booking"
	RuleFacilitiesException = "facilities_exception"
	RulePassAlreadyUsed     = "pass_already_used"
	RuleAdvanceCancellation = "advance_cancellation_window"
	RulePastEventNoUsage    = "past_event_no_usage"
)

// advanceWindowDays is the threshold for the free-cancellation rule; events
// closer than this fall into the ambiguous window and go to the LLM.
const advanceWindowDays = 7

// Facility-malfunction phrases that trigger the facilities exception.
var facilityKeywords = []string{
	"gate was broken",
	"gate broken",
	"broken gate",
	"gate malfunction",
	"gate wouldn't open",
	"gate would not open",
	"barrier stuck",
	"pass didn't scan",
	"pass did not scan",
	"pass was rejected",
	"qr code didn't work",
	"garage was closed",
	"lot was closed",
	"lot was full",
	"garage was full",
	"equipment failure",
	"could not enter",
	"couldn't enter",
	"could not exit",
	"couldn't exit",
}

// ruleVerdict is a deterministic rule outcome; hint-only evaluations carry
// evidence text for the LLM instead of a verdict.
type ruleVerdict struct {
	decision  models.Decision
	rule      string
	reasoning string
}

// evaluateRules tries the deterministic rules in fixed priority order and
// returns the first match, plus the hints gathered for the LLM when no rule
// fires. Priority:
//  1. duplicate-analysis escalation
//  2. duplicate refund
//  3. facilities exception (malfunction keywords)
//  4. pass already used
//  5. advance cancellation window (>= 7 days out, confirmed and unused)
//  6. past event with no usage evidence
func evaluateRules(in DecisionInput, now time.Time) (*ruleVerdict, []string) {
	var hints []string

	if in.Duplicates != nil && in.Duplicates.HasDuplicates {
		switch in.Duplicates.Action {
		case models.DuplicateActionEscalate:
			return &ruleVerdict{
				decision:  models.DecisionReview,
				rule:      RuleDuplicateEscalation,
				reasoning: "duplicate analysis needs human review: " + in.Duplicates.Explanation,
			}, nil
		case models.DuplicateActionRefund:
			return &ruleVerdict{
				decision:  models.DecisionApproved,
				rule:      RuleDuplicateRefund,
				reasoning: in.Duplicates.Explanation,
			}, nil
		}
	}

	text := strings.ToLower(in.Ticket.FullText())
	for _, kw := range facilityKeywords {
		if strings.Contains(text, kw) {
			return &ruleVerdict{
				decision:  models.DecisionApproved,
				rule:      RuleFacilitiesException,
				reasoning: fmt.Sprintf("customer reports a facility malfunction (%q), approved under the facilities exception", kw),
			}, nil
		}
	}

	booking := verifiedBooking(in)
	if booking == nil {
		hints = append(hints, "no verified booking record available")
		return nil, hints
	}

	if booking.PassUsed {
		return &ruleVerdict{
			decision:  models.DecisionDenied,
			rule:      RulePassAlreadyUsed,
			reasoning: fmt.Sprintf("booking %s shows the pass was used (%s), not refundable", booking.BookingID, booking.PassUsageStatus),
		}, nil
	}

	eventDate, ok := parseEventDate(booking, in.Customer)
	if !ok {
		hints = append(hints, "event date could not be established from booking or ticket")
		return nil, hints
	}

	daysOut := int(eventDate.Sub(now).Hours() / 24)
	switch {
	case daysOut >= advanceWindowDays && booking.PassUsageStatus == models.PassNotUsed:
		return &ruleVerdict{
			decision:  models.DecisionApproved,
			rule:      RuleAdvanceCancellation,
			reasoning: fmt.Sprintf("event is %d days out with a confirmed, unused booking, inside the free-cancellation window", daysOut),
		}, nil
	case daysOut < 0 && booking.PassUsageStatus == models.PassNotUsed:
		return &ruleVerdict{
			decision:  models.DecisionDenied,
			rule:      RulePastEventNoUsage,
			reasoning: "event date has passed with no usage evidence, outside any cancellation window",
		}, nil
	case daysOut >= 0 && daysOut < advanceWindowDays:
		hints = append(hints, fmt.Sprintf("event is %d days out, inside the ambiguous cancellation window", daysOut))
	case booking.PassUsageStatus == models.PassUnknown:
		hints = append(hints, "pass usage status is unknown")
	}

	return nil, hints
}

// verifiedBooking pulls the single verified booking out of the evidence.
func verifiedBooking(in DecisionInput) *models.VerifiedBooking {
	if in.Verification == nil {
		return nil
	}
	return in.Verification.Booking
}

// parseEventDate prefers the provider-verified arrival date over the
// customer-reported one.
func parseEventDate(booking *models.VerifiedBooking, customer models.CustomerInfo) (time.Time, bool) {
	for _, candidate := range []string{booking.ArrivalDate, customer.ArrivalDate} {
		if candidate == "" {
			continue
		}
		if t, err := time.Parse("2006-01-02", candidate); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
