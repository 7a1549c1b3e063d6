package decision

import (
	"context"
	"time"

	"parkrefund/models"
	ai "parkrefund/services/intelligence"

	"go.uber.org/zap"
)

const defaultLLMTimeout = 10 * time.Second

// DefaultDecisionMaker implements DecisionMaker: deterministic rules first,
// LLM reasoning as fallback.
type DefaultDecisionMaker struct {
	Policies   PolicyStore
	AI         ai.CompletionClient // nil disables the LLM fallback
	Logger     *zap.Logger
	LLMTimeout time.Duration
	Clock      func() time.Time // test hook, defaults to time.Now
}

func (d *DefaultDecisionMaker) logger() *zap.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return zap.L()
}

func (d *DefaultDecisionMaker) now() time.Time {
	if d.Clock != nil {
		return d.Clock()
	}
	return time.Now()
}

func (d *DefaultDecisionMaker) llmTimeout() time.Duration {
	if d.LLMTimeout > 0 {
		return d.LLMTimeout
	}
	return defaultLLMTimeout
}

// MakeDecision renders the final verdict for one ticket's evidence.
func (d *DefaultDecisionMaker) MakeDecision(ctx context.Context, in DecisionInput) models.DecisionResult {
	start := time.Now()
	res := d.decide(ctx, in)
	res.ProcessingTimeMs = time.Since(start).Milliseconds()

	// CancellationReason is set iff Approved.
	if res.Decision == models.DecisionApproved {
		if res.CancellationReason == "" {
			res.CancellationReason = cancellationReason(res.PolicyApplied)
		}
	} else {
		res.CancellationReason = ""
	}

	d.logger().Info("Refund decision rendered",
		zap.String("ticketID", in.Ticket.ID),
		zap.String("decision", string(res.Decision)),
		zap.String("method", string(res.MethodUsed)),
		zap.String("policy", res.PolicyApplied),
		zap.Int64("processingMs", res.ProcessingTimeMs))
	return res
}

func (d *DefaultDecisionMaker) decide(ctx context.Context, in DecisionInput) models.DecisionResult {
	bookingFound := verifiedBooking(in) != nil ||
		(in.Duplicates != nil && in.Duplicates.HasDuplicates) ||
		(in.Verification != nil && len(in.Verification.Candidates) > 0)

	// Data-sufficiency gate: with no booking identifier and no event date
	// there is nothing to decide on.
	if !bookingFound && !in.Customer.HasDates() {
		return models.DecisionResult{
			Decision:         models.DecisionReview,
			Reasoning:        "no booking identifier or event date could be established from the ticket, insufficient data for an automated decision",
			PolicyApplied:    "data_sufficiency_gate",
			Confidence:       models.ConfidenceLow,
			BookingInfoFound: false,
			MethodUsed:       models.MethodExtractionFailed,
		}
	}

	verdict, hints := evaluateRules(in, d.now())
	if verdict != nil {
		return models.DecisionResult{
			Decision:         verdict.decision,
			Reasoning:        verdict.reasoning,
			PolicyApplied:    verdict.rule,
			Confidence:       models.ConfidenceHigh,
			BookingInfoFound: bookingFound,
			MethodUsed:       models.MethodRules,
		}
	}

	return d.llmFallback(ctx, in, hints, bookingFound)
}
