package decision

import (
	"context"

	"parkrefund/models"
)

// DecisionInput is one ticket's accumulated evidence: the raw ticket, prior
// notes, extracted customer facts, and whatever verification and duplicate
// analysis produced (nil when those stages did not run or found nothing).
type DecisionInput struct {
	Ticket       models.TicketData
	Notes        []models.TicketNote
	Customer     models.CustomerInfo
	Verification *models.BookingVerificationResult
	Duplicates   *models.DuplicateDetectionResult
}

// DecisionMaker renders a final refund verdict. Every call returns a
// populated DecisionResult with non-empty reasoning; failures of the LLM
// path degrade to Needs Human Review, never to a missing decision.
type DecisionMaker interface {
	MakeDecision(ctx context.Context, in DecisionInput) models.DecisionResult
}
