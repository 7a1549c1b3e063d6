package resolvers

import (
	"context"
	"fmt"
	"strings"

	recordsRepo "parkrefund/database/repository/records"
	"parkrefund/models"
	"parkrefund/services/decision"
	"parkrefund/services/duplicates"
	"parkrefund/services/extraction"
	"parkrefund/services/notes"
	"parkrefund/services/ticketing"
	"parkrefund/services/verification"
	"parkrefund/services/zapier"
	"parkrefund/utils"

	"go.uber.org/zap"
)

// RefundResolver wires the pipeline stages together and exposes them to any
// caller (webhook worker, operational API, batch job).
type RefundResolver struct {
	Extractor extraction.CustomerInfoExtractor
	Verifier  verification.BookingVerifier
	Decider   decision.DecisionMaker
	Tickets   ticketing.Client
	Records   recordsRepo.DecisionRecordRepository // nil skips audit persistence
}

// NoteEvidence is everything RenderNote needs to pick and fill the right
// note variant.
type NoteEvidence struct {
	Customer     models.CustomerInfo
	Verification *models.BookingVerificationResult
}

// ProcessOutcome is the result of running the full pipeline on one ticket.
type ProcessOutcome struct {
	Skipped    bool                             `json:"skipped"` // Not a provisioning failure, pipeline not run
	Decision   *models.DecisionResult           `json:"decision,omitempty"`
	Note       string                           `json:"note,omitempty"`
	Duplicates *models.DuplicateDetectionResult `json:"duplicates,omitempty"`
	RecordID   string                           `json:"record_id,omitempty"`
}

// ProcessTicket runs the gated end-to-end pipeline: provisioning-failure
// gate, extraction, verification, duplicate analysis, decision, note
// rendering, audit persistence, and handoff to the ticketing system.
func (r *RefundResolver) ProcessTicket(ctx context.Context, ticket models.TicketData, ticketNotes []models.TicketNote) (*ProcessOutcome, error) {
	logger := utils.GetLogger()

	if !zapier.IsZapierFailure(ticket) {
		logger.Debug("Ticket shows no provisioning failure, skipping pipeline", zap.String("ticketID", ticket.ID))
		return &ProcessOutcome{Skipped: true}, nil
	}

	info, verif, dup, err := r.gatherEvidence(ctx, ticket, ticketNotes)
	if err != nil {
		// Credential failures are operational, not per-ticket.
		return nil, err
	}

	result := r.Decider.MakeDecision(ctx, decision.DecisionInput{
		Ticket:       ticket,
		Notes:        ticketNotes,
		Customer:     info,
		Verification: verif,
		Duplicates:   dup,
	})

	note := r.RenderNote(NoteEvidence{Customer: info, Verification: verif})

	outcome := &ProcessOutcome{
		Decision:   &result,
		Note:       note,
		Duplicates: dup,
	}

	if r.Records != nil {
		record := models.DecisionRecord{
			TicketID:   ticket.ID,
			Result:     result,
			Duplicates: dup,
			Note:       note,
		}
		if verif != nil {
			record.VerifiedBooking = verif.Booking
		}
		id, err := r.Records.Create(ctx, record)
		if err != nil {
			logger.Error("Failed to persist decision record", zap.String("ticketID", ticket.ID), zap.Error(err))
		} else {
			outcome.RecordID = id
		}
	}

	if r.Tickets != nil {
		if err := r.Tickets.PostNote(ctx, ticket.ID, note); err != nil {
			logger.Error("Failed to post verification note", zap.String("ticketID", ticket.ID), zap.Error(err))
		}
		if err := r.Tickets.AddTags(ctx, ticket.ID, decisionTags(result)); err != nil {
			logger.Error("Failed to tag ticket", zap.String("ticketID", ticket.ID), zap.Error(err))
		}
	}

	return outcome, nil
}

// DecideRefund runs the ungated pipeline and returns only the decision.
func (r *RefundResolver) DecideRefund(ctx context.Context, ticket models.TicketData, ticketNotes []models.TicketNote) (models.DecisionResult, error) {
	info, verif, dup, err := r.gatherEvidence(ctx, ticket, ticketNotes)
	if err != nil {
		return models.DecisionResult{}, err
	}
	return r.Decider.MakeDecision(ctx, decision.DecisionInput{
		Ticket:       ticket,
		Notes:        ticketNotes,
		Customer:     info,
		Verification: verif,
		Duplicates:   dup,
	}), nil
}

// gatherEvidence runs extraction, verification and duplicate analysis,
// degrading to partial evidence wherever a stage cannot conclude.
func (r *RefundResolver) gatherEvidence(ctx context.Context, ticket models.TicketData, ticketNotes []models.TicketNote) (models.CustomerInfo, *models.BookingVerificationResult, *models.DuplicateDetectionResult, error) {
	logger := utils.GetLogger()

	text := ticket.FullText()
	if len(ticketNotes) > 0 {
		var sb strings.Builder
		sb.WriteString(text)
		for _, n := range ticketNotes {
			sb.WriteString("\n")
			sb.WriteString(n.Body)
		}
		text = sb.String()
	}

	info, err := r.Extractor.Extract(ctx, text, ticket.CreatedAt)
	if err != nil {
		// Insufficient text evidence; the decision layer's sufficiency gate
		// turns this into a human-review verdict.
		logger.Info("Extraction found no usable facts", zap.String("ticketID", ticket.ID), zap.Error(err))
		return info, nil, nil, nil
	}

	verif, err := r.Verifier.Verify(ctx, info, verification.SearchWindow{})
	if err != nil {
		if verification.IsAuthentication(err) {
			return info, nil, nil, fmt.Errorf("booking provider authentication failed: %w", err)
		}
		logger.Warn("Verification failed unexpectedly", zap.String("ticketID", ticket.ID), zap.Error(err))
		verif = models.BookingVerificationResult{
			Outcome:       models.OutcomeVerificationFailed,
			FailureReason: err.Error(),
		}
	}

	var dup *models.DuplicateDetectionResult
	if verif.Outcome == models.OutcomeMultipleBookings {
		entries := make([]any, len(verif.Candidates))
		for i, b := range verif.Candidates {
			entries[i] = b
		}
		res := duplicates.Analyze(entries)
		dup = &res
	}

	return info, &verif, dup, nil
}

// VerifyBooking exposes provider verification directly.
func (r *RefundResolver) VerifyBooking(ctx context.Context, info models.CustomerInfo) (models.BookingVerificationResult, error) {
	return r.Verifier.Verify(ctx, info, verification.SearchWindow{})
}

// AnalyzeDuplicates exposes duplicate clustering directly.
func (r *RefundResolver) AnalyzeDuplicates(entries []any) models.DuplicateDetectionResult {
	return duplicates.Analyze(entries)
}

// RenderNote picks the note variant matching the verification outcome.
func (r *RefundResolver) RenderNote(ev NoteEvidence) string {
	if ev.Verification == nil {
		return notes.GenerateVerificationFailedNote(ev.Customer, "no verification attempt completed")
	}
	switch ev.Verification.Outcome {
	case models.OutcomeVerified:
		if ev.Verification.Booking != nil {
			return notes.GenerateVerifiedNote(*ev.Verification.Booking, ev.Customer)
		}
		return notes.GenerateVerificationFailedNote(ev.Customer, "verification reported success without a booking record")
	case models.OutcomeMultipleBookings:
		return notes.GenerateMultipleBookingsNote(ev.Verification.Candidates, ev.Customer)
	case models.OutcomeNoBookingFound:
		return notes.GenerateVerificationFailedNote(ev.Customer, "no booking found for the customer in the provider records")
	default:
		reason := ev.Verification.FailureReason
		if reason == "" {
			reason = "verification failed"
		}
		return notes.GenerateVerificationFailedNote(ev.Customer, reason)
	}
}

// decisionTags are the ticketing-system tags for a decision.
func decisionTags(res models.DecisionResult) []string {
	tags := []string{"refund_pipeline"}
	switch res.Decision {
	case models.DecisionApproved:
		tags = append(tags, "refund_approved")
	case models.DecisionDenied:
		tags = append(tags, "refund_denied")
	default:
		tags = append(tags, "refund_needs_review")
	}
	return append(tags, "method_"+string(res.MethodUsed))
}
