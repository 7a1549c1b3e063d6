package decision

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"parkrefund/models"
	ai "parkrefund/services/intelligence"

	"go.uber.org/zap"
)

// llmVerdict mirrors the JSON the model is asked to produce.
type llmVerdict struct {
	Decision   string `json:"decision"`
	Confidence string `json:"confidence"`
	Reasoning  string `json:"reasoning"`
}

const verdictPromptTemplate = `You are a parking-refund policy analyst. Apply the policy below to the
ticket and respond with ONLY a JSON object:
{"decision": "Approved" | "Denied" | "Needs Human Review",
 "confidence": "high" | "medium" | "low",
 "reasoning": "<one or two sentences citing the policy>"}

Refund policy:
%s

Facilities exception:
%s

Ticket (subject and description):
%s

Extracted customer facts:
%s

Rule-engine notes:
%s`

// llmFallback asks the model to reason over the ambiguous case. Any failure
// of the call or its output contract resolves to Needs Human Review.
func (d *DefaultDecisionMaker) llmFallback(ctx context.Context, in DecisionInput, hints []string, bookingFound bool) models.DecisionResult {
	review := func(reason string) models.DecisionResult {
		return models.DecisionResult{
			Decision:         models.DecisionReview,
			Reasoning:        reason,
			PolicyApplied:    "llm_unavailable",
			Confidence:       models.ConfidenceLow,
			BookingInfoFound: bookingFound,
			MethodUsed:       models.MethodLLM,
		}
	}

	if d.AI == nil {
		return review("no deterministic rule matched and no automated reasoning is configured, needs human review")
	}

	refundPolicy, err := d.Policies.GetPolicy(ctx, PolicyRefund)
	if err != nil {
		d.logger().Warn("Failed to load refund policy", zap.Error(err))
		return review("refund policy document unavailable, needs human review")
	}
	facilitiesPolicy, err := d.Policies.GetPolicy(ctx, PolicyFacilitiesException)
	if err != nil {
		facilitiesPolicy = ""
	}

	facts, _ := json.Marshal(in.Customer)
	prompt := fmt.Sprintf(verdictPromptTemplate,
		refundPolicy,
		facilitiesPolicy,
		in.Ticket.FullText(),
		string(facts),
		strings.Join(hints, "; "))

	llmCtx, cancel := context.WithTimeout(ctx, d.llmTimeout())
	defer cancel()

	reply, err := d.AI.GenerateContent(llmCtx, prompt)
	if err != nil {
		d.logger().Warn("LLM decision call failed", zap.String("ticketID", in.Ticket.ID), zap.Error(err))
		return review("automated reasoning timed out or failed, needs human review")
	}

	block := ai.ExtractJSONBlock(reply)
	if block == "" {
		return review("automated reasoning returned no parseable verdict, needs human review")
	}
	var verdict llmVerdict
	if err := json.Unmarshal([]byte(block), &verdict); err != nil {
		return review("automated reasoning returned a malformed verdict, needs human review")
	}

	decisionValue, ok := normalizeDecision(verdict.Decision)
	if !ok {
		return review(fmt.Sprintf("automated reasoning returned an unknown decision %q, needs human review", verdict.Decision))
	}
	reasoning := strings.TrimSpace(verdict.Reasoning)
	if reasoning == "" {
		reasoning = "language-model verdict without stated reasoning"
	}

	method := models.MethodLLM
	if len(hints) > 0 && bookingFound {
		method = models.MethodHybrid
	}

	return models.DecisionResult{
		Decision:         decisionValue,
		Reasoning:        reasoning,
		PolicyApplied:    PolicyRefund,
		Confidence:       normalizeConfidence(verdict.Confidence),
		BookingInfoFound: bookingFound,
		MethodUsed:       method,
	}
}

func normalizeDecision(s string) (models.Decision, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "approved", "approve":
		return models.DecisionApproved, true
	case "denied", "deny":
		return models.DecisionDenied, true
	case "needs human review", "review", "escalate":
		return models.DecisionReview, true
	}
	return "", false
}

func normalizeConfidence(s string) models.ConfidenceLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return models.ConfidenceHigh
	case "medium":
		return models.ConfidenceMedium
	default:
		return models.ConfidenceLow
	}
}
