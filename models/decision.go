package models

// Decision is the final refund verdict for a ticket.
type Decision string

const (
	DecisionApproved Decision = "Approved"
	DecisionDenied   Decision = "Denied"
	DecisionReview   Decision = "Needs Human Review"
)

// ConfidenceLevel grades how sure the engine is about its verdict.
type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "high"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceLow    ConfidenceLevel = "low"
)

// DecisionMethod records which path produced the verdict.
type DecisionMethod string

const (
	MethodRules            DecisionMethod = "rules"
	MethodLLM              DecisionMethod = "llm"
	MethodHybrid           DecisionMethod = "hybrid"
	MethodExtractionFailed DecisionMethod = "extraction_failed"
)

// DecisionResult is the auditable outcome of one refund decision.
// CancellationReason is set iff Decision == Approved.
type DecisionResult struct {
	Decision           Decision        `bson:"decision" json:"decision"`
	Reasoning          string          `bson:"reasoning" json:"reasoning"`
	PolicyApplied      string          `bson:"policy_applied" json:"policy_applied"`
	Confidence         ConfidenceLevel `bson:"confidence" json:"confidence"`
	CancellationReason string          `bson:"cancellation_reason,omitempty" json:"cancellation_reason,omitempty"`
	BookingInfoFound   bool            `bson:"booking_info_found" json:"booking_info_found"`
	MethodUsed         DecisionMethod  `bson:"method_used" json:"method_used"`
	ProcessingTimeMs   int64           `bson:"processing_time_ms" json:"processing_time_ms"`
}
