package decision

// Provider cancellation-reason codes, sent with the refund request so the
// provider books the cancellation under the right clause.
const (
	CancelReasonAdvance   = "customer_advance_cancellation"
	CancelReasonFacility  = "facility_malfunction"
	CancelReasonDuplicate = "duplicate_booking"
	CancelReasonException = "policy_exception"
)

var cancellationReasons = map[string]string{
	RuleAdvanceCancellation: CancelReasonAdvance,
	RuleFacilitiesException: CancelReasonFacility,
	RuleDuplicateRefund:     CancelReasonDuplicate,
}

// cancellationReason maps the policy clause that approved a refund to the
// provider's cancellation-reason code. Approvals without a mapped clause
// (LLM special circumstances) fall back to the generic exception code.
func cancellationReason(policyApplied string) string {
	if code, ok := cancellationReasons[policyApplied]; ok {
		return code
	}
	return CancelReasonException
}
