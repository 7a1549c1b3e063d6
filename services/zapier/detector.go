// Package zapier decides whether ticket evidence points at a failed
// automated provisioning run, which is the gate for the manual
// verification pipeline.
package zapier

import (
	"strings"

	"parkrefund/models"
)

// Tags the automation stamps on tickets it could not provision.
var failureTags = map[string]bool{
	"zapier_failure":      true,
	"zapier_error":        true,
	"automation_failed":   true,
	"provisioning_failed": true,
}

// Phrases in ticket text that indicate the automated step did not complete.
var failureKeywords = []string{
	"zapier failed",
	"zapier error",
	"automation failed",
	"automated booking failed",
	"booking was not created",
	"no confirmation email",
	"never received my pass",
	"never got my parking pass",
}

// Custom-field values the automation writes on failure.
var failureFieldValues = map[string]string{
	"zapier_status":     "failed",
	"automation_status": "failed",
	"provisioning":      "error",
}

// IsZapierFailure reports whether the ticket carries evidence that the
// upstream provisioning step failed. Pure predicate; absence of evidence
// means false.
func IsZapierFailure(ticket models.TicketData) bool {
	for _, tag := range ticket.Tags {
		if failureTags[strings.ToLower(strings.TrimSpace(tag))] {
			return true
		}
	}

	text := strings.ToLower(ticket.FullText())
	for _, kw := range failureKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}

	for field, want := range failureFieldValues {
		if got, ok := ticket.CustomFields[field]; ok && strings.EqualFold(strings.TrimSpace(got), want) {
			return true
		}
	}

	return false
}
