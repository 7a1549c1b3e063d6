// Package notes renders verification evidence and decisions into auditable
// HTML notes for the ticketing system. Pure rendering: no I/O.
package notes

import (
	"fmt"
	"html"
	"strings"

	"parkrefund/models"
)

const (
	noteStyle    = `style="font-family: Arial, sans-serif; border: 1px solid #ccc; border-radius: 4px; padding: 12px; margin: 8px 0;"`
	headerStyle  = `style="margin: 0 0 8px 0; color: #2c3e50;"`
	rowStyle     = `style="margin: 2px 0;"`
	usedStyle    = `style="color: #c0392b; font-weight: bold;"`
	notUsedStyle = `style="color: #27ae60; font-weight: bold;"`
	warnStyle    = `style="background: #fff3cd; border-left: 4px solid #e67e22; padding: 8px; margin-top: 8px;"`
	failStyle    = `style="background: #f8d7da; border-left: 4px solid #c0392b; padding: 8px;"`
)

// GenerateVerifiedNote renders a single verified booking with the customer's
// reported facts, including a discrepancies section when they disagree.
func GenerateVerifiedNote(vb models.VerifiedBooking, info models.CustomerInfo) string {
	usageMarker := "NOT USED"
	usageStyle := notUsedStyle
	if vb.PassUsed {
		usageMarker = "USED"
		usageStyle = usedStyle
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<div %s>\n", noteStyle))
	sb.WriteString(fmt.Sprintf("<h3 %s>Booking Verification</h3>\n", headerStyle))
	sb.WriteString(fmt.Sprintf("<p %s><strong>Booking ID:</strong> %s</p>\n", rowStyle, html.EscapeString(vb.BookingID)))
	sb.WriteString(fmt.Sprintf("<p %s><strong>Pass Usage:</strong> <span %s>%s</span> (%s)</p>\n",
		rowStyle, usageStyle, usageMarker, html.EscapeString(string(vb.PassUsageStatus))))
	sb.WriteString(fmt.Sprintf("<p %s><strong>Customer Email:</strong> %s</p>\n", rowStyle, html.EscapeString(vb.CustomerEmail)))
	sb.WriteString(fmt.Sprintf("<p %s><strong>Arrival Date:</strong> %s</p>\n", rowStyle, html.EscapeString(vb.ArrivalDate)))
	sb.WriteString(fmt.Sprintf("<p %s><strong>Exit Date:</strong> %s</p>\n", rowStyle, html.EscapeString(vb.ExitDate)))
	sb.WriteString(fmt.Sprintf("<p %s><strong>Amount Paid:</strong> $%.2f</p>\n", rowStyle, vb.AmountPaid))
	sb.WriteString(fmt.Sprintf("<p %s><strong>Match Confidence:</strong> %s</p>\n", rowStyle, html.EscapeString(string(vb.MatchConfidence))))

	if discrepancies := HighlightDiscrepancies(vb, info); len(discrepancies) > 0 {
		sb.WriteString(fmt.Sprintf("<div %s>\n<strong>Discrepancies:</strong>\n<ul>\n", warnStyle))
		for _, d := range discrepancies {
			sb.WriteString(fmt.Sprintf("<li>%s</li>\n", html.EscapeString(d)))
		}
		sb.WriteString("</ul>\n</div>\n")
	}

	sb.WriteString("</div>")
	return sb.String()
}

// HighlightDiscrepancies compares the verified booking against the
// customer-reported arrival date, exit date and location. One entry per
// mismatched field, each naming the field; empty when all three agree.
// Fields the customer never stated cannot disagree.
func HighlightDiscrepancies(vb models.VerifiedBooking, info models.CustomerInfo) []string {
	var out []string
	if info.ArrivalDate != "" && info.ArrivalDate != vb.ArrivalDate {
		out = append(out, fmt.Sprintf("arrival_date: customer reported %s, booking shows %s", info.ArrivalDate, vb.ArrivalDate))
	}
	if info.ExitDate != "" && info.ExitDate != vb.ExitDate {
		out = append(out, fmt.Sprintf("exit_date: customer reported %s, booking shows %s", info.ExitDate, vb.ExitDate))
	}
	if info.Location != "" && !locationsAgree(vb.Location, info.Location) {
		out = append(out, fmt.Sprintf("location: customer reported %q, booking shows %q", info.Location, vb.Location))
	}
	return out
}

// locationsAgree uses the same loose containment match as verification
// scoring so the note never contradicts the confidence grade.
func locationsAgree(verified, reported string) bool {
	v := strings.ToLower(verified)
	r := strings.ToLower(reported)
	return strings.Contains(v, r) || strings.Contains(r, v)
}

// GenerateMultipleBookingsNote lists every candidate booking when
// verification found more than one and duplicate analysis is in play.
func GenerateMultipleBookingsNote(bookings []models.Booking, info models.CustomerInfo) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<div %s>\n", noteStyle))
	sb.WriteString(fmt.Sprintf("<h3 %s>Multiple Bookings Found</h3>\n", headerStyle))
	sb.WriteString(fmt.Sprintf("<p %s>%d bookings found for %s:</p>\n",
		rowStyle, len(bookings), html.EscapeString(info.Email)))
	sb.WriteString("<ul>\n")
	for _, b := range bookings {
		sb.WriteString(fmt.Sprintf("<li><strong>Booking ID:</strong> %s, %s to %s at %s (%s)</li>\n",
			html.EscapeString(b.ID),
			html.EscapeString(b.StartTime),
			html.EscapeString(b.EndTime),
			html.EscapeString(b.Location.Name),
			html.EscapeString(b.Status)))
	}
	sb.WriteString("</ul>\n")
	sb.WriteString(fmt.Sprintf("<p %s>Duplicate analysis required before refunding.</p>\n", rowStyle))
	sb.WriteString("</div>")
	return sb.String()
}

// GenerateVerificationFailedNote marks a failed verification attempt with
// the reason and whatever customer identity is known.
func GenerateVerificationFailedNote(info models.CustomerInfo, failureReason string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<div %s>\n", noteStyle))
	sb.WriteString(fmt.Sprintf("<h3 %s>Booking Verification Failed</h3>\n", headerStyle))
	sb.WriteString(fmt.Sprintf("<div %s>\n", failStyle))
	sb.WriteString(fmt.Sprintf("<p %s><strong>Reason:</strong> %s</p>\n", rowStyle, html.EscapeString(failureReason)))
	if info.Email != "" {
		sb.WriteString(fmt.Sprintf("<p %s><strong>Customer Email:</strong> %s</p>\n", rowStyle, html.EscapeString(info.Email)))
	}
	sb.WriteString("</div>\n")
	sb.WriteString(fmt.Sprintf("<p %s>Manual verification against the provider is required.</p>\n", rowStyle))
	sb.WriteString("</div>")
	return sb.String()
}
