package notes

import (
	"strings"
	"testing"

	"parkrefund/models"
)

func verified() models.VerifiedBooking {
	return models.VerifiedBooking{
		BookingID:       "PW-12345",
		CustomerEmail:   "jane@example.com",
		ArrivalDate:     "2026-09-01",
		ExitDate:        "2026-09-02",
		Location:        "Main Street Garage",
		PassUsed:        false,
		PassUsageStatus: models.PassNotUsed,
		AmountPaid:      42.50,
		MatchConfidence: models.MatchExact,
	}
}

func customer() models.CustomerInfo {
	return models.CustomerInfo{
		Email:       "jane@example.com",
		ArrivalDate: "2026-09-01",
		ExitDate:    "2026-09-02",
		Location:    "Main Street Garage",
	}
}

func TestGenerateVerifiedNote(t *testing.T) {
	t.Run("ContainsRequiredLabels", func(t *testing.T) {
		note := GenerateVerifiedNote(verified(), customer())
		for _, label := range []string{
			"Booking ID", "Pass Usage", "Customer Email",
			"Arrival Date", "Exit Date", "Amount Paid", "Match Confidence",
		} {
			if !strings.Contains(note, label) {
				t.Errorf("note missing label %q", label)
			}
		}
		if !strings.Contains(note, "PW-12345") {
			t.Error("note missing booking id verbatim")
		}
	})

	t.Run("UsageMarkerNotUsed", func(t *testing.T) {
		note := GenerateVerifiedNote(verified(), customer())
		if !strings.Contains(note, "NOT USED") {
			t.Error("unused pass must render NOT USED")
		}
		if !strings.Contains(note, string(models.PassNotUsed)) {
			t.Error("note missing literal pass usage status")
		}
	})

	t.Run("UsageMarkerUsed", func(t *testing.T) {
		vb := verified()
		vb.PassUsed = true
		vb.PassUsageStatus = models.PassUsed
		note := GenerateVerifiedNote(vb, customer())
		if !strings.Contains(note, ">USED<") {
			t.Error("used pass must render USED marker")
		}
		if !strings.Contains(note, string(models.PassUsed)) {
			t.Error("note missing literal pass usage status")
		}
	})

	t.Run("BalancedContainerTags", func(t *testing.T) {
		note := GenerateVerifiedNote(verified(), customer())
		if strings.Count(note, "<div") != strings.Count(note, "</div>") {
			t.Error("unbalanced div tags")
		}
		if strings.Count(note, "<p ") != strings.Count(note, "</p>") {
			t.Error("unbalanced p tags")
		}
	})

	t.Run("DiscrepancySectionWhenMismatched", func(t *testing.T) {
		info := customer()
		info.ArrivalDate = "2026-09-03"
		note := GenerateVerifiedNote(verified(), info)
		if !strings.Contains(note, "Discrepancies") {
			t.Error("mismatched facts must surface a discrepancies section")
		}
		if !strings.Contains(note, "arrival_date") {
			t.Error("discrepancy section must carry the mismatch substance")
		}
	})
}

func TestHighlightDiscrepancies(t *testing.T) {
	t.Run("EmptyWhenAllMatch", func(t *testing.T) {
		if d := HighlightDiscrepancies(verified(), customer()); len(d) != 0 {
			t.Errorf("expected no discrepancies, got %v", d)
		}
	})

	t.Run("EachFieldTriggers", func(t *testing.T) {
		cases := []struct {
			name   string
			mutate func(*models.CustomerInfo)
		}{
			{"arrival_date", func(c *models.CustomerInfo) { c.ArrivalDate = "2026-09-09" }},
			{"exit_date", func(c *models.CustomerInfo) { c.ExitDate = "2026-09-09" }},
			{"location", func(c *models.CustomerInfo) { c.Location = "Airport Lot" }},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				info := customer()
				tc.mutate(&info)
				d := HighlightDiscrepancies(verified(), info)
				if len(d) == 0 {
					t.Fatalf("changing %s produced no discrepancy", tc.name)
				}
				found := false
				for _, entry := range d {
					if strings.Contains(entry, tc.name) {
						found = true
					}
				}
				if !found {
					t.Errorf("no discrepancy entry names %s: %v", tc.name, d)
				}
			})
		}
	})

	t.Run("UnstatedFieldsCannotDisagree", func(t *testing.T) {
		if d := HighlightDiscrepancies(verified(), models.CustomerInfo{}); len(d) != 0 {
			t.Errorf("empty customer info should produce no discrepancies, got %v", d)
		}
	})
}

func TestGenerateMultipleBookingsNote(t *testing.T) {
	bookings := []models.Booking{
		{ID: "PW-1", StartTime: "2026-09-01T10:00:00Z", EndTime: "2026-09-01T12:00:00Z", Status: "confirmed", Location: models.BookingLocation{ID: "l1", Name: "Main Street Garage"}},
		{ID: "PW-2", StartTime: "2026-09-01T10:00:00Z", EndTime: "2026-09-01T12:00:00Z", Status: "completed", Location: models.BookingLocation{ID: "l1", Name: "Main Street Garage"}},
		{ID: "PW-3", StartTime: "2026-09-02T10:00:00Z", EndTime: "2026-09-02T12:00:00Z", Status: "pending", Location: models.BookingLocation{ID: "l2", Name: "Airport Lot"}},
	}
	note := GenerateMultipleBookingsNote(bookings, customer())

	for _, id := range []string{"PW-1", "PW-2", "PW-3"} {
		if !strings.Contains(note, id) {
			t.Errorf("note missing booking id %s", id)
		}
	}
	if !strings.Contains(note, "3 bookings") {
		t.Error("note missing the literal count")
	}
	if !strings.Contains(note, "Multiple Bookings") {
		t.Error("note not marked as a multiple-bookings note")
	}
}

func TestGenerateVerificationFailedNote(t *testing.T) {
	t.Run("EmbedsReasonAndEmail", func(t *testing.T) {
		note := GenerateVerificationFailedNote(customer(), "provider lookup timed out after retries")
		if !strings.Contains(note, "provider lookup timed out after retries") {
			t.Error("note missing failure reason")
		}
		if !strings.Contains(note, "jane@example.com") {
			t.Error("note missing known customer email")
		}
		if !strings.Contains(note, "Verification Failed") {
			t.Error("note not marked as failed verification")
		}
	})

	t.Run("EscapesMarkupInReason", func(t *testing.T) {
		note := GenerateVerificationFailedNote(models.CustomerInfo{}, `<script>alert("x")</script>`)
		if strings.Contains(note, "<script>") {
			t.Error("failure reason must be HTML-escaped")
		}
		if !strings.Contains(note, "&lt;script&gt;") {
			t.Error("escaped reason should still be present")
		}
	})
}
