package duplicates

import (
	"math"
	"testing"

	"parkrefund/models"
)

func booking(id, start, end, locID, status string) models.Booking {
	return models.Booking{
		ID:        id,
		StartTime: start,
		EndTime:   end,
		Status:    status,
		Location:  models.BookingLocation{ID: locID, Name: "Main Street Garage"},
	}
}

func TestOverlapPercent(t *testing.T) {
	a := booking("a", "2026-09-01T10:00:00Z", "2026-09-01T12:00:00Z", "loc1", "confirmed")
	b := booking("b", "2026-09-01T11:00:00Z", "2026-09-01T13:00:00Z", "loc1", "confirmed")

	t.Run("Symmetric", func(t *testing.T) {
		if OverlapPercent(a, b) != OverlapPercent(b, a) {
			t.Errorf("overlap not symmetric: %v vs %v", OverlapPercent(a, b), OverlapPercent(b, a))
		}
	})

	t.Run("Bounded", func(t *testing.T) {
		pairs := [][2]models.Booking{
			{a, b},
			{a, a},
			{a, booking("c", "2026-09-01T14:00:00Z", "2026-09-01T16:00:00Z", "loc1", "confirmed")},
			{a, booking("d", "2026-09-01T10:30:00Z", "2026-09-01T10:45:00Z", "loc1", "confirmed")},
		}
		for _, p := range pairs {
			pct := OverlapPercent(p[0], p[1])
			if pct < 0 || pct > 100 {
				t.Errorf("overlap %v outside [0,100] for %s vs %s", pct, p[0].ID, p[1].ID)
			}
		}
	})

	t.Run("HalfOverlap", func(t *testing.T) {
		pct := OverlapPercent(a, b)
		if math.Abs(pct-50) > 1e-9 {
			t.Errorf("expected 50%% overlap, got %v", pct)
		}
	})

	t.Run("IdenticalWindowIs100", func(t *testing.T) {
		if pct := OverlapPercent(a, a); pct != 100 {
			t.Errorf("expected 100%% overlap, got %v", pct)
		}
	})

	t.Run("NoOverlapIsZero", func(t *testing.T) {
		c := booking("c", "2026-09-01T14:00:00Z", "2026-09-01T16:00:00Z", "loc1", "confirmed")
		if pct := OverlapPercent(a, c); pct != 0 {
			t.Errorf("expected 0%% overlap, got %v", pct)
		}
	})

	t.Run("UnparsableTimestampIsZero", func(t *testing.T) {
		bad := booking("bad", "not-a-time", "2026-09-01T13:00:00Z", "loc1", "confirmed")
		if pct := OverlapPercent(a, bad); pct != 0 {
			t.Errorf("expected 0%% overlap for unparsable start, got %v", pct)
		}
		if pct := OverlapPercent(bad, a); pct != 0 {
			t.Errorf("expected 0%% overlap symmetric for unparsable start, got %v", pct)
		}
	})
}

func TestAnalyzeSmallInputs(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		res := Analyze(nil)
		if res.HasDuplicates || res.Action != models.DuplicateActionDeny || res.DuplicateCount != 0 {
			t.Errorf("unexpected result for empty input: %+v", res)
		}
	})

	t.Run("Single", func(t *testing.T) {
		res := Analyze([]any{booking("a", "2026-09-01T10:00:00Z", "2026-09-01T12:00:00Z", "loc1", "confirmed")})
		if res.HasDuplicates {
			t.Error("single booking reported as duplicate")
		}
		if res.Action != models.DuplicateActionDeny {
			t.Errorf("expected deny, got %s", res.Action)
		}
		if res.DuplicateCount != 1 {
			t.Errorf("expected count 1, got %d", res.DuplicateCount)
		}
		if res.Explanation == "" {
			t.Error("expected an explanation naming the count")
		}
	})
}

func TestAnalyzeDuplicatePair(t *testing.T) {
	t.Run("UsedAndConfirmed", func(t *testing.T) {
		completed := booking("used-1", "2026-09-01T10:00:00Z", "2026-09-01T12:00:00Z", "loc1", "completed")
		confirmed := booking("unused-1", "2026-09-01T10:00:00Z", "2026-09-01T12:00:00Z", "loc1", "confirmed")
		res := Analyze([]any{completed, confirmed})

		if !res.HasDuplicates || res.DuplicateCount != 2 {
			t.Fatalf("expected a 2-booking duplicate, got %+v", res)
		}
		if res.Action != models.DuplicateActionRefund {
			t.Errorf("expected refund_duplicate, got %s", res.Action)
		}
		if res.UsedBookingID != "used-1" {
			t.Errorf("expected used booking used-1, got %q", res.UsedBookingID)
		}
		if res.UnusedBookingID != "unused-1" {
			t.Errorf("expected unused booking unused-1, got %q", res.UnusedBookingID)
		}
	})

	t.Run("DifferentLocations", func(t *testing.T) {
		a := booking("a", "2026-09-01T10:00:00Z", "2026-09-01T12:00:00Z", "loc1", "confirmed")
		b := booking("b", "2026-09-01T10:00:00Z", "2026-09-01T12:00:00Z", "loc2", "confirmed")
		res := Analyze([]any{a, b})
		if res.Action != models.DuplicateActionDeny {
			t.Errorf("expected deny for different locations, got %s", res.Action)
		}
		if res.HasDuplicates {
			t.Error("different locations must not be duplicates")
		}
	})

	t.Run("NoTimeOverlap", func(t *testing.T) {
		a := booking("a", "2026-09-01T10:00:00Z", "2026-09-01T12:00:00Z", "loc1", "confirmed")
		b := booking("b", "2026-09-01T14:00:00Z", "2026-09-01T16:00:00Z", "loc1", "confirmed")
		res := Analyze([]any{a, b})
		if res.Action != models.DuplicateActionDeny {
			t.Errorf("expected deny for non-overlapping times, got %s", res.Action)
		}
	})

	t.Run("NeitherUsedRefundsEarlier", func(t *testing.T) {
		earlier := booking("early", "2026-09-01T09:00:00Z", "2026-09-01T12:00:00Z", "loc1", "confirmed")
		later := booking("late", "2026-09-01T10:00:00Z", "2026-09-01T12:00:00Z", "loc1", "pending")
		res := Analyze([]any{later, earlier})
		if res.Action != models.DuplicateActionRefund {
			t.Fatalf("expected refund_duplicate, got %s", res.Action)
		}
		if res.UnusedBookingID != "early" {
			t.Errorf("expected earlier booking refunded, got %q", res.UnusedBookingID)
		}
	})

	t.Run("BothUsedEscalates", func(t *testing.T) {
		a := booking("a", "2026-09-01T10:00:00Z", "2026-09-01T12:00:00Z", "loc1", "completed")
		b := booking("b", "2026-09-01T10:00:00Z", "2026-09-01T12:00:00Z", "loc1", "checked_out")
		res := Analyze([]any{a, b})
		if res.Action != models.DuplicateActionEscalate {
			t.Errorf("both-used pair must escalate, got %s", res.Action)
		}
		if !res.HasDuplicates {
			t.Error("both-used pair is still a duplicate")
		}
	})
}

func TestAnalyzeTripleCluster(t *testing.T) {
	a := booking("a", "2026-09-01T10:00:00Z", "2026-09-01T12:00:00Z", "loc1", "confirmed")
	b := booking("b", "2026-09-01T10:00:00Z", "2026-09-01T12:00:00Z", "loc1", "confirmed")
	c := booking("c", "2026-09-01T10:00:00Z", "2026-09-01T12:00:00Z", "loc1", "completed")
	res := Analyze([]any{a, b, c})

	if res.Action != models.DuplicateActionEscalate {
		t.Errorf("expected escalate for 3-cluster, got %s", res.Action)
	}
	if res.DuplicateCount != 3 {
		t.Errorf("expected count 3, got %d", res.DuplicateCount)
	}
	if !res.HasDuplicates {
		t.Error("3-cluster must report duplicates")
	}
}

func TestAnalyzeTransitiveCluster(t *testing.T) {
	// A overlaps B, B overlaps C, A does not overlap C: still one cluster.
	a := booking("a", "2026-09-01T10:00:00Z", "2026-09-01T12:00:00Z", "loc1", "confirmed")
	b := booking("b", "2026-09-01T11:00:00Z", "2026-09-01T14:00:00Z", "loc1", "confirmed")
	c := booking("c", "2026-09-01T13:00:00Z", "2026-09-01T15:00:00Z", "loc1", "confirmed")
	res := Analyze([]any{a, b, c})

	if res.Action != models.DuplicateActionEscalate {
		t.Errorf("expected escalate for transitive 3-cluster, got %s", res.Action)
	}
	if res.DuplicateCount != 3 {
		t.Errorf("expected count 3, got %d", res.DuplicateCount)
	}
}

func TestAnalyzeMalformedInput(t *testing.T) {
	valid1 := booking("a", "2026-09-01T10:00:00Z", "2026-09-01T12:00:00Z", "loc1", "completed")
	valid2 := booking("b", "2026-09-01T10:00:00Z", "2026-09-01T12:00:00Z", "loc1", "confirmed")

	t.Run("NonRecordEntriesExcluded", func(t *testing.T) {
		res := Analyze([]any{"not a booking", 42, nil, valid1, valid2})
		if !res.HasDuplicates || res.DuplicateCount != 2 {
			t.Errorf("valid records should still cluster: %+v", res)
		}
		if res.Action != models.DuplicateActionRefund {
			t.Errorf("expected refund_duplicate, got %s", res.Action)
		}
	})

	t.Run("MissingLocationIDNeverMatches", func(t *testing.T) {
		noLoc := models.Booking{
			ID:        "no-loc",
			StartTime: "2026-09-01T10:00:00Z",
			EndTime:   "2026-09-01T12:00:00Z",
			Status:    "confirmed",
		}
		res := Analyze([]any{noLoc, valid1})
		if res.HasDuplicates {
			t.Errorf("booking without location id matched as duplicate: %+v", res)
		}
	})

	t.Run("MapEntriesCoerced", func(t *testing.T) {
		m1 := map[string]any{
			"id":         "m1",
			"start_time": "2026-09-01T10:00:00Z",
			"end_time":   "2026-09-01T12:00:00Z",
			"status":     "completed",
			"location":   map[string]any{"id": "loc1", "name": "Main Street Garage"},
		}
		m2 := map[string]any{
			"id":         float64(42), // JSON numeric id
			"start_time": "2026-09-01T10:00:00Z",
			"end_time":   "2026-09-01T12:00:00Z",
			"status":     "confirmed",
			"location":   map[string]any{"id": "loc1", "name": "Main Street Garage"},
		}
		res := Analyze([]any{m1, m2})
		if !res.HasDuplicates || res.Action != models.DuplicateActionRefund {
			t.Errorf("decoded-JSON records should cluster: %+v", res)
		}
	})

	t.Run("LocationNotAnObjectExcluded", func(t *testing.T) {
		bad := map[string]any{
			"id":         "bad",
			"start_time": "2026-09-01T10:00:00Z",
			"end_time":   "2026-09-01T12:00:00Z",
			"location":   "Main Street Garage",
		}
		res := Analyze([]any{bad, valid1})
		if res.HasDuplicates {
			t.Errorf("string location should be excluded: %+v", res)
		}
		if res.DuplicateCount != 1 {
			t.Errorf("expected only 1 valid record, got %d", res.DuplicateCount)
		}
	})

	t.Run("UnparsableTimestampNoDuplicate", func(t *testing.T) {
		bad := booking("bad", "garbage", "2026-09-01T12:00:00Z", "loc1", "confirmed")
		res := Analyze([]any{bad, valid1})
		if res.HasDuplicates {
			t.Errorf("unparsable timestamp must yield no overlap: %+v", res)
		}
	})
}

func TestAnalyzeNeverDenyWithDuplicates(t *testing.T) {
	// Invariant: has_duplicates=true never pairs with action=deny.
	inputs := [][]any{
		{booking("a", "2026-09-01T10:00:00Z", "2026-09-01T12:00:00Z", "loc1", "completed"),
			booking("b", "2026-09-01T10:00:00Z", "2026-09-01T12:00:00Z", "loc1", "confirmed")},
		{booking("a", "2026-09-01T10:00:00Z", "2026-09-01T12:00:00Z", "loc1", "completed"),
			booking("b", "2026-09-01T10:00:00Z", "2026-09-01T12:00:00Z", "loc1", "checked_out")},
		{booking("a", "2026-09-01T10:00:00Z", "2026-09-01T12:00:00Z", "loc1", "confirmed"),
			booking("b", "2026-09-01T10:00:00Z", "2026-09-01T12:00:00Z", "loc1", "confirmed"),
			booking("c", "2026-09-01T10:00:00Z", "2026-09-01T12:00:00Z", "loc1", "confirmed")},
	}
	for _, in := range inputs {
		res := Analyze(in)
		if res.HasDuplicates && res.Action == models.DuplicateActionDeny {
			t.Errorf("invariant violated: has_duplicates with deny: %+v", res)
		}
	}
}
