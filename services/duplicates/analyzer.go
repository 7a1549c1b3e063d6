// Package duplicates clusters a customer's bookings by location and time
// overlap to find duplicate reservations and pick the refund candidate.
// Pure computation: no I/O, no shared state, malformed input never raises.
package duplicates

import (
	"fmt"
	"time"

	"parkrefund/models"
)

// Analyze inspects a raw list of provider records for duplicate bookings.
// Entries that are not valid booking records are silently excluded.
func Analyze(entries []any) models.DuplicateDetectionResult {
	bookings := filterValid(entries)

	if len(bookings) <= 1 {
		return models.DuplicateDetectionResult{
			HasDuplicates:  false,
			DuplicateCount: len(bookings),
			Action:         models.DuplicateActionDeny,
			Explanation:    fmt.Sprintf("only %d booking(s) found, need at least 2 for a duplicate", len(bookings)),
		}
	}

	clusters := clusterBookings(bookings)

	var dup [][]models.Booking
	for _, c := range clusters {
		if len(c) >= 2 {
			dup = append(dup, c)
		}
	}

	if len(dup) == 0 {
		return models.DuplicateDetectionResult{
			HasDuplicates:  false,
			DuplicateCount: len(bookings),
			Action:         models.DuplicateActionDeny,
			Explanation:    noClusterReason(bookings),
		}
	}

	if len(dup) > 1 {
		total := 0
		for _, c := range dup {
			total += len(c)
		}
		return models.DuplicateDetectionResult{
			HasDuplicates:  true,
			DuplicateCount: total,
			Action:         models.DuplicateActionEscalate,
			Explanation:    fmt.Sprintf("%d separate duplicate clusters found, too complex for automatic handling", len(dup)),
		}
	}

	cluster := dup[0]
	if len(cluster) >= 3 {
		return models.DuplicateDetectionResult{
			HasDuplicates:  true,
			DuplicateCount: len(cluster),
			Action:         models.DuplicateActionEscalate,
			Explanation:    fmt.Sprintf("%d overlapping bookings at the same location, too complex for automatic handling", len(cluster)),
		}
	}

	return resolvePair(cluster[0], cluster[1])
}

// resolvePair decides which of two duplicate bookings is the refund
// candidate based on pass usage, falling back to start-time order.
func resolvePair(a, b models.Booking) models.DuplicateDetectionResult {
	res := models.DuplicateDetectionResult{
		HasDuplicates:  true,
		DuplicateCount: 2,
	}

	switch {
	case a.Used() && b.Used():
		// Both passes consumed: refunding either would be wrong automatically.
		res.Action = models.DuplicateActionEscalate
		res.Explanation = "both duplicate bookings show pass usage, needs human review"
	case a.Used():
		res.Action = models.DuplicateActionRefund
		res.UsedBookingID = a.ID
		res.UnusedBookingID = b.ID
		res.Explanation = fmt.Sprintf("booking %s was used, refunding unused duplicate %s", a.ID, b.ID)
	case b.Used():
		res.Action = models.DuplicateActionRefund
		res.UsedBookingID = b.ID
		res.UnusedBookingID = a.ID
		res.Explanation = fmt.Sprintf("booking %s was used, refunding unused duplicate %s", b.ID, a.ID)
	default:
		// Neither used: keep the later-starting booking, refund the earlier.
		earlier, later := a, b
		if parseTime(b.StartTime).Before(parseTime(a.StartTime)) {
			earlier, later = b, a
		}
		res.Action = models.DuplicateActionRefund
		res.UnusedBookingID = earlier.ID
		res.Explanation = fmt.Sprintf("neither booking used, keeping later booking %s and refunding earlier duplicate %s", later.ID, earlier.ID)
	}
	return res
}

// noClusterReason explains why no duplicate cluster formed.
func noClusterReason(bookings []models.Booking) string {
	for i := 0; i < len(bookings); i++ {
		for j := i + 1; j < len(bookings); j++ {
			if bookings[i].Location.ID == bookings[j].Location.ID {
				return "bookings at the same location have no time overlap, not duplicates"
			}
		}
	}
	return "bookings are at different locations, not duplicates"
}

// clusterBookings groups bookings into connected components where an edge
// means same location id and positive time overlap. Transitive: A~B and
// B~C puts all three in one cluster.
func clusterBookings(bookings []models.Booking) [][]models.Booking {
	n := len(bookings)
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		if parent[x] != x {
			parent[x] = find(parent[x])
		}
		return parent[x]
	}
	union := func(x, y int) {
		parent[find(x)] = find(y)
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if bookings[i].Location.ID != bookings[j].Location.ID {
				continue
			}
			if OverlapPercent(bookings[i], bookings[j]) > 0 {
				union(i, j)
			}
		}
	}

	groups := make(map[int][]models.Booking)
	var order []int
	for i := 0; i < n; i++ {
		root := find(i)
		if _, ok := groups[root]; !ok {
			order = append(order, root)
		}
		groups[root] = append(groups[root], bookings[i])
	}

	clusters := make([][]models.Booking, 0, len(order))
	for _, root := range order {
		clusters = append(clusters, groups[root])
	}
	return clusters
}

// OverlapPercent computes the symmetric time overlap of two bookings as a
// percentage of the shorter booking's duration, bounded to [0,100].
// Unparsable timestamps yield 0.
func OverlapPercent(a, b models.Booking) float64 {
	s1, e1 := parseTime(a.StartTime), parseTime(a.EndTime)
	s2, e2 := parseTime(b.StartTime), parseTime(b.EndTime)
	if s1.IsZero() || e1.IsZero() || s2.IsZero() || e2.IsZero() {
		return 0
	}

	d1 := e1.Sub(s1)
	d2 := e2.Sub(s2)
	if d1 <= 0 || d2 <= 0 {
		return 0
	}

	start := s1
	if s2.After(start) {
		start = s2
	}
	end := e1
	if e2.Before(end) {
		end = e2
	}
	overlap := end.Sub(start)
	if overlap <= 0 {
		return 0
	}

	shorter := d1
	if d2 < shorter {
		shorter = d2
	}
	pct := float64(overlap) / float64(shorter) * 100
	if pct > 100 {
		pct = 100
	}
	return pct
}

// filterValid keeps entries that look like real booking records: a Booking
// value (or pointer, or decoded-JSON map) with id, start_time, end_time and
// a structured location carrying an id.
func filterValid(entries []any) []models.Booking {
	var out []models.Booking
	for _, entry := range entries {
		var b models.Booking
		switch v := entry.(type) {
		case models.Booking:
			b = v
		case *models.Booking:
			if v == nil {
				continue
			}
			b = *v
		case map[string]any:
			coerced, ok := fromMap(v)
			if !ok {
				continue
			}
			b = coerced
		default:
			continue
		}
		if b.ID == "" || b.StartTime == "" || b.EndTime == "" || b.Location.ID == "" {
			continue
		}
		out = append(out, b)
	}
	return out
}

// fromMap coerces a decoded-JSON object into a Booking. The location must
// itself be a structured object with an id.
func fromMap(m map[string]any) (models.Booking, bool) {
	loc, ok := m["location"].(map[string]any)
	if !ok {
		return models.Booking{}, false
	}

	b := models.Booking{
		ID:            asString(m["id"]),
		StartTime:     asString(m["start_time"]),
		EndTime:       asString(m["end_time"]),
		Status:        asString(m["status"]),
		CustomerEmail: asString(m["customer_email"]),
		Location: models.BookingLocation{
			ID:   asString(loc["id"]),
			Name: asString(loc["name"]),
		},
	}
	if amount, ok := m["amount"].(float64); ok {
		b.AmountPaid = amount
	}
	return b, true
}

func asString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		// JSON numbers decode to float64; provider ids are integral.
		return fmt.Sprintf("%.0f", s)
	default:
		return ""
	}
}

func parseTime(ts string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, ts); err == nil {
			return t
		}
	}
	return time.Time{}
}
