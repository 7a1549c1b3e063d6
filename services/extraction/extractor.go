package extraction

import (
	"context"
	"regexp"
	"strings"
	"time"

	"parkrefund/models"
	ai "parkrefund/services/intelligence"

	"go.uber.org/zap"
)

// DefaultExtractor implements CustomerInfoExtractor with a structured
// pattern pass and an optional LLM fallback.
type DefaultExtractor struct {
	AI     ai.CompletionClient // nil disables the fallback
	Logger *zap.Logger
}

var (
	emailRe    = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	isoDateRe  = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
	usDateRe   = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{4})\b`)
	wordDateRe = regexp.MustCompile(`(?i)\b(January|February|March|April|May|June|July|August|September|October|November|December)\s+(\d{1,2})(?:st|nd|rd|th)?,?\s+(\d{4})\b`)
	nameRe     = regexp.MustCompile(`(?i)\b(?:my name is|this is|name:)\s+([A-Z][a-zA-Z'\-]+(?:\s+[A-Z][a-zA-Z'\-]+)?)`)
	locationRe = regexp.MustCompile(`(?i)\b(?:at|garage:?|lot:?|location:?)\s+([A-Z][A-Za-z0-9 &'\-]{2,40}(?:Garage|Lot|Parking|Deck|Station))`)
)

// relative phrases resolvable against a ticket timestamp, in days offset.
var relativePhrases = map[string]int{
	"yesterday": -1,
	"today":     0,
	"tomorrow":  1,
	"next week": 7,
}

func (e *DefaultExtractor) logger() *zap.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return zap.L()
}

// Extract runs the structured pass first and falls back to the LLM only
// when neither an email nor a date was found. Conversational or empty text
// yields a partially populated CustomerInfo; ExtractionError is returned
// only when both passes come up empty-handed on both token classes.
func (e *DefaultExtractor) Extract(ctx context.Context, ticketText string, ticketTime time.Time) (models.CustomerInfo, error) {
	info := e.structuredPass(ticketText, ticketTime)
	if info.HasEmail() || info.HasDates() {
		return info, nil
	}

	if e.AI != nil {
		llmInfo, err := e.llmPass(ctx, ticketText)
		if err != nil {
			e.logger().Warn("LLM extraction fallback failed", zap.Error(err))
		} else if llmInfo.HasEmail() || llmInfo.HasDates() {
			return llmInfo, nil
		}
	}

	return info, NewExtractionError("no email or event date found in ticket text")
}

// structuredPass applies the regex patterns and date normalization.
func (e *DefaultExtractor) structuredPass(text string, ticketTime time.Time) models.CustomerInfo {
	var info models.CustomerInfo

	if m := emailRe.FindString(text); m != "" {
		info.Email = strings.ToLower(m)
	}
	if m := nameRe.FindStringSubmatch(text); len(m) > 1 {
		info.Name = strings.TrimSpace(m[1])
	}
	if m := locationRe.FindStringSubmatch(text); len(m) > 1 {
		info.Location = strings.TrimSpace(m[1])
	}

	dates := findDates(text, ticketTime)
	if len(dates) > 0 {
		info.ArrivalDate = dates[0]
	}
	if len(dates) > 1 {
		info.ExitDate = dates[1]
	}
	return info
}

// findDates returns normalized ISO-8601 dates in order of appearance,
// de-duplicated, at most two.
func findDates(text string, ticketTime time.Time) []string {
	type hit struct {
		pos  int
		date string
	}
	var hits []hit

	for _, m := range isoDateRe.FindAllStringSubmatchIndex(text, -1) {
		raw := text[m[0]:m[1]]
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			hits = append(hits, hit{m[0], t.Format("2006-01-02")})
		}
	}
	for _, m := range usDateRe.FindAllStringSubmatchIndex(text, -1) {
		raw := text[m[0]:m[1]]
		if t, err := time.Parse("1/2/2006", raw); err == nil {
			hits = append(hits, hit{m[0], t.Format("2006-01-02")})
		}
	}
	for _, m := range wordDateRe.FindAllStringSubmatchIndex(text, -1) {
		raw := text[m[2]:m[3]]
		month := strings.ToUpper(raw[:1]) + strings.ToLower(raw[1:])
		day := text[m[4]:m[5]]
		year := text[m[6]:m[7]]
		if t, err := time.Parse("January 2 2006", month+" "+day+" "+year); err == nil {
			hits = append(hits, hit{m[0], t.Format("2006-01-02")})
		}
	}

	// Relative phrases only resolve against a known ticket timestamp.
	if !ticketTime.IsZero() {
		lower := strings.ToLower(text)
		for phrase, offset := range relativePhrases {
			if idx := strings.Index(lower, phrase); idx >= 0 {
				hits = append(hits, hit{idx, ticketTime.AddDate(0, 0, offset).Format("2006-01-02")})
			}
		}
	}

	// Order by appearance, drop repeats.
	for i := 0; i < len(hits); i++ {
		for j := i + 1; j < len(hits); j++ {
			if hits[j].pos < hits[i].pos {
				hits[i], hits[j] = hits[j], hits[i]
			}
		}
	}
	var out []string
	seen := map[string]bool{}
	for _, h := range hits {
		if seen[h.date] {
			continue
		}
		seen[h.date] = true
		out = append(out, h.date)
		if len(out) == 2 {
			break
		}
	}
	return out
}
