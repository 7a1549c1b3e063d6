package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"parkrefund/models"
	ai "parkrefund/services/intelligence"
)

const llmExtractTimeout = 8 * time.Second

// llmExtraction mirrors the JSON shape the model is asked to produce.
type llmExtraction struct {
	Email       string `json:"email"`
	Name        string `json:"name"`
	ArrivalDate string `json:"arrival_date"`
	ExitDate    string `json:"exit_date"`
	Location    string `json:"location"`
}

const extractPromptTemplate = `You extract parking reservation details from support tickets.
Return ONLY a JSON object with keys: email, name, arrival_date, exit_date, location.
Dates must be ISO-8601 (YYYY-MM-DD). Use an empty string for anything not stated.
Do not guess dates from vague phrasing.

Ticket text:
%s`

// llmPass asks the model for structured facts. Results are re-validated so
// a hallucinated email or date never enters the pipeline.
func (e *DefaultExtractor) llmPass(ctx context.Context, ticketText string) (models.CustomerInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, llmExtractTimeout)
	defer cancel()

	reply, err := e.AI.GenerateContent(ctx, fmt.Sprintf(extractPromptTemplate, ticketText))
	if err != nil {
		return models.CustomerInfo{}, fmt.Errorf("llm extraction: %w", err)
	}

	block := ai.ExtractJSONBlock(reply)
	if block == "" {
		return models.CustomerInfo{}, fmt.Errorf("llm extraction: no JSON object in reply")
	}

	var parsed llmExtraction
	if err := json.Unmarshal([]byte(block), &parsed); err != nil {
		return models.CustomerInfo{}, fmt.Errorf("llm extraction: %w", err)
	}

	info := models.CustomerInfo{
		Name:     strings.TrimSpace(parsed.Name),
		Location: strings.TrimSpace(parsed.Location),
	}
	if emailRe.MatchString(parsed.Email) {
		info.Email = strings.ToLower(strings.TrimSpace(parsed.Email))
	}
	if _, err := time.Parse("2006-01-02", parsed.ArrivalDate); err == nil {
		info.ArrivalDate = parsed.ArrivalDate
	}
	if _, err := time.Parse("2006-01-02", parsed.ExitDate); err == nil {
		info.ExitDate = parsed.ExitDate
	}
	return info, nil
}
