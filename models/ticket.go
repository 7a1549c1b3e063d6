package models

import "time"

// TicketData is the raw support ticket handed to the pipeline by the
// ticketing collaborator.
type TicketData struct {
	ID           string            `json:"id"`
	Subject      string            `json:"subject"`
	Description  string            `json:"description"`
	Tags         []string          `json:"tags,omitempty"`
	CustomFields map[string]string `json:"custom_fields,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
}

// TicketNote is a prior agent/system note on the ticket.
type TicketNote struct {
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// FullText concatenates the searchable text of a ticket.
func (t TicketData) FullText() string {
	if t.Subject == "" {
		return t.Description
	}
	return t.Subject + "\n" + t.Description
}
