// Package ticketing is the narrow interface to the external ticketing
// system. The pipeline hands rendered notes and decision tags back through
// it; transport details live with the collaborator, not here.
package ticketing

import (
	"context"

	"parkrefund/models"
)

// Client fetches tickets and posts pipeline output back to them.
type Client interface {
	GetTicket(ctx context.Context, ticketID string) (models.TicketData, []models.TicketNote, error)
	PostNote(ctx context.Context, ticketID, noteHTML string) error
	AddTags(ctx context.Context, ticketID string, tags []string) error
}
