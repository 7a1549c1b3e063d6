package ticketing

import (
	"context"
	"fmt"

	"parkrefund/models"

	"go.uber.org/zap"
)

// LoggingClient is a stand-in ticketing client for development and tests:
// it logs what would be posted instead of calling a real API.
type LoggingClient struct {
	Logger *zap.Logger
}

func (c *LoggingClient) logger() *zap.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return zap.L()
}

func (c *LoggingClient) GetTicket(_ context.Context, ticketID string) (models.TicketData, []models.TicketNote, error) {
	return models.TicketData{}, nil, fmt.Errorf("ticket %s not available: logging client has no backing store", ticketID)
}

func (c *LoggingClient) PostNote(_ context.Context, ticketID, noteHTML string) error {
	c.logger().Info("Would post note to ticket",
		zap.String("ticketID", ticketID),
		zap.Int("noteBytes", len(noteHTML)))
	return nil
}

func (c *LoggingClient) AddTags(_ context.Context, ticketID string, tags []string) error {
	c.logger().Info("Would tag ticket",
		zap.String("ticketID", ticketID),
		zap.Strings("tags", tags))
	return nil
}
