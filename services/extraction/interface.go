package extraction

import (
	"context"
	"time"

	"parkrefund/models"
)

// CustomerInfoExtractor turns raw ticket text into structured customer facts.
// ticketTime anchors relative date phrases ("tomorrow", "next week"); pass
// the zero value when the ticket timestamp is unknown and such phrases are
// then left unresolved rather than guessed.
type CustomerInfoExtractor interface {
	Extract(ctx context.Context, ticketText string, ticketTime time.Time) (models.CustomerInfo, error)
}
