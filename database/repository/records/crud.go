package recordsRepo

import (
	"context"
	"time"

	"parkrefund/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Create inserts a new decision record and returns its ID.
func (r *mongoRecordRepo) Create(ctx context.Context, record models.DecisionRecord) (string, error) {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	record.CreatedAt = time.Now()
	record.UpdatedAt = time.Now()

	_, err := r.coll.InsertOne(ctx, record)
	if err != nil {
		return "", err
	}
	return record.ID, nil
}

// GetByID returns a decision record by its ID.
func (r *mongoRecordRepo) GetByID(ctx context.Context, id string) (*models.DecisionRecord, error) {
	var record models.DecisionRecord
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&record)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// GetByTicketID fetches all decision records for a ticket.
func (r *mongoRecordRepo) GetByTicketID(ctx context.Context, ticketID string) ([]models.DecisionRecord, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"ticket_id": ticketID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []models.DecisionRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// ListRecent returns the most recently created decision records.
func (r *mongoRecordRepo) ListRecent(ctx context.Context, limit int64) ([]models.DecisionRecord, error) {
	opts := options.Find().SetSort(bson.M{"created_at": -1}).SetLimit(limit)
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []models.DecisionRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}
