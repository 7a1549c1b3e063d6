package recordsRepo

import (
	"context"

	"parkrefund/database"
	"parkrefund/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// DecisionRecordRepository persists the audit trail of refund decisions.
type DecisionRecordRepository interface {
	Create(ctx context.Context, record models.DecisionRecord) (string, error)
	GetByID(ctx context.Context, id string) (*models.DecisionRecord, error)
	GetByTicketID(ctx context.Context, ticketID string) ([]models.DecisionRecord, error)
	ListRecent(ctx context.Context, limit int64) ([]models.DecisionRecord, error)
}

type mongoRecordRepo struct {
	coll *mongo.Collection
}

// NewMongoRecordRepo returns a new DecisionRecordRepository instance using MongoDB.
func NewMongoRecordRepo() DecisionRecordRepository {
	db := database.MongoClient.Database("parkrefund")
	return &mongoRecordRepo{
		coll: db.Collection("decision_records"),
	}
}
