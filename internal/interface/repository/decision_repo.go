// internal/interface/repository/decision_repo.go
package repository

import (
	"context"
	"time"

	"checkpoint-service/internal/domain/entity"
	"checkpoint-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoDecisionRepository implements the DecisionRepository interface
type MongoDecisionRepository struct {
	collection *mongo.Collection
}

// NewMongoDecisionRepository creates a new decision log repository
func NewMongoDecisionRepository(db *mongo.Database) repository.DecisionRepository {
	collection := db.Collection("decisionLogs")

	// Index on passengerName + createdAt for audit queries
	ctx := context.Background()
	indexModel := mongo.IndexModel{
		Keys: bson.D{
			{Key: "passengerName", Value: 1},
			{Key: "createdAt", Value: -1},
		},
	}
	collection.Indexes().CreateOne(ctx, indexModel)

	return &MongoDecisionRepository{
		collection: collection,
	}
}

// Save inserts one decision document
func (r *MongoDecisionRepository) Save(ctx context.Context, decision *entity.Decision) error {
	if decision.ID == "" {
		decision.ID = primitive.NewObjectID().Hex()
	}
	if decision.CreatedAt.IsZero() {
		decision.CreatedAt = time.Now()
	}

	_, err := r.collection.InsertOne(ctx, decision)
	return err
}
