package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fitstride/fitstride-api/internal/models"
	"github.com/fitstride/fitstride-api/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// StatsRepository handles the per-user aggregate documents. One
// document per (user, period), where period is "allTime" or "YYYY-MM".
type StatsRepository struct {
	collection *mongo.Collection
}

// NewStatsRepository creates a new instance of StatsRepository.
func NewStatsRepository(db *mongo.Database) *StatsRepository {
	return &StatsRepository{
		collection: db.Collection("user_stats"),
	}
}

// Increment applies a signed delta to one aggregate document,
// creating it on first touch. Correctness under concurrent writers
// rests on $inc being atomic per field; no application-level locking
// is layered on top.
func (r *StatsRepository) Increment(ctx context.Context, userID primitive.ObjectID, period string, delta models.StatsDelta) error {
	filter := bson.M{"user_id": userID, "period": period}
	update := bson.M{
		"$inc": bson.M{
			"total_miles":        delta.Miles,
			"total_runs":         delta.Runs,
			"total_time_seconds": delta.Seconds,
		},
		"$set": bson.M{"last_updated": time.Now()},
	}

	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		logger.Log.WithError(err).WithFields(map[string]interface{}{
			"user_id": userID.Hex(),
			"period":  period,
		}).Error("Failed to increment stats")
		return fmt.Errorf("failed to increment stats: %v", err)
	}
	return nil
}

// Get fetches one aggregate document. Returns (nil, nil) when the
// user has no stats for the period yet.
func (r *StatsRepository) Get(ctx context.Context, userID primitive.ObjectID, period string) (*models.Stats, error) {
	var stats models.Stats
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID, "period": period}).Decode(&stats)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch stats: %v", err)
	}
	return &stats, nil
}
