package repository

import (
	"context"
	"fmt"

	"github.com/fitstride/fitstride-api/internal/models"
	"github.com/fitstride/fitstride-api/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// LeaderboardRepository handles the period-scoped leaderboard rows.
// Rows are co-written with the stats documents so they never need a
// separate reconciliation pass.
type LeaderboardRepository struct {
	collection *mongo.Collection
}

// NewLeaderboardRepository creates a new instance of LeaderboardRepository.
func NewLeaderboardRepository(db *mongo.Database) *LeaderboardRepository {
	return &LeaderboardRepository{
		collection: db.Collection("leaderboard_entries"),
	}
}

// IncrementEntry applies a mileage delta to a user's row for one
// period, creating the row on first touch. Profile fields are only
// set when known so a failed profile lookup never wipes them.
func (r *LeaderboardRepository) IncrementEntry(ctx context.Context, period string, userID primitive.ObjectID, miles float64, displayName, photoURL string) error {
	filter := bson.M{"period": period, "user_id": userID}

	set := bson.M{}
	if displayName != "" {
		set["display_name"] = displayName
	}
	if photoURL != "" {
		set["photo_url"] = photoURL
	}

	update := bson.M{"$inc": bson.M{"total_miles": miles}}
	if len(set) > 0 {
		update["$set"] = set
	}

	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		logger.Log.WithError(err).WithFields(map[string]interface{}{
			"user_id": userID.Hex(),
			"period":  period,
		}).Error("Failed to update leaderboard entry")
		return fmt.Errorf("failed to update leaderboard entry: %v", err)
	}
	return nil
}

// TopEntries fetches the highest-mileage rows for a period, descending.
// Ties fall back to the store's natural order.
func (r *LeaderboardRepository) TopEntries(ctx context.Context, period string, limit int64) ([]models.LeaderboardEntry, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "total_miles", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, bson.M{"period": period}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch leaderboard: %v", err)
	}
	defer cursor.Close(ctx)

	var entries []models.LeaderboardEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode leaderboard entries: %v", err)
	}
	return entries, nil
}

// EntriesForUsers fetches the rows for a bounded id set in one batched
// query. Users with no entry for the period are simply absent from the
// result.
func (r *LeaderboardRepository) EntriesForUsers(ctx context.Context, period string, userIDs []primitive.ObjectID) ([]models.LeaderboardEntry, error) {
	filter := bson.M{
		"period":  period,
		"user_id": bson.M{"$in": userIDs},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch leaderboard entries: %v", err)
	}
	defer cursor.Close(ctx)

	var entries []models.LeaderboardEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode leaderboard entries: %v", err)
	}
	return entries, nil
}
