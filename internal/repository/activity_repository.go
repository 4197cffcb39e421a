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

// ActivityRepository handles database operations for activity records.
type ActivityRepository struct {
	collection *mongo.Collection
}

// NewActivityRepository creates a new instance of ActivityRepository.
func NewActivityRepository(db *mongo.Database) *ActivityRepository {
	return &ActivityRepository{
		collection: db.Collection("activities"),
	}
}

// Create inserts a new activity record.
func (r *ActivityRepository) Create(ctx context.Context, activity *models.Activity) (*models.Activity, error) {
	activity.CreatedAt = time.Now()
	activity.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, activity)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to insert activity")
		return nil, fmt.Errorf("failed to insert activity: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	activity.ID = insertedID

	return activity, nil
}

// GetByID fetches an activity by its ID. Returns (nil, nil) when the
// record does not exist.
func (r *ActivityRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Activity, error) {
	var activity models.Activity
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&activity)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		logger.Log.WithError(err).WithField("activity_id", id.Hex()).Error("Failed to find activity")
		return nil, fmt.Errorf("failed to find activity: %v", err)
	}
	return &activity, nil
}

// Update overwrites the mutable fields of an activity.
func (r *ActivityRepository) Update(ctx context.Context, activity *models.Activity) error {
	update := bson.M{"$set": bson.M{
		"type":             activity.Type,
		"distance_miles":   activity.DistanceMiles,
		"duration_seconds": activity.DurationSeconds,
		"calories_burned":  activity.CaloriesBurned,
		"occurred_at":      activity.OccurredAt,
		"period_key":       activity.PeriodKey,
		"year":             activity.Year,
		"pace":             activity.Pace,
		"updated_at":       time.Now(),
	}}

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": activity.ID}, update)
	if err != nil {
		logger.Log.WithError(err).WithField("activity_id", activity.ID.Hex()).Error("Failed to update activity")
		return fmt.Errorf("failed to update activity: %v", err)
	}
	return nil
}

// Delete removes an activity record.
func (r *ActivityRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		logger.Log.WithError(err).WithField("activity_id", id.Hex()).Error("Failed to delete activity")
		return fmt.Errorf("failed to delete activity: %v", err)
	}
	return nil
}

// ListByUser fetches a user's activities, most recent first.
func (r *ActivityRepository) ListByUser(ctx context.Context, userID primitive.ObjectID, limit int64) ([]models.Activity, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "occurred_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch activities: %v", err)
	}
	defer cursor.Close(ctx)

	var activities []models.Activity
	if err := cursor.All(ctx, &activities); err != nil {
		return nil, fmt.Errorf("failed to decode activities: %v", err)
	}
	return activities, nil
}

// ListUnmigrated fetches a user's legacy activities that still lack
// their period metadata.
func (r *ActivityRepository) ListUnmigrated(ctx context.Context, userID primitive.ObjectID) ([]models.Activity, error) {
	filter := bson.M{
		"user_id": userID,
		"$or": []bson.M{
			{"period_key": bson.M{"$exists": false}},
			{"period_key": ""},
			{"year": bson.M{"$exists": false}},
			{"year": 0},
		},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch unmigrated activities: %v", err)
	}
	defer cursor.Close(ctx)

	var activities []models.Activity
	if err := cursor.All(ctx, &activities); err != nil {
		return nil, fmt.Errorf("failed to decode unmigrated activities: %v", err)
	}
	return activities, nil
}

// StampMigration marks a legacy record as migrated. Touches nothing
// beyond the period metadata and the migration marker.
func (r *ActivityRepository) StampMigration(ctx context.Context, id primitive.ObjectID, periodKey string, year int, migratedAt time.Time) error {
	update := bson.M{"$set": bson.M{
		"period_key":  periodKey,
		"year":        year,
		"migrated_at": migratedAt,
	}}

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		logger.Log.WithError(err).WithField("activity_id", id.Hex()).Error("Failed to stamp migrated activity")
		return fmt.Errorf("failed to stamp migrated activity: %v", err)
	}
	return nil
}
