package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Activity is a single logged workout. It is the authoritative record;
// the per-user stats documents are derived from it.
type Activity struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID `bson:"user_id" json:"user_id"`
	Type            string             `bson:"type" json:"type"`
	DistanceMiles   float64            `bson:"distance_miles" json:"distance_miles"`
	DurationSeconds int64              `bson:"duration_seconds" json:"duration_seconds"`
	CaloriesBurned  int64              `bson:"calories_burned" json:"calories_burned"`
	OccurredAt      time.Time          `bson:"occurred_at" json:"occurred_at"`

	// PeriodKey and Year are absent on legacy records until the backfill
	// stamps them; both being set marks the record as migrated.
	PeriodKey  string     `bson:"period_key,omitempty" json:"period_key,omitempty"`
	Year       int        `bson:"year,omitempty" json:"year,omitempty"`
	Pace       string     `bson:"pace,omitempty" json:"pace,omitempty"`
	MigratedAt *time.Time `bson:"migrated_at,omitempty" json:"migrated_at,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// ActivityUpdate carries the mutable fields of an update request.
// Nil fields are left untouched.
type ActivityUpdate struct {
	Type            *string    `json:"type,omitempty"`
	DistanceMiles   *float64   `json:"distance_miles,omitempty"`
	DurationSeconds *int64     `json:"duration_seconds,omitempty"`
	CaloriesBurned  *int64     `json:"calories_burned,omitempty"`
	OccurredAt      *time.Time `json:"occurred_at,omitempty"`
}

// AllowedActivityTypes lists the workout types accepted by the API.
var AllowedActivityTypes = map[string]struct{}{
	"Run":       {},
	"Walk":      {},
	"Bike":      {},
	"Treadmill": {},
	"HIIT":      {},
}
