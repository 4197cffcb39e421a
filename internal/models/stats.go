package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AllTimePeriod is the sentinel period of the aggregate covering a
// user's entire history.
const AllTimePeriod = "allTime"

// Stats is a running total for one user and one period ("allTime" or a
// "YYYY-MM" month). Kept consistent with the activities collection by
// signed increments applied at write time.
type Stats struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	UserID           primitive.ObjectID `bson:"user_id" json:"user_id"`
	Period           string             `bson:"period" json:"period"`
	TotalMiles       float64            `bson:"total_miles" json:"total_miles"`
	TotalRuns        int64              `bson:"total_runs" json:"total_runs"`
	TotalTimeSeconds int64              `bson:"total_time_seconds" json:"total_time_seconds"`
	LastUpdated      time.Time          `bson:"last_updated" json:"last_updated"`
}

// StatsDelta is the signed increment one activity change contributes
// to an aggregate.
type StatsDelta struct {
	Miles   float64
	Runs    int64
	Seconds int64
}

// Negate returns the delta that undoes d.
func (d StatsDelta) Negate() StatsDelta {
	return StatsDelta{Miles: -d.Miles, Runs: -d.Runs, Seconds: -d.Seconds}
}

// IsZero reports whether applying d would be a no-op.
func (d StatsDelta) IsZero() bool {
	return d.Miles == 0 && d.Runs == 0 && d.Seconds == 0
}
