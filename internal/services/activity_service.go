package services

import (
	"context"
	"fmt"
	"time"

	"github.com/fitstride/fitstride-api/internal/models"
	"github.com/fitstride/fitstride-api/pkg/fitness"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ActivityService owns the activity lifecycle. Every mutation feeds a
// matching delta through the aggregator so the derived counters track
// the records.
type ActivityService struct {
	repo  ActivityRepository
	stats *StatsService
}

// NewActivityService creates a new ActivityService.
func NewActivityService(repo ActivityRepository, stats *StatsService) *ActivityService {
	return &ActivityService{repo: repo, stats: stats}
}

// CreateActivity validates and stores a new activity, then credits the
// user's aggregates with its values.
func (s *ActivityService) CreateActivity(ctx context.Context, activity *models.Activity) (*models.Activity, error) {
	if err := validateActivity(activity); err != nil {
		return nil, err
	}

	if activity.OccurredAt.IsZero() {
		activity.OccurredAt = time.Now()
	}
	activity.PeriodKey = fitness.PeriodKey(activity.OccurredAt)
	activity.Year = activity.OccurredAt.Year()
	if activity.DistanceMiles > 0 {
		activity.Pace = fitness.FormatPace(fitness.CalculatePace(activity.DistanceMiles, activity.DurationSeconds))
	}

	created, err := s.repo.Create(ctx, activity)
	if err != nil {
		return nil, err
	}

	delta := models.StatsDelta{Miles: created.DistanceMiles, Runs: 1, Seconds: created.DurationSeconds}
	if err := s.stats.ApplyDelta(ctx, created.UserID, created.PeriodKey, delta); err != nil {
		// The record is authoritative; degraded aggregates are repaired
		// by the backfill, so the create still succeeds.
		logrus.WithError(err).WithField("activity_id", created.ID.Hex()).Error("Aggregation failed after create")
	}

	return created, nil
}

// GetActivity fetches one of the caller's activities.
func (s *ActivityService) GetActivity(ctx context.Context, userID, activityID primitive.ObjectID) (*models.Activity, error) {
	activity, err := s.repo.GetByID(ctx, activityID)
	if err != nil {
		return nil, err
	}
	if activity == nil || activity.UserID != userID {
		return nil, fmt.Errorf("%w: activity %s", ErrNotFound, activityID.Hex())
	}
	return activity, nil
}

// ListActivities returns the caller's history, most recent first.
func (s *ActivityService) ListActivities(ctx context.Context, userID primitive.ObjectID, limit int64) ([]models.Activity, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.repo.ListByUser(ctx, userID, limit)
}

// UpdateActivity applies a partial edit and keeps the aggregates in
// step. A same-period edit contributes one delta; an edit that moves
// the record across periods debits the old period and credits the new
// one as two separate deltas, leaving all-time net `(Δmiles, 0,
// Δseconds)` either way.
func (s *ActivityService) UpdateActivity(ctx context.Context, userID, activityID primitive.ObjectID, upd *models.ActivityUpdate) (*models.Activity, error) {
	activity, err := s.GetActivity(ctx, userID, activityID)
	if err != nil {
		return nil, err
	}

	oldMiles := activity.DistanceMiles
	oldSeconds := activity.DurationSeconds
	oldPeriod := activity.PeriodKey
	if oldPeriod == "" {
		oldPeriod = fitness.PeriodKey(activity.OccurredAt)
	}

	metricsChanged := false
	if upd.Type != nil {
		if _, ok := models.AllowedActivityTypes[*upd.Type]; !ok {
			return nil, fmt.Errorf("%w: unknown activity type %q", ErrValidation, *upd.Type)
		}
		activity.Type = *upd.Type
	}
	if upd.DistanceMiles != nil {
		if *upd.DistanceMiles < 0 {
			return nil, fmt.Errorf("%w: distance cannot be negative", ErrValidation)
		}
		activity.DistanceMiles = *upd.DistanceMiles
		metricsChanged = true
	}
	if upd.DurationSeconds != nil {
		if *upd.DurationSeconds < 0 {
			return nil, fmt.Errorf("%w: duration cannot be negative", ErrValidation)
		}
		activity.DurationSeconds = *upd.DurationSeconds
		metricsChanged = true
	}
	if upd.CaloriesBurned != nil {
		if *upd.CaloriesBurned < 0 {
			return nil, fmt.Errorf("%w: calories cannot be negative", ErrValidation)
		}
		activity.CaloriesBurned = *upd.CaloriesBurned
	}
	if upd.OccurredAt != nil {
		activity.OccurredAt = *upd.OccurredAt
	}

	activity.PeriodKey = fitness.PeriodKey(activity.OccurredAt)
	activity.Year = activity.OccurredAt.Year()
	if metricsChanged && activity.DistanceMiles > 0 {
		// Recomputed only for a positive final distance; a zero
		// distance leaves the previous pace untouched.
		activity.Pace = fitness.FormatPace(fitness.CalculatePace(activity.DistanceMiles, activity.DurationSeconds))
	}

	if err := s.repo.Update(ctx, activity); err != nil {
		return nil, err
	}

	s.applyUpdateDeltas(ctx, activity, oldPeriod, oldMiles, oldSeconds)

	return activity, nil
}

// DeleteActivity removes a record and debits the aggregates with the
// record's own stored values, applied to the period it belonged to.
func (s *ActivityService) DeleteActivity(ctx context.Context, userID, activityID primitive.ObjectID) error {
	activity, err := s.GetActivity(ctx, userID, activityID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, activityID); err != nil {
		return err
	}

	period := activity.PeriodKey
	if period == "" {
		period = fitness.PeriodKey(activity.OccurredAt)
	}

	delta := models.StatsDelta{Miles: activity.DistanceMiles, Runs: 1, Seconds: activity.DurationSeconds}
	if err := s.stats.ApplyDelta(ctx, userID, period, delta.Negate()); err != nil {
		logrus.WithError(err).WithField("activity_id", activityID.Hex()).Error("Aggregation failed after delete")
	}

	return nil
}

func (s *ActivityService) applyUpdateDeltas(ctx context.Context, activity *models.Activity, oldPeriod string, oldMiles float64, oldSeconds int64) {
	if activity.PeriodKey == oldPeriod {
		delta := models.StatsDelta{
			Miles:   activity.DistanceMiles - oldMiles,
			Seconds: activity.DurationSeconds - oldSeconds,
		}
		if delta.IsZero() {
			return
		}
		if err := s.stats.ApplyDelta(ctx, activity.UserID, activity.PeriodKey, delta); err != nil {
			logrus.WithError(err).WithField("activity_id", activity.ID.Hex()).Error("Aggregation failed after update")
		}
		return
	}

	// Date edit moved the record across periods: debit the old period,
	// credit the new one. All-time nets out through the two calls.
	debit := models.StatsDelta{Miles: oldMiles, Runs: 1, Seconds: oldSeconds}
	if err := s.stats.ApplyDelta(ctx, activity.UserID, oldPeriod, debit.Negate()); err != nil {
		logrus.WithError(err).WithField("activity_id", activity.ID.Hex()).Error("Aggregation failed debiting old period")
	}

	credit := models.StatsDelta{Miles: activity.DistanceMiles, Runs: 1, Seconds: activity.DurationSeconds}
	if err := s.stats.ApplyDelta(ctx, activity.UserID, activity.PeriodKey, credit); err != nil {
		logrus.WithError(err).WithField("activity_id", activity.ID.Hex()).Error("Aggregation failed crediting new period")
	}
}

func validateActivity(activity *models.Activity) error {
	if _, ok := models.AllowedActivityTypes[activity.Type]; !ok {
		return fmt.Errorf("%w: unknown activity type %q", ErrValidation, activity.Type)
	}
	if activity.DistanceMiles < 0 {
		return fmt.Errorf("%w: distance cannot be negative", ErrValidation)
	}
	if activity.DurationSeconds < 0 {
		return fmt.Errorf("%w: duration cannot be negative", ErrValidation)
	}
	if activity.CaloriesBurned < 0 {
		return fmt.Errorf("%w: calories cannot be negative", ErrValidation)
	}
	return nil
}
