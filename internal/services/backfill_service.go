package services

import (
	"context"
	"time"

	"github.com/fitstride/fitstride-api/internal/models"
	"github.com/fitstride/fitstride-api/pkg/fitness"
	"github.com/sirupsen/logrus"
)

// BackfillService replays legacy activities, created before the
// aggregate documents existed, through the aggregator and stamps them
// with their period metadata. Safe to re-run: records carrying both
// period_key and year are skipped unconditionally.
type BackfillService struct {
	userRepo     UserRepository
	activityRepo ActivityRepository
	stats        *StatsService
}

// NewBackfillService creates a new BackfillService.
func NewBackfillService(userRepo UserRepository, activityRepo ActivityRepository, stats *StatsService) *BackfillService {
	return &BackfillService{
		userRepo:     userRepo,
		activityRepo: activityRepo,
		stats:        stats,
	}
}

// Reconcile sweeps every user's unmigrated activities. For each record
// it applies the create delta first and stamps the migration marker
// second, so a crash in between is retried on the next run; the only
// residual risk is a double-apply inside that window, which is why the
// sweep is meant for maintenance windows. Returns the number of
// records migrated.
func (s *BackfillService) Reconcile(ctx context.Context) (int, error) {
	userIDs, err := s.userRepo.ListUserIDs(ctx)
	if err != nil {
		return 0, err
	}

	migrated := 0
	for _, userID := range userIDs {
		activities, err := s.activityRepo.ListUnmigrated(ctx, userID)
		if err != nil {
			return migrated, err
		}

		for i := range activities {
			activity := &activities[i]
			if activity.PeriodKey != "" && activity.Year != 0 {
				continue
			}

			periodKey := fitness.PeriodKey(activity.OccurredAt)
			year := activity.OccurredAt.Year()

			delta := models.StatsDelta{
				Miles:   activity.DistanceMiles,
				Runs:    1,
				Seconds: activity.DurationSeconds,
			}
			if err := s.stats.ApplyDelta(ctx, userID, periodKey, delta); err != nil {
				// Not stamped, so the next run picks it up again.
				logrus.WithError(err).WithField("activity_id", activity.ID.Hex()).Error("Backfill aggregation failed, will retry")
				continue
			}

			if err := s.activityRepo.StampMigration(ctx, activity.ID, periodKey, year, time.Now()); err != nil {
				logrus.WithError(err).WithField("activity_id", activity.ID.Hex()).Error("Backfill stamp failed after aggregation")
				continue
			}

			migrated++
		}
	}

	logrus.WithField("migrated", migrated).Info("Backfill reconcile completed")
	return migrated, nil
}
