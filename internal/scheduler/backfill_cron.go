package cron

import (
	"context"

	"github.com/fitstride/fitstride-api/internal/services"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// StartMaintenanceJobs schedules the backfill sweep inside a
// low-traffic window. Running it off-peak narrows the window in which
// the sweep can race a concurrent write to a not-yet-migrated record.
// An empty schedule disables the job.
func StartMaintenanceJobs(backfillService *services.BackfillService, schedule string) {
	if schedule == "" {
		logrus.Info("Backfill schedule not set, skipping maintenance jobs")
		return
	}

	c := cron.New()

	_, err := c.AddFunc(schedule, func() {
		migrated, err := backfillService.Reconcile(context.Background())
		if err != nil {
			logrus.WithError(err).Error("Scheduled backfill failed")
			return
		}
		logrus.WithField("migrated", migrated).Info("Scheduled backfill completed")
	})
	if err != nil {
		logrus.WithError(err).Error("Invalid backfill schedule")
		return
	}

	c.Start()
}
