package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fitstride/fitstride-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type activityFixture struct {
	svc       *ActivityService
	repo      *fakeActivityRepo
	statsRepo *fakeStatsRepo
	boardRepo *fakeBoardRepo
	user      *models.User
}

func newActivityFixture(t *testing.T) *activityFixture {
	t.Helper()
	user := &models.User{Username: "aruzhan", DisplayName: "Aruzhan"}
	statsRepo := newFakeStatsRepo()
	boardRepo := newFakeBoardRepo()
	userRepo := newFakeUserRepo(user)
	repo := newFakeActivityRepo()
	stats := NewStatsService(statsRepo, boardRepo, userRepo)
	return &activityFixture{
		svc:       NewActivityService(repo, stats),
		repo:      repo,
		statsRepo: statsRepo,
		boardRepo: boardRepo,
		user:      user,
	}
}

func (f *activityFixture) mustStats(t *testing.T, period string) *models.Stats {
	t.Helper()
	stats, err := f.statsRepo.Get(context.Background(), f.user.ID, period)
	require.NoError(t, err)
	if stats == nil {
		return &models.Stats{UserID: f.user.ID, Period: period}
	}
	return stats
}

func TestCreateActivityDerivesFieldsAndAggregates(t *testing.T) {
	f := newActivityFixture(t)
	ctx := context.Background()

	occurred := time.Date(2024, time.January, 15, 7, 30, 0, 0, time.UTC)
	created, err := f.svc.CreateActivity(ctx, &models.Activity{
		UserID:          f.user.ID,
		Type:            "Run",
		DistanceMiles:   2,
		DurationSeconds: 1200,
		CaloriesBurned:  180,
		OccurredAt:      occurred,
	})
	require.NoError(t, err)
	assert.Equal(t, "2024-01", created.PeriodKey)
	assert.Equal(t, 2024, created.Year)
	assert.Equal(t, "10:00", created.Pace)

	allTime := f.mustStats(t, models.AllTimePeriod)
	assert.Equal(t, 2.0, allTime.TotalMiles)
	assert.Equal(t, int64(1), allTime.TotalRuns)
	assert.Equal(t, int64(1200), allTime.TotalTimeSeconds)

	period := f.mustStats(t, "2024-01")
	assert.Equal(t, 2.0, period.TotalMiles)
}

func TestCreateActivityZeroDistanceSkipsPace(t *testing.T) {
	f := newActivityFixture(t)

	created, err := f.svc.CreateActivity(context.Background(), &models.Activity{
		UserID:          f.user.ID,
		Type:            "HIIT",
		DurationSeconds: 900,
		OccurredAt:      time.Date(2024, time.March, 1, 18, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Empty(t, created.Pace)
}

func TestCreateActivityRejectsBadInput(t *testing.T) {
	f := newActivityFixture(t)
	ctx := context.Background()

	cases := []models.Activity{
		{UserID: f.user.ID, Type: "Swim", DistanceMiles: 1},
		{UserID: f.user.ID, Type: "Run", DistanceMiles: -1},
		{UserID: f.user.ID, Type: "Run", DurationSeconds: -5},
		{UserID: f.user.ID, Type: "Run", CaloriesBurned: -10},
	}
	for _, activity := range cases {
		a := activity
		_, err := f.svc.CreateActivity(ctx, &a)
		assert.ErrorIs(t, err, ErrValidation)
	}

	// Nothing reached the aggregates.
	assert.Equal(t, 0.0, f.mustStats(t, models.AllTimePeriod).TotalMiles)
}

func TestDeleteActivityReturnsAggregatesToZero(t *testing.T) {
	f := newActivityFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateActivity(ctx, &models.Activity{
		UserID:          f.user.ID,
		Type:            "Run",
		DistanceMiles:   5,
		DurationSeconds: 3000,
		OccurredAt:      time.Date(2024, time.January, 10, 6, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	allTime := f.mustStats(t, models.AllTimePeriod)
	require.Equal(t, 5.0, allTime.TotalMiles)
	require.Equal(t, int64(1), allTime.TotalRuns)
	require.Equal(t, int64(3000), allTime.TotalTimeSeconds)

	require.NoError(t, f.svc.DeleteActivity(ctx, f.user.ID, created.ID))

	allTime = f.mustStats(t, models.AllTimePeriod)
	assert.Equal(t, 0.0, allTime.TotalMiles)
	assert.Equal(t, int64(0), allTime.TotalRuns)
	assert.Equal(t, int64(0), allTime.TotalTimeSeconds)

	period := f.mustStats(t, "2024-01")
	assert.Equal(t, 0.0, period.TotalMiles)
	assert.Equal(t, int64(0), period.TotalRuns)
}

func TestUpdateActivitySamePeriodDelta(t *testing.T) {
	f := newActivityFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateActivity(ctx, &models.Activity{
		UserID:          f.user.ID,
		Type:            "Run",
		DistanceMiles:   3,
		DurationSeconds: 1800,
		OccurredAt:      time.Date(2024, time.January, 5, 8, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	newMiles := 4.0
	newSeconds := int64(2400)
	updated, err := f.svc.UpdateActivity(ctx, f.user.ID, created.ID, &models.ActivityUpdate{
		DistanceMiles:   &newMiles,
		DurationSeconds: &newSeconds,
	})
	require.NoError(t, err)
	assert.Equal(t, "10:00", updated.Pace)

	allTime := f.mustStats(t, models.AllTimePeriod)
	assert.Equal(t, 4.0, allTime.TotalMiles)
	assert.Equal(t, int64(1), allTime.TotalRuns)
	assert.Equal(t, int64(2400), allTime.TotalTimeSeconds)

	period := f.mustStats(t, "2024-01")
	assert.Equal(t, 4.0, period.TotalMiles)
	assert.Equal(t, int64(1), period.TotalRuns)
}

func TestUpdateActivityPeriodMove(t *testing.T) {
	f := newActivityFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateActivity(ctx, &models.Activity{
		UserID:          f.user.ID,
		Type:            "Run",
		DistanceMiles:   3,
		DurationSeconds: 1800,
		OccurredAt:      time.Date(2024, time.January, 20, 9, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	moved := time.Date(2024, time.February, 2, 9, 0, 0, 0, time.UTC)
	updated, err := f.svc.UpdateActivity(ctx, f.user.ID, created.ID, &models.ActivityUpdate{
		OccurredAt: &moved,
	})
	require.NoError(t, err)
	assert.Equal(t, "2024-02", updated.PeriodKey)

	jan := f.mustStats(t, "2024-01")
	assert.Equal(t, 0.0, jan.TotalMiles)
	assert.Equal(t, int64(0), jan.TotalRuns)

	feb := f.mustStats(t, "2024-02")
	assert.Equal(t, 3.0, feb.TotalMiles)
	assert.Equal(t, int64(1), feb.TotalRuns)

	// All-time is unchanged by the move.
	allTime := f.mustStats(t, models.AllTimePeriod)
	assert.Equal(t, 3.0, allTime.TotalMiles)
	assert.Equal(t, int64(1), allTime.TotalRuns)
	assert.Equal(t, int64(1800), allTime.TotalTimeSeconds)
}

func TestUpdateActivityUnknownRecord(t *testing.T) {
	f := newActivityFixture(t)

	newMiles := 1.0
	_, err := f.svc.UpdateActivity(context.Background(), f.user.ID, primitive.NewObjectID(), &models.ActivityUpdate{
		DistanceMiles: &newMiles,
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateActivityOtherUsersRecordHidden(t *testing.T) {
	f := newActivityFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateActivity(ctx, &models.Activity{
		UserID:          f.user.ID,
		Type:            "Walk",
		DistanceMiles:   1,
		DurationSeconds: 900,
		OccurredAt:      time.Now(),
	})
	require.NoError(t, err)

	_, err = f.svc.GetActivity(ctx, primitive.NewObjectID(), created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateActivitySurvivesAggregationFailure(t *testing.T) {
	f := newActivityFixture(t)
	f.statsRepo.incrementErr = errors.New("store down")
	ctx := context.Background()

	created, err := f.svc.CreateActivity(ctx, &models.Activity{
		UserID:          f.user.ID,
		Type:            "Bike",
		DistanceMiles:   10,
		DurationSeconds: 3600,
		OccurredAt:      time.Now(),
	})
	require.NoError(t, err, "aggregation failure must not fail the primary write")
	require.False(t, created.ID.IsZero())

	// Record persisted; the counter drift is repairable by backfill.
	stored, err := f.repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, 10.0, stored.DistanceMiles)
}
