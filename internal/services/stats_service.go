package services

import (
	"context"
	"fmt"

	"github.com/fitstride/fitstride-api/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StatsService is the activity aggregator: the only write path for the
// per-user aggregate documents and the leaderboard rows derived from
// them outside the backfill, which calls through it anyway.
type StatsService struct {
	statsRepo StatsRepository
	boardRepo LeaderboardRepository
	userRepo  UserRepository
}

// NewStatsService creates a new StatsService.
func NewStatsService(statsRepo StatsRepository, boardRepo LeaderboardRepository, userRepo UserRepository) *StatsService {
	return &StatsService{
		statsRepo: statsRepo,
		boardRepo: boardRepo,
		userRepo:  userRepo,
	}
}

// ApplyDelta applies one signed increment to the user's all-time
// aggregate, the period aggregate, and the period's leaderboard row.
// Any failed write comes back wrapped in ErrAggregation; callers must
// treat that as non-fatal to the primary activity mutation and log it
// rather than roll back — the activity record is the source of truth
// and a missed increment is repairable by the backfill.
func (s *StatsService) ApplyDelta(ctx context.Context, userID primitive.ObjectID, periodKey string, delta models.StatsDelta) error {
	if periodKey == "" {
		return fmt.Errorf("%w: empty period key", ErrValidation)
	}

	if err := s.statsRepo.Increment(ctx, userID, models.AllTimePeriod, delta); err != nil {
		return fmt.Errorf("%w: all-time aggregate: %v", ErrAggregation, err)
	}

	if err := s.statsRepo.Increment(ctx, userID, periodKey, delta); err != nil {
		return fmt.Errorf("%w: period %s aggregate: %v", ErrAggregation, periodKey, err)
	}

	// Leaderboard rows are co-written here so they never become a
	// second source of truth needing their own reconciliation.
	displayName, photoURL := s.profileFields(ctx, userID)
	if err := s.boardRepo.IncrementEntry(ctx, periodKey, userID, delta.Miles, displayName, photoURL); err != nil {
		return fmt.Errorf("%w: leaderboard entry for %s: %v", ErrAggregation, periodKey, err)
	}

	logrus.WithFields(logrus.Fields{
		"user_id": userID.Hex(),
		"period":  periodKey,
		"miles":   delta.Miles,
		"runs":    delta.Runs,
	}).Debug("Applied stats delta")

	return nil
}

// GetStats returns the user's aggregate for a period, zeroed when the
// user has no recorded activity there yet.
func (s *StatsService) GetStats(ctx context.Context, userID primitive.ObjectID, period string) (*models.Stats, error) {
	stats, err := s.statsRepo.Get(ctx, userID, period)
	if err != nil {
		return nil, err
	}
	if stats == nil {
		return &models.Stats{UserID: userID, Period: period}, nil
	}
	return stats, nil
}

func (s *StatsService) profileFields(ctx context.Context, userID primitive.ObjectID) (string, string) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil || user == nil {
		logrus.WithField("user_id", userID.Hex()).Warn("Profile lookup failed for leaderboard entry")
		return "", ""
	}
	if user.DisplayName != "" {
		return user.DisplayName, user.PhotoURL
	}
	return user.Username, user.PhotoURL
}
