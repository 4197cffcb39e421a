package services

import (
	"context"
	"fmt"
	"regexp"
	"sort"

	"github.com/fitstride/fitstride-api/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var periodPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// LeaderboardService derives ranked views from the co-written
// leaderboard rows. Global scope is a store-side sorted query;
// friends scope is a bounded batched fetch plus a client-side sort,
// because the store cannot rank among an arbitrary id subset.
type LeaderboardService struct {
	boardRepo LeaderboardRepository
	friends   *FriendService
}

// NewLeaderboardService creates a new LeaderboardService.
func NewLeaderboardService(boardRepo LeaderboardRepository, friends *FriendService) *LeaderboardService {
	return &LeaderboardService{
		boardRepo: boardRepo,
		friends:   friends,
	}
}

// GetLeaderboard returns the ranked entries for one period. userID is
// required only for friends scope; an empty board is an empty slice,
// never an error.
func (s *LeaderboardService) GetLeaderboard(ctx context.Context, period, scope string, userID primitive.ObjectID) ([]models.LeaderboardEntry, error) {
	if !periodPattern.MatchString(period) {
		return nil, fmt.Errorf("%w: invalid period %q", ErrValidation, period)
	}

	var entries []models.LeaderboardEntry
	var err error

	switch scope {
	case models.ScopeGlobal:
		entries, err = s.boardRepo.TopEntries(ctx, period, models.GlobalLeaderboardSize)
		if err != nil {
			return nil, err
		}

	case models.ScopeFriends:
		if userID.IsZero() {
			return nil, ErrMissingScopeUser
		}
		entries, err = s.friendEntries(ctx, period, userID)
		if err != nil {
			return nil, err
		}

	default:
		return nil, fmt.Errorf("%w: unknown scope %q", ErrValidation, scope)
	}

	for i := range entries {
		entries[i].Rank = i + 1
	}
	if entries == nil {
		entries = []models.LeaderboardEntry{}
	}
	return entries, nil
}

func (s *LeaderboardService) friendEntries(ctx context.Context, period string, userID primitive.ObjectID) ([]models.LeaderboardEntry, error) {
	friendIDs, err := s.friends.ListAcceptedIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Self is always part of the friends view.
	ids := append([]primitive.ObjectID{userID}, friendIDs...)
	if len(ids) > models.FriendScopeLimit {
		ids = ids[:models.FriendScopeLimit]
	}

	entries, err := s.boardRepo.EntriesForUsers(ctx, period, ids)
	if err != nil {
		return nil, err
	}

	// Users without an entry for the period were dropped by the batched
	// fetch; rank the rest here.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].TotalMiles > entries[j].TotalMiles
	})
	return entries, nil
}
