package services

import (
	"context"
	"fmt"
	"time"

	"github.com/fitstride/fitstride-api/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FriendService maintains the social graph: one relationship record
// per unordered user pair, with a directed pending/accepted/declined/
// blocked lifecycle on top.
type FriendService struct {
	friendRepo FriendRepository
	userRepo   UserRepository
}

// NewFriendService creates a new FriendService.
func NewFriendService(friendRepo FriendRepository, userRepo UserRepository) *FriendService {
	return &FriendService{
		friendRepo: friendRepo,
		userRepo:   userRepo,
	}
}

// SendRequest creates a pending relationship. Any existing record for
// the pair, whatever its status or direction, blocks a new one — there
// is deliberately no re-request after a decline. The check-then-create
// is not transactional; a racing duplicate is tolerated and cleaned up
// later rather than guarded by a lock.
func (s *FriendService) SendRequest(ctx context.Context, requesterID, receiverID primitive.ObjectID) (*models.FriendRequest, error) {
	if requesterID == receiverID {
		return nil, ErrSelfRequest
	}

	receiver, err := s.userRepo.GetUserByID(ctx, receiverID)
	if err != nil {
		return nil, err
	}
	if receiver == nil {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, receiverID.Hex())
	}

	pairKey := models.PairKey(requesterID, receiverID)
	existing, err := s.friendRepo.GetByPairKey(ctx, pairKey)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: status %s", ErrDuplicatePair, existing.Status)
	}

	now := time.Now()
	request := &models.FriendRequest{
		RequesterID: requesterID,
		ReceiverID:  receiverID,
		PairKey:     pairKey,
		Status:      models.FriendStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.friendRepo.Create(ctx, request)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"requester_id": requesterID.Hex(),
		"receiver_id":  receiverID.Hex(),
	}).Info("Friend request sent")

	return created, nil
}

// Respond lets the receiver accept or decline a pending request.
func (s *FriendService) Respond(ctx context.Context, userID, requestID primitive.ObjectID, accept bool) error {
	request, err := s.friendRepo.GetByID(ctx, requestID)
	if err != nil {
		return err
	}
	if request == nil || request.ReceiverID != userID {
		return fmt.Errorf("%w: friend request %s", ErrNotFound, requestID.Hex())
	}
	if request.Status != models.FriendStatusPending {
		return fmt.Errorf("%w: request already responded to", ErrValidation)
	}

	status := models.FriendStatusDeclined
	if accept {
		status = models.FriendStatusAccepted
	}
	return s.friendRepo.UpdateStatus(ctx, requestID, status)
}

// Block moves the pair's relationship to blocked from any state,
// creating the record if the pair never interacted. No transition out
// of blocked is exposed.
func (s *FriendService) Block(ctx context.Context, userID, otherID primitive.ObjectID) error {
	if userID == otherID {
		return ErrSelfRequest
	}

	pairKey := models.PairKey(userID, otherID)
	existing, err := s.friendRepo.GetByPairKey(ctx, pairKey)
	if err != nil {
		return err
	}
	if existing != nil {
		return s.friendRepo.UpdateStatus(ctx, existing.ID, models.FriendStatusBlocked)
	}

	now := time.Now()
	_, err = s.friendRepo.Create(ctx, &models.FriendRequest{
		RequesterID: userID,
		ReceiverID:  otherID,
		PairKey:     pairKey,
		Status:      models.FriendStatusBlocked,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	return err
}

// ListAcceptedIDs returns the counterpart ids of every accepted
// relationship the user appears in, either direction. The store gives
// us the two directions as disjoint queries; the union happens here.
func (s *FriendService) ListAcceptedIDs(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	asRequester, err := s.friendRepo.ListAcceptedByRequester(ctx, userID)
	if err != nil {
		return nil, err
	}
	asReceiver, err := s.friendRepo.ListAcceptedByReceiver(ctx, userID)
	if err != nil {
		return nil, err
	}
	return unionCounterparts(userID, asRequester, asReceiver), nil
}

// ListFriends returns the public profiles of the user's accepted
// friends via one bounded batched lookup.
func (s *FriendService) ListFriends(ctx context.Context, userID primitive.ObjectID) ([]models.PublicUser, error) {
	ids, err := s.ListAcceptedIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []models.PublicUser{}, nil
	}
	if len(ids) > models.FriendScopeLimit {
		ids = ids[:models.FriendScopeLimit]
	}

	users, err := s.userRepo.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	friends := make([]models.PublicUser, 0, len(users))
	for _, user := range users {
		friends = append(friends, publicProfile(user))
	}
	return friends, nil
}

// ListPendingReceived returns requests awaiting the user's response,
// joined with each requester's public profile.
func (s *FriendService) ListPendingReceived(ctx context.Context, userID primitive.ObjectID) ([]models.PendingRequestView, error) {
	requests, err := s.friendRepo.ListPendingReceived(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(requests) == 0 {
		return []models.PendingRequestView{}, nil
	}

	requesterIDs := make([]primitive.ObjectID, 0, len(requests))
	for _, req := range requests {
		requesterIDs = append(requesterIDs, req.RequesterID)
	}

	users, err := s.userRepo.GetUsersByIDs(ctx, requesterIDs)
	if err != nil {
		return nil, err
	}
	profiles := make(map[primitive.ObjectID]models.PublicUser, len(users))
	for _, user := range users {
		profiles[user.ID] = publicProfile(user)
	}

	views := make([]models.PendingRequestView, 0, len(requests))
	for _, req := range requests {
		views = append(views, models.PendingRequestView{
			ID:        req.ID,
			Requester: profiles[req.RequesterID],
			CreatedAt: req.CreatedAt,
		})
	}
	return views, nil
}

// unionCounterparts merges the two directional query results into one
// deduplicated set of counterpart ids.
func unionCounterparts(userID primitive.ObjectID, groups ...[]models.FriendRequest) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{})
	var ids []primitive.ObjectID
	for _, group := range groups {
		for _, req := range group {
			counterpart := req.RequesterID
			if counterpart == userID {
				counterpart = req.ReceiverID
			}
			if _, ok := seen[counterpart]; ok {
				continue
			}
			seen[counterpart] = struct{}{}
			ids = append(ids, counterpart)
		}
	}
	return ids
}

func publicProfile(user models.User) models.PublicUser {
	displayName := user.DisplayName
	if displayName == "" {
		displayName = user.Username
	}
	return models.PublicUser{
		ID:          user.ID,
		Username:    user.Username,
		DisplayName: displayName,
		PhotoURL:    user.PhotoURL,
	}
}
