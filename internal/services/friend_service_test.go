package services

import (
	"context"
	"testing"

	"github.com/fitstride/fitstride-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newFriendFixture(users ...*models.User) (*FriendService, *fakeFriendRepo) {
	friendRepo := newFakeFriendRepo()
	userRepo := newFakeUserRepo(users...)
	return NewFriendService(friendRepo, userRepo), friendRepo
}

func TestSendRequestCreatesPending(t *testing.T) {
	alice := &models.User{Username: "alice"}
	bob := &models.User{Username: "bob"}
	svc, _ := newFriendFixture(alice, bob)

	request, err := svc.SendRequest(context.Background(), alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FriendStatusPending, request.Status)
	assert.Equal(t, alice.ID, request.RequesterID)
	assert.Equal(t, bob.ID, request.ReceiverID)
	assert.Equal(t, models.PairKey(alice.ID, bob.ID), request.PairKey)
	assert.False(t, request.CreatedAt.IsZero())
	assert.Equal(t, request.CreatedAt, request.UpdatedAt)
}

func TestSendRequestToSelfRejected(t *testing.T) {
	alice := &models.User{Username: "alice"}
	svc, _ := newFriendFixture(alice)

	_, err := svc.SendRequest(context.Background(), alice.ID, alice.ID)
	assert.ErrorIs(t, err, ErrSelfRequest)
}

func TestSendRequestUnknownReceiverRejected(t *testing.T) {
	alice := &models.User{Username: "alice"}
	svc, _ := newFriendFixture(alice)

	_, err := svc.SendRequest(context.Background(), alice.ID, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSendRequestDeduplicatesPairBothDirections(t *testing.T) {
	alice := &models.User{Username: "alice"}
	bob := &models.User{Username: "bob"}
	svc, _ := newFriendFixture(alice, bob)
	ctx := context.Background()

	_, err := svc.SendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	_, err = svc.SendRequest(ctx, alice.ID, bob.ID)
	assert.ErrorIs(t, err, ErrDuplicatePair)

	_, err = svc.SendRequest(ctx, bob.ID, alice.ID)
	assert.ErrorIs(t, err, ErrDuplicatePair, "the pair, not the direction, is the identity key")
}

func TestSendRequestAfterDeclineStillBlocked(t *testing.T) {
	alice := &models.User{Username: "alice"}
	bob := &models.User{Username: "bob"}
	svc, _ := newFriendFixture(alice, bob)
	ctx := context.Background()

	request, err := svc.SendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	require.NoError(t, svc.Respond(ctx, bob.ID, request.ID, false))

	// Re-requesting after a decline is not supported.
	_, err = svc.SendRequest(ctx, alice.ID, bob.ID)
	assert.ErrorIs(t, err, ErrDuplicatePair)
}

func TestRespondTransitions(t *testing.T) {
	alice := &models.User{Username: "alice"}
	bob := &models.User{Username: "bob"}
	svc, friendRepo := newFriendFixture(alice, bob)
	ctx := context.Background()

	request, err := svc.SendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	// Only the receiver can respond.
	err = svc.Respond(ctx, alice.ID, request.ID, true)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.Respond(ctx, bob.ID, request.ID, true))
	stored, err := friendRepo.GetByID(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FriendStatusAccepted, stored.Status)

	// No second response.
	err = svc.Respond(ctx, bob.ID, request.ID, false)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestListAcceptedIDsUnionsBothDirections(t *testing.T) {
	alice := &models.User{Username: "alice"}
	bob := &models.User{Username: "bob"}
	carol := &models.User{Username: "carol"}
	dave := &models.User{Username: "dave"}
	svc, _ := newFriendFixture(alice, bob, carol, dave)
	ctx := context.Background()

	// alice → bob accepted, carol → alice accepted, alice → dave pending.
	req1, err := svc.SendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	require.NoError(t, svc.Respond(ctx, bob.ID, req1.ID, true))

	req2, err := svc.SendRequest(ctx, carol.ID, alice.ID)
	require.NoError(t, err)
	require.NoError(t, svc.Respond(ctx, alice.ID, req2.ID, true))

	_, err = svc.SendRequest(ctx, alice.ID, dave.ID)
	require.NoError(t, err)

	ids, err := svc.ListAcceptedIDs(ctx, alice.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []primitive.ObjectID{bob.ID, carol.ID}, ids)
}

func TestBlockFromAnyState(t *testing.T) {
	alice := &models.User{Username: "alice"}
	bob := &models.User{Username: "bob"}
	svc, friendRepo := newFriendFixture(alice, bob)
	ctx := context.Background()

	request, err := svc.SendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	require.NoError(t, svc.Respond(ctx, bob.ID, request.ID, true))

	require.NoError(t, svc.Block(ctx, bob.ID, alice.ID))

	stored, err := friendRepo.GetByID(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FriendStatusBlocked, stored.Status)

	// Blocked pairs reject new requests too.
	_, err = svc.SendRequest(ctx, alice.ID, bob.ID)
	assert.ErrorIs(t, err, ErrDuplicatePair)
}

func TestListPendingReceivedJoinsProfiles(t *testing.T) {
	alice := &models.User{Username: "alice", DisplayName: "Alice", PhotoURL: "http://img/alice.png"}
	bob := &models.User{Username: "bob"}
	svc, _ := newFriendFixture(alice, bob)
	ctx := context.Background()

	_, err := svc.SendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	views, err := svc.ListPendingReceived(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Alice", views[0].Requester.DisplayName)
	assert.Equal(t, "http://img/alice.png", views[0].Requester.PhotoURL)

	// Nothing pending from the requester's side.
	none, err := svc.ListPendingReceived(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestPairKeyCanonical(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()
	assert.Equal(t, models.PairKey(a, b), models.PairKey(b, a))
	assert.NotEqual(t, models.PairKey(a, b), models.PairKey(a, primitive.NewObjectID()))
}
