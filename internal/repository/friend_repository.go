package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fitstride/fitstride-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type FriendRepository struct {
	collection *mongo.Collection
}

func NewFriendRepository(db *mongo.Database) *FriendRepository {
	return &FriendRepository{
		collection: db.Collection("friends"),
	}
}

// Create inserts a new relationship record. The caller is responsible
// for the duplicate-pair check; this check-then-create is not
// transactional, so two racing requests for the same pair can both
// land and need eventual cleanup.
func (r *FriendRepository) Create(ctx context.Context, req *models.FriendRequest) (*models.FriendRequest, error) {
	result, err := r.collection.InsertOne(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create friend request: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	req.ID = insertedID

	return req, nil
}

// GetByPairKey fetches the relationship record for an unordered pair,
// whatever its status or direction. Returns (nil, nil) when none
// exists.
func (r *FriendRepository) GetByPairKey(ctx context.Context, pairKey string) (*models.FriendRequest, error) {
	var req models.FriendRequest
	err := r.collection.FindOne(ctx, bson.M{"pair_key": pairKey}).Decode(&req)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find relationship for pair: %v", err)
	}
	return &req, nil
}

// GetByID fetches a relationship record. Returns (nil, nil) when the
// record does not exist.
func (r *FriendRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.FriendRequest, error) {
	var req models.FriendRequest
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&req)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find friend request: %v", err)
	}
	return &req, nil
}

// UpdateStatus moves a relationship record to a new status.
func (r *FriendRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("failed to update request status: %v", err)
	}
	return nil
}

// ListAcceptedByRequester fetches accepted relationships the user
// initiated. Counterpart resolution across both directions is done by
// the service, which unions this with ListAcceptedByReceiver.
func (r *FriendRepository) ListAcceptedByRequester(ctx context.Context, userID primitive.ObjectID) ([]models.FriendRequest, error) {
	return r.list(ctx, bson.M{"requester_id": userID, "status": models.FriendStatusAccepted})
}

// ListAcceptedByReceiver fetches accepted relationships the user
// received.
func (r *FriendRepository) ListAcceptedByReceiver(ctx context.Context, userID primitive.ObjectID) ([]models.FriendRequest, error) {
	return r.list(ctx, bson.M{"receiver_id": userID, "status": models.FriendStatusAccepted})
}

// ListPendingReceived fetches requests awaiting the user's response.
func (r *FriendRepository) ListPendingReceived(ctx context.Context, userID primitive.ObjectID) ([]models.FriendRequest, error) {
	return r.list(ctx, bson.M{"receiver_id": userID, "status": models.FriendStatusPending})
}

func (r *FriendRepository) list(ctx context.Context, filter bson.M) ([]models.FriendRequest, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find friend requests: %v", err)
	}
	defer cursor.Close(ctx)

	var requests []models.FriendRequest
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, fmt.Errorf("failed to decode friend requests: %v", err)
	}
	return requests, nil
}
