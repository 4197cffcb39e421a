package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	FriendStatusPending  = "pending"
	FriendStatusAccepted = "accepted"
	FriendStatusDeclined = "declined"
	FriendStatusBlocked  = "blocked"
)

// FriendRequest is the single record kept per unordered user pair. The
// requester/receiver split only records who initiated; friendship
// itself is symmetric.
type FriendRequest struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RequesterID primitive.ObjectID `bson:"requester_id" json:"requester_id"`
	ReceiverID  primitive.ObjectID `bson:"receiver_id" json:"receiver_id"`
	PairKey     string             `bson:"pair_key" json:"-"`
	Status      string             `bson:"status" json:"status"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

// PendingRequestView is a pending request joined with the requester's
// public profile for display.
type PendingRequestView struct {
	ID        primitive.ObjectID `json:"id"`
	Requester PublicUser         `json:"requester"`
	CreatedAt time.Time          `json:"created_at"`
}

// PairKey returns the canonical key for an unordered user pair: the
// two hex ids sorted lexicographically and joined with a colon. Both
// directions of the same pair map to the same key.
func PairKey(a, b primitive.ObjectID) string {
	ah, bh := a.Hex(), b.Hex()
	if ah > bh {
		ah, bh = bh, ah
	}
	return strings.Join([]string{ah, bh}, ":")
}
