package models

import "go.mongodb.org/mongo-driver/bson/primitive"

const (
	ScopeGlobal  = "global"
	ScopeFriends = "friends"

	// GlobalLeaderboardSize is the number of rows a global view returns.
	GlobalLeaderboardSize = 50

	// FriendScopeLimit caps the id set of a friends-scoped view. The
	// bound exists because ranking among an arbitrary id subset is done
	// by one batched fetch plus a client-side sort.
	FriendScopeLimit = 30
)

// LeaderboardEntry is the per-period row co-written with a user's
// stats documents so leaderboard reads never scan activities.
type LeaderboardEntry struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Period      string             `bson:"period" json:"period"`
	UserID      primitive.ObjectID `bson:"user_id" json:"user_id"`
	TotalMiles  float64            `bson:"total_miles" json:"total_miles"`
	DisplayName string             `bson:"display_name" json:"display_name"`
	PhotoURL    string             `bson:"photo_url,omitempty" json:"photo_url,omitempty"`

	// Rank is stamped on the way out, never stored.
	Rank int `bson:"-" json:"rank"`
}
