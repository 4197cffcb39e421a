package services

import (
	"context"
	"time"

	"github.com/fitstride/fitstride-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Persistence contracts consumed by the services. The concrete Mongo
// implementations live in internal/repository; tests substitute
// in-memory fakes.

type ActivityRepository interface {
	Create(ctx context.Context, activity *models.Activity) (*models.Activity, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Activity, error)
	Update(ctx context.Context, activity *models.Activity) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	ListByUser(ctx context.Context, userID primitive.ObjectID, limit int64) ([]models.Activity, error)
	ListUnmigrated(ctx context.Context, userID primitive.ObjectID) ([]models.Activity, error)
	StampMigration(ctx context.Context, id primitive.ObjectID, periodKey string, year int, migratedAt time.Time) error
}

type StatsRepository interface {
	Increment(ctx context.Context, userID primitive.ObjectID, period string, delta models.StatsDelta) error
	Get(ctx context.Context, userID primitive.ObjectID, period string) (*models.Stats, error)
}

type LeaderboardRepository interface {
	IncrementEntry(ctx context.Context, period string, userID primitive.ObjectID, miles float64, displayName, photoURL string) error
	TopEntries(ctx context.Context, period string, limit int64) ([]models.LeaderboardEntry, error)
	EntriesForUsers(ctx context.Context, period string, userIDs []primitive.ObjectID) ([]models.LeaderboardEntry, error)
}

type FriendRepository interface {
	Create(ctx context.Context, req *models.FriendRequest) (*models.FriendRequest, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.FriendRequest, error)
	GetByPairKey(ctx context.Context, pairKey string) (*models.FriendRequest, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) error
	ListAcceptedByRequester(ctx context.Context, userID primitive.ObjectID) ([]models.FriendRequest, error)
	ListAcceptedByReceiver(ctx context.Context, userID primitive.ObjectID) ([]models.FriendRequest, error)
	ListPendingReceived(ctx context.Context, userID primitive.ObjectID) ([]models.FriendRequest, error)
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	ListUserIDs(ctx context.Context) ([]primitive.ObjectID, error)
	UpdateUser(ctx context.Context, id primitive.ObjectID, fields bson.M) error
	UpdateLastActive(ctx context.Context, id primitive.ObjectID) error
}
