package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a user account in FitStride.
type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username       string             `bson:"username" json:"username"`
	Email          string             `bson:"email" json:"email"`
	HashedPassword string             `bson:"hashed_password" json:"-"`
	DisplayName    string             `bson:"display_name" json:"display_name"`
	PhotoURL       string             `bson:"photo_url,omitempty" json:"photo_url,omitempty"`
	Role           string             `bson:"role" json:"role"`
	VerifyToken    string             `bson:"verify_token,omitempty" json:"-"`
	IsVerified     bool               `bson:"is_verified" json:"is_verified"`
	LastActive     time.Time          `bson:"last_active,omitempty" json:"last_active,omitempty"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updated_at"`
}

// PublicUser is the profile shape exposed to other users.
type PublicUser struct {
	ID          primitive.ObjectID `json:"id"`
	Username    string             `json:"username"`
	DisplayName string             `json:"display_name"`
	PhotoURL    string             `json:"photo_url,omitempty"`
}
