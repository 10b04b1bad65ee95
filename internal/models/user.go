package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserDB represents a user document in the users collection
type UserDB struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`      // Document ID
	Name         string             `bson:"name" json:"name"`             // Display name
	Email        string             `bson:"email" json:"email"`           // Unique email
	PasswordHash string             `bson:"password_hash" json:"-"`       // Hashed password, never the plaintext
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"` // Creation timestamp, UTC
}
