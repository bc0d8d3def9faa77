package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Contact belongs to exactly one owner. The timestamps are pointers: listing
// queries project them away and the nil values then drop out of the JSON,
// while by-id reads return the full document.
type Contact struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Owner     primitive.ObjectID `bson:"owner" json:"owner"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Phone     string             `bson:"phone" json:"phone"`
	Favorite  bool               `bson:"favorite" json:"favorite"`
	CreatedAt *time.Time         `bson:"created_at,omitempty" json:"createdAt,omitempty"`
	UpdatedAt *time.Time         `bson:"updated_at,omitempty" json:"updatedAt,omitempty"`
}
