package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const DefaultSubscription = "starter"

// User represents a registered account. The verification token is present
// only while the account is unverified; the session token is present only
// between sign-in and logout.
type User struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email             string             `bson:"email" json:"email"`
	PasswordHash      string             `bson:"password_hash" json:"-"`
	Subscription      string             `bson:"subscription" json:"subscription"`
	AvatarURL         string             `bson:"avatar_url,omitempty" json:"avatarURL,omitempty"`
	Verified          bool               `bson:"verified" json:"verified"`
	VerificationToken string             `bson:"verification_token,omitempty" json:"-"`
	Token             string             `bson:"token,omitempty" json:"-"`
	CreatedAt         time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt         time.Time          `bson:"updated_at" json:"updated_at"`
}
