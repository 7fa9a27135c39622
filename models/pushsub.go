package models

import (
	"github.com/SherClockHolmes/webpush-go"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PushSubscription stores a user's web push endpoint. One per user.
type PushSubscription struct {
	ID     primitive.ObjectID   `bson:"_id,omitempty" json:"-"`
	UserID string               `bson:"userId" json:"userId"`
	Sub    webpush.Subscription `bson:"subscription" json:"subscription"`
}
