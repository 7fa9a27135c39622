package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Channel struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	CreatedBy   string             `bson:"createdBy" json:"createdBy"`
	Members     []string           `bson:"members" json:"members"`
	CreatedAt   int64              `bson:"createdAt" json:"createdAt"`

	ShareToken       string `bson:"shareToken,omitempty" json:"-"`
	ShareTokenExpiry int64  `bson:"shareTokenExpiry,omitempty" json:"-"`
}

func (ch *Channel) HasMember(userID string) bool {
	for _, m := range ch.Members {
		if m == userID {
			return true
		}
	}
	return false
}
