package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	UserID     string             `bson:"userId" json:"userId"`
	Username   string             `bson:"username" json:"username"`
	Password   string             `bson:"password" json:"-"`
	Email      string             `bson:"email,omitempty" json:"email,omitempty"`
	Name       string             `bson:"name" json:"name"`
	Phone      string             `bson:"phone" json:"phone"`
	UserType   string             `bson:"userType" json:"userType"` // farmer, doctor
	Location   string             `bson:"location" json:"location"`
	ProfilePic string             `bson:"profilePic,omitempty" json:"profilePic,omitempty"`
	LastLogin  int64              `bson:"lastLogin" json:"lastLogin"`
	CreatedAt  int64              `bson:"createdAt" json:"createdAt"`
	UpdatedAt  int64              `bson:"updatedAt" json:"updatedAt"`
}
