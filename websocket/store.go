package websocket

import (
	"context"
	"time"

	"farmcare/database"
	"farmcare/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store persists messages created over the socket. Persistence always
// completes before the hub emits anything; a persist failure means nothing
// is emitted.
type Store interface {
	SaveDirectMessage(ctx context.Context, senderID, receiverID, content string) (*models.Message, error)
	SaveChannelMessage(ctx context.Context, channelID, senderID, content string) (*models.Message, error)
}

// MongoStore writes to the shared messages collection.
type MongoStore struct{}

func NewMongoStore() *MongoStore {
	return &MongoStore{}
}

func (s *MongoStore) SaveDirectMessage(ctx context.Context, senderID, receiverID, content string) (*models.Message, error) {
	msg := &models.Message{
		ID:          primitive.NewObjectID(),
		Scope:       models.ScopeDirect,
		SenderID:    senderID,
		ReceiverID:  receiverID,
		Content:     content,
		MessageType: models.TypeText,
		Timestamp:   time.Now().UnixMilli(),
		Read:        false,
	}
	if _, err := database.Messages.InsertOne(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

func (s *MongoStore) SaveChannelMessage(ctx context.Context, channelID, senderID, content string) (*models.Message, error) {
	chID, err := primitive.ObjectIDFromHex(channelID)
	if err != nil {
		return nil, err
	}
	msg := &models.Message{
		ID:          primitive.NewObjectID(),
		Scope:       models.ScopeChannel,
		ChannelID:   chID,
		SenderID:    senderID,
		Content:     content,
		MessageType: models.TypeText,
		Timestamp:   time.Now().UnixMilli(),
	}
	if _, err := database.Messages.InsertOne(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}
