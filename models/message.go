package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Message scopes. Direct and channel messages share one collection and are
// told apart by Scope: direct messages carry ReceiverID, channel messages
// carry ChannelID.
const (
	ScopeDirect  = "direct"
	ScopeChannel = "channel"
)

// Message types (direct scope only).
const (
	TypeText  = "text"
	TypeVoice = "voice"
	TypeImage = "image"
)

type Message struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Scope         string             `bson:"scope" json:"scope"`
	SenderID      string             `bson:"senderId" json:"senderId"`
	ReceiverID    string             `bson:"receiverId,omitempty" json:"receiverId,omitempty"`
	ChannelID     primitive.ObjectID `bson:"channelId,omitempty" json:"channelId,omitempty"`
	Content       string             `bson:"content" json:"content"`
	MessageType   string             `bson:"messageType,omitempty" json:"messageType,omitempty"`
	VoiceURL      string             `bson:"voiceUrl,omitempty" json:"voiceUrl,omitempty"`
	AudioDuration float64            `bson:"audioDuration,omitempty" json:"audioDuration"`
	ClientID      string             `bson:"clientId,omitempty" json:"clientId,omitempty"`
	Timestamp     int64              `bson:"timestamp" json:"timestamp"` // unix millis
	Read          bool               `bson:"read" json:"read"`

	ShareToken       string `bson:"shareToken,omitempty" json:"-"`
	ShareTokenExpiry int64  `bson:"shareTokenExpiry,omitempty" json:"-"`
}
