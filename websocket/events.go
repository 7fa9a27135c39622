package websocket

import "encoding/json"

// Server-to-client event types.
const (
	EventReceiveMessage        = "receive_message"
	EventReceiveChannelMessage = "receive_channel_message"
	EventPrivateMessage        = "private_message"
	EventSharedContent         = "shared_content"
)

// Client-to-server event types.
const (
	eventJoinChat           = "join_chat"
	eventJoinChannel        = "join_channel"
	eventSendMessage        = "send_message"
	eventSendChannelMessage = "send_channel_message"
	eventPing               = "ping"
)

type event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type joinChatPayload struct {
	UserID   string `json:"userId"`
	DoctorID string `json:"doctorId"`
}

type joinChannelPayload struct {
	ChannelID string `json:"channelId"`
}

type sendMessagePayload struct {
	ReceiverID string `json:"receiverId"`
	Content    string `json:"content"`
}

type sendChannelMessagePayload struct {
	ChannelID string `json:"channelId"`
	Content   string `json:"content"`
}
