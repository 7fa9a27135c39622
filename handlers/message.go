package handlers

import (
	"context"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"farmcare/database"
	"farmcare/models"
	"farmcare/websocket"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type SendMessageRequest struct {
	ReceiverID string `json:"receiverId" binding:"required"`
	Content    string `json:"content" binding:"required"`
	ClientID   string `json:"clientId"`
}

// userExists resolves an opaque user id against the users collection.
func userExists(ctx context.Context, userID string) (bool, error) {
	count, err := database.Users.CountDocuments(ctx, bson.M{"userId": userID})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	senderID := c.GetString("userId")

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	for _, id := range []string{senderID, req.ReceiverID} {
		ok, err := userExists(ctx, id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database error"})
			return
		}
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
			return
		}
	}

	message := models.Message{
		ID:          primitive.NewObjectID(),
		Scope:       models.ScopeDirect,
		SenderID:    senderID,
		ReceiverID:  req.ReceiverID,
		Content:     req.Content,
		MessageType: models.TypeText,
		ClientID:    req.ClientID,
		Timestamp:   time.Now().UnixMilli(),
		Read:        false,
	}

	if _, err := database.Messages.InsertOne(ctx, message); err != nil {
		log.Printf("SendMessage insert error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error sending message"})
		return
	}

	// Live delivery is best effort and never blocks: EmitToRoom only queues
	// into per-client buffers. Emitting inline keeps a sender's sequential
	// sends in commit order.
	if wsHub != nil {
		wsHub.EmitToRoom(websocket.DirectRoom(senderID, req.ReceiverID), websocket.EventReceiveMessage, message)
	}
	go notifyNewMessage(senderID, req.ReceiverID, req.Content)

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": message})
}

func SendVoiceMessage(c *gin.Context) {
	senderID := c.GetString("userId")
	receiverID := c.PostForm("receiverId")
	if receiverID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "receiverId is required"})
		return
	}

	file, header, err := c.Request.FormFile("audio")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "No audio file provided"})
		return
	}
	defer file.Close()

	var audioDuration float64
	if raw := c.PostForm("audioDuration"); raw != "" {
		if d, err := strconv.ParseFloat(raw, 64); err == nil && d >= 0 {
			audioDuration = d
		}
	}
	clientID := c.PostForm("clientId")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	ok, err := userExists(ctx, receiverID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database error"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
		return
	}

	// clientId is an idempotency token: a retry of an upload that already
	// landed returns the stored message instead of inserting a duplicate
	if clientID != "" {
		var existing models.Message
		err := database.Messages.FindOne(ctx, bson.M{
			"clientId": clientID,
			"senderId": senderID,
			"scope":    models.ScopeDirect,
		}).Decode(&existing)
		if err == nil {
			c.JSON(http.StatusOK, gin.H{"success": true, "data": existing})
			return
		}
		if err != mongo.ErrNoDocuments {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database error"})
			return
		}
	}

	name := "voice-" + uuid.NewString() + filepath.Ext(header.Filename)
	voiceURL, err := voiceStorage.Save(ctx, name, file)
	if err != nil {
		log.Printf("SendVoiceMessage storage error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to store audio"})
		return
	}

	message := models.Message{
		ID:            primitive.NewObjectID(),
		Scope:         models.ScopeDirect,
		SenderID:      senderID,
		ReceiverID:    receiverID,
		Content:       "Voice message",
		MessageType:   models.TypeVoice,
		VoiceURL:      voiceURL,
		AudioDuration: audioDuration,
		ClientID:      clientID,
		Timestamp:     time.Now().UnixMilli(),
		Read:          false,
	}

	if _, err := database.Messages.InsertOne(ctx, message); err != nil {
		log.Printf("SendVoiceMessage insert error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error sending voice message"})
		return
	}

	if wsHub != nil {
		wsHub.EmitToRoom(websocket.DirectRoom(senderID, receiverID), websocket.EventPrivateMessage, message)
	}
	go notifyNewMessage(senderID, receiverID, "Voice message")

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": message})
}

// GetChatHistory returns the direct messages between the caller and the
// other user, oldest first. Fetching implies reading: every returned message
// addressed to the caller is flipped to read as part of serving the call.
func GetChatHistory(c *gin.Context) {
	userID := c.GetString("userId")
	otherUserID := c.Param("otherUserId")
	limit, before := parsePageQuery(c)

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	filter := bson.M{
		"scope": models.ScopeDirect,
		"$or": bson.A{
			bson.M{"senderId": userID, "receiverId": otherUserID},
			bson.M{"senderId": otherUserID, "receiverId": userID},
		},
	}
	if before > 0 {
		filter["timestamp"] = bson.M{"$lt": before}
	}

	// Newest page first, then reversed so the caller sees ascending order
	opts := optionsFindDescLimit(limit)
	cursor, err := database.Messages.Find(ctx, filter, opts)
	if err != nil {
		log.Printf("GetChatHistory find error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error fetching chat history"})
		return
	}
	defer cursor.Close(ctx)

	var messages []models.Message
	if err := cursor.All(ctx, &messages); err != nil {
		log.Printf("GetChatHistory decode error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error decoding chat history"})
		return
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	var unreadIDs []primitive.ObjectID
	for i := range messages {
		if messages[i].ReceiverID == userID && !messages[i].Read {
			unreadIDs = append(unreadIDs, messages[i].ID)
			messages[i].Read = true
		}
	}

	if len(unreadIDs) > 0 {
		_, err = database.Messages.UpdateMany(ctx,
			bson.M{"_id": bson.M{"$in": unreadIDs}, "read": false},
			bson.M{"$set": bson.M{"read": true}},
		)
		if err != nil {
			log.Printf("GetChatHistory mark-read error: %v", err)
			// History was already fetched; the flip retries on the next fetch
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": messages})
}

// GetDoctorChats groups the caller's direct messages by peer and reports the
// last message plus the unread count per peer, most recent conversation
// first.
func GetDoctorChats(c *gin.Context) {
	doctorID := c.GetString("userId")

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{
			{Key: "scope", Value: models.ScopeDirect},
			{Key: "$or", Value: bson.A{
				bson.D{{Key: "senderId", Value: doctorID}},
				bson.D{{Key: "receiverId", Value: doctorID}},
			}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{{Key: "$cond", Value: bson.A{
				bson.D{{Key: "$eq", Value: bson.A{"$senderId", doctorID}}},
				"$receiverId",
				"$senderId",
			}}}},
			{Key: "lastMessage", Value: bson.D{{Key: "$first", Value: "$$ROOT"}}},
			{Key: "unreadCount", Value: bson.D{{Key: "$sum", Value: bson.D{{Key: "$cond", Value: bson.A{
				bson.D{{Key: "$and", Value: bson.A{
					bson.D{{Key: "$eq", Value: bson.A{"$receiverId", doctorID}}},
					bson.D{{Key: "$eq", Value: bson.A{"$read", false}}},
				}}},
				1,
				0,
			}}}}}},
		}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: "users"},
			{Key: "localField", Value: "_id"},
			{Key: "foreignField", Value: "userId"},
			{Key: "as", Value: "user"},
		}}},
		{{Key: "$unwind", Value: "$user"}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "user", Value: bson.D{
				{Key: "id", Value: "$user.userId"},
				{Key: "name", Value: "$user.name"},
				{Key: "profilePic", Value: bson.D{{Key: "$ifNull", Value: bson.A{"$user.profilePic", ""}}}},
			}},
			{Key: "lastMessage", Value: 1},
			{Key: "unreadCount", Value: 1},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "lastMessage.timestamp", Value: -1}}}},
	}

	cursor, err := database.Messages.Aggregate(ctx, pipeline)
	if err != nil {
		log.Printf("GetDoctorChats aggregate error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error fetching doctor chats"})
		return
	}
	defer cursor.Close(ctx)

	var chats []bson.M
	if err := cursor.All(ctx, &chats); err != nil {
		log.Printf("GetDoctorChats decode error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error decoding doctor chats"})
		return
	}

	if chats == nil {
		chats = []bson.M{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": chats})
}
