package handlers

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"farmcare/database"
	"farmcare/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CreateChannelRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
}

func baseURL() string {
	if u := os.Getenv("BASE_URL"); u != "" {
		return u
	}
	return "http://localhost:8080"
}

func CreateChannel(c *gin.Context) {
	var req CreateChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	createdBy := c.GetString("userId")

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	channel := models.Channel{
		ID:          primitive.NewObjectID(),
		Name:        req.Name,
		Description: req.Description,
		CreatedBy:   createdBy,
		Members:     []string{createdBy},
		CreatedAt:   time.Now().UnixMilli(),
	}

	if _, err := database.Channels.InsertOne(ctx, channel); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Channel name already taken"})
			return
		}
		log.Printf("CreateChannel insert error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create channel"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": channel})
}

// GetAllChannels lists every channel, split by whether the caller belongs to
// it.
func GetAllChannels(c *gin.Context) {
	userID := c.GetString("userId")

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	cursor, err := database.Channels.Find(ctx, bson.M{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch channels"})
		return
	}
	defer cursor.Close(ctx)

	var channels []models.Channel
	if err := cursor.All(ctx, &channels); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to decode channels"})
		return
	}

	joined := []models.Channel{}
	notJoined := []models.Channel{}
	for _, ch := range channels {
		if ch.HasMember(userID) {
			joined = append(joined, ch)
		} else {
			notJoined = append(notJoined, ch)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"joined":    joined,
			"notJoined": notJoined,
		},
	})
}

// JoinChannel is idempotent: $addToSet makes joining twice a no-op even
// under concurrent requests.
func JoinChannel(c *gin.Context) {
	channelID, err := primitive.ObjectIDFromHex(c.Param("channelId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid channel ID"})
		return
	}
	userID := c.GetString("userId")

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	var channel models.Channel
	err = database.Channels.FindOneAndUpdate(ctx,
		bson.M{"_id": channelID},
		bson.M{"$addToSet": bson.M{"members": userID}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&channel)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Channel not found"})
		return
	}
	if err != nil {
		log.Printf("JoinChannel error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to join channel"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": channel})
}

// LeaveChannel is idempotent: leaving a channel the caller is not in is a
// no-op.
func LeaveChannel(c *gin.Context) {
	channelID, err := primitive.ObjectIDFromHex(c.Param("channelId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid channel ID"})
		return
	}
	userID := c.GetString("userId")

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	var channel models.Channel
	err = database.Channels.FindOneAndUpdate(ctx,
		bson.M{"_id": channelID},
		bson.M{"$pull": bson.M{"members": userID}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&channel)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Channel not found"})
		return
	}
	if err != nil {
		log.Printf("LeaveChannel error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to leave channel"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": channel})
}

// GetChannelMessages returns a channel's messages oldest first. Channel
// messages carry no per-user read state.
func GetChannelMessages(c *gin.Context) {
	channelID, err := primitive.ObjectIDFromHex(c.Param("channelId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid channel ID"})
		return
	}
	limit, before := parsePageQuery(c)

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	filter := bson.M{"scope": models.ScopeChannel, "channelId": channelID}
	if before > 0 {
		filter["timestamp"] = bson.M{"$lt": before}
	}

	cursor, err := database.Messages.Find(ctx, filter, optionsFindDescLimit(limit))
	if err != nil {
		log.Printf("GetChannelMessages find error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch channel messages"})
		return
	}
	defer cursor.Close(ctx)

	var messages []models.Message
	if err := cursor.All(ctx, &messages); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to decode channel messages"})
		return
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	if messages == nil {
		messages = []models.Message{}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": messages})
}

// GenerateChannelShareLink regenerates the channel's share token. Only
// members may share a channel; a fresh token overwrites any prior one.
func GenerateChannelShareLink(c *gin.Context) {
	channelID, err := primitive.ObjectIDFromHex(c.Param("channelId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid channel ID"})
		return
	}
	userID := c.GetString("userId")

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	var channel models.Channel
	err = database.Channels.FindOne(ctx, bson.M{"_id": channelID}).Decode(&channel)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Channel not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database error"})
		return
	}

	if !channel.HasMember(userID) {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Not authorized to share this channel"})
		return
	}

	token, expiry := models.NewShareToken()
	_, err = database.Channels.UpdateOne(ctx,
		bson.M{"_id": channelID},
		bson.M{"$set": bson.M{"shareToken": token, "shareTokenExpiry": expiry}},
	)
	if err != nil {
		log.Printf("GenerateChannelShareLink update error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to generate share link"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"shareUrl":  baseURL() + "/api/v1/channel/share/" + token,
		"expiresAt": expiry,
	})
}

// GetSharedChannel resolves a share token to a public channel preview. An
// expired token is treated as absent even while still stored.
func GetSharedChannel(c *gin.Context) {
	token := c.Param("shareToken")

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	var channel models.Channel
	err := database.Channels.FindOne(ctx, bson.M{"shareToken": token}).Decode(&channel)
	if err != nil || !channel.IsShareTokenValid(token) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Invalid or expired share link"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"channel": gin.H{
			"name":        channel.Name,
			"description": channel.Description,
			"memberCount": len(channel.Members),
			"createdAt":   channel.CreatedAt,
		},
	})
}

type JoinViaLinkRequest struct {
	ShareToken string `json:"shareToken" binding:"required"`
}

func JoinChannelViaLink(c *gin.Context) {
	var req JoinViaLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	userID := c.GetString("userId")

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	var channel models.Channel
	err := database.Channels.FindOne(ctx, bson.M{"shareToken": req.ShareToken}).Decode(&channel)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Invalid or expired share link"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database error"})
		return
	}

	if !channel.IsShareTokenValid(req.ShareToken) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Share link has expired"})
		return
	}

	if channel.HasMember(userID) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "You are already a member of this channel"})
		return
	}

	err = database.Channels.FindOneAndUpdate(ctx,
		bson.M{"_id": channel.ID},
		bson.M{"$addToSet": bson.M{"members": userID}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&channel)
	if err != nil {
		log.Printf("JoinChannelViaLink error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to join channel"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": channel})
}
