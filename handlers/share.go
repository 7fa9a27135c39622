package handlers

import (
	"context"
	"log"
	"net/http"

	"farmcare/database"
	"farmcare/models"
	"farmcare/websocket"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Shareable content types.
const (
	shareTypePost    = "post"
	shareTypeMessage = "message"
	shareTypeChannel = "channel"
)

type ShareRequest struct {
	Type      string `json:"type" binding:"required,oneof=post message channel"`
	ContentID string `json:"contentId" binding:"required"`
	DoctorID  string `json:"doctorId"`
	ChannelID string `json:"channelId"`
	Title     string `json:"title"`
	Content   string `json:"content"`
}

// stampShareToken writes a fresh token and expiry onto the entity identified
// by contentType/contentID. It returns mongo.ErrNoDocuments when the entity
// does not exist.
func stampShareToken(ctx context.Context, contentType, contentID string) (token string, expiry int64, err error) {
	token, expiry = models.NewShareToken()
	update := bson.M{"$set": bson.M{"shareToken": token, "shareTokenExpiry": expiry}}

	var result *mongo.UpdateResult
	switch contentType {
	case shareTypePost:
		result, err = database.Posts.UpdateOne(ctx, bson.M{"postId": contentID}, update)
	case shareTypeMessage:
		var id primitive.ObjectID
		id, err = primitive.ObjectIDFromHex(contentID)
		if err != nil {
			return "", 0, mongo.ErrNoDocuments
		}
		result, err = database.Messages.UpdateOne(ctx, bson.M{"_id": id, "scope": models.ScopeChannel}, update)
	case shareTypeChannel:
		var id primitive.ObjectID
		id, err = primitive.ObjectIDFromHex(contentID)
		if err != nil {
			return "", 0, mongo.ErrNoDocuments
		}
		result, err = database.Channels.UpdateOne(ctx, bson.M{"_id": id}, update)
	}
	if err != nil {
		return "", 0, err
	}
	if result.MatchedCount == 0 {
		return "", 0, mongo.ErrNoDocuments
	}
	return token, expiry, nil
}

func shareURL(contentType, token string) string {
	return baseURL() + "/api/v1/share/" + contentType + "/" + token
}

// ShareWithDoctor grants a doctor time-limited read access to one piece of
// content via an opaque token.
func ShareWithDoctor(c *gin.Context) {
	var req ShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	token, expiry, err := stampShareToken(ctx, req.Type, req.ContentID)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Content not found"})
		return
	}
	if err != nil {
		log.Printf("ShareWithDoctor error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error sharing content"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"shareUrl":  shareURL(req.Type, token),
		"expiresAt": expiry,
	})
}

// ShareWithChannel stamps the token and announces the share link to the live
// channel room. The emit is best effort and does not affect the response.
func ShareWithChannel(c *gin.Context) {
	var req ShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	if req.ChannelID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "channelId is required"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	token, expiry, err := stampShareToken(ctx, req.Type, req.ContentID)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Content not found"})
		return
	}
	if err != nil {
		log.Printf("ShareWithChannel error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error sharing content"})
		return
	}

	if wsHub != nil {
		go wsHub.EmitToRoom(websocket.ChannelRoom(req.ChannelID), websocket.EventSharedContent, gin.H{
			"type":     req.Type,
			"title":    req.Title,
			"content":  req.Content,
			"shareUrl": shareURL(req.Type, token),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"shareUrl":  shareURL(req.Type, token),
		"expiresAt": expiry,
	})
}

// GetSharedContent resolves a token without authentication. Expiry is
// enforced here at read time; no cleanup job removes stale tokens.
func GetSharedContent(c *gin.Context) {
	contentType := c.Param("type")
	token := c.Param("shareToken")

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	var content interface{}
	var valid bool
	var err error

	switch contentType {
	case shareTypePost:
		var post models.Post
		err = database.Posts.FindOne(ctx, bson.M{"shareToken": token}).Decode(&post)
		content, valid = post, err == nil && post.IsShareTokenValid(token)
	case shareTypeMessage:
		var msg models.Message
		err = database.Messages.FindOne(ctx, bson.M{"shareToken": token}).Decode(&msg)
		content, valid = msg, err == nil && msg.IsShareTokenValid(token)
	case shareTypeChannel:
		var channel models.Channel
		err = database.Channels.FindOne(ctx, bson.M{"shareToken": token}).Decode(&channel)
		content, valid = channel, err == nil && channel.IsShareTokenValid(token)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid content type"})
		return
	}

	if err != nil && err != mongo.ErrNoDocuments {
		log.Printf("GetSharedContent error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error retrieving shared content"})
		return
	}
	if !valid {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Invalid or expired share link"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"type":    contentType,
		"content": content,
	})
}
