package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"

	"farmcare/database"
	"farmcare/models"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var vapidPrivateKey string

func init() {
	// Initialize VAPID keys if not set in environment
	if os.Getenv("VAPID_PUBLIC_KEY") == "" || os.Getenv("VAPID_PRIVATE_KEY") == "" {
		publicKey, privateKey, err := webpush.GenerateVAPIDKeys()
		if err != nil {
			log.Printf("Failed to generate VAPID keys: %v", err)
			return
		}

		// In production these should come from the environment
		os.Setenv("VAPID_PUBLIC_KEY", publicKey)
		os.Setenv("VAPID_PRIVATE_KEY", privateKey)

		log.Println("Generated new VAPID keys - for production, set these as environment variables:")
		log.Printf("   VAPID_PUBLIC_KEY: %s", publicKey)
		log.Printf("   VAPID_PRIVATE_KEY: %s", privateKey)
	}

	vapidPrivateKey = os.Getenv("VAPID_PRIVATE_KEY")
}

func GetVapidPublicKey(c *gin.Context) {
	publicKey := os.Getenv("VAPID_PUBLIC_KEY")
	if publicKey == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "VAPID public key not configured"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"publicKey": publicKey}})
}

func SubscribePush(c *gin.Context) {
	var req struct {
		Endpoint string `json:"endpoint" binding:"required"`
		Keys     struct {
			P256dh string `json:"p256dh" binding:"required"`
			Auth   string `json:"auth" binding:"required"`
		} `json:"keys" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	userID := c.GetString("userId")

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	pushSub := models.PushSubscription{
		ID:     primitive.NewObjectID(),
		UserID: userID,
		Sub: webpush.Subscription{
			Endpoint: req.Endpoint,
			Keys: webpush.Keys{
				P256dh: req.Keys.P256dh,
				Auth:   req.Keys.Auth,
			},
		},
	}

	// Upsert: a user keeps at most one subscription
	_, err := database.PushSubs.UpdateOne(
		ctx,
		bson.M{"userId": userID},
		bson.M{"$set": pushSub},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		log.Printf("Failed to save subscription: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to save subscription"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Push subscription saved successfully"})
}

// SendPushNotification delivers a web push to the given user in the
// background. Expired subscriptions (410) are deleted.
func SendPushNotification(userID, title, body string) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("Panic in push notification: %v", r)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var sub models.PushSubscription
		err := database.PushSubs.FindOne(ctx, bson.M{"userId": userID}).Decode(&sub)
		if err == mongo.ErrNoDocuments {
			return
		}
		if err != nil {
			log.Printf("Failed to find subscription for user %s: %v", userID, err)
			return
		}

		payload := map[string]interface{}{
			"title": title,
			"body":  body,
			"data": map[string]interface{}{
				"url":       "/chats",
				"timestamp": time.Now().UnixMilli(),
			},
		}

		payloadBytes, err := json.Marshal(payload)
		if err != nil {
			log.Printf("Failed to marshal push payload: %v", err)
			return
		}

		resp, err := webpush.SendNotification(payloadBytes, &sub.Sub, &webpush.Options{
			Subscriber:      "mailto:admin@farmcare.app",
			VAPIDPrivateKey: vapidPrivateKey,
			TTL:             30,
		})
		if err != nil {
			log.Printf("Failed to send push notification to user %s: %v", userID, err)
			return
		}
		defer resp.Body.Close()

		// The push service answers 410/404 with a normal response, not a
		// transport error, when the subscription is dead.
		if subscriptionGone(resp.StatusCode) {
			log.Printf("Push subscription expired for user %s, deleting", userID)
			if _, delErr := database.PushSubs.DeleteOne(ctx, bson.M{"userId": userID}); delErr != nil {
				log.Printf("Failed to delete expired subscription: %v", delErr)
			}
		}
	}()
}

func subscriptionGone(status int) bool {
	return status == http.StatusGone || status == http.StatusNotFound
}

// notifyNewMessage pushes a "new message" notification to the receiver,
// using the sender's display name as the title.
func notifyNewMessage(senderID, receiverID, content string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	senderName := "Someone"
	var sender models.User
	if err := database.Users.FindOne(ctx, bson.M{"userId": senderID}).Decode(&sender); err == nil {
		if sender.Name != "" {
			senderName = sender.Name
		} else if sender.Username != "" {
			senderName = sender.Username
		}
	}

	SendPushNotification(receiverID, senderName+" sent a message", truncateRunes(content, 100))
}

// truncateRunes shortens s to at most max runes, never splitting a
// multi-byte character.
func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
