package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"farmcare/database"
	"farmcare/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type AddCommentRequest struct {
	PostID   string `json:"postId" binding:"required"`
	Content  string `json:"content" binding:"required"`
	ParentID string `json:"parentId"`
}

func AddComment(c *gin.Context) {
	var req AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	userID := c.GetString("userId")

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	var author models.User
	if err := database.Users.FindOne(ctx, bson.M{"userId": userID}).Decode(&author); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
		return
	}

	count, err := database.Posts.CountDocuments(ctx, bson.M{"postId": req.PostID})
	if err != nil || count == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Post not found"})
		return
	}

	var parentID *primitive.ObjectID
	if req.ParentID != "" {
		id, err := primitive.ObjectIDFromHex(req.ParentID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid parent comment ID"})
			return
		}
		parentID = &id
	}

	now := time.Now().UnixMilli()
	comment := models.Comment{
		ID:         primitive.NewObjectID(),
		PostID:     req.PostID,
		UserID:     userID,
		AuthorName: author.Name,
		Content:    req.Content,
		ParentID:   parentID,
		Likes:      []string{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if _, err := database.Comments.InsertOne(ctx, comment); err != nil {
		log.Printf("AddComment insert error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error adding comment"})
		return
	}

	if parentID != nil {
		_, err = database.Comments.UpdateOne(ctx,
			bson.M{"_id": *parentID},
			bson.M{"$inc": bson.M{"replyCount": 1}},
		)
		if err != nil {
			log.Printf("AddComment replyCount error: %v", err)
		}
	}

	_, err = database.Posts.UpdateOne(ctx,
		bson.M{"postId": req.PostID},
		bson.M{"$inc": bson.M{"commentCount": 1}},
	)
	if err != nil {
		log.Printf("AddComment commentCount error: %v", err)
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": comment})
}

// GetComments returns a post's comments, top-level first with replies nested
// under their parent.
func GetComments(c *gin.Context) {
	postID := c.Param("postId")

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := database.Comments.Find(ctx, bson.M{"postId": postID}, opts)
	if err != nil {
		log.Printf("GetComments find error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error fetching comments"})
		return
	}
	defer cursor.Close(ctx)

	var comments []models.Comment
	if err := cursor.All(ctx, &comments); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error decoding comments"})
		return
	}

	replies := make(map[primitive.ObjectID][]models.Comment)
	var topLevel []map[string]interface{}
	for _, cm := range comments {
		if cm.ParentID != nil {
			replies[*cm.ParentID] = append(replies[*cm.ParentID], cm)
		}
	}
	for _, cm := range comments {
		if cm.ParentID != nil {
			continue
		}
		r := replies[cm.ID]
		if r == nil {
			r = []models.Comment{}
		}
		topLevel = append(topLevel, map[string]interface{}{
			"comment": cm,
			"replies": r,
		})
	}
	if topLevel == nil {
		topLevel = []map[string]interface{}{}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": topLevel})
}

// LikeComment toggles the caller's like on a comment.
func LikeComment(c *gin.Context) {
	commentID, err := primitive.ObjectIDFromHex(c.Param("commentId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid comment ID"})
		return
	}
	userID := c.GetString("userId")

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	// Try to like first; if the like was already there, unlike instead
	result, err := database.Comments.UpdateOne(ctx,
		bson.M{"_id": commentID, "likes": bson.M{"$ne": userID}},
		bson.M{"$addToSet": bson.M{"likes": userID}, "$inc": bson.M{"likeCount": 1}},
	)
	if err != nil {
		log.Printf("LikeComment error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error liking comment"})
		return
	}
	if result.MatchedCount > 0 {
		c.JSON(http.StatusOK, gin.H{"success": true, "liked": true})
		return
	}

	result, err = database.Comments.UpdateOne(ctx,
		bson.M{"_id": commentID, "likes": userID},
		bson.M{"$pull": bson.M{"likes": userID}, "$inc": bson.M{"likeCount": -1}},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error unliking comment"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Comment not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "liked": false})
}
