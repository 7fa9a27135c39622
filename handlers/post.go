package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"farmcare/database"
	"farmcare/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CreatePostRequest struct {
	Title    string   `json:"title" binding:"required"`
	Content  string   `json:"content" binding:"required"`
	Images   []string `json:"images"`
	PostType string   `json:"postType"`
}

func CreatePost(c *gin.Context) {
	var req CreatePostRequest
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

	if req.PostType == "" {
		req.PostType = "farmUpdate"
	}
	if req.Images == nil {
		req.Images = []string{}
	}

	now := time.Now().UnixMilli()
	post := models.Post{
		ID:         primitive.NewObjectID(),
		PostID:     uuid.NewString(),
		UserID:     userID,
		AuthorName: author.Name,
		Title:      req.Title,
		Content:    req.Content,
		Images:     req.Images,
		PostType:   req.PostType,
		LikeUsers:  []string{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if _, err := database.Posts.InsertOne(ctx, post); err != nil {
		log.Printf("CreatePost insert error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error creating post"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "post": post})
}

func GetPost(c *gin.Context) {
	postID := c.Param("postId")

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	var post models.Post
	err := database.Posts.FindOne(ctx, bson.M{"postId": postID}).Decode(&post)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Post not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "post": post})
}

func GetAllPosts(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := database.Posts.Find(ctx, bson.M{}, opts)
	if err != nil {
		log.Printf("GetAllPosts find error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error fetching posts"})
		return
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err := cursor.All(ctx, &posts); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error decoding posts"})
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "posts": posts})
}

func GetPostsByUser(c *gin.Context) {
	userID := c.Param("userId")

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := database.Posts.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error fetching posts"})
		return
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err := cursor.All(ctx, &posts); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error decoding posts"})
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "posts": posts})
}

type UpdatePostRequest struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Images   []string `json:"images"`
	PostType string   `json:"postType"`
}

// UpdatePost edits a post's content fields. Only the author may update.
func UpdatePost(c *gin.Context) {
	var req UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	postID := c.Param("postId")
	userID := c.GetString("userId")

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	set := bson.M{}
	if req.Title != "" {
		set["title"] = req.Title
	}
	if req.Content != "" {
		set["content"] = req.Content
	}
	if req.Images != nil {
		set["images"] = req.Images
	}
	if req.PostType != "" {
		set["postType"] = req.PostType
	}
	if len(set) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "No fields to update"})
		return
	}
	set["updatedAt"] = time.Now().UnixMilli()

	var updated models.Post
	err := database.Posts.FindOneAndUpdate(ctx,
		bson.M{"postId": postID, "userId": userID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		// Distinguish a missing post from someone else's post
		count, cErr := database.Posts.CountDocuments(ctx, bson.M{"postId": postID})
		if cErr == nil && count > 0 {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Not authorized to update this post"})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Post not found"})
		return
	}
	if err != nil {
		log.Printf("UpdatePost error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error updating post"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "post": updated})
}

// FilterPosts returns the posts matching a comma-separated list of post ids,
// newest first.
func FilterPosts(c *gin.Context) {
	ids := c.Query("ids")
	if ids == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Post IDs are required"})
		return
	}
	postIDs := strings.Split(ids, ",")

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := database.Posts.Find(ctx, bson.M{"postId": bson.M{"$in": postIDs}}, opts)
	if err != nil {
		log.Printf("FilterPosts find error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error filtering posts"})
		return
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err := cursor.All(ctx, &posts); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error decoding posts"})
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "posts": posts})
}

// LikePost records a like. The push-if-absent and counter bump happen in one
// atomic update, so a double-tap cannot double-count; a like that is already
// present is a conflict.
func LikePost(c *gin.Context) {
	postID := c.Param("postId")
	userID := c.GetString("userId")

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	result, err := database.Posts.UpdateOne(ctx,
		bson.M{"postId": postID, "likeUsers": bson.M{"$ne": userID}},
		bson.M{
			"$addToSet": bson.M{"likeUsers": userID},
			"$inc":      bson.M{"likeCount": 1},
			"$set":      bson.M{"updatedAt": time.Now().UnixMilli()},
		},
	)
	if err != nil {
		log.Printf("LikePost error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error liking post"})
		return
	}
	if result.MatchedCount == 0 {
		// Either the post is missing or the caller already liked it
		count, err := database.Posts.CountDocuments(ctx, bson.M{"postId": postID})
		if err == nil && count > 0 {
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Post already liked"})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Post not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Post liked"})
}

func UnlikePost(c *gin.Context) {
	postID := c.Param("postId")
	userID := c.GetString("userId")

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	result, err := database.Posts.UpdateOne(ctx,
		bson.M{"postId": postID, "likeUsers": userID},
		bson.M{
			"$pull": bson.M{"likeUsers": userID},
			"$inc":  bson.M{"likeCount": -1},
			"$set":  bson.M{"updatedAt": time.Now().UnixMilli()},
		},
	)
	if err != nil {
		log.Printf("UnlikePost error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error unliking post"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Post not found or not liked"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Post unliked"})
}
