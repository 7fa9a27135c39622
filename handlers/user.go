package handlers

import (
	"context"
	"log"
	"net/http"
	"path/filepath"
	"time"

	"farmcare/database"
	"farmcare/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type UpdateProfileRequest struct {
	Name     string `json:"name" form:"name"`
	Email    string `json:"email" form:"email"`
	Phone    string `json:"phone" form:"phone"`
	Location string `json:"location" form:"location"`
}

// GetMyProfile returns the authenticated user's own record.
func GetMyProfile(c *gin.Context) {
	userID := c.GetString("userId")

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	var user models.User
	err := database.Users.FindOne(ctx, bson.M{"userId": userID}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
		return
	}
	if err != nil {
		log.Printf("GetMyProfile database error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": user})
}

// GetUser returns another user's public profile. The password hash is
// never serialized (json:"-" on the model).
func GetUser(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	var user models.User
	err := database.Users.FindOne(ctx, bson.M{"userId": c.Param("id")}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
		"userId":     user.UserID,
		"username":   user.Username,
		"name":       user.Name,
		"userType":   user.UserType,
		"location":   user.Location,
		"profilePic": user.ProfilePic,
	}})
}

// GetDoctors lists all doctor accounts, for farmers choosing who to consult.
func GetDoctors(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	cursor, err := database.Users.Find(ctx, bson.M{"userType": "doctor"})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error fetching doctors"})
		return
	}
	defer cursor.Close(ctx)

	var doctors []models.User
	if err := cursor.All(ctx, &doctors); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error decoding doctors"})
		return
	}

	out := make([]gin.H, 0, len(doctors))
	for _, d := range doctors {
		out = append(out, gin.H{
			"userId":     d.UserID,
			"username":   d.Username,
			"name":       d.Name,
			"location":   d.Location,
			"profilePic": d.ProfilePic,
		})
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": out})
}

func UpdateMyProfile(c *gin.Context) {
	userID := c.GetString("userId")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var data UpdateProfileRequest
	if c.ContentType() == "application/json" {
		if err := c.ShouldBindJSON(&data); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid JSON data"})
			return
		}
	} else {
		if err := c.Request.ParseMultipartForm(10 << 20); err != nil && err != http.ErrNotMultipart {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Failed to parse form data"})
			return
		}
		if err := c.ShouldBind(&data); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid form data"})
			return
		}
	}

	set := bson.M{}
	if data.Name != "" {
		set["name"] = data.Name
	}
	if data.Email != "" {
		set["email"] = data.Email
	}
	if data.Phone != "" {
		set["phone"] = data.Phone
	}
	if data.Location != "" {
		set["location"] = data.Location
	}

	if avatarFile, header, err := c.Request.FormFile("profilePic"); err == nil {
		defer avatarFile.Close()

		name := "avatar-" + userID + filepath.Ext(header.Filename)
		url, err := imageStorage.Save(ctx, name, avatarFile)
		if err != nil {
			log.Printf("UpdateMyProfile avatar upload error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to upload profile picture"})
			return
		}
		set["profilePic"] = url
	}

	if len(set) == 0 {
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "No changes to update"})
		return
	}
	set["updatedAt"] = time.Now().UnixMilli()

	result, err := database.Users.UpdateOne(ctx, bson.M{"userId": userID}, bson.M{"$set": set})
	if err != nil {
		// Email carries a unique index
		if mongo.IsDuplicateKeyError(err) {
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Email already in use"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update profile"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Profile updated successfully"})
}

// UploadPhoto stores a standalone image and returns its URL, for post
// attachments and disease report photos.
func UploadPhoto(c *gin.Context) {
	userID := c.GetString("userId")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := c.Request.ParseMultipartForm(10 << 20); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Failed to parse form data"})
		return
	}

	photoFile, header, err := c.Request.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "No photo file provided"})
		return
	}
	defer photoFile.Close()

	name := "photo-" + userID + "-" + uuid.NewString() + filepath.Ext(header.Filename)
	url, err := imageStorage.Save(ctx, name, photoFile)
	if err != nil {
		log.Printf("UploadPhoto error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to upload photo"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"url": url}})
}
