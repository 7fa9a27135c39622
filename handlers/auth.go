package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"farmcare/database"
	"farmcare/middleware"
	"farmcare/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

type SignupRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
	Email    string `json:"email"`
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
	UserType string `json:"userType" binding:"required,oneof=farmer doctor"`
	Location string `json:"location"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	var existing models.User
	err := database.Users.FindOne(ctx, bson.M{"username": req.Username}).Decode(&existing)
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Username already in use"})
		return
	}
	if err != mongo.ErrNoDocuments {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database error"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to hash password"})
		return
	}

	now := time.Now().UnixMilli()
	user := models.User{
		UserID:    uuid.NewString(),
		Username:  req.Username,
		Password:  string(hashed),
		Email:     req.Email,
		Name:      req.Name,
		Phone:     req.Phone,
		UserType:  req.UserType,
		Location:  req.Location,
		LastLogin: now,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := database.Users.InsertOne(ctx, user); err != nil {
		log.Printf("Signup insert error: %v", err)
		if mongo.IsDuplicateKeyError(err) {
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Username or email already in use"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create user"})
		return
	}

	token, err := middleware.GenerateToken(user.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"token":   token,
		"user": gin.H{
			"userId":   user.UserID,
			"username": user.Username,
			"email":    user.Email,
			"name":     user.Name,
			"userType": user.UserType,
		},
	})
}

func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	var user models.User
	err := database.Users.FindOne(ctx, bson.M{"username": req.Username}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database error"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid credentials"})
		return
	}

	token, err := middleware.GenerateToken(user.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to generate token"})
		return
	}

	_, err = database.Users.UpdateOne(ctx,
		bson.M{"userId": user.UserID},
		bson.M{"$set": bson.M{"lastLogin": time.Now().UnixMilli()}},
	)
	if err != nil {
		log.Printf("Login lastLogin update error: %v", err)
		// Not critical, the login itself succeeded
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   token,
		"user": gin.H{
			"userId":     user.UserID,
			"username":   user.Username,
			"name":       user.Name,
			"userType":   user.UserType,
			"profilePic": user.ProfilePic,
		},
	})
}
