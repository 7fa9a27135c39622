package routes

import (
	"os"
	"strings"
	"time"

	"farmcare/handlers"
	"farmcare/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	router := gin.Default()

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "FarmCare API is running",
			"time":    time.Now().UnixMilli(),
			"ws":      "WebSocket available at /ws",
		})
	})

	// CORS configuration with WebSocket support
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:8080", "http://127.0.0.1:8080", "http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Public routes (no auth required)
	router.POST("/api/v1/auth/signup", handlers.Signup)
	router.POST("/api/v1/auth/login", handlers.Login)
	router.GET("/api/v1/vapid-public-key", handlers.GetVapidPublicKey)

	// Shared-content lookups are public: the token itself is the credential
	router.GET("/api/v1/share/:type/:shareToken", handlers.GetSharedContent)
	router.GET("/api/v1/channel/share/:shareToken", handlers.GetSharedChannel)

	// Locally stored uploads (voice messages, photos when Cloudinary is not configured)
	uploadsDir := os.Getenv("UPLOADS_DIR")
	if uploadsDir == "" {
		uploadsDir = "./uploads"
	}
	router.Static("/uploads", uploadsDir)

	// Protected routes group
	protected := router.Group("/api/v1")
	protected.Use(middleware.RateLimitMiddleware())
	protected.Use(middleware.JWTAuthMiddleware())

	// Profile
	protected.GET("/me", handlers.GetMyProfile)
	protected.PUT("/me", handlers.UpdateMyProfile)
	protected.GET("/user/:id", handlers.GetUser)
	protected.GET("/doctors", handlers.GetDoctors)

	// Messages
	protected.POST("/message/send", handlers.SendMessage)
	protected.POST("/message/voice", handlers.SendVoiceMessage)
	protected.GET("/message/history/:otherUserId", handlers.GetChatHistory)
	protected.GET("/message/doctor/chats", handlers.GetDoctorChats)

	// Channels
	protected.POST("/channel", handlers.CreateChannel)
	protected.GET("/channels", handlers.GetAllChannels)
	protected.POST("/channel/:channelId/join", handlers.JoinChannel)
	protected.POST("/channel/:channelId/leave", handlers.LeaveChannel)
	protected.GET("/channel/:channelId/messages", handlers.GetChannelMessages)
	protected.POST("/channel/share/:channelId", handlers.GenerateChannelShareLink)
	protected.POST("/channel/join-via-link", handlers.JoinChannelViaLink)

	// Sharing
	protected.POST("/share/doctor", handlers.ShareWithDoctor)
	protected.POST("/share/channel", handlers.ShareWithChannel)

	// Posts
	protected.POST("/posts", handlers.CreatePost)
	protected.GET("/posts", handlers.GetAllPosts)
	protected.GET("/posts/filter", handlers.FilterPosts)
	protected.GET("/posts/:postId", handlers.GetPost)
	protected.PUT("/posts/:postId", handlers.UpdatePost)
	protected.GET("/posts/user/:userId", handlers.GetPostsByUser)
	protected.POST("/posts/:postId/like", handlers.LikePost)
	protected.POST("/posts/:postId/unlike", handlers.UnlikePost)

	// Comments
	protected.POST("/posts/:postId/comments", handlers.AddComment)
	protected.GET("/posts/:postId/comments", handlers.GetComments)
	protected.POST("/comments/:commentId/like", handlers.LikeComment)

	// Pets
	protected.GET("/pets", handlers.GetPets)
	protected.POST("/pets", handlers.CreatePet)
	protected.GET("/pets/upcoming-vaccinations", handlers.GetUpcomingVaccinations)
	protected.GET("/pets/:petId", handlers.GetPet)
	protected.PUT("/pets/:petId", handlers.UpdatePet)
	protected.DELETE("/pets/:petId", handlers.DeletePet)
	protected.POST("/pets/:petId/vaccinations", handlers.AddVaccination)
	protected.PUT("/pets/:petId/vaccinations/:vaccinationId", handlers.UpdateVaccination)
	protected.DELETE("/pets/:petId/vaccinations/:vaccinationId", handlers.DeleteVaccination)

	// Disease map
	protected.GET("/disease-points", handlers.GetAllDiseasePoints)
	protected.POST("/disease-points", handlers.CreateDiseasePoint)
	protected.GET("/disease-points/:id", handlers.GetDiseasePointById)
	protected.PUT("/disease-points/:id", handlers.UpdateDiseasePoint)
	protected.DELETE("/disease-points/:id", handlers.DeleteDiseasePoint)

	// Photo upload
	protected.POST("/upload-photo", handlers.UploadPhoto)

	// Push subscriptions
	protected.POST("/subscribe", handlers.SubscribePush)

	// Catch-all for undefined API routes
	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(404, gin.H{
				"success": false,
				"message": "Endpoint not found",
				"path":    c.Request.URL.Path,
			})
			return
		}
		c.Next()
	})

	return router
}
