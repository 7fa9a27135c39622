package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"farmcare/database"
	"farmcare/handlers"
	"farmcare/routes"
	"farmcare/storage"
	"farmcare/websocket"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	log.Println("🚀 Starting FarmCare Backend Server...")

	// .env is optional; real deployments set variables in the environment
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	if os.Getenv("MONGO_URI") == "" {
		log.Fatal("❌ MONGO_URI must be set")
	}
	if os.Getenv("JWT_SECRET") == "" {
		log.Println("⚠️  JWT_SECRET not set, using insecure development default")
	}

	// ===== CONNECT TO MONGODB WITH RETRY =====
	log.Println("🔌 Connecting to MongoDB...")

	var dbErr error
	for i := 1; i <= 3; i++ {
		if err := database.ConnectDB(); err != nil {
			dbErr = err
			log.Printf("❌ MongoDB connection attempt %d failed: %v", i, err)
			time.Sleep(2 * time.Second)
			continue
		}
		dbErr = nil
		break
	}
	if dbErr != nil {
		log.Fatal("❌ Failed to connect to MongoDB:", dbErr)
	}
	log.Println("✅ MongoDB connected successfully")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := database.Client.Ping(ctx, nil); err != nil {
		log.Fatal("❌ MongoDB ping failed:", err)
	}
	if err := database.EnsureIndexes(ctx); err != nil {
		log.Fatal("❌ Failed to create indexes:", err)
	}
	log.Println("✅ MongoDB indexes ensured")

	// ===== GIN MODE =====
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// ===== STORAGE =====
	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	uploadsDir := os.Getenv("UPLOADS_DIR")
	if uploadsDir == "" {
		uploadsDir = "./uploads"
	}

	local, err := storage.NewLocal(uploadsDir, baseURL)
	if err != nil {
		log.Fatal("❌ Failed to set up local storage:", err)
	}
	handlers.SetVoiceStorage(local)

	if os.Getenv("CLOUDINARY_URL") != "" {
		cld, err := storage.NewCloudinaryFromEnv("farmcare")
		if err != nil {
			log.Fatal("❌ Cloudinary configuration error:", err)
		}
		handlers.SetImageStorage(cld)
		log.Println("✅ Cloudinary image storage configured")
	} else {
		handlers.SetImageStorage(local)
		log.Println("⚠️  CLOUDINARY_URL not set, storing images on local disk")
	}

	// ===== ROUTER =====
	router := routes.SetupRouter()

	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "FarmCare Backend Running 🚀",
			"service": "healthy",
		})
	})
	router.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	// ===== WEBSOCKET =====
	hub := websocket.NewHub(websocket.NewMongoStore())
	handlers.SetHub(hub)

	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWS(hub)(c.Writer, c.Request)
	})
	log.Println("✅ WebSocket endpoint: /ws")

	// ===== SERVER CONFIG =====
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("🌐 Server running on port %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("❌ Server error:", err)
		}
	}()

	// ===== GRACEFUL SHUTDOWN =====
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Println("❌ Forced shutdown:", err)
	}

	hub.Close()

	if err := database.DisconnectDB(); err != nil {
		log.Println("❌ MongoDB disconnect error:", err)
	}

	log.Println("👋 Server stopped gracefully")
}
