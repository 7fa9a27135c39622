package handlers

import (
	"strconv"
	"time"

	"farmcare/storage"
	"farmcare/websocket"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const dbTimeout = 10 * time.Second

// Shared collaborators, wired once from main.
var wsHub *websocket.Hub
var voiceStorage storage.Storage
var imageStorage storage.Storage

func SetHub(hub *websocket.Hub) {
	wsHub = hub
}

func SetVoiceStorage(s storage.Storage) {
	voiceStorage = s
}

func SetImageStorage(s storage.Storage) {
	imageStorage = s
}

const (
	defaultPageLimit = 50
	maxPageLimit     = 200
)

// parsePageQuery reads the optional limit and before query parameters used
// by the history endpoints. before is an exclusive unix-millis cursor; zero
// means no cursor.
func parsePageQuery(c *gin.Context) (limit int64, before int64) {
	limit = defaultPageLimit
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if raw := c.Query("before"); raw != "" {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil && n > 0 {
			before = n
		}
	}
	return limit, before
}

// optionsFindDescLimit sorts newest first with a bounded page; callers
// reverse the page in memory to present ascending order.
func optionsFindDescLimit(limit int64) *options.FindOptions {
	return options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(limit)
}
