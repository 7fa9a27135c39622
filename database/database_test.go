package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMongoURIFromEnv(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://db.internal:27017/farm")
	assert.Equal(t, "mongodb://db.internal:27017/farm", MongoURI())
}

func TestMongoURIDefault(t *testing.T) {
	t.Setenv("MONGO_URI", "")
	assert.Equal(t, "mongodb://127.0.0.1:27017", MongoURI())
}
