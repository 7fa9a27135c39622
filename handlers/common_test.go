package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func pageQueryContext(rawQuery string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+rawQuery, nil)
	return c
}

func TestParsePageQueryDefaults(t *testing.T) {
	limit, before := parsePageQuery(pageQueryContext(""))
	assert.Equal(t, int64(defaultPageLimit), limit)
	assert.Equal(t, int64(0), before)
}

func TestParsePageQueryExplicit(t *testing.T) {
	limit, before := parsePageQuery(pageQueryContext("limit=20&before=1700000000000"))
	assert.Equal(t, int64(20), limit)
	assert.Equal(t, int64(1700000000000), before)
}

func TestParsePageQueryClampsLimit(t *testing.T) {
	limit, _ := parsePageQuery(pageQueryContext("limit=100000"))
	assert.Equal(t, int64(maxPageLimit), limit)
}

func TestParsePageQueryIgnoresGarbage(t *testing.T) {
	limit, before := parsePageQuery(pageQueryContext("limit=abc&before=-5"))
	assert.Equal(t, int64(defaultPageLimit), limit)
	assert.Equal(t, int64(0), before)

	limit, _ = parsePageQuery(pageQueryContext("limit=0"))
	assert.Equal(t, int64(defaultPageLimit), limit)
}
