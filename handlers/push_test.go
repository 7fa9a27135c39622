package handlers

import (
	"net/http"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSubscriptionGone(t *testing.T) {
	assert.True(t, subscriptionGone(http.StatusGone))
	assert.True(t, subscriptionGone(http.StatusNotFound))
	assert.False(t, subscriptionGone(http.StatusCreated))
	assert.False(t, subscriptionGone(http.StatusOK))
	assert.False(t, subscriptionGone(http.StatusBadRequest))
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "short", truncateRunes("short", 100))
	assert.Equal(t, "abc...", truncateRunes("abcdef", 3))

	// Multi-byte content is cut on rune boundaries, never mid-sequence.
	long := strings.Repeat("种", 120)
	got := truncateRunes(long, 100)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("种", 100)+"...", got)
}
