package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewShareToken(t *testing.T) {
	token, expiry := NewShareToken()
	assert.NotEmpty(t, token)

	wantExpiry := time.Now().Add(ShareTokenTTL).UnixMilli()
	assert.InDelta(t, wantExpiry, expiry, float64(time.Second.Milliseconds()))

	token2, _ := NewShareToken()
	assert.NotEqual(t, token, token2)
}

func TestShareTokenValid(t *testing.T) {
	future := time.Now().Add(time.Hour).UnixMilli()
	past := time.Now().Add(-time.Hour).UnixMilli()

	assert.True(t, ShareTokenValid("tok", "tok", future))
	assert.False(t, ShareTokenValid("tok", "other", future), "wrong token")
	assert.False(t, ShareTokenValid("tok", "tok", past), "expired token")
	assert.False(t, ShareTokenValid("", "", future), "unset token never matches")
	assert.False(t, ShareTokenValid("", "tok", future))
}

func TestChannelIsShareTokenValid(t *testing.T) {
	ch := &Channel{}
	assert.False(t, ch.IsShareTokenValid("anything"), "channel without a link")

	ch.ShareToken, ch.ShareTokenExpiry = NewShareToken()
	assert.True(t, ch.IsShareTokenValid(ch.ShareToken))

	ch.ShareTokenExpiry = time.Now().Add(-time.Minute).UnixMilli()
	assert.False(t, ch.IsShareTokenValid(ch.ShareToken), "expired link")
}

func TestChannelHasMember(t *testing.T) {
	ch := &Channel{Members: []string{"alice", "bob"}}
	assert.True(t, ch.HasMember("alice"))
	assert.False(t, ch.HasMember("carol"))
	assert.False(t, (&Channel{}).HasMember("alice"))
}
