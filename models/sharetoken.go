package models

import (
	"time"

	"github.com/google/uuid"
)

// ShareTokenTTL is the lifetime of a share token, uniform across posts,
// channels and channel messages. Validation always checks both the token
// match and the expiry.
const ShareTokenTTL = 7 * 24 * time.Hour

// NewShareToken returns a fresh opaque token and its expiry in unix millis.
func NewShareToken() (token string, expiry int64) {
	return uuid.NewString(), time.Now().Add(ShareTokenTTL).UnixMilli()
}

// ShareTokenValid reports whether presented matches the stored token and the
// token has not expired. An expired token is treated as absent even while it
// is still stored on the document.
func ShareTokenValid(stored, presented string, expiry int64) bool {
	if stored == "" || stored != presented {
		return false
	}
	return expiry > time.Now().UnixMilli()
}

func (ch *Channel) IsShareTokenValid(token string) bool {
	return ShareTokenValid(ch.ShareToken, token, ch.ShareTokenExpiry)
}

func (p *Post) IsShareTokenValid(token string) bool {
	return ShareTokenValid(p.ShareToken, token, p.ShareTokenExpiry)
}

func (m *Message) IsShareTokenValid(token string) bool {
	return ShareTokenValid(m.ShareToken, token, m.ShareTokenExpiry)
}
