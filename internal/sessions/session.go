package sessions

import (
	"errors"
	"time"
)

// ErrUnknownSession is returned for refresh tokens that were never issued,
// were closed, or have run out.
var ErrUnknownSession = errors.New("unknown or expired session")

// Session is a refresh session opened at login for one owner.
type Session struct {
	ID           string    `bson:"_id,omitempty" json:"id"`
	RefreshToken string    `bson:"refreshToken" json:"refreshToken"`
	OwnerID      string    `bson:"ownerId" json:"ownerId"`
	ExpiresAt    time.Time `bson:"expiresAt" json:"expiresAt"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
}

// Remaining is the lifetime left at now; zero or negative once expired.
func (s *Session) Remaining(now time.Time) time.Duration {
	return s.ExpiresAt.Sub(now)
}

func (s *Session) Expired(now time.Time) bool {
	return s.Remaining(now) <= 0
}
