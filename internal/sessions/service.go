package sessions

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"
)

// Service opens, resumes and closes the refresh sessions behind the login
// flow. Every session lives for the ttl given at construction.
type Service struct {
	repo Repository
	ttl  time.Duration
	now  func() time.Time
}

func NewService(r Repository, ttl time.Duration) *Service {
	return &Service{repo: r, ttl: ttl, now: func() time.Time { return time.Now().UTC() }}
}

func newRefreshToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// Open starts a session for ownerID and returns its refresh token.
func (s *Service) Open(ctx context.Context, ownerID string) (string, error) {
	if ownerID == "" {
		return "", errors.New("sessions: empty owner id")
	}
	token, err := newRefreshToken()
	if err != nil {
		return "", err
	}
	now := s.now()
	sess := &Session{
		RefreshToken: token,
		OwnerID:      ownerID,
		CreatedAt:    now,
		ExpiresAt:    now.Add(s.ttl),
	}
	if err := s.repo.Save(ctx, sess); err != nil {
		return "", err
	}
	return token, nil
}

// Resume returns the live session behind refresh, or ErrUnknownSession.
// An expired session found in the repository is deleted.
func (s *Service) Resume(ctx context.Context, refresh string) (*Session, error) {
	sess, err := s.repo.Find(ctx, refresh)
	if err != nil {
		return nil, err
	}
	if sess.Expired(s.now()) {
		_ = s.repo.Delete(ctx, refresh)
		return nil, ErrUnknownSession
	}
	return sess, nil
}

// Close ends the session. Closing an unknown token is not an error.
func (s *Service) Close(ctx context.Context, refresh string) error {
	return s.repo.Delete(ctx, refresh)
}
