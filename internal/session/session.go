// Package session holds server-side login sessions behind a pluggable
// store. The cookie carries only the opaque session id.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"cadastro/internal/domain/auth"
)

var ErrNotFound = errors.New("session not found")

type Session struct {
	ID        string    `json:"id"`
	User      auth.User `json:"user"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func New(user auth.User, ttl time.Duration) *Session {
	return &Session{
		ID:        uuid.NewString(),
		User:      user,
		ExpiresAt: time.Now().Add(ttl),
	}
}

// Refresh implements the sliding expiry: every authenticated request pushes
// the deadline out again.
func (s *Session) Refresh(ttl time.Duration) {
	s.ExpiresAt = time.Now().Add(ttl)
}

func (s *Session) Expired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Store is the pluggable backing store. Get must return ErrNotFound for
// unknown or expired sessions.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Put(ctx context.Context, sess *Session) error
	Delete(ctx context.Context, id string) error
}
