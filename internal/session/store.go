// Package session owns the per-user conversation records and their
// serialization guarantees: a Store keeps at most one live session per user,
// and a Locks manager ensures no two events for the same user are processed
// interleaved.
package session

import (
	"context"

	"avatarbot/internal/domain"
)

// Store maps a user identifier to their single live session. Implementations
// must treat a missing record as domain.ErrSessionNotFound, never as an
// empty session.
type Store interface {
	Get(ctx context.Context, userID int64) (*domain.Session, error)
	Put(ctx context.Context, s *domain.Session) error
	Delete(ctx context.Context, userID int64) error
}
