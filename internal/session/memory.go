package session

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"

	"avatarbot/internal/domain"
)

// MemoryStore keeps sessions in-process with a TTL so conversations abandoned
// mid-flow expire instead of leaking. This is the default backend.
type MemoryStore struct {
	cache *cache.Cache
}

// NewMemoryStore creates a store whose records expire after ttl.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &MemoryStore{cache: cache.New(ttl, 2*ttl)}
}

func memoryKey(userID int64) string {
	return strconv.FormatInt(userID, 10)
}

func (m *MemoryStore) Get(ctx context.Context, userID int64) (*domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	value, ok := m.cache.Get(memoryKey(userID))
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	stored, ok := value.(domain.Session)
	if !ok {
		return nil, errors.New("session: unexpected record type in cache")
	}
	// Return a copy so callers never mutate the cached record in place.
	return &stored, nil
}

func (m *MemoryStore) Put(ctx context.Context, s *domain.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil {
		return errors.New("session: nil session")
	}
	m.cache.SetDefault(memoryKey(s.UserID), *s)
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, userID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.cache.Delete(memoryKey(userID))
	return nil
}

var _ Store = (*MemoryStore)(nil)
