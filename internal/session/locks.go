package session

import (
	"context"
	"sync"
)

// lockEntry holds the mutex and the reference count for one user.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Locks serializes event handling per user. Entries are reference counted so
// the map does not grow with every user the bot has ever seen.
type Locks struct {
	mu    sync.Mutex
	users map[int64]*lockEntry
}

// NewLocks creates an empty lock manager.
func NewLocks() *Locks {
	return &Locks{users: make(map[int64]*lockEntry)}
}

func (l *Locks) acquire(userID int64) *lockEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.users[userID]
	if !ok {
		entry = &lockEntry{}
		l.users[userID] = entry
	}
	entry.refs++
	return entry
}

func (l *Locks) release(userID int64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.users[userID]
	if !ok {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(l.users, userID)
	}
}

// WithLock runs fn while holding the user's lock. Events for different users
// proceed in parallel; events for the same user never interleave.
func (l *Locks) WithLock(ctx context.Context, userID int64, fn func(ctx context.Context) error) error {
	entry := l.acquire(userID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		l.release(userID)
	}()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx)
}
