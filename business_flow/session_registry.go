package businessflow

import (
	"context"
	"sync"
	"time"

	"github.com/amirphl/desa-ngasem/app/services"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// SessionRegistry hands out one SessionGuard per browser session.
// Guards live in a bounded LRU; an evicted or expired guard is rebuilt from
// durable storage on the next request, which is when expiry is re-evaluated.
type SessionRegistry struct {
	mu      sync.Mutex
	guards  *expirable.LRU[string, *SessionGuard]
	storage services.KeyValueStorage
	prefix  string
	creds   Credentials
	opts    []SessionGuardOption
}

// NewSessionRegistry creates a registry whose guards persist under prefix+<sid>+":"
func NewSessionRegistry(storage services.KeyValueStorage, creds Credentials, prefix string, size int, ttl time.Duration, opts ...SessionGuardOption) *SessionRegistry {
	return &SessionRegistry{
		guards:  expirable.NewLRU[string, *SessionGuard](size, nil, ttl),
		storage: storage,
		prefix:  prefix,
		creds:   creds,
		opts:    opts,
	}
}

// Guard returns the live guard for sessionID, initializing it on first use
func (r *SessionRegistry) Guard(ctx context.Context, sessionID string) *SessionGuard {
	if g, ok := r.guards.Get(sessionID); ok {
		return g
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if g, ok := r.guards.Get(sessionID); ok {
		return g
	}

	storage := services.NewNamespacedStorage(r.storage, r.prefix+sessionID+":")
	g := NewSessionGuard(ctx, storage, r.creds, r.opts...)
	r.guards.Add(sessionID, g)
	return g
}

// Forget drops the in-memory guard; the persisted record is left alone
func (r *SessionRegistry) Forget(sessionID string) {
	r.guards.Remove(sessionID)
}

// Len returns the number of live guards
func (r *SessionRegistry) Len() int {
	return r.guards.Len()
}
