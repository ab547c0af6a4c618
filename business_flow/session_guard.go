package businessflow

import (
	"context"
	"sync"
	"time"

	"github.com/amirphl/desa-ngasem/app/services"
	"github.com/amirphl/desa-ngasem/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// SessionState is the admin login state of one session
type SessionState string

const (
	SessionLoggedOut SessionState = "logged_out"
	SessionLoggedIn  SessionState = "logged_in"
)

// Keys of the persisted session record
const (
	sessionAuthenticatedKey  = "authenticated"
	sessionLoginTimestampKey = "login_timestamp"
)

var loginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "desa_admin_login_attempts_total",
	Help: "Admin login attempts by result",
}, []string{"result"})

// Credentials is the single admin credential pair accepted by the guard
type Credentials struct {
	Username string
	Password string
}

// SessionGuardOption customizes a SessionGuard
type SessionGuardOption func(*SessionGuard)

// WithSessionClock replaces the time source
func WithSessionClock(now func() time.Time) SessionGuardOption {
	return func(g *SessionGuard) { g.now = now }
}

// WithSessionTTL overrides how long a persisted login stays valid
func WithSessionTTL(ttl time.Duration) SessionGuardOption {
	return func(g *SessionGuard) { g.ttl = ttl }
}

// WithSessionLogger attaches a logger
func WithSessionLogger(logger *zap.Logger) SessionGuardOption {
	return func(g *SessionGuard) { g.logger = logger }
}

// SessionGuard decides whether its session may use the admin dashboard.
// The in-memory flag mirrors a record in durable storage; expiry is only
// evaluated when the guard is constructed.
type SessionGuard struct {
	mu            sync.RWMutex
	storage       services.KeyValueStorage
	creds         Credentials
	ttl           time.Duration
	now           func() time.Time
	logger        *zap.Logger
	authenticated bool
	loginAt       time.Time
}

// NewSessionGuard creates a guard and initializes it from the persisted record
func NewSessionGuard(ctx context.Context, storage services.KeyValueStorage, creds Credentials, opts ...SessionGuardOption) *SessionGuard {
	g := &SessionGuard{
		storage: storage,
		creds:   creds,
		ttl:     utils.SessionTimeout,
		now:     utils.UTCNow,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.initialize(ctx)
	return g
}

// initialize restores a persisted login younger than ttl and clears anything else
func (g *SessionGuard) initialize(ctx context.Context) {
	flag, hasFlag, err := g.storage.Get(ctx, sessionAuthenticatedKey)
	if err != nil {
		g.logger.Warn("failed to read persisted session", zap.Error(err))
		return
	}
	stamp, hasStamp, err := g.storage.Get(ctx, sessionLoginTimestampKey)
	if err != nil {
		g.logger.Warn("failed to read persisted session", zap.Error(err))
		return
	}

	if hasFlag && hasStamp && flag == "true" {
		loginAt, parseErr := time.Parse(time.RFC3339Nano, stamp)
		if parseErr == nil && g.now().Sub(loginAt) < g.ttl {
			g.authenticated = true
			g.loginAt = loginAt
			return
		}
	}

	if hasFlag || hasStamp {
		g.logger.Info("clearing expired or malformed session record")
		g.clear(ctx)
	}
}

// Login accepts exactly the configured credential pair. It never returns an error:
// a mismatch is a plain false and leaves the guard untouched.
func (g *SessionGuard) Login(ctx context.Context, username, password string) bool {
	if username != g.creds.Username || password != g.creds.Password {
		loginAttempts.WithLabelValues("rejected").Inc()
		return false
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now().UTC()
	g.authenticated = true
	g.loginAt = now
	loginAttempts.WithLabelValues("accepted").Inc()

	if err := g.storage.Set(ctx, sessionAuthenticatedKey, "true"); err != nil {
		g.logger.Error("failed to persist session flag", zap.Error(err))
		return true
	}
	if err := g.storage.Set(ctx, sessionLoginTimestampKey, now.Format(time.RFC3339Nano)); err != nil {
		g.logger.Error("failed to persist session timestamp", zap.Error(err))
	}
	return true
}

// Logout ends the session and removes the persisted record. Safe to call repeatedly.
func (g *SessionGuard) Logout(ctx context.Context) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.authenticated = false
	g.loginAt = time.Time{}
	g.clear(ctx)
}

// CheckAuth returns the in-memory flag without re-reading storage or expiry
func (g *SessionGuard) CheckAuth() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.authenticated
}

// State returns the current login state
func (g *SessionGuard) State() SessionState {
	if g.CheckAuth() {
		return SessionLoggedIn
	}
	return SessionLoggedOut
}

// LoginTime returns when the current login happened, if logged in
func (g *SessionGuard) LoginTime() (time.Time, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.loginAt, g.authenticated
}

// ExpiresAt is when a re-initialization would stop honoring the current login
func (g *SessionGuard) ExpiresAt() (time.Time, bool) {
	loginAt, ok := g.LoginTime()
	if !ok {
		return time.Time{}, false
	}
	return loginAt.Add(g.ttl), true
}

func (g *SessionGuard) clear(ctx context.Context) {
	if err := g.storage.Remove(ctx, sessionAuthenticatedKey); err != nil {
		g.logger.Error("failed to remove session flag", zap.Error(err))
	}
	if err := g.storage.Remove(ctx, sessionLoginTimestampKey); err != nil {
		g.logger.Error("failed to remove session timestamp", zap.Error(err))
	}
}
