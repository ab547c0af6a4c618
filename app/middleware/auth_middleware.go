// Package middleware contains HTTP middleware functions for request processing
package middleware

import (
	"context"

	"github.com/amirphl/desa-ngasem/app/dto"
	"github.com/amirphl/desa-ngasem/app/services"
	businessflow "github.com/amirphl/desa-ngasem/business_flow"
	"github.com/amirphl/desa-ngasem/utils"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Locals keys set by SessionMiddleware
const (
	LocalSessionID    = "session_id"
	LocalSessionGuard = "session_guard"
)

// SessionCookieOptions controls the session handle cookie
type SessionCookieOptions struct {
	Name     string
	Domain   string
	Secure   bool
	HTTPOnly bool
	SameSite string
	MaxAge   int
}

// SessionMiddleware attaches the caller's Session Guard to every admin request
type SessionMiddleware struct {
	tokens   services.SessionTokenService
	registry *businessflow.SessionRegistry
	cookie   SessionCookieOptions
	logger   *zap.Logger
}

// NewSessionMiddleware creates a new session middleware
func NewSessionMiddleware(tokens services.SessionTokenService, registry *businessflow.SessionRegistry, cookie SessionCookieOptions, logger *zap.Logger) *SessionMiddleware {
	if cookie.Name == "" {
		cookie.Name = utils.SessionCookieName
	}
	if cookie.MaxAge == 0 {
		cookie.MaxAge = utils.SessionCookieMaxAge
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionMiddleware{
		tokens:   tokens,
		registry: registry,
		cookie:   cookie,
		logger:   logger,
	}
}

// Attach resolves the session named by the cookie. A missing or forged handle
// gets a fresh session, which starts logged out.
func (m *SessionMiddleware) Attach() fiber.Handler {
	return func(c fiber.Ctx) error {
		sessionID := ""
		if raw := c.Cookies(m.cookie.Name); raw != "" {
			claims, err := m.tokens.Parse(raw)
			if err == nil {
				sessionID = claims.SessionID
			} else {
				m.logger.Debug("Discarding invalid session handle", zap.String("ip", c.IP()), zap.Error(err))
			}
		}

		if sessionID == "" {
			sessionID = uuid.NewString()
			token, err := m.tokens.Issue(sessionID)
			if err != nil {
				m.logger.Error("Failed to issue session handle", zap.Error(err))
				return c.Status(fiber.StatusInternalServerError).JSON(dto.APIResponse{
					Success: false,
					Message: "Failed to start session",
					Error: dto.ErrorDetail{
						Code: "SESSION_START_FAILED",
					},
				})
			}
			m.setCookie(c, token)
		}

		ctx, cancel := context.WithTimeout(context.Background(), utils.SessionInitTimeout)
		defer cancel()
		guard := m.registry.Guard(ctx, sessionID)

		c.Locals(LocalSessionID, sessionID)
		c.Locals(LocalSessionGuard, guard)
		return c.Next()
	}
}

// RequireAdmin rejects requests whose session is not logged in
func (m *SessionMiddleware) RequireAdmin() fiber.Handler {
	return func(c fiber.Ctx) error {
		guard, ok := SessionGuardFrom(c)
		if !ok || !guard.CheckAuth() {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
				Success: false,
				Message: "Admin login required",
				Error: dto.ErrorDetail{
					Code: "NOT_AUTHENTICATED",
				},
			})
		}
		return c.Next()
	}
}

func (m *SessionMiddleware) setCookie(c fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     m.cookie.Name,
		Value:    token,
		Path:     "/",
		Domain:   m.cookie.Domain,
		MaxAge:   m.cookie.MaxAge,
		Secure:   m.cookie.Secure,
		HTTPOnly: m.cookie.HTTPOnly,
		SameSite: m.cookie.SameSite,
	})
}

// SessionGuardFrom returns the guard attached by Attach
func SessionGuardFrom(c fiber.Ctx) (*businessflow.SessionGuard, bool) {
	guard, ok := c.Locals(LocalSessionGuard).(*businessflow.SessionGuard)
	return guard, ok && guard != nil
}

// SessionIDFrom returns the session id attached by Attach
func SessionIDFrom(c fiber.Ctx) string {
	sessionID, _ := c.Locals(LocalSessionID).(string)
	return sessionID
}
