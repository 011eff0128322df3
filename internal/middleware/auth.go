package middleware

import (
	"context"

	"github.com/gofiber/fiber/v3"
	fsession "github.com/gofiber/fiber/v3/middleware/session"
	"go.uber.org/zap"

	"modportal/internal/models"
	"modportal/internal/session"
)

// Session keys shared with the auth handler.
const (
	SessionUserSub  = "user_sub"
	SessionAPIToken = "api_token"
	SessionRedirect = "redirect_after_login"
)

// UserStore looks up users by OIDC subject.
type UserStore interface {
	GetUserBySub(ctx context.Context, sub string) (*models.User, error)
}

// AuthMiddleware handles user authentication via sessions.
type AuthMiddleware struct {
	users UserStore
	log   *zap.Logger
}

// NewAuthMiddleware creates a new auth middleware instance.
func NewAuthMiddleware(users UserStore, log *zap.Logger) *AuthMiddleware {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthMiddleware{users: users, log: log}
}

// loadUser resolves the session's user, destroying sessions whose user is
// gone.
func (m *AuthMiddleware) loadUser(c fiber.Ctx) *models.User {
	sess := fsession.FromContext(c)
	if sess == nil {
		return nil
	}

	sub, ok := sess.Get(SessionUserSub).(string)
	if !ok || sub == "" {
		return nil
	}

	user, err := m.users.GetUserBySub(c.Context(), sub)
	if err != nil {
		m.log.Debug("session user not found", zap.String("sub", sub), zap.Error(err))
		if err := sess.Destroy(); err != nil {
			m.log.Warn("failed to destroy session", zap.Error(err))
		}
		return nil
	}

	c.Locals("user", user)
	return user
}

// RequireAuth ensures the user is authenticated, redirecting to /login if not.
func (m *AuthMiddleware) RequireAuth(c fiber.Ctx) error {
	if m.loadUser(c) == nil {
		if sess := fsession.FromContext(c); sess != nil {
			sess.Set(SessionRedirect, c.OriginalURL())
		}
		return c.Redirect().To("/login")
	}
	return c.Next()
}

// RequireAPIAuth is RequireAuth for JSON routes: it answers 401 instead of
// redirecting.
func (m *AuthMiddleware) RequireAPIAuth(c fiber.Ctx) error {
	if m.loadUser(c) == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"status": "error",
			"error":  "unauthorized",
		})
	}
	return c.Next()
}

// OptionalAuth loads the user if authenticated, but doesn't require authentication.
func (m *AuthMiddleware) OptionalAuth(c fiber.Ctx) error {
	m.loadUser(c)
	return c.Next()
}

// CurrentUser returns the user loaded by the auth middleware, or nil.
func CurrentUser(c fiber.Ctx) *models.User {
	user, _ := c.Locals("user").(*models.User)
	return user
}

// Credentials returns the caller's remote API credential held in the
// session. Requests without one get session.Anonymous.
func Credentials(c fiber.Ctx) session.Credentials {
	sess := fsession.FromContext(c)
	if sess == nil {
		return session.Anonymous
	}
	token, _ := sess.Get(SessionAPIToken).(string)
	return session.Static(token)
}
