package middleware

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	fsession "github.com/gofiber/fiber/v3/middleware/session"

	"modportal/internal/models"
)

type mapUsers map[string]*models.User

func (m mapUsers) GetUserBySub(_ context.Context, sub string) (*models.User, error) {
	if u, ok := m[sub]; ok {
		return u, nil
	}
	return nil, errors.New("user not found")
}

// newTestApp wires the session middleware plus a hook that seeds the
// session from request headers, so one request can carry a login.
func newTestApp(users mapUsers) (*fiber.App, *AuthMiddleware) {
	app := fiber.New()
	app.Use(fsession.New())
	app.Use(func(c fiber.Ctx) error {
		sess := fsession.FromContext(c)
		if sub := c.Get("X-Test-Sub"); sub != "" {
			sess.Set(SessionUserSub, sub)
		}
		if tok := c.Get("X-Test-Token"); tok != "" {
			sess.Set(SessionAPIToken, tok)
		}
		return c.Next()
	})
	return app, NewAuthMiddleware(users, nil)
}

func TestRequireAuth(t *testing.T) {
	users := mapUsers{"sub-1": {Sub: "sub-1", Username: "alice", Role: models.RoleModerator}}
	app, auth := newTestApp(users)
	app.Get("/private", auth.RequireAuth, func(c fiber.Ctx) error {
		return c.SendString(CurrentUser(c).Username)
	})

	tests := []struct {
		name       string
		sub        string
		wantStatus int
	}{
		{"no session user redirects", "", fiber.StatusSeeOther},
		{"unknown user redirects", "ghost", fiber.StatusSeeOther},
		{"known user passes", "sub-1", fiber.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/private", nil)
			if tt.sub != "" {
				req.Header.Set("X-Test-Sub", tt.sub)
			}
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test() error = %v", err)
			}
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if tt.wantStatus == fiber.StatusSeeOther && resp.Header.Get("Location") != "/login" {
				t.Errorf("Location = %q, want /login", resp.Header.Get("Location"))
			}
		})
	}
}

func TestRequireAPIAuth(t *testing.T) {
	app, auth := newTestApp(mapUsers{})
	app.Get("/api/thing", auth.RequireAPIAuth, func(c fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/thing", nil))
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestCredentials(t *testing.T) {
	app, auth := newTestApp(mapUsers{})
	app.Get("/creds", auth.OptionalAuth, func(c fiber.Ctx) error {
		token, ok := Credentials(c).Token(c.Context())
		if !ok {
			return c.SendString("anonymous")
		}
		return c.SendString(token)
	})

	tests := []struct {
		name  string
		token string
		want  string
	}{
		{"no token", "", "anonymous"},
		{"session token", "opaque-token", "opaque-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/creds", nil)
			if tt.token != "" {
				req.Header.Set("X-Test-Token", tt.token)
			}
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test() error = %v", err)
			}
			body, err := io.ReadAll(resp.Body)
			if err != nil {
				t.Fatalf("read body: %v", err)
			}
			if got := string(body); got != tt.want {
				t.Errorf("body = %q, want %q", got, tt.want)
			}
		})
	}
}
