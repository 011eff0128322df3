package server

import (
	"net/http"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"

	"modportal/internal/handlers"
	"modportal/internal/handlers/api"
	"modportal/internal/middleware"
)

// Handlers groups everything RegisterRoutes mounts.
type Handlers struct {
	Auth       *middleware.AuthMiddleware
	Login      *handlers.AuthHandler
	Moderation *handlers.ModerationHandler

	Interactions  *api.InteractionHandler
	Comments      *api.CommentHandler
	ModerationAPI *api.ModerationHandler
	Files         *api.FilesHandler
	Uploads       *api.UploadHandler
	Health        *api.HealthHandler

	Metrics http.Handler // nil disables /metrics
}

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(h Handlers) {
	auth := h.Auth

	s.App.Get("/healthz", h.Health.Check)
	if h.Metrics != nil {
		s.App.Get("/metrics", adaptor.HTTPHandler(h.Metrics))
	}

	// Auth routes
	s.App.Get("/login", h.Login.LoginPage)
	s.App.Get("/auth/login", h.Login.Login)
	s.App.Get("/auth/callback", h.Login.Callback)
	s.App.Get("/auth/logout", h.Login.Logout)

	// Moderation dashboard (moderators and admins; the handler checks the role)
	s.App.Get("/", func(c fiber.Ctx) error { return c.Redirect().To("/moderation") })
	s.App.Get("/moderation", auth.RequireAuth, h.Moderation.Index)
	s.App.Post("/moderation/:id/review", auth.RequireAuth, h.Moderation.Review)
	s.App.Post("/moderation/:id/delete", auth.RequireAuth, h.Moderation.Delete)

	apiGroup := s.App.Group("/api")

	// Interactions only need the session's API token, so anonymous callers
	// reach the handlers and get an auth notice instead of a bare 401.
	apiGroup.Post("/articles/:slug/favorite/toggle", auth.OptionalAuth, h.Interactions.ToggleFavorite)
	apiGroup.Post("/profiles/:username/follow/toggle", auth.OptionalAuth, h.Interactions.ToggleFollow)
	apiGroup.Get("/articles/:slug/comments", auth.OptionalAuth, h.Comments.List)
	apiGroup.Post("/articles/:slug/comments", auth.OptionalAuth, h.Comments.Create)
	apiGroup.Delete("/articles/:slug/comments/:id", auth.OptionalAuth, h.Comments.Delete)

	// Public file lists
	apiGroup.Get("/mods/:slug/downloads", auth.OptionalAuth, h.Files.Downloads)
	apiGroup.Get("/mods/:slug/translations", auth.OptionalAuth, h.Files.Translations)

	// Moderation queue
	apiGroup.Get("/moderation", auth.RequireAPIAuth, h.ModerationAPI.List)
	apiGroup.Get("/moderation/:id/history", auth.RequireAPIAuth, h.ModerationAPI.History)
	apiGroup.Post("/moderation/:id/review", auth.RequireAPIAuth, h.ModerationAPI.Review)
	apiGroup.Delete("/moderation/:id", auth.RequireAPIAuth, h.ModerationAPI.Delete)

	// Uploads
	apiGroup.Post("/uploads", auth.RequireAPIAuth, h.Uploads.Create)
	apiGroup.Get("/uploads", auth.RequireAPIAuth, h.Uploads.List)
	apiGroup.Get("/uploads/:id", auth.RequireAPIAuth, h.Uploads.Get)
}
