package api

import (
	"context"

	"github.com/gofiber/fiber/v3"

	"modportal/internal/interaction"
	"modportal/internal/middleware"
	"modportal/internal/models"
	"modportal/internal/notify"
	"modportal/internal/session"
	"modportal/internal/validation"
)

// Toggler is the slice of the interaction controller the toggle endpoints use.
type Toggler interface {
	ToggleFavorite(ctx context.Context, creds session.Credentials, sink notify.Sink, f *interaction.FavoriteToggle) (interaction.FavoriteResult, error)
	ToggleFollow(ctx context.Context, creds session.Credentials, sink notify.Sink, f *interaction.FollowToggle) (interaction.FollowResult, error)
}

// InteractionHandler handles favorite and follow toggles via JSON API.
type InteractionHandler struct {
	controller Toggler
}

// NewInteractionHandler creates a new API interaction handler.
func NewInteractionHandler(controller Toggler) *InteractionHandler {
	return &InteractionHandler{controller: controller}
}

// ToggleFavorite flips the caller's favorite on an article. The request body
// carries the state the client currently displays.
func (h *InteractionHandler) ToggleFavorite(c fiber.Ctx) error {
	if !validation.ValidateSlug(c.Params("slug")) {
		return jsonError(c, fiber.StatusBadRequest, "invalid article slug")
	}

	var displayed models.FavoriteState
	if err := c.Bind().Body(&displayed); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	notices := notify.NewCollector()
	toggle := interaction.NewFavoriteToggle(viewerScope(c), c.Params("slug"), displayed)

	result, err := h.controller.ToggleFavorite(c.Context(), middleware.Credentials(c), notices, toggle)
	if err != nil {
		return jsonErrorWithNotices(c, err, result, notices)
	}
	return jsonSuccessWithNotices(c, result, notices)
}

// ToggleFollow flips the caller's follow on an author.
func (h *InteractionHandler) ToggleFollow(c fiber.Ctx) error {
	if !validation.ValidateUsername(c.Params("username")) {
		return jsonError(c, fiber.StatusBadRequest, "invalid username")
	}

	var displayed models.FollowState
	if err := c.Bind().Body(&displayed); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	notices := notify.NewCollector()
	toggle := interaction.NewFollowToggle(viewerScope(c), c.Params("username"), displayed)

	result, err := h.controller.ToggleFollow(c.Context(), middleware.Credentials(c), notices, toggle)
	if err != nil {
		return jsonErrorWithNotices(c, err, result, notices)
	}
	return jsonSuccessWithNotices(c, result, notices)
}

// viewerScope keys sequence numbers per viewer so that one user's rapid
// clicks supersede each other without affecting anyone else.
func viewerScope(c fiber.Ctx) string {
	if user := middleware.CurrentUser(c); user != nil {
		return user.Sub
	}
	return "anonymous:" + c.IP()
}
