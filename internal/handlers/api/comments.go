package api

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"modportal/internal/interaction"
	"modportal/internal/middleware"
	"modportal/internal/models"
	"modportal/internal/notify"
	"modportal/internal/session"
	"modportal/internal/validation"
)

// Commenter is the slice of the interaction controller the comment endpoints use.
type Commenter interface {
	AddComment(ctx context.Context, creds session.Credentials, sink notify.Sink, t *interaction.CommentThread, body string) (*models.Comment, error)
	DeleteComment(ctx context.Context, creds session.Credentials, sink notify.Sink, t *interaction.CommentThread, id int) error
}

// CommentSource lists an article's comments.
type CommentSource interface {
	ListComments(ctx context.Context, token, slug string) ([]models.Comment, error)
}

// CommentHandler handles article comments via JSON API.
type CommentHandler struct {
	controller Commenter
	source     CommentSource
}

// NewCommentHandler creates a new API comment handler.
func NewCommentHandler(controller Commenter, source CommentSource) *CommentHandler {
	return &CommentHandler{controller: controller, source: source}
}

// List returns an article's comments, newest first as the remote API orders them.
func (h *CommentHandler) List(c fiber.Ctx) error {
	if !validation.ValidateSlug(c.Params("slug")) {
		return jsonError(c, fiber.StatusBadRequest, "invalid article slug")
	}
	comments, err := h.source.ListComments(c.Context(), viewerToken(c), c.Params("slug"))
	if err != nil {
		return writeError(c, err)
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	return jsonSuccess(c, comments)
}

type addCommentRequest struct {
	Body string `json:"body"`
}

// Create posts a comment and returns it as the server stored it.
func (h *CommentHandler) Create(c fiber.Ctx) error {
	if !validation.ValidateSlug(c.Params("slug")) {
		return jsonError(c, fiber.StatusBadRequest, "invalid article slug")
	}
	var req addCommentRequest
	if err := c.Bind().Body(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	notices := notify.NewCollector()
	thread := interaction.NewCommentThread(c.Params("slug"), nil)

	comment, err := h.controller.AddComment(c.Context(), middleware.Credentials(c), notices, thread, req.Body)
	if err != nil {
		return jsonErrorWithNotices(c, err, nil, notices)
	}
	c.Status(fiber.StatusCreated)
	return jsonSuccessWithNotices(c, comment, notices)
}

// Delete removes a comment.
func (h *CommentHandler) Delete(c fiber.Ctx) error {
	if !validation.ValidateSlug(c.Params("slug")) {
		return jsonError(c, fiber.StatusBadRequest, "invalid article slug")
	}
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id <= 0 {
		return jsonError(c, fiber.StatusBadRequest, "invalid comment id")
	}

	notices := notify.NewCollector()
	thread := interaction.NewCommentThread(c.Params("slug"), nil)

	if err := h.controller.DeleteComment(c.Context(), middleware.Credentials(c), notices, thread, id); err != nil {
		return jsonErrorWithNotices(c, err, nil, notices)
	}
	return jsonSuccessWithNotices(c, fiber.Map{"id": id}, notices)
}
