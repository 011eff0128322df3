package api

import (
	"context"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"

	"modportal/internal/middleware"
	"modportal/internal/models"
	"modportal/internal/moderation"
	"modportal/internal/notify"
	"modportal/internal/session"
)

// Moderator is the slice of the moderation service the API uses.
type Moderator interface {
	Queue(ctx context.Context, actor *models.User, creds session.Credentials) ([]models.ModerationRequest, error)
	Review(ctx context.Context, actor *models.User, creds session.Credentials, id int, to, note string) (*models.ModerationRequest, error)
	Delete(ctx context.Context, actor *models.User, creds session.Credentials, id int) error
}

// ReviewHistory lists the locally recorded decisions on a request.
type ReviewHistory interface {
	ListReviewsByRequest(ctx context.Context, requestID int) ([]models.Review, error)
}

// ModerationHandler handles moderation queue operations via JSON API.
type ModerationHandler struct {
	service         Moderator
	history         ReviewHistory
	defaultPageSize int
	noticeTimeout   time.Duration
}

// NewModerationHandler creates a new API moderation handler. history may be
// nil, in which case request histories are always empty.
func NewModerationHandler(service Moderator, history ReviewHistory, defaultPageSize int, noticeTimeout time.Duration) *ModerationHandler {
	return &ModerationHandler{
		service:         service,
		history:         history,
		defaultPageSize: defaultPageSize,
		noticeTimeout:   noticeTimeout,
	}
}

// queueItem is a moderation request plus the decisions a reviewer may take.
type queueItem struct {
	models.ModerationRequest
	AllowedTransitions []string `json:"allowed_transitions"`
}

// List returns one page of the actionable queue.
// Query params: q, type, page. The page size is fixed by configuration.
func (h *ModerationHandler) List(c fiber.Ctx) error {
	reqs, err := h.service.Queue(c.Context(), middleware.CurrentUser(c), middleware.Credentials(c))
	if err != nil {
		return writeError(c, err)
	}

	page := moderation.View(reqs, moderation.Query{
		Search:     c.Query("q"),
		EntityType: c.Query("type"),
		Page:       queryInt(c, "page", 1),
	}, h.defaultPageSize)

	items := make([]queueItem, len(page.Items))
	for i := range page.Items {
		items[i] = queueItem{
			ModerationRequest:  page.Items[i],
			AllowedTransitions: moderation.AllowedTransitions(&page.Items[i]),
		}
	}

	return jsonSuccess(c, fiber.Map{
		"items":       items,
		"page":        page.Page,
		"page_size":   page.PageSize,
		"total":       page.Total,
		"total_pages": page.TotalPages,
	})
}

type reviewRequest struct {
	Status string `json:"status"`
	Note   string `json:"note"`
}

// Review applies a reviewer decision.
func (h *ModerationHandler) Review(c fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id <= 0 {
		return jsonError(c, fiber.StatusBadRequest, "invalid request id")
	}

	var req reviewRequest
	if err := c.Bind().Body(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	notices := notify.NewCollector()
	updated, err := h.service.Review(c.Context(), middleware.CurrentUser(c), middleware.Credentials(c), id, req.Status, req.Note)
	if err != nil {
		_, msg := statusFor(err)
		notices.Notify(notify.Error(msg, h.noticeTimeout))
		return jsonErrorWithNotices(c, err, nil, notices)
	}

	notices.Notify(notify.Success("Moderation status updated.", h.noticeTimeout))
	return jsonSuccessWithNotices(c, updated, notices)
}

// Delete removes a moderation request. Only administrators may do this.
func (h *ModerationHandler) Delete(c fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id <= 0 {
		return jsonError(c, fiber.StatusBadRequest, "invalid request id")
	}

	notices := notify.NewCollector()
	if err := h.service.Delete(c.Context(), middleware.CurrentUser(c), middleware.Credentials(c), id); err != nil {
		_, msg := statusFor(err)
		notices.Notify(notify.Error(msg, h.noticeTimeout))
		return jsonErrorWithNotices(c, err, nil, notices)
	}

	notices.Notify(notify.Success("Moderation request deleted.", h.noticeTimeout))
	return jsonSuccessWithNotices(c, fiber.Map{"id": id}, notices)
}

// History returns the decisions recorded for a request, newest first.
func (h *ModerationHandler) History(c fiber.Ctx) error {
	if !middleware.CurrentUser(c).CanReview() {
		return writeError(c, moderation.ErrForbidden)
	}

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id <= 0 {
		return jsonError(c, fiber.StatusBadRequest, "invalid request id")
	}

	reviews := []models.Review{}
	if h.history != nil {
		reviews, err = h.history.ListReviewsByRequest(c.Context(), id)
		if err != nil {
			return jsonError(c, fiber.StatusInternalServerError, "failed to load review history")
		}
	}
	return jsonSuccess(c, reviews)
}
