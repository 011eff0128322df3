package handlers

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"modportal/internal/config"
	"modportal/internal/middleware"
	"modportal/internal/models"
	"modportal/internal/moderation"
	"modportal/internal/notify"
	"modportal/internal/session"
)

// ModerationService is the slice of the moderation service the dashboard uses.
type ModerationService interface {
	Queue(ctx context.Context, actor *models.User, creds session.Credentials) ([]models.ModerationRequest, error)
	Review(ctx context.Context, actor *models.User, creds session.Credentials, id int, to, note string) (*models.ModerationRequest, error)
	Delete(ctx context.Context, actor *models.User, creds session.Credentials, id int) error
}

// ModerationHandler renders the moderation dashboard and handles its forms.
type ModerationHandler struct {
	service       ModerationService
	cfg           *config.Config
	pageSize      int
	noticeTimeout time.Duration
	log           *zap.Logger
}

// NewModerationHandler creates a new moderation handler.
func NewModerationHandler(service ModerationService, cfg *config.Config, yamlCfg *config.YAMLConfig, log *zap.Logger) *ModerationHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ModerationHandler{
		service:       service,
		cfg:           cfg,
		pageSize:      yamlCfg.Lists.ModerationPageSize,
		noticeTimeout: yamlCfg.Notifications.Moderation,
		log:           log,
	}
}

// dashboardRow is one request as displayed on the dashboard.
type dashboardRow struct {
	Request     models.ModerationRequest
	Title       string
	Transitions []string
	CanApprove  bool
	CanDelete   bool
}

// Index renders the moderation dashboard.
// Query params: q, type, page.
func (h *ModerationHandler) Index(c fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}
	if !user.CanReview() {
		return fiber.NewError(fiber.StatusForbidden, "you do not have moderation permissions")
	}

	reqs, err := h.service.Queue(c.Context(), user, middleware.Credentials(c))
	if err != nil {
		h.log.Error("failed to load moderation queue", zap.Error(err))
		return fiber.NewError(fiber.StatusBadGateway, "failed to load moderation queue")
	}

	query := moderation.Query{
		Search:     c.Query("q"),
		EntityType: c.Query("type"),
		Page:       pageParam(c),
	}
	page := moderation.View(reqs, query, h.pageSize)

	return c.Render("moderation", PageData(fiber.Map{
		"Title":       "Moderation",
		"Rows":        dashboardRows(page.Items, user),
		"Page":        page,
		"Query":       query,
		"EntityTypes": []string{models.EntityArticle, models.EntityDownloadLink, models.EntityComment},
		"PrevPage":    page.Page - 1,
		"NextPage":    page.Page + 1,
		"HasPrev":     page.Page > 1,
		"HasNext":     page.Page < page.TotalPages,
		"Flash":       popFlash(c),
	}, h.cfg, user, c.OriginalURL()))
}

// Review applies the decision submitted from a dashboard row.
func (h *ModerationHandler) Review(c fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request id")
	}

	_, err = h.service.Review(c.Context(), middleware.CurrentUser(c), middleware.Credentials(c), id, c.FormValue("status"), c.FormValue("note"))
	if err != nil {
		setFlash(c, notify.Error(reviewFailureMessage(err), h.noticeTimeout))
	} else {
		setFlash(c, notify.Success("Moderation status updated.", h.noticeTimeout))
	}
	return c.Redirect().To(h.returnURL(c))
}

// Delete removes a request. Only administrators see the button, and the
// service refuses everyone else.
func (h *ModerationHandler) Delete(c fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request id")
	}

	if err := h.service.Delete(c.Context(), middleware.CurrentUser(c), middleware.Credentials(c), id); err != nil {
		setFlash(c, notify.Error(reviewFailureMessage(err), h.noticeTimeout))
	} else {
		setFlash(c, notify.Success("Moderation request deleted.", h.noticeTimeout))
	}
	return c.Redirect().To(h.returnURL(c))
}

// returnURL keeps the dashboard's filters across a form post.
func (h *ModerationHandler) returnURL(c fiber.Ctx) string {
	if back := c.FormValue("return_to"); isLocalPath(back) {
		return back
	}
	return "/moderation"
}

func dashboardRows(reqs []models.ModerationRequest, user *models.User) []dashboardRow {
	rows := make([]dashboardRow, len(reqs))
	for i := range reqs {
		rows[i] = dashboardRow{
			Request:     reqs[i],
			Title:       reqs[i].DisplayTitle(),
			Transitions: moderation.AllowedTransitions(&reqs[i]),
			CanApprove:  moderation.CanApprove(&reqs[i]),
			CanDelete:   user.IsAdmin(),
		}
	}
	return rows
}

// reviewFailureMessage turns a service error into dashboard copy. Rule
// violations are shown as-is; remote failures get a generic message.
func reviewFailureMessage(err error) string {
	switch {
	case errors.Is(err, moderation.ErrInvalidStatus),
		errors.Is(err, moderation.ErrInvalidTransition),
		errors.Is(err, moderation.ErrNotActionable),
		errors.Is(err, moderation.ErrApproveFromRevision),
		errors.Is(err, moderation.ErrEntityNotEligible),
		errors.Is(err, moderation.ErrInvalidNote),
		errors.Is(err, moderation.ErrForbidden),
		errors.Is(err, moderation.ErrAdminRequired),
		errors.Is(err, moderation.ErrNotFound):
		return err.Error()
	case errors.Is(err, moderation.ErrAuthRequired):
		return "Your session has expired. Please sign in again."
	}
	return "Failed to update moderation request. Please try again."
}

func pageParam(c fiber.Ctx) int {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
