package api

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"modportal/internal/db"
	"modportal/internal/middleware"
	"modportal/internal/models"
	"modportal/internal/notify"
	"modportal/internal/session"
)

// Uploader stores files on behalf of a user.
type Uploader interface {
	Upload(ctx context.Context, actor *models.User, creds session.Credentials, name string, body io.Reader, size int64) (*models.Upload, error)
}

// UploadStore reads recorded uploads.
type UploadStore interface {
	GetUpload(ctx context.Context, id uuid.UUID) (*models.Upload, error)
	ListUploadsByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.Upload, error)
}

// UploadHandler accepts file uploads via JSON API.
type UploadHandler struct {
	uploader      Uploader
	store         UploadStore
	noticeTimeout time.Duration
}

// NewUploadHandler creates a new API upload handler.
func NewUploadHandler(uploader Uploader, store UploadStore, noticeTimeout time.Duration) *UploadHandler {
	return &UploadHandler{uploader: uploader, store: store, noticeTimeout: noticeTimeout}
}

// List returns the caller's most recent uploads.
func (h *UploadHandler) List(c fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	limit := queryInt(c, "limit", 50)
	if limit < 1 || limit > 200 {
		limit = 50
	}

	uploads, err := h.store.ListUploadsByUser(c.Context(), user.ID, limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to list uploads")
	}
	return jsonSuccess(c, uploads)
}

// Get returns one upload. Only the uploader and administrators may see it.
func (h *UploadHandler) Get(c fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid upload id")
	}

	upload, err := h.store.GetUpload(c.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrUploadNotFound) {
			return jsonError(c, fiber.StatusNotFound, "upload not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch upload")
	}

	if upload.UploadedBy != user.ID && !user.IsAdmin() {
		return jsonError(c, fiber.StatusNotFound, "upload not found")
	}
	return jsonSuccess(c, upload)
}

// Create accepts either a multipart form with a "file" field or a raw body
// named by the X-File-Name header.
func (h *UploadHandler) Create(c fiber.Ctx) error {
	var (
		name string
		body io.Reader
		size int64
	)

	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		fh, err := c.FormFile("file")
		if err != nil {
			return jsonError(c, fiber.StatusBadRequest, "missing file field")
		}
		f, err := fh.Open()
		if err != nil {
			return jsonError(c, fiber.StatusBadRequest, "unreadable file")
		}
		defer f.Close()
		name, body, size = fh.Filename, f, fh.Size
	} else {
		raw := c.Body()
		name, body, size = c.Get("X-File-Name"), bytes.NewReader(raw), int64(len(raw))
	}

	notices := notify.NewCollector()
	upload, err := h.uploader.Upload(c.Context(), middleware.CurrentUser(c), middleware.Credentials(c), name, body, size)
	if err != nil {
		_, msg := statusFor(err)
		notices.Notify(notify.Error("Upload failed: "+msg, h.noticeTimeout))
		return jsonErrorWithNotices(c, err, nil, notices)
	}

	notices.Notify(notify.Success("File uploaded.", h.noticeTimeout))
	c.Status(fiber.StatusCreated)
	return jsonSuccessWithNotices(c, fiber.Map{"key": upload.Key, "url": upload.URL, "name": upload.Name, "size": upload.Size}, notices)
}
