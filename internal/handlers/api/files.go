package api

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"

	"modportal/internal/listing"
	"modportal/internal/middleware"
	"modportal/internal/models"
	"modportal/internal/session"
	"modportal/internal/validation"
)

// FileSource lists the files attached to a mod.
type FileSource interface {
	ListDownloads(ctx context.Context, token, modSlug string) ([]models.DownloadFile, error)
	ListTranslations(ctx context.Context, token, modSlug string) ([]models.TranslationFile, error)
}

// FilesHandler serves filtered, sorted and paginated file lists.
type FilesHandler struct {
	source          FileSource
	defaultPageSize int
}

// NewFilesHandler creates a new API files handler.
func NewFilesHandler(source FileSource, defaultPageSize int) *FilesHandler {
	return &FilesHandler{source: source, defaultPageSize: defaultPageSize}
}

// Downloads lists a mod's downloadable files.
// Query params: q, sort (name, date), dir (asc, desc), page. The page size is
// fixed by configuration.
func (h *FilesHandler) Downloads(c fiber.Ctx) error {
	if !validation.ValidateSlug(c.Params("slug")) {
		return jsonError(c, fiber.StatusBadRequest, "invalid mod slug")
	}
	files, err := h.source.ListDownloads(c.Context(), viewerToken(c), c.Params("slug"))
	if err != nil {
		return writeError(c, err)
	}
	return jsonSuccess(c, listing.View(files, listOptions(c), h.defaultPageSize))
}

// Translations lists a mod's translation files.
func (h *FilesHandler) Translations(c fiber.Ctx) error {
	if !validation.ValidateSlug(c.Params("slug")) {
		return jsonError(c, fiber.StatusBadRequest, "invalid mod slug")
	}
	files, err := h.source.ListTranslations(c.Context(), viewerToken(c), c.Params("slug"))
	if err != nil {
		return writeError(c, err)
	}
	return jsonSuccess(c, listing.View(files, listOptions(c), h.defaultPageSize))
}

func listOptions(c fiber.Ctx) listing.Options {
	return listing.Options{
		Query:     c.Query("q"),
		SortBy:    c.Query("sort"),
		Direction: c.Query("dir"),
		Page:      queryInt(c, "page", 1),
	}
}

// viewerToken returns the caller's token when they have a usable one. File
// lists are public, so anonymous callers are served without one.
func viewerToken(c fiber.Ctx) string {
	token, _ := session.Resolve(c.Context(), middleware.Credentials(c), time.Now())
	return token
}
