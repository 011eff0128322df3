package api

import (
	"context"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"modportal/internal/interaction"
	"modportal/internal/moderation"
	"modportal/internal/notify"
	"modportal/internal/remote"
	"modportal/internal/storage"
)

// jsonSuccess returns a 200 response with data wrapped in the standard envelope.
func jsonSuccess(c fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"data":   data,
	})
}

// jsonSuccessWithNotices is jsonSuccess plus the notices raised while
// handling the request.
func jsonSuccessWithNotices(c fiber.Ctx, data any, notices *notify.Collector) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"data":    data,
		"notices": notices.Drain(),
	})
}

// jsonError returns an error response with the given HTTP status code.
func jsonError(c fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"status": "error",
		"error":  message,
	})
}

// jsonErrorWithNotices maps err to a status and attaches the notices raised
// while handling the request. data is included when non-nil so clients can
// redraw the settled state.
func jsonErrorWithNotices(c fiber.Ctx, err error, data any, notices *notify.Collector) error {
	status, message := statusFor(err)
	body := fiber.Map{
		"status":  "error",
		"error":   message,
		"notices": notices.Drain(),
	}
	if data != nil {
		body["data"] = data
	}
	return c.Status(status).JSON(body)
}

// writeError maps err to a status and writes the plain error envelope.
func writeError(c fiber.Ctx, err error) error {
	status, message := statusFor(err)
	return jsonError(c, status, message)
}

// statusFor maps domain errors to HTTP statuses. Anything unrecognised came
// from the remote API and is reported as a bad gateway.
func statusFor(err error) (int, string) {
	var se *remote.StatusError

	switch {
	case errors.Is(err, interaction.ErrAuthRequired),
		errors.Is(err, moderation.ErrAuthRequired),
		errors.Is(err, storage.ErrAuthRequired),
		errors.Is(err, remote.ErrUnauthorized):
		return fiber.StatusUnauthorized, "authentication required"
	case errors.Is(err, moderation.ErrForbidden),
		errors.Is(err, moderation.ErrAdminRequired):
		return fiber.StatusForbidden, err.Error()
	case errors.Is(err, moderation.ErrNotFound):
		return fiber.StatusNotFound, err.Error()
	case errors.Is(err, moderation.ErrInvalidTransition),
		errors.Is(err, moderation.ErrNotActionable),
		errors.Is(err, moderation.ErrApproveFromRevision),
		errors.Is(err, moderation.ErrEntityNotEligible):
		return fiber.StatusConflict, err.Error()
	case errors.Is(err, moderation.ErrInvalidStatus),
		errors.Is(err, moderation.ErrInvalidNote),
		errors.Is(err, interaction.ErrInvalidInput),
		errors.Is(err, storage.ErrInvalidName):
		return fiber.StatusBadRequest, err.Error()
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fiber.StatusGatewayTimeout, "request cancelled"
	case errors.As(err, &se) && se.StatusCode == fiber.StatusNotFound:
		return fiber.StatusNotFound, "not found"
	}
	return fiber.StatusBadGateway, "remote service error"
}

// queryInt reads an integer query parameter, returning def when it is absent
// or malformed.
func queryInt(c fiber.Ctx, key string, def int) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return n
}
