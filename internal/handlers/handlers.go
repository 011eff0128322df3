package handlers

import (
	"net/url"

	"github.com/gofiber/fiber/v3"
	fsession "github.com/gofiber/fiber/v3/middleware/session"

	"modportal/internal/notify"
)

const (
	flashLevelKey   = "flash_level"
	flashMessageKey = "flash_message"
)

// setFlash stores a notice to show on the next rendered page.
func setFlash(c fiber.Ctx, n notify.Notice) {
	sess := fsession.FromContext(c)
	if sess == nil {
		return
	}
	sess.Set(flashLevelKey, n.Level)
	sess.Set(flashMessageKey, n.Message)
}

// popFlash returns and clears the pending notice, if any.
func popFlash(c fiber.Ctx) *notify.Notice {
	sess := fsession.FromContext(c)
	if sess == nil {
		return nil
	}
	msg, _ := sess.Get(flashMessageKey).(string)
	if msg == "" {
		return nil
	}
	level, _ := sess.Get(flashLevelKey).(string)
	sess.Delete(flashLevelKey)
	sess.Delete(flashMessageKey)
	return &notify.Notice{Level: level, Message: msg}
}

// isLocalPath reports whether target is a same-origin path. Browsers read a
// leading `/\` as "//", so both prefixes are rejected.
func isLocalPath(target string) bool {
	if len(target) == 0 || target[0] != '/' {
		return false
	}
	if len(target) > 1 && (target[1] == '/' || target[1] == '\\') {
		return false
	}
	u, err := url.Parse(target)
	if err != nil {
		return false
	}
	return u.Scheme == "" && u.Host == ""
}
