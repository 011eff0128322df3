package handlers

import (
	"github.com/gofiber/fiber/v3"

	"modportal/internal/config"
	"modportal/internal/models"
)

// PageData merges the values every page template expects into data.
func PageData(data fiber.Map, cfg *config.Config, user *models.User, path string) fiber.Map {
	data["SiteTitle"] = cfg.SiteTitle
	data["BaseURL"] = cfg.BaseURL
	data["User"] = user
	data["CurrentPath"] = path
	if user != nil {
		data["CanReview"] = user.CanReview()
		data["IsAdmin"] = user.IsAdmin()
	}
	return data
}
