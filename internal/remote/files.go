package remote

import (
	"context"
	"net/http"
	"net/url"

	"modportal/internal/models"
)

// ListDownloads returns the downloadable files of a mod.
func (c *Client) ListDownloads(ctx context.Context, token, modSlug string) ([]models.DownloadFile, error) {
	var env struct {
		Downloads []models.DownloadFile `json:"downloads"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/mods/"+url.PathEscape(modSlug)+"/downloads", token, nil, &env); err != nil {
		return nil, err
	}
	if env.Downloads == nil {
		env.Downloads = []models.DownloadFile{}
	}
	return env.Downloads, nil
}

// ListTranslations returns the translation files of a mod.
func (c *Client) ListTranslations(ctx context.Context, token, modSlug string) ([]models.TranslationFile, error) {
	var env struct {
		Translations []models.TranslationFile `json:"translations"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/mods/"+url.PathEscape(modSlug)+"/translations", token, nil, &env); err != nil {
		return nil, err
	}
	if env.Translations == nil {
		env.Translations = []models.TranslationFile{}
	}
	return env.Translations, nil
}
