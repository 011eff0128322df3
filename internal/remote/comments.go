package remote

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"modportal/internal/models"
)

type commentEnvelope struct {
	Comment models.Comment `json:"comment"`
}

type commentsEnvelope struct {
	Comments []models.Comment `json:"comments"`
}

// ListComments returns the comments on an article.
func (c *Client) ListComments(ctx context.Context, token, slug string) ([]models.Comment, error) {
	var env commentsEnvelope
	if err := c.doJSON(ctx, http.MethodGet, "/api/articles/"+url.PathEscape(slug)+"/comments", token, nil, &env); err != nil {
		return nil, err
	}
	if env.Comments == nil {
		env.Comments = []models.Comment{}
	}
	return env.Comments, nil
}

// AddComment posts a comment and returns it as stored by the server.
func (c *Client) AddComment(ctx context.Context, token, slug, body string) (*models.Comment, error) {
	payload := map[string]any{"comment": map[string]string{"body": body}}
	var env commentEnvelope
	if err := c.doJSON(ctx, http.MethodPost, "/api/articles/"+url.PathEscape(slug)+"/comments", token, payload, &env); err != nil {
		return nil, err
	}
	return &env.Comment, nil
}

// DeleteComment removes a comment from an article.
func (c *Client) DeleteComment(ctx context.Context, token, slug string, id int) error {
	path := "/api/articles/" + url.PathEscape(slug) + "/comments/" + strconv.Itoa(id)
	return c.doJSON(ctx, http.MethodDelete, path, token, nil, nil)
}
