package remote

import (
	"context"
	"net/http"
	"net/url"
)

// Favorite marks the article as a favorite of the token's owner.
func (c *Client) Favorite(ctx context.Context, token, slug string) error {
	return c.doJSON(ctx, http.MethodPost, "/api/articles/"+url.PathEscape(slug)+"/favorite", token, struct{}{}, nil)
}

// Unfavorite removes the article from the token owner's favorites.
func (c *Client) Unfavorite(ctx context.Context, token, slug string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/articles/"+url.PathEscape(slug)+"/favorite", token, struct{}{}, nil)
}
