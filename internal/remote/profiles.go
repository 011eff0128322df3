package remote

import (
	"context"
	"net/http"
	"net/url"

	"modportal/internal/models"
)

type profileEnvelope struct {
	Profile models.Profile `json:"profile"`
}

// Follow follows username and returns the server's canonical following flag.
func (c *Client) Follow(ctx context.Context, token, username string) (bool, error) {
	return c.follow(ctx, http.MethodPost, token, username)
}

// Unfollow unfollows username and returns the server's canonical following flag.
func (c *Client) Unfollow(ctx context.Context, token, username string) (bool, error) {
	return c.follow(ctx, http.MethodDelete, token, username)
}

func (c *Client) follow(ctx context.Context, method, token, username string) (bool, error) {
	var env profileEnvelope
	if err := c.doJSON(ctx, method, "/api/profiles/"+url.PathEscape(username)+"/follow", token, struct{}{}, &env); err != nil {
		return false, err
	}
	return env.Profile.Following, nil
}
