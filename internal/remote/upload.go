package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// UploadContentType is sent with every upload body.
const UploadContentType = "application/octet-stream"

// Upload streams body to the upload endpoint and returns the storage key.
func (c *Client) Upload(ctx context.Context, token, name string, body io.Reader, size int64) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL, body)
	if err != nil {
		return "", fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", UploadContentType)
	req.Header.Set("X-File-Name", name)
	if size >= 0 {
		req.ContentLength = size
	}
	setBearer(req, token)

	var out struct {
		Key string `json:"key"`
	}
	if err := c.send(req, "upload", &out); err != nil {
		return "", err
	}
	if out.Key == "" {
		return "", errors.New("remote: upload response missing key")
	}
	return out.Key, nil
}
