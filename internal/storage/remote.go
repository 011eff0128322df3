package storage

import (
	"context"
	"io"
)

// RemoteAPI is the upload endpoint of the remote API.
type RemoteAPI interface {
	Upload(ctx context.Context, token, name string, body io.Reader, size int64) (string, error)
}

// RemoteUploader hands files to the remote API's upload endpoint.
type RemoteUploader struct {
	api RemoteAPI
}

// NewRemoteUploader creates an uploader backed by api.
func NewRemoteUploader(api RemoteAPI) *RemoteUploader {
	return &RemoteUploader{api: api}
}

// Put implements Uploader.
func (u *RemoteUploader) Put(ctx context.Context, token, name string, body io.Reader, size int64) (string, error) {
	return u.api.Upload(ctx, token, name, body, size)
}

// Backend implements Uploader.
func (u *RemoteUploader) Backend() string { return "remote" }
