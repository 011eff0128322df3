// Package storage pushes user files to the configured backend and records
// them locally.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"modportal/internal/models"
	"modportal/internal/session"
	"modportal/internal/validation"
)

var (
	ErrAuthRequired = errors.New("authentication required")
	ErrInvalidName  = errors.New("invalid file name")
)

// Uploader stores a file body and returns its storage key.
type Uploader interface {
	Put(ctx context.Context, token, name string, body io.Reader, size int64) (string, error)
	Backend() string
}

// Store records completed uploads.
type Store interface {
	RecordUpload(ctx context.Context, u *models.Upload) error
}

// Service runs the upload flow: validate, upload, record.
type Service struct {
	uploader   Uploader
	store      Store
	publicBase string
	log        *zap.Logger
	now        func() time.Time
}

// NewService creates an upload service. store may be nil, in which case
// uploads are not recorded.
func NewService(uploader Uploader, store Store, publicBase string, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		uploader:   uploader,
		store:      store,
		publicBase: strings.TrimRight(publicBase, "/"),
		log:        log,
		now:        time.Now,
	}
}

// PublicURL returns the download URL for key.
func (s *Service) PublicURL(key string) string {
	return s.publicBase + "/" + strings.TrimLeft(key, "/")
}

// Upload stores body under name on behalf of actor. Without a usable
// credential nothing is sent.
func (s *Service) Upload(ctx context.Context, actor *models.User, creds session.Credentials, name string, body io.Reader, size int64) (*models.Upload, error) {
	token, ok := session.Resolve(ctx, creds, s.now())
	if !ok {
		return nil, ErrAuthRequired
	}
	if valid, msg := validation.ValidateUploadName(name); !valid {
		return nil, fmt.Errorf("%w: %s", ErrInvalidName, msg)
	}

	key, err := s.uploader.Put(ctx, token, name, body, size)
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", name, err)
	}

	upload := &models.Upload{
		Key:     key,
		URL:     s.PublicURL(key),
		Name:    name,
		Size:    size,
		Backend: s.uploader.Backend(),
	}
	if actor != nil {
		upload.UploadedBy = actor.ID
	}

	if s.store != nil {
		if err := s.store.RecordUpload(context.WithoutCancel(ctx), upload); err != nil {
			s.log.Error("failed to record upload", zap.String("key", key), zap.Error(err))
		}
	}
	if upload.CreatedAt.IsZero() {
		upload.CreatedAt = s.now()
	}

	s.log.Info("file uploaded",
		zap.String("key", key),
		zap.String("backend", upload.Backend),
		zap.Int64("size", size),
	)
	return upload, nil
}
