package moderation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"modportal/internal/models"
	"modportal/internal/session"
	"modportal/internal/validation"
)

// Service errors
var (
	ErrAuthRequired  = errors.New("authentication required")
	ErrForbidden     = errors.New("moderator or admin role required")
	ErrAdminRequired = errors.New("only administrators can delete moderation requests")
	ErrNotFound      = errors.New("moderation request not found")
	ErrInvalidNote   = errors.New("invalid review note")
)

// queueStatuses are fetched separately and concatenated in this order.
var queueStatuses = []string{models.StatusPending, models.StatusNeedsRevision}

// Gateway is the remote side of the moderation workflow.
type Gateway interface {
	ModerationRequests(ctx context.Context, token, status string) ([]models.ModerationRequest, error)
	ModerationRequest(ctx context.Context, token string, id int) (*models.ModerationRequest, error)
	UpdateModerationStatus(ctx context.Context, token string, id int, status, reviewNote string) (*models.ModerationRequest, error)
	DeleteModerationRequest(ctx context.Context, token string, id int) error
}

// AuditLog stores reviewer decisions locally.
type AuditLog interface {
	RecordReview(ctx context.Context, review *models.Review) error
}

// DecisionNotifier tells the requester about a decision.
type DecisionNotifier interface {
	NotifyReviewDecision(ctx context.Context, req *models.ModerationRequest, reviewer *models.User)
}

// Service runs reviewer actions against the remote API.
type Service struct {
	gateway  Gateway
	audit    AuditLog
	notifier DecisionNotifier
	log      *zap.Logger
	now      func() time.Time
}

// Option customises a Service.
type Option func(*Service)

// WithAuditLog records every successful review in log.
func WithAuditLog(log AuditLog) Option {
	return func(s *Service) { s.audit = log }
}

// WithNotifier sends decision notifications through n.
func WithNotifier(n DecisionNotifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.log = l }
}

// NewService creates a moderation service over gateway.
func NewService(gateway Gateway, opts ...Option) *Service {
	s := &Service{gateway: gateway, log: zap.NewNop(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Queue returns every actionable request: the PENDING ones followed by the
// NEEDS_REVISION ones. The two statuses are queried concurrently.
func (s *Service) Queue(ctx context.Context, actor *models.User, creds session.Credentials) ([]models.ModerationRequest, error) {
	if !actor.CanReview() {
		return nil, ErrForbidden
	}
	token, ok := session.Resolve(ctx, creds, s.now())
	if !ok {
		return nil, ErrAuthRequired
	}
	return s.fetchQueue(ctx, token)
}

// QueueWithToken fetches the queue on behalf of the gateway itself, for
// background jobs holding a service token.
func (s *Service) QueueWithToken(ctx context.Context, token string) ([]models.ModerationRequest, error) {
	if token == "" {
		return nil, ErrAuthRequired
	}
	return s.fetchQueue(ctx, token)
}

func (s *Service) fetchQueue(ctx context.Context, token string) ([]models.ModerationRequest, error) {
	results := make([][]models.ModerationRequest, len(queueStatuses))

	g, gctx := errgroup.WithContext(ctx)
	for i, status := range queueStatuses {
		g.Go(func() error {
			reqs, err := s.gateway.ModerationRequests(gctx, token, status)
			if err != nil {
				return fmt.Errorf("fetch %s requests: %w", status, err)
			}
			results[i] = reqs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var total int
	for _, r := range results {
		total += len(r)
	}
	queue := make([]models.ModerationRequest, 0, total)
	for _, r := range results {
		queue = append(queue, r...)
	}
	return queue, nil
}

// Review moves request id to status to with an optional note. The request
// is re-read first so the transition is checked against current state.
func (s *Service) Review(ctx context.Context, actor *models.User, creds session.Credentials, id int, to, note string) (*models.ModerationRequest, error) {
	if !actor.CanReview() {
		return nil, ErrForbidden
	}
	if valid, msg := validation.ValidateReviewNote(note); !valid {
		return nil, fmt.Errorf("%w: %s", ErrInvalidNote, msg)
	}
	token, ok := session.Resolve(ctx, creds, s.now())
	if !ok {
		return nil, ErrAuthRequired
	}

	current, err := s.gateway.ModerationRequest(ctx, token, id)
	if err != nil {
		return nil, fmt.Errorf("fetch request %d: %w", id, err)
	}
	if current == nil {
		return nil, ErrNotFound
	}
	if err := Check(current, to); err != nil {
		return nil, err
	}

	updated, err := s.gateway.UpdateModerationStatus(ctx, token, id, to, note)
	if err != nil {
		return nil, fmt.Errorf("update request %d: %w", id, err)
	}
	if updated == nil {
		copied := *current
		copied.Status = to
		copied.ReviewNote = note
		updated = &copied
	}

	s.log.Info("moderation request reviewed",
		zap.Int("request_id", id),
		zap.String("entity_type", current.EntityType),
		zap.String("from", current.Status),
		zap.String("to", to),
		zap.String("reviewer", actor.Username),
	)

	// The remote change has happened; keep the record even if the caller
	// went away.
	bg := context.WithoutCancel(ctx)
	if s.audit != nil {
		review := &models.Review{
			ID:         uuid.New(),
			RequestID:  id,
			EntityType: current.EntityType,
			FromStatus: current.Status,
			ToStatus:   to,
			Note:       note,
			ReviewerID: actor.ID,
			CreatedAt:  s.now(),
		}
		if err := s.audit.RecordReview(bg, review); err != nil {
			s.log.Error("failed to record review", zap.Int("request_id", id), zap.Error(err))
		}
	}
	if s.notifier != nil {
		s.notifier.NotifyReviewDecision(bg, updated, actor)
	}

	return updated, nil
}

// Delete removes request id. Only ADMIN actors may delete; anyone else is
// refused before any remote call.
func (s *Service) Delete(ctx context.Context, actor *models.User, creds session.Credentials, id int) error {
	if !actor.IsAdmin() {
		return ErrAdminRequired
	}
	token, ok := session.Resolve(ctx, creds, s.now())
	if !ok {
		return ErrAuthRequired
	}
	if err := s.gateway.DeleteModerationRequest(ctx, token, id); err != nil {
		return fmt.Errorf("delete request %d: %w", id, err)
	}
	s.log.Info("moderation request deleted", zap.Int("request_id", id), zap.String("admin", actor.Username))
	return nil
}
