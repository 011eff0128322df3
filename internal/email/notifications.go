package email

import (
	"context"

	"go.uber.org/zap"

	"modportal/internal/config"
	"modportal/internal/models"
)

// Notifier sends email notifications for moderation events.
type Notifier struct {
	service   *Service
	templates *Templates
	cfg       *config.Config
	log       *zap.Logger
}

// NewNotifier creates a new email notifier.
func NewNotifier(cfg *config.Config, log *zap.Logger) *Notifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &Notifier{
		service:   NewService(cfg, log),
		templates: NewTemplates(cfg),
		cfg:       cfg,
		log:       log,
	}
}

// NotifyReviewDecision tells the requester what happened to their
// submission. Requesters without an e-mail address are skipped.
func (n *Notifier) NotifyReviewDecision(_ context.Context, req *models.ModerationRequest, reviewer *models.User) {
	if !n.service.IsEnabled() || req == nil {
		return
	}

	if req.Requester.Email == "" {
		n.log.Debug("requester has no email, skipping decision notice", zap.Int("request_id", req.ID))
		return
	}

	subject, htmlBody, textBody := n.templates.ReviewDecision(req, reviewer)
	n.service.SendAsync([]string{req.Requester.Email}, subject, htmlBody, textBody)
}

// Wait blocks until queued emails are sent.
func (n *Notifier) Wait() {
	n.service.Wait()
}
