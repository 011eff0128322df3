// Package moderation implements the reviewer workflow over moderation
// requests held by the remote API.
package moderation

import (
	"errors"

	"modportal/internal/models"
)

// Transition errors
var (
	ErrInvalidStatus       = errors.New("unknown moderation status")
	ErrInvalidTransition   = errors.New("reviewers can only approve, reject or request revision")
	ErrNotActionable       = errors.New("moderation request has already been decided")
	ErrApproveFromRevision = errors.New("a request needing revision cannot be approved directly")
	ErrEntityNotEligible   = errors.New("article is not awaiting review")
)

// reviewTargets are the statuses a reviewer may move a request to, in the
// order they are offered.
var reviewTargets = []string{
	models.StatusApproved,
	models.StatusRejected,
	models.StatusNeedsRevision,
}

// Check reports whether r may move to status to. A nil error means the
// transition is allowed.
func Check(r *models.ModerationRequest, to string) error {
	if !models.ValidStatus(to) {
		return ErrInvalidStatus
	}
	if to == models.StatusPending {
		return ErrInvalidTransition
	}
	if !r.IsActionable() {
		return ErrNotActionable
	}

	if to != models.StatusApproved {
		return nil
	}
	if r.Status == models.StatusNeedsRevision {
		return ErrApproveFromRevision
	}
	// Only articles carry an entity status worth guarding.
	if r.EntityType == models.EntityArticle && !entityAwaitingReview(r.EntityDetails.Status) {
		return ErrEntityNotEligible
	}
	return nil
}

func entityAwaitingReview(status string) bool {
	return status == models.EntityStatusPending || status == models.EntityStatusPendingReview
}

// AllowedTransitions lists the statuses a reviewer may be offered for r.
func AllowedTransitions(r *models.ModerationRequest) []string {
	allowed := make([]string, 0, len(reviewTargets))
	for _, to := range reviewTargets {
		if Check(r, to) == nil {
			allowed = append(allowed, to)
		}
	}
	return allowed
}

// CanApprove is shorthand for Check(r, APPROVED) == nil.
func CanApprove(r *models.ModerationRequest) bool {
	return Check(r, models.StatusApproved) == nil
}
