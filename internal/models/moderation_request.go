package models

import "time"

// Moderation request statuses
const (
	StatusPending       = "PENDING"
	StatusApproved      = "APPROVED"
	StatusRejected      = "REJECTED"
	StatusNeedsRevision = "NEEDS_REVISION"
)

// Reviewed entity types
const (
	EntityArticle      = "ARTICLE"
	EntityDownloadLink = "DOWNLOAD_LINK"
	EntityComment      = "COMMENT"
)

// Entity statuses reported in the snapshot of an article.
const (
	EntityStatusPending       = "PENDING"
	EntityStatusPendingReview = "PENDING_REVIEW"
	EntityStatusPublished     = "PUBLISHED"
	EntityStatusDraft         = "DRAFT"
)

// UserRef is a lightweight reference to a community user as the remote API
// returns it.
type UserRef struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// EntityDetails is a read-only snapshot of the reviewed entity taken when the
// request list was fetched. It may be stale.
type EntityDetails struct {
	Title   string `json:"title,omitempty"`   // ARTICLE
	Status  string `json:"status,omitempty"`  // ARTICLE
	Name    string `json:"name,omitempty"`    // DOWNLOAD_LINK
	URL     string `json:"url,omitempty"`     // DOWNLOAD_LINK
	Content string `json:"content,omitempty"` // COMMENT
}

// ModerationRequest tracks the review lifecycle of a submitted entity.
type ModerationRequest struct {
	ID            int           `json:"id"`
	EntityID      int           `json:"entityId"`
	EntityType    string        `json:"entityType"` // ARTICLE, DOWNLOAD_LINK, COMMENT
	Status        string        `json:"status"`     // PENDING, APPROVED, REJECTED, NEEDS_REVISION
	Requester     UserRef       `json:"requester"`
	Reviewer      *UserRef      `json:"reviewer"`
	RequestNote   string        `json:"requestNote"`
	ReviewNote    string        `json:"reviewNote"`
	EntityDetails EntityDetails `json:"entityDetails"`
	CreatedAt     time.Time     `json:"createdAt"`
}

// IsActionable returns true if a reviewer can still act on the request.
func (r *ModerationRequest) IsActionable() bool {
	return r.Status == StatusPending || r.Status == StatusNeedsRevision
}

// DisplayTitle returns the most descriptive snapshot field for the entity type.
func (r *ModerationRequest) DisplayTitle() string {
	switch r.EntityType {
	case EntityArticle:
		return r.EntityDetails.Title
	case EntityDownloadLink:
		return r.EntityDetails.Name
	case EntityComment:
		return r.EntityDetails.Content
	}
	return ""
}

// ValidStatus reports whether status is a known moderation status.
func ValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusApproved, StatusRejected, StatusNeedsRevision:
		return true
	}
	return false
}

// ValidEntityType reports whether t is a known reviewed entity type.
func ValidEntityType(t string) bool {
	switch t {
	case EntityArticle, EntityDownloadLink, EntityComment:
		return true
	}
	return false
}
