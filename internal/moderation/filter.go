package moderation

import (
	"strings"

	"modportal/internal/listing"
	"modportal/internal/models"
)

// Query narrows the moderation queue for display.
type Query struct {
	Search     string
	EntityType string // empty matches every type
	Page       int
	PageSize   int
}

// Filter keeps the requests matching search and entityType. Search is a
// case-insensitive substring test over the requester's username, the request
// note and the entity snapshot's title, name and content. The input is not
// modified and its order is kept.
func Filter(reqs []models.ModerationRequest, search, entityType string) []models.ModerationRequest {
	q := strings.ToLower(strings.TrimSpace(search))
	out := make([]models.ModerationRequest, 0, len(reqs))
	for _, r := range reqs {
		if entityType != "" && r.EntityType != entityType {
			continue
		}
		if q != "" && !matchesSearch(&r, q) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func matchesSearch(r *models.ModerationRequest, q string) bool {
	fields := []string{
		r.Requester.Username,
		r.RequestNote,
		r.EntityDetails.Title,
		r.EntityDetails.Name,
		r.EntityDetails.Content,
	}
	for _, f := range fields {
		if f != "" && strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// View filters reqs and returns the requested page. An unknown entity type
// is ignored rather than matching nothing.
func View(reqs []models.ModerationRequest, q Query, defaultPageSize int) listing.Page[models.ModerationRequest] {
	if !models.ValidEntityType(q.EntityType) {
		q.EntityType = ""
	}
	opts := listing.Options{Page: q.Page, PageSize: q.PageSize}.Normalize(defaultPageSize)
	return listing.Paginate(Filter(reqs, q.Search, q.EntityType), opts.Page, opts.PageSize)
}
