package db

import (
	"context"

	"github.com/google/uuid"

	"modportal/internal/models"
)

// RecordReview appends a reviewer decision to the audit log.
func (d *DB) RecordReview(ctx context.Context, r *models.Review) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}

	query := `
		INSERT INTO moderation_reviews (id, request_id, entity_type, from_status, to_status, note, reviewer_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`

	var reviewer any
	if r.ReviewerID != uuid.Nil {
		reviewer = r.ReviewerID
	}

	return d.Pool.QueryRow(ctx, query,
		r.ID, r.RequestID, r.EntityType, r.FromStatus, r.ToStatus, r.Note, reviewer,
	).Scan(&r.CreatedAt)
}

// ListReviewsByRequest returns the decisions taken on a request, newest first.
func (d *DB) ListReviewsByRequest(ctx context.Context, requestID int) ([]models.Review, error) {
	query := `
		SELECT r.id, r.request_id, r.entity_type, r.from_status, r.to_status, r.note,
			   COALESCE(r.reviewer_id, '00000000-0000-0000-0000-000000000000'::uuid), r.created_at,
			   COALESCE(u.name, '')
		FROM moderation_reviews r
		LEFT JOIN users u ON r.reviewer_id = u.id
		WHERE r.request_id = $1
		ORDER BY r.created_at DESC
	`

	rows, err := d.Pool.Query(ctx, query, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := []models.Review{}
	for rows.Next() {
		var r models.Review
		if err := rows.Scan(
			&r.ID, &r.RequestID, &r.EntityType, &r.FromStatus, &r.ToStatus, &r.Note,
			&r.ReviewerID, &r.CreatedAt, &r.ReviewerName,
		); err != nil {
			return nil, err
		}
		reviews = append(reviews, r)
	}

	return reviews, rows.Err()
}

// CountReviewsByDecision returns how many decisions were recorded per entity
// type and target status.
func (d *DB) CountReviewsByDecision(ctx context.Context) ([]models.DecisionCount, error) {
	query := `
		SELECT entity_type, to_status, COUNT(*)
		FROM moderation_reviews
		GROUP BY entity_type, to_status
		ORDER BY entity_type, to_status
	`

	rows, err := d.Pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []models.DecisionCount
	for rows.Next() {
		var c models.DecisionCount
		if err := rows.Scan(&c.EntityType, &c.ToStatus, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}

	return counts, rows.Err()
}
