package moderation

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modportal/internal/models"
	"modportal/internal/session"
	"modportal/internal/testutil"
)

func TestReview_RecordsAuditRowInDatabase(t *testing.T) {
	database, cleanup := testutil.TestDB(t)
	defer cleanup()

	ctx := context.Background()
	reviewerID := testutil.CreateTestUser(t, database, "reviewer-sub", "reviewer@example.com", models.RoleModerator)
	reviewer := &models.User{ID: uuid.MustParse(reviewerID), Username: "reviewer", Role: models.RoleModerator}

	gw := &fakeGateway{byID: map[int]*models.ModerationRequest{
		77: {ID: 77, EntityType: models.EntityComment, Status: models.StatusPending},
	}}
	svc := NewService(gw, WithAuditLog(database))

	_, err := svc.Review(ctx, reviewer, session.Static("tok"), 77, models.StatusRejected, "off-topic")
	require.NoError(t, err)

	history, err := database.ListReviewsByRequest(ctx, 77)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, models.StatusPending, history[0].FromStatus)
	assert.Equal(t, models.StatusRejected, history[0].ToStatus)
	assert.Equal(t, "off-topic", history[0].Note)
	assert.Equal(t, reviewer.ID, history[0].ReviewerID)

	counts, err := database.CountReviewsByDecision(ctx)
	require.NoError(t, err)
	assert.Contains(t, counts, models.DecisionCount{EntityType: models.EntityComment, ToStatus: models.StatusRejected, Count: 1})
}
