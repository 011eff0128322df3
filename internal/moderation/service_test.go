package moderation

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modportal/internal/models"
	"modportal/internal/session"
)

type fakeGateway struct {
	mu       sync.Mutex
	byStatus map[string][]models.ModerationRequest
	byID     map[int]*models.ModerationRequest
	calls    []string
	failOn   string
}

func (g *fakeGateway) track(call string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, call)
	if g.failOn == call {
		return errors.New("remote failure")
	}
	return nil
}

func (g *fakeGateway) ModerationRequests(_ context.Context, _, status string) ([]models.ModerationRequest, error) {
	if err := g.track("list " + status); err != nil {
		return nil, err
	}
	return g.byStatus[status], nil
}

func (g *fakeGateway) ModerationRequest(_ context.Context, _ string, id int) (*models.ModerationRequest, error) {
	if err := g.track("get"); err != nil {
		return nil, err
	}
	return g.byID[id], nil
}

func (g *fakeGateway) UpdateModerationStatus(_ context.Context, _ string, id int, status, note string) (*models.ModerationRequest, error) {
	if err := g.track("update"); err != nil {
		return nil, err
	}
	r := *g.byID[id]
	r.Status = status
	r.ReviewNote = note
	return &r, nil
}

func (g *fakeGateway) DeleteModerationRequest(_ context.Context, _ string, id int) error {
	return g.track("delete")
}

type memoryAudit struct {
	reviews []*models.Review
}

func (a *memoryAudit) RecordReview(_ context.Context, r *models.Review) error {
	a.reviews = append(a.reviews, r)
	return nil
}

type recordingNotifier struct {
	decisions []string
}

func (n *recordingNotifier) NotifyReviewDecision(_ context.Context, req *models.ModerationRequest, _ *models.User) {
	n.decisions = append(n.decisions, req.Status)
}

var (
	creds     = session.Static("token")
	moderator = &models.User{ID: uuid.New(), Username: "mod", Role: models.RoleModerator}
	admin     = &models.User{ID: uuid.New(), Username: "root", Role: models.RoleAdmin}
	member    = &models.User{ID: uuid.New(), Username: "member", Role: models.RoleUser}
)

func TestService_Queue_PendingFirst(t *testing.T) {
	gw := &fakeGateway{byStatus: map[string][]models.ModerationRequest{
		"PENDING":        {{ID: 1, Status: "PENDING"}, {ID: 2, Status: "PENDING"}},
		"NEEDS_REVISION": {{ID: 3, Status: "NEEDS_REVISION"}},
	}}
	svc := NewService(gw)

	queue, err := svc.Queue(context.Background(), moderator, creds)
	require.NoError(t, err)
	require.Len(t, queue, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{queue[0].ID, queue[1].ID, queue[2].ID})
	assert.ElementsMatch(t, []string{"list PENDING", "list NEEDS_REVISION"}, gw.calls)
}

func TestService_Queue_Errors(t *testing.T) {
	gw := &fakeGateway{failOn: "list NEEDS_REVISION"}
	svc := NewService(gw)

	_, err := svc.Queue(context.Background(), member, creds)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Queue(context.Background(), moderator, session.Anonymous)
	assert.ErrorIs(t, err, ErrAuthRequired)

	_, err = svc.Queue(context.Background(), moderator, creds)
	assert.Error(t, err)
}

func TestService_Review(t *testing.T) {
	gw := &fakeGateway{byID: map[int]*models.ModerationRequest{
		7: {ID: 7, Status: "PENDING", EntityType: "ARTICLE", EntityDetails: models.EntityDetails{Status: "PENDING_REVIEW"}},
	}}
	audit := &memoryAudit{}
	notifier := &recordingNotifier{}
	svc := NewService(gw, WithAuditLog(audit), WithNotifier(notifier))

	updated, err := svc.Review(context.Background(), moderator, creds, 7, "APPROVED", "looks good")
	require.NoError(t, err)
	assert.Equal(t, "APPROVED", updated.Status)
	assert.Equal(t, "looks good", updated.ReviewNote)

	require.Len(t, audit.reviews, 1)
	assert.Equal(t, "PENDING", audit.reviews[0].FromStatus)
	assert.Equal(t, "APPROVED", audit.reviews[0].ToStatus)
	assert.Equal(t, moderator.ID, audit.reviews[0].ReviewerID)
	assert.Equal(t, []string{"APPROVED"}, notifier.decisions)
}

func TestService_Review_GuardsBeforeUpdate(t *testing.T) {
	gw := &fakeGateway{byID: map[int]*models.ModerationRequest{
		1: {ID: 1, Status: "PENDING", EntityType: "ARTICLE", EntityDetails: models.EntityDetails{Status: "PUBLISHED"}},
		2: {ID: 2, Status: "NEEDS_REVISION", EntityType: "ARTICLE", EntityDetails: models.EntityDetails{Status: "PENDING"}},
	}}
	svc := NewService(gw)
	ctx := context.Background()

	_, err := svc.Review(ctx, moderator, creds, 1, "APPROVED", "")
	assert.ErrorIs(t, err, ErrEntityNotEligible)

	_, err = svc.Review(ctx, admin, creds, 2, "APPROVED", "")
	assert.ErrorIs(t, err, ErrApproveFromRevision)

	_, err = svc.Review(ctx, moderator, creds, 404, "REJECTED", "")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NotContains(t, gw.calls, "update")
}

func TestService_Review_Refusals(t *testing.T) {
	gw := &fakeGateway{}
	svc := NewService(gw)
	ctx := context.Background()

	_, err := svc.Review(ctx, member, creds, 1, "REJECTED", "")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Review(ctx, nil, creds, 1, "REJECTED", "")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Review(ctx, moderator, session.Anonymous, 1, "REJECTED", "")
	assert.ErrorIs(t, err, ErrAuthRequired)

	assert.Empty(t, gw.calls)
}

func TestService_Delete_AdminOnly(t *testing.T) {
	ctx := context.Background()

	for _, actor := range []*models.User{nil, member, moderator} {
		gw := &fakeGateway{}
		err := NewService(gw).Delete(ctx, actor, creds, 5)
		assert.ErrorIs(t, err, ErrAdminRequired)
		assert.Empty(t, gw.calls, "no remote call for a refused delete")
	}

	gw := &fakeGateway{}
	require.NoError(t, NewService(gw).Delete(ctx, admin, creds, 5))
	assert.Equal(t, []string{"delete"}, gw.calls)
}
