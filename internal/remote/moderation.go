package remote

import (
	"context"

	"modportal/internal/models"
)

const moderationRequestFields = `
	id
	entityId
	entityType
	status
	requestNote
	reviewNote
	createdAt
	requester { id username email }
	reviewer { id username }
	entityDetails { title status name url content }
`

const moderationRequestsQuery = `query ModerationRequests($status: ModerationStatus!) {
  moderationRequests(status: $status) {` + moderationRequestFields + `}
}`

const moderationRequestQuery = `query ModerationRequest($id: Int!) {
  moderationRequest(id: $id) {` + moderationRequestFields + `}
}`

const updateModerationStatusMutation = `mutation UpdateModerationStatus($input: UpdateModerationStatusInput!) {
  updateModerationStatus(input: $input) {` + moderationRequestFields + `}
}`

const deleteModerationRequestMutation = `mutation DeleteModerationRequest($id: Int!) {
  deleteModerationRequest(id: $id)
}`

// ModerationRequests returns every request currently in status.
func (c *Client) ModerationRequests(ctx context.Context, token, status string) ([]models.ModerationRequest, error) {
	var data struct {
		ModerationRequests []models.ModerationRequest `json:"moderationRequests"`
	}
	if err := c.graphql(ctx, token, moderationRequestsQuery, map[string]any{"status": status}, &data); err != nil {
		return nil, err
	}
	if data.ModerationRequests == nil {
		data.ModerationRequests = []models.ModerationRequest{}
	}
	return data.ModerationRequests, nil
}

// ModerationRequest returns one request, or nil when the server has none.
func (c *Client) ModerationRequest(ctx context.Context, token string, id int) (*models.ModerationRequest, error) {
	var data struct {
		ModerationRequest *models.ModerationRequest `json:"moderationRequest"`
	}
	if err := c.graphql(ctx, token, moderationRequestQuery, map[string]any{"id": id}, &data); err != nil {
		return nil, err
	}
	return data.ModerationRequest, nil
}

// UpdateModerationStatus moves a request to status with an optional note.
func (c *Client) UpdateModerationStatus(ctx context.Context, token string, id int, status, reviewNote string) (*models.ModerationRequest, error) {
	input := map[string]any{"id": id, "status": status, "reviewNote": reviewNote}
	var data struct {
		UpdateModerationStatus *models.ModerationRequest `json:"updateModerationStatus"`
	}
	if err := c.graphql(ctx, token, updateModerationStatusMutation, map[string]any{"input": input}, &data); err != nil {
		return nil, err
	}
	return data.UpdateModerationStatus, nil
}

// DeleteModerationRequest removes a request record entirely.
func (c *Client) DeleteModerationRequest(ctx context.Context, token string, id int) error {
	return c.graphql(ctx, token, deleteModerationRequestMutation, map[string]any{"id": id}, nil)
}
