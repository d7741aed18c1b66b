package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/kaihub/kai/internal/entity"
)

// GetWorkflowState fetches a project's workflow progress record. The server
// returns a default state when none has been set.
func (c *Client) GetWorkflowState(ctx context.Context, projectID string) (*entity.WorkflowState, error) {
	var out entity.WorkflowState
	if err := c.do(ctx, http.MethodGet, "/api/projects/"+url.PathEscape(projectID)+"/workflow", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PutWorkflowState replaces a project's workflow state.
func (c *Client) PutWorkflowState(ctx context.Context, projectID string, state *entity.WorkflowState) (*entity.Project, error) {
	var out entity.Project
	if err := c.do(ctx, http.MethodPut, "/api/projects/"+url.PathEscape(projectID)+"/workflow", state, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PatchStepStatus updates a single step's status and returns the new state.
func (c *Client) PatchStepStatus(ctx context.Context, projectID, stepID, status string) (*entity.WorkflowState, error) {
	body := map[string]string{"status": status}
	path := "/api/projects/" + url.PathEscape(projectID) + "/workflow/step/" + url.PathEscape(stepID)
	var out entity.WorkflowState
	if err := c.do(ctx, http.MethodPatch, path, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
