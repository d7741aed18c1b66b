package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/kaihub/kai/internal/entity"
)

// WorkflowRequest is the payload for creating or updating a workflow.
type WorkflowRequest struct {
	Name        string                     `json:"name"`
	Description string                     `json:"description,omitempty"`
	Definition  *entity.WorkflowDefinition `json:"definition,omitempty"`
	IsTemplate  bool                       `json:"isTemplate,omitempty"`
}

// ListWorkflows fetches all workflows.
func (c *Client) ListWorkflows(ctx context.Context) ([]entity.Workflow, error) {
	var out []entity.Workflow
	if err := c.do(ctx, http.MethodGet, "/api/workflows", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetWorkflow fetches one workflow with its full definition.
func (c *Client) GetWorkflow(ctx context.Context, id string) (*entity.Workflow, error) {
	var out entity.Workflow
	if err := c.do(ctx, http.MethodGet, "/api/workflows/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateWorkflow creates a workflow.
func (c *Client) CreateWorkflow(ctx context.Context, req WorkflowRequest) (*entity.Workflow, error) {
	var out entity.Workflow
	if err := c.do(ctx, http.MethodPost, "/api/workflows", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateWorkflow updates a workflow's fields and definition.
func (c *Client) UpdateWorkflow(ctx context.Context, id string, req WorkflowRequest) (*entity.Workflow, error) {
	var out entity.Workflow
	if err := c.do(ctx, http.MethodPut, "/api/workflows/"+url.PathEscape(id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteWorkflow deletes a workflow.
func (c *Client) DeleteWorkflow(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/workflows/"+url.PathEscape(id), nil, nil)
}

// ChangeWorkflowStatus requests a status change. Legal transitions are the
// server's call; any requested status is sent as-is.
func (c *Client) ChangeWorkflowStatus(ctx context.Context, id, status string) (*entity.Workflow, error) {
	body := map[string]string{"status": status}
	var out entity.Workflow
	if err := c.do(ctx, http.MethodPatch, "/api/workflows/"+url.PathEscape(id)+"/status", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CloneWorkflow creates a copy of a workflow under a new name.
func (c *Client) CloneWorkflow(ctx context.Context, id, name string) (*entity.Workflow, error) {
	body := map[string]string{"name": name}
	var out entity.Workflow
	if err := c.do(ctx, http.MethodPost, "/api/workflows/"+url.PathEscape(id)+"/clone", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListWorkflowVersions fetches a workflow's version history.
func (c *Client) ListWorkflowVersions(ctx context.Context, id string) ([]entity.WorkflowVersion, error) {
	var out []entity.WorkflowVersion
	if err := c.do(ctx, http.MethodGet, "/api/workflows/"+url.PathEscape(id)+"/versions", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetWorkflowVersion fetches one historical version.
func (c *Client) GetWorkflowVersion(ctx context.Context, id string, version int) (*entity.WorkflowVersion, error) {
	path := "/api/workflows/" + url.PathEscape(id) + "/versions/" + strconv.Itoa(version)
	var out entity.WorkflowVersion
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ExportWorkflow fetches a workflow as a portable JSON document.
func (c *Client) ExportWorkflow(ctx context.Context, id string) (map[string]any, error) {
	var out map[string]any
	if err := c.do(ctx, http.MethodGet, "/api/workflows/"+url.PathEscape(id)+"/export", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ImportWorkflow creates a workflow from an exported JSON document.
func (c *Client) ImportWorkflow(ctx context.Context, doc map[string]any) (*entity.Workflow, error) {
	var out entity.Workflow
	if err := c.do(ctx, http.MethodPost, "/api/workflows/import", doc, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
