package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/kaihub/kai/internal/entity"
)

// SandboxRequest is the payload for creating a sandbox.
type SandboxRequest struct {
	Name          string         `json:"name"`
	FolderMapping string         `json:"folderMapping,omitempty"`
	ProjectID     string         `json:"projectId,omitempty"`
	AIConfig      map[string]any `json:"aiConfig,omitempty"`
}

// ListSandboxes fetches all sandboxes. There is no detail endpoint; lookup
// by ID scans this list.
func (c *Client) ListSandboxes(ctx context.Context) ([]entity.Sandbox, error) {
	var out []entity.Sandbox
	if err := c.do(ctx, http.MethodGet, "/api/flexy", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateSandbox provisions a new sandbox container.
func (c *Client) CreateSandbox(ctx context.Context, req SandboxRequest) (*entity.Sandbox, error) {
	var out entity.Sandbox
	if err := c.do(ctx, http.MethodPost, "/api/flexy", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// StartSandbox starts a stopped sandbox.
func (c *Client) StartSandbox(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/api/flexy/"+url.PathEscape(id)+"/start", nil, nil)
}

// StopSandbox stops a running sandbox.
func (c *Client) StopSandbox(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/api/flexy/"+url.PathEscape(id)+"/stop", nil, nil)
}

// DeleteSandbox destroys a sandbox container.
func (c *Client) DeleteSandbox(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/flexy/"+url.PathEscape(id), nil, nil)
}
