package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/kaihub/kai/internal/entity"
)

// --- Organizations ---

// ListOrganizations fetches all organizations.
func (c *Client) ListOrganizations(ctx context.Context) ([]entity.Organization, error) {
	var out []entity.Organization
	if err := c.do(ctx, http.MethodGet, "/api/organizations", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetOrganization fetches one organization by ID.
func (c *Client) GetOrganization(ctx context.Context, id string) (*entity.Organization, error) {
	var out entity.Organization
	if err := c.do(ctx, http.MethodGet, "/api/organizations/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateOrganization creates an organization.
func (c *Client) CreateOrganization(ctx context.Context, name, folderPath string) (*entity.Organization, error) {
	body := map[string]string{"name": name, "folderPath": folderPath}
	var out entity.Organization
	if err := c.do(ctx, http.MethodPost, "/api/organizations", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateOrganization updates name and/or folderPath. Empty fields are omitted.
func (c *Client) UpdateOrganization(ctx context.Context, id string, fields map[string]string) (*entity.Organization, error) {
	var out entity.Organization
	if err := c.do(ctx, http.MethodPut, "/api/organizations/"+url.PathEscape(id), fields, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteOrganization deletes an organization. The server is the authority
// on whether deletion is legal; the client performs no emptiness check.
func (c *Client) DeleteOrganization(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/organizations/"+url.PathEscape(id), nil, nil)
}

// --- Workspaces ---

// ListWorkspaces fetches workspaces, scoped to an organization when
// organizationID is non-empty.
func (c *Client) ListWorkspaces(ctx context.Context, organizationID string) ([]entity.Workspace, error) {
	path := "/api/workspaces"
	if organizationID != "" {
		path = "/api/organizations/" + url.PathEscape(organizationID) + "/workspaces"
	}
	var out []entity.Workspace
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetWorkspace fetches one workspace by ID.
func (c *Client) GetWorkspace(ctx context.Context, id string) (*entity.Workspace, error) {
	var out entity.Workspace
	if err := c.do(ctx, http.MethodGet, "/api/workspaces/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateWorkspace creates a workspace under an organization.
func (c *Client) CreateWorkspace(ctx context.Context, organizationID, name, folderPath string) (*entity.Workspace, error) {
	body := map[string]string{"name": name, "folderPath": folderPath}
	path := fmt.Sprintf("/api/organizations/%s/workspaces", url.PathEscape(organizationID))
	var out entity.Workspace
	if err := c.do(ctx, http.MethodPost, path, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateWorkspace updates name and/or folderPath.
func (c *Client) UpdateWorkspace(ctx context.Context, id string, fields map[string]string) (*entity.Workspace, error) {
	var out entity.Workspace
	if err := c.do(ctx, http.MethodPut, "/api/workspaces/"+url.PathEscape(id), fields, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteWorkspace deletes a workspace.
func (c *Client) DeleteWorkspace(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/workspaces/"+url.PathEscape(id), nil, nil)
}

// --- Projects ---

// ListProjects fetches projects, scoped to a workspace when workspaceID is
// non-empty.
func (c *Client) ListProjects(ctx context.Context, workspaceID string) ([]entity.Project, error) {
	path := "/api/projects"
	if workspaceID != "" {
		path = "/api/workspaces/" + url.PathEscape(workspaceID) + "/projects"
	}
	var out []entity.Project
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetProject fetches one project by ID.
func (c *Client) GetProject(ctx context.Context, id string) (*entity.Project, error) {
	var out entity.Project
	if err := c.do(ctx, http.MethodGet, "/api/projects/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateProject creates a project under a workspace.
func (c *Client) CreateProject(ctx context.Context, workspaceID, name, folderPath string) (*entity.Project, error) {
	body := map[string]string{"name": name, "folderPath": folderPath}
	path := fmt.Sprintf("/api/workspaces/%s/projects", url.PathEscape(workspaceID))
	var out entity.Project
	if err := c.do(ctx, http.MethodPost, path, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProject updates mutable project fields.
func (c *Client) UpdateProject(ctx context.Context, id string, fields map[string]any) (*entity.Project, error) {
	var out entity.Project
	if err := c.do(ctx, http.MethodPut, "/api/projects/"+url.PathEscape(id), fields, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteProject deletes a project, optionally deleting its folder on disk.
func (c *Client) DeleteProject(ctx context.Context, id string, deleteFolder bool) error {
	path := "/api/projects/" + url.PathEscape(id)
	if deleteFolder {
		path += "?deleteFolder=true"
	}
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// MoveProject moves a project to another workspace. A bound sandbox is
// destroyed server-side as part of the move.
func (c *Client) MoveProject(ctx context.Context, id, newWorkspaceID string) (*entity.Project, error) {
	body := map[string]string{"newWorkspaceId": newWorkspaceID}
	var out entity.Project
	if err := c.do(ctx, http.MethodPost, "/api/projects/"+url.PathEscape(id)+"/move", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
