// Package entity defines the value records kai fetches from the remote API.
//
// The hierarchy is Organization → Workspace → Project. Containment is by
// foreign key, not live collections: a parent never holds its children,
// lookups scan the child list and filter. All records are immutable from
// the client's perspective; the remote API is the sole writer of record.
package entity

import "time"

// Sandbox status constants. These are string values returned by the API.
const (
	SandboxStatusRunning = "running"
	SandboxStatusStopped = "stopped"
	SandboxStatusCreated = "created"
	SandboxStatusError   = "error"
)

// Organization is the top level of the hierarchy.
type Organization struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	FolderPath string    `json:"folderPath"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Workspace belongs to exactly one Organization.
type Workspace struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organizationId"`
	Name           string    `json:"name"`
	FolderPath     string    `json:"folderPath"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Project belongs to exactly one Workspace and optionally references one
// Sandbox and one Workflow.
type Project struct {
	ID            string         `json:"id"`
	WorkspaceID   string         `json:"workspaceId"`
	Name          string         `json:"name"`
	FolderPath    string         `json:"folderPath"`
	SandboxID     string         `json:"sandboxId,omitempty"`
	WorkflowID    string         `json:"workflowId,omitempty"`
	WorkflowState *WorkflowState `json:"workflowState,omitempty"`
	AIConfig      map[string]any `json:"aiConfig,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// Sandbox is a remote container-backed dev environment. It does not
// back-reference its Project structurally; the binding is discovered by
// scanning Projects for a matching SandboxID.
type Sandbox struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Status        string            `json:"status"`
	ProjectID     string            `json:"projectId,omitempty"`
	FolderMapping string            `json:"folderMapping,omitempty"`
	PortMapping   map[string]string `json:"portMapping,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
}

// IsActive reports whether the sandbox is usable for task execution.
func (s *Sandbox) IsActive() bool {
	return s.Status == SandboxStatusRunning
}

// FindWorkspaces returns the workspaces owned by the given organization.
func FindWorkspaces(all []Workspace, organizationID string) []Workspace {
	var out []Workspace
	for _, w := range all {
		if w.OrganizationID == organizationID {
			out = append(out, w)
		}
	}
	return out
}

// FindProjects returns the projects owned by the given workspace.
func FindProjects(all []Project, workspaceID string) []Project {
	var out []Project
	for _, p := range all {
		if p.WorkspaceID == workspaceID {
			out = append(out, p)
		}
	}
	return out
}

// ProjectForSandbox scans projects for the one bound to the given sandbox.
// Returns nil if no project references it.
func ProjectForSandbox(all []Project, sandboxID string) *Project {
	if sandboxID == "" {
		return nil
	}
	for i := range all {
		if all[i].SandboxID == sandboxID {
			return &all[i]
		}
	}
	return nil
}

// SandboxByID scans the sandbox list for a matching ID. The API exposes no
// sandbox detail endpoint, so lookup goes through the collection.
func SandboxByID(all []Sandbox, id string) *Sandbox {
	for i := range all {
		if all[i].ID == id {
			return &all[i]
		}
	}
	return nil
}
