// Package mutate is the write side of the entity layer.
//
// Every mutation runs client-side pre-flight validation, issues exactly one
// API call, and on success invalidates the cached reads the change affects.
// Failed mutations are never retried automatically; the error carries what
// happened and the caller decides. Server responses are authoritative: no
// mutation patches the cache with locally constructed state.
package mutate

import (
	"context"
	"log/slog"
	"strings"

	"github.com/kaihub/kai/internal/client"
	"github.com/kaihub/kai/internal/entity"
	kaierrors "github.com/kaihub/kai/internal/errors"
	"github.com/kaihub/kai/internal/progress"
	"github.com/kaihub/kai/internal/store"
)

// DeleteConfirmation is the phrase a caller must supply, exactly, to delete
// a project together with its folder on disk.
const DeleteConfirmation = "DELETE"

// Orchestrator coordinates mutations against the API and keeps the read
// cache honest afterwards.
type Orchestrator struct {
	api    *client.Client
	store  *store.Store
	logger *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) { o.logger = logger }
}

// New creates an orchestrator over the given client and store.
func New(api *client.Client, st *store.Store, opts ...Option) *Orchestrator {
	o := &Orchestrator{api: api, store: st, logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// requireField rejects empty or whitespace-only values before any request
// is sent.
func requireField(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return kaierrors.ErrValidation(field, "must not be empty")
	}
	return nil
}

// --- Organizations ---

// CreateOrganization creates an organization and refreshes the organization
// list.
func (o *Orchestrator) CreateOrganization(ctx context.Context, name, folderPath string) (*entity.Organization, error) {
	if err := requireField("name", name); err != nil {
		return nil, err
	}
	if err := requireField("folderPath", folderPath); err != nil {
		return nil, err
	}
	org, err := o.api.CreateOrganization(ctx, name, folderPath)
	if err != nil {
		return nil, err
	}
	o.store.InvalidateType(store.TypeOrganizations)
	o.logger.Info("organization created", "id", org.ID, "name", org.Name)
	return org, nil
}

// UpdateOrganization updates an organization's name and/or folder path.
// Empty arguments leave the corresponding field untouched.
func (o *Orchestrator) UpdateOrganization(ctx context.Context, id, name, folderPath string) (*entity.Organization, error) {
	fields := map[string]string{}
	if name != "" {
		fields["name"] = name
	}
	if folderPath != "" {
		fields["folderPath"] = folderPath
	}
	if len(fields) == 0 {
		return nil, kaierrors.ErrValidation("update", "nothing to change")
	}
	org, err := o.api.UpdateOrganization(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	o.store.InvalidateType(store.TypeOrganizations)
	return org, nil
}

// DeleteOrganization deletes an organization. Whether deletion is legal for
// a non-empty organization is the server's call.
func (o *Orchestrator) DeleteOrganization(ctx context.Context, id string) error {
	if err := o.api.DeleteOrganization(ctx, id); err != nil {
		return err
	}
	o.store.InvalidateType(store.TypeOrganizations)
	o.store.InvalidateType(store.TypeWorkspaces)
	o.logger.Info("organization deleted", "id", id)
	return nil
}

// --- Workspaces ---

// CreateWorkspace creates a workspace under an organization.
func (o *Orchestrator) CreateWorkspace(ctx context.Context, organizationID, name, folderPath string) (*entity.Workspace, error) {
	if err := requireField("organization", organizationID); err != nil {
		return nil, err
	}
	if err := requireField("name", name); err != nil {
		return nil, err
	}
	if err := requireField("folderPath", folderPath); err != nil {
		return nil, err
	}
	ws, err := o.api.CreateWorkspace(ctx, organizationID, name, folderPath)
	if err != nil {
		return nil, err
	}
	o.store.InvalidateScope(store.TypeWorkspaces, organizationID)
	o.logger.Info("workspace created", "id", ws.ID, "organization", organizationID)
	return ws, nil
}

// UpdateWorkspace updates a workspace's name and/or folder path.
func (o *Orchestrator) UpdateWorkspace(ctx context.Context, id, name, folderPath string) (*entity.Workspace, error) {
	fields := map[string]string{}
	if name != "" {
		fields["name"] = name
	}
	if folderPath != "" {
		fields["folderPath"] = folderPath
	}
	if len(fields) == 0 {
		return nil, kaierrors.ErrValidation("update", "nothing to change")
	}
	ws, err := o.api.UpdateWorkspace(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	o.store.InvalidateType(store.TypeWorkspaces)
	return ws, nil
}

// DeleteWorkspace deletes a workspace.
func (o *Orchestrator) DeleteWorkspace(ctx context.Context, id string) error {
	if err := o.api.DeleteWorkspace(ctx, id); err != nil {
		return err
	}
	o.store.InvalidateType(store.TypeWorkspaces)
	o.store.InvalidateType(store.TypeProjects)
	o.logger.Info("workspace deleted", "id", id)
	return nil
}

// --- Projects ---

// CreateProject creates a project under a workspace.
func (o *Orchestrator) CreateProject(ctx context.Context, workspaceID, name, folderPath string) (*entity.Project, error) {
	if err := requireField("workspace", workspaceID); err != nil {
		return nil, err
	}
	if err := requireField("name", name); err != nil {
		return nil, err
	}
	if err := requireField("folderPath", folderPath); err != nil {
		return nil, err
	}
	p, err := o.api.CreateProject(ctx, workspaceID, name, folderPath)
	if err != nil {
		return nil, err
	}
	o.store.InvalidateScope(store.TypeProjects, workspaceID)
	o.logger.Info("project created", "id", p.ID, "workspace", workspaceID)
	return p, nil
}

// UpdateProject updates mutable project fields.
func (o *Orchestrator) UpdateProject(ctx context.Context, id string, fields map[string]any) (*entity.Project, error) {
	if len(fields) == 0 {
		return nil, kaierrors.ErrValidation("update", "nothing to change")
	}
	p, err := o.api.UpdateProject(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	o.store.InvalidateType(store.TypeProjects)
	return p, nil
}

// DeleteProject deletes a project. Deleting the folder on disk as well is
// irreversible and therefore gated on the confirmation phrase matching
// DeleteConfirmation exactly, case included; on mismatch no request is
// sent. Plain deletion (metadata only) needs no confirmation.
func (o *Orchestrator) DeleteProject(ctx context.Context, id string, deleteFolder bool, confirmation string) error {
	if deleteFolder && confirmation != DeleteConfirmation {
		return kaierrors.ErrConfirmationMismatch(DeleteConfirmation)
	}
	if err := o.api.DeleteProject(ctx, id, deleteFolder); err != nil {
		return err
	}
	o.store.InvalidateType(store.TypeProjects)
	o.store.InvalidateType(store.TypeSandboxes)
	o.store.InvalidateScope(store.TypeWorkflowState, id)
	o.logger.Info("project deleted", "id", id, "folder_deleted", deleteFolder)
	return nil
}

// MoveProject moves a project to another workspace. The server destroys a
// bound sandbox as part of the move, so the sandbox list is invalidated
// along with the project lists of both workspaces.
func (o *Orchestrator) MoveProject(ctx context.Context, id, oldWorkspaceID, newWorkspaceID string) (*entity.Project, error) {
	if err := requireField("workspace", newWorkspaceID); err != nil {
		return nil, err
	}
	p, err := o.api.MoveProject(ctx, id, newWorkspaceID)
	if err != nil {
		return nil, err
	}
	o.store.InvalidateScope(store.TypeProjects, oldWorkspaceID)
	o.store.InvalidateScope(store.TypeProjects, newWorkspaceID)
	o.store.InvalidateType(store.TypeSandboxes)
	o.logger.Info("project moved", "id", id, "from", oldWorkspaceID, "to", newWorkspaceID)
	return p, nil
}

// --- Sandboxes ---

// CreateSandbox provisions a sandbox container.
func (o *Orchestrator) CreateSandbox(ctx context.Context, req client.SandboxRequest) (*entity.Sandbox, error) {
	if err := requireField("name", req.Name); err != nil {
		return nil, err
	}
	sb, err := o.api.CreateSandbox(ctx, req)
	if err != nil {
		return nil, err
	}
	o.store.InvalidateType(store.TypeSandboxes)
	if req.ProjectID != "" {
		o.store.InvalidateType(store.TypeProjects)
	}
	o.logger.Info("sandbox created", "id", sb.ID, "name", sb.Name)
	return sb, nil
}

// StartSandbox starts a stopped sandbox.
func (o *Orchestrator) StartSandbox(ctx context.Context, id string) error {
	if err := o.api.StartSandbox(ctx, id); err != nil {
		return err
	}
	o.store.InvalidateType(store.TypeSandboxes)
	return nil
}

// StopSandbox stops a running sandbox.
func (o *Orchestrator) StopSandbox(ctx context.Context, id string) error {
	if err := o.api.StopSandbox(ctx, id); err != nil {
		return err
	}
	o.store.InvalidateType(store.TypeSandboxes)
	return nil
}

// DeleteSandbox destroys a sandbox. Project lists are invalidated too since
// a bound project loses its sandbox reference.
func (o *Orchestrator) DeleteSandbox(ctx context.Context, id string) error {
	if err := o.api.DeleteSandbox(ctx, id); err != nil {
		return err
	}
	o.store.InvalidateType(store.TypeSandboxes)
	o.store.InvalidateType(store.TypeProjects)
	o.logger.Info("sandbox deleted", "id", id)
	return nil
}

// --- Workflows ---

// CreateWorkflow creates a workflow.
func (o *Orchestrator) CreateWorkflow(ctx context.Context, req client.WorkflowRequest) (*entity.Workflow, error) {
	if err := requireField("name", req.Name); err != nil {
		return nil, err
	}
	wf, err := o.api.CreateWorkflow(ctx, req)
	if err != nil {
		return nil, err
	}
	o.store.InvalidateType(store.TypeWorkflows)
	return wf, nil
}

// UpdateWorkflow updates a workflow's fields and definition.
func (o *Orchestrator) UpdateWorkflow(ctx context.Context, id string, req client.WorkflowRequest) (*entity.Workflow, error) {
	wf, err := o.api.UpdateWorkflow(ctx, id, req)
	if err != nil {
		return nil, err
	}
	o.store.InvalidateType(store.TypeWorkflows)
	return wf, nil
}

// DeleteWorkflow deletes a workflow.
func (o *Orchestrator) DeleteWorkflow(ctx context.Context, id string) error {
	if err := o.api.DeleteWorkflow(ctx, id); err != nil {
		return err
	}
	o.store.InvalidateType(store.TypeWorkflows)
	return nil
}

// ChangeWorkflowStatus requests a workflow status change. Legal transitions
// are decided server-side; the requested status goes out as-is and an
// illegal one surfaces as the server's API error.
func (o *Orchestrator) ChangeWorkflowStatus(ctx context.Context, id, status string) (*entity.Workflow, error) {
	wf, err := o.api.ChangeWorkflowStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	o.store.InvalidateType(store.TypeWorkflows)
	return wf, nil
}

// CloneWorkflow copies a workflow under a new name.
func (o *Orchestrator) CloneWorkflow(ctx context.Context, id, name string) (*entity.Workflow, error) {
	if err := requireField("name", name); err != nil {
		return nil, err
	}
	wf, err := o.api.CloneWorkflow(ctx, id, name)
	if err != nil {
		return nil, err
	}
	o.store.InvalidateType(store.TypeWorkflows)
	return wf, nil
}

// ImportWorkflow creates a workflow from an exported document.
func (o *Orchestrator) ImportWorkflow(ctx context.Context, doc map[string]any) (*entity.Workflow, error) {
	if len(doc) == 0 {
		return nil, kaierrors.ErrValidation("document", "must not be empty")
	}
	wf, err := o.api.ImportWorkflow(ctx, doc)
	if err != nil {
		return nil, err
	}
	o.store.InvalidateType(store.TypeWorkflows)
	return wf, nil
}

// --- Workflow state ---

// InitializeWorkflowState writes the default starting state for a project.
func (o *Orchestrator) InitializeWorkflowState(ctx context.Context, projectID string) (*entity.Project, error) {
	p, err := o.api.PutWorkflowState(ctx, projectID, progress.InitialState())
	if err != nil {
		return nil, err
	}
	o.invalidateWorkflowState(projectID)
	return p, nil
}

// AdvancePhase moves a project's workflow to nextPhaseID, preserving all
// recorded step statuses and clearing the current step. The transition
// graph is not consulted; any phase ID the caller names is sent.
func (o *Orchestrator) AdvancePhase(ctx context.Context, projectID, nextPhaseID string) (*entity.Project, error) {
	if err := requireField("phase", nextPhaseID); err != nil {
		return nil, err
	}
	state, err := o.store.WorkflowState(ctx, projectID)
	if err != nil {
		return nil, err
	}
	p, err := o.api.PutWorkflowState(ctx, projectID, progress.AdvancePhase(state, nextPhaseID))
	if err != nil {
		return nil, err
	}
	o.invalidateWorkflowState(projectID)
	o.logger.Info("phase advanced", "project", projectID, "phase", nextPhaseID)
	return p, nil
}

// SetStepStatus records one step's status on the server.
func (o *Orchestrator) SetStepStatus(ctx context.Context, projectID, stepID, status string) (*entity.WorkflowState, error) {
	switch status {
	case entity.StepStatusPending, entity.StepStatusInProgress, entity.StepStatusCompleted:
	default:
		return nil, kaierrors.ErrValidation("status",
			"must be one of pending, in-progress, completed")
	}
	state, err := o.api.PatchStepStatus(ctx, projectID, stepID, status)
	if err != nil {
		return nil, err
	}
	o.invalidateWorkflowState(projectID)
	return state, nil
}

func (o *Orchestrator) invalidateWorkflowState(projectID string) {
	o.store.InvalidateScope(store.TypeWorkflowState, projectID)
	o.store.InvalidateType(store.TypeProjects)
}
