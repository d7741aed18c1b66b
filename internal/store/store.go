// Package store is the read side of the entity layer: typed fetchers over
// the API client with per-type TTL caching and explicit invalidation.
//
// Reads go through the cache; mutations live in the mutate package and call
// back into the invalidation helpers here so the next read refetches. The
// cache is also cleared wholesale on logout.
package store

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/kaihub/kai/internal/cache"
	"github.com/kaihub/kai/internal/client"
	"github.com/kaihub/kai/internal/config"
	"github.com/kaihub/kai/internal/entity"
)

// Entity type keys. These name cache key prefixes and select TTLs.
const (
	TypeOrganizations = "organizations"
	TypeWorkspaces    = "workspaces"
	TypeProjects      = "projects"
	TypeSandboxes     = "sandboxes"
	TypeWorkflows     = "workflows"
	TypeWorkflowState = "workflowState"
)

// Store serves entity reads from cache, loading through the API client on
// miss or staleness.
type Store struct {
	api    *client.Client
	cache  *cache.Cache
	cfg    *config.Config
	logger *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// New creates a store over the given client and configuration.
func New(api *client.Client, cfg *config.Config, opts ...Option) *Store {
	s := &Store{
		api:    api,
		cache:  cache.New(),
		cfg:    cfg,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// load runs a typed fetch through the cache. Concurrent callers for the same
// key share one fetch; the winning caller's context governs it.
func load[T any](s *Store, entityType, scopeID string, fn func() (T, error)) (T, error) {
	key := cache.Key(entityType, scopeID)
	v, err := s.cache.GetOrLoad(key, s.cfg.TTLFor(entityType), func() (any, error) {
		s.logger.Debug("loading from API", "key", key)
		return fn()
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// Organizations returns all organizations.
func (s *Store) Organizations(ctx context.Context) ([]entity.Organization, error) {
	return load(s, TypeOrganizations, "", func() ([]entity.Organization, error) {
		return s.api.ListOrganizations(ctx)
	})
}

// Workspaces returns workspaces, scoped to an organization when
// organizationID is non-empty.
func (s *Store) Workspaces(ctx context.Context, organizationID string) ([]entity.Workspace, error) {
	return load(s, TypeWorkspaces, organizationID, func() ([]entity.Workspace, error) {
		return s.api.ListWorkspaces(ctx, organizationID)
	})
}

// Projects returns projects, scoped to a workspace when workspaceID is
// non-empty.
func (s *Store) Projects(ctx context.Context, workspaceID string) ([]entity.Project, error) {
	return load(s, TypeProjects, workspaceID, func() ([]entity.Project, error) {
		return s.api.ListProjects(ctx, workspaceID)
	})
}

// Project returns one project by ID. Project detail is not cached; the
// workflow state embedded in it must reflect mutations immediately.
func (s *Store) Project(ctx context.Context, id string) (*entity.Project, error) {
	return s.api.GetProject(ctx, id)
}

// Sandboxes returns all sandboxes. Sandbox entries carry the shortest TTL
// because container status moves while the entry is cached.
func (s *Store) Sandboxes(ctx context.Context) ([]entity.Sandbox, error) {
	return load(s, TypeSandboxes, "", func() ([]entity.Sandbox, error) {
		return s.api.ListSandboxes(ctx)
	})
}

// Sandbox returns one sandbox by ID. There is no detail endpoint; this scans
// the (cached) list.
func (s *Store) Sandbox(ctx context.Context, id string) (*entity.Sandbox, error) {
	sandboxes, err := s.Sandboxes(ctx)
	if err != nil {
		return nil, err
	}
	return entity.SandboxByID(sandboxes, id), nil
}

// Workflows returns all workflows.
func (s *Store) Workflows(ctx context.Context) ([]entity.Workflow, error) {
	return load(s, TypeWorkflows, "", func() ([]entity.Workflow, error) {
		return s.api.ListWorkflows(ctx)
	})
}

// Workflow returns one workflow with its full definition.
func (s *Store) Workflow(ctx context.Context, id string) (*entity.Workflow, error) {
	return load(s, TypeWorkflows, id, func() (*entity.Workflow, error) {
		return s.api.GetWorkflow(ctx, id)
	})
}

// WorkflowState returns a project's workflow progress record.
func (s *Store) WorkflowState(ctx context.Context, projectID string) (*entity.WorkflowState, error) {
	return load(s, TypeWorkflowState, projectID, func() (*entity.WorkflowState, error) {
		return s.api.GetWorkflowState(ctx, projectID)
	})
}

// SandboxInfo joins a sandbox with the project bound to it and that
// project's workspace. Project and Workspace are nil for unbound sandboxes.
type SandboxInfo struct {
	Sandbox   entity.Sandbox
	Project   *entity.Project
	Workspace *entity.Workspace
}

// SandboxOverview fetches sandboxes, projects, and workspaces concurrently
// and joins them. All three fetches must succeed; a failure in any aborts
// the others and returns the error, never a partial view.
func (s *Store) SandboxOverview(ctx context.Context) ([]SandboxInfo, error) {
	var (
		sandboxes  []entity.Sandbox
		projects   []entity.Project
		workspaces []entity.Workspace
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sandboxes, err = s.Sandboxes(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		projects, err = s.Projects(gctx, "")
		return err
	})
	g.Go(func() error {
		var err error
		workspaces, err = s.Workspaces(gctx, "")
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	infos := make([]SandboxInfo, 0, len(sandboxes))
	for _, sb := range sandboxes {
		info := SandboxInfo{Sandbox: sb}
		if info.Project = entity.ProjectForSandbox(projects, sb.ID); info.Project != nil {
			for i := range workspaces {
				if workspaces[i].ID == info.Project.WorkspaceID {
					info.Workspace = &workspaces[i]
					break
				}
			}
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// --- Invalidation ---

// InvalidateType drops every cached entry for an entity type, scoped lists
// included.
func (s *Store) InvalidateType(entityType string) {
	s.cache.InvalidatePrefix(entityType)
}

// InvalidateScope drops one scoped entry plus the unscoped list for the
// type, since both cover the mutated entity.
func (s *Store) InvalidateScope(entityType, scopeID string) {
	s.cache.Invalidate(cache.Key(entityType, scopeID))
	s.cache.Invalidate(cache.Key(entityType, ""))
}

// Reset drops the whole cache. Called on logout so no entity data survives
// into an unauthenticated session.
func (s *Store) Reset() {
	s.cache.Clear()
}
