// Package navstate tracks per-view navigation state: hierarchy selection,
// expansion, search, sort, and view mode.
//
// Each named view context gets its own independent state. Display
// preferences (view mode, search, sort) and tree expansion persist across
// sessions in a local sqlite database; selection is deliberately
// session-only, so a new session starts with nothing selected and rebuilds
// its position from fresh entity data.
package navstate

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// View modes.
const (
	ViewModeGrid = "grid"
	ViewModeList = "list"
)

// Sort orders.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// Prefs holds a view's display preferences.
type Prefs struct {
	ViewMode    string `json:"viewMode"`
	SearchQuery string `json:"searchQuery"`
	SortBy      string `json:"sortBy"`
	SortOrder   string `json:"sortOrder"`
}

// record is the full persisted slice of a view's state: preferences plus
// tree expansion. Selection is excluded on purpose.
type record struct {
	Prefs              Prefs           `json:"prefs"`
	ExpandedOrgs       map[string]bool `json:"expandedOrganizations,omitempty"`
	ExpandedWorkspaces map[string]bool `json:"expandedWorkspaces,omitempty"`
}

// DefaultPrefs returns the state a view starts with before anything is
// persisted for it.
func DefaultPrefs() Prefs {
	return Prefs{
		ViewMode:  ViewModeGrid,
		SortBy:    "name",
		SortOrder: SortAsc,
	}
}

// Manager owns the preference database and hands out per-context view
// states.
type Manager struct {
	db *sql.DB

	mu    sync.Mutex
	views map[string]*View
}

// Open opens (creating if needed) the preference database at path.
func Open(path string) (*Manager, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open nav state db: %w", err)
	}
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS view_prefs (
			context    TEXT PRIMARY KEY,
			prefs      TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("init nav state schema: %w", err)
	}
	return &Manager{db: db, views: make(map[string]*View)}, nil
}

// Close closes the preference database.
func (m *Manager) Close() error {
	return m.db.Close()
}

// View returns the state for a named view context, loading its persisted
// preferences on first access. The same *View is returned for repeated
// calls with the same name.
func (m *Manager) View(name string) (*View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if v, ok := m.views[name]; ok {
		return v, nil
	}

	v := &View{
		name:               name,
		db:                 m.db,
		prefs:              DefaultPrefs(),
		expandedOrgs:       make(map[string]bool),
		expandedWorkspaces: make(map[string]bool),
	}

	var raw string
	err := m.db.QueryRow(`SELECT prefs FROM view_prefs WHERE context = ?`, name).Scan(&raw)
	switch {
	case err == sql.ErrNoRows:
		// First use of this context; defaults apply.
	case err != nil:
		return nil, fmt.Errorf("load prefs for %q: %w", name, err)
	default:
		var rec record
		if err := json.Unmarshal([]byte(raw), &rec); err != nil || rec.Prefs == (Prefs{}) {
			// A corrupt row falls back to defaults rather than blocking the view.
			break
		}
		v.prefs = rec.Prefs
		if rec.ExpandedOrgs != nil {
			v.expandedOrgs = rec.ExpandedOrgs
		}
		if rec.ExpandedWorkspaces != nil {
			v.expandedWorkspaces = rec.ExpandedWorkspaces
		}
	}

	m.views[name] = v
	return v, nil
}

// View is the navigation state for one view context. Safe for concurrent
// use.
type View struct {
	name string
	db   *sql.DB

	mu    sync.Mutex
	prefs Prefs

	selectedOrg       string
	selectedWorkspace string
	selectedProject   string

	expandedOrgs       map[string]bool
	expandedWorkspaces map[string]bool
}

// Prefs returns a copy of the current display preferences.
func (v *View) Prefs() Prefs {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.prefs
}

// SetViewMode switches between grid and list rendering.
func (v *View) SetViewMode(mode string) error {
	return v.updatePrefs(func(p *Prefs) { p.ViewMode = mode })
}

// SetSearch updates the free-text filter query.
func (v *View) SetSearch(query string) error {
	return v.updatePrefs(func(p *Prefs) { p.SearchQuery = query })
}

// SetSort updates the sort field and order.
func (v *View) SetSort(by, order string) error {
	return v.updatePrefs(func(p *Prefs) {
		p.SortBy = by
		p.SortOrder = order
	})
}

func (v *View) updatePrefs(apply func(*Prefs)) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	apply(&v.prefs)
	return v.persist()
}

// persist writes the durable slice of the view's state. Caller holds v.mu.
func (v *View) persist() error {
	raw, err := json.Marshal(record{
		Prefs:              v.prefs,
		ExpandedOrgs:       v.expandedOrgs,
		ExpandedWorkspaces: v.expandedWorkspaces,
	})
	if err != nil {
		return fmt.Errorf("encode prefs: %w", err)
	}
	_, err = v.db.Exec(`
		INSERT INTO view_prefs (context, prefs, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(context) DO UPDATE SET prefs = excluded.prefs, updated_at = excluded.updated_at`,
		v.name, string(raw), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("persist prefs for %q: %w", v.name, err)
	}
	return nil
}

// SelectOrganization sets the selected organization. Re-selecting the
// current one is a no-op; selecting a different one clears the workspace
// and project selections, which belong to the old subtree.
func (v *View) SelectOrganization(id string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.selectedOrg == id {
		return
	}
	v.selectedOrg = id
	v.selectedWorkspace = ""
	v.selectedProject = ""
}

// SelectWorkspace sets the selected workspace. Re-selecting the current one
// is a no-op; selecting a different one clears the project selection.
func (v *View) SelectWorkspace(id string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.selectedWorkspace == id {
		return
	}
	v.selectedWorkspace = id
	v.selectedProject = ""
}

// SelectProject sets the selected project.
func (v *View) SelectProject(id string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.selectedProject = id
}

// Selection returns the selected organization, workspace, and project IDs.
// Empty strings mean nothing is selected at that level.
func (v *View) Selection() (orgID, workspaceID, projectID string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.selectedOrg, v.selectedWorkspace, v.selectedProject
}

// ClearSelection drops the whole selection, as on logout.
func (v *View) ClearSelection() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.selectedOrg = ""
	v.selectedWorkspace = ""
	v.selectedProject = ""
}

// ToggleOrganization flips an organization's tree expansion and persists it.
func (v *View) ToggleOrganization(id string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.expandedOrgs[id] = !v.expandedOrgs[id]
	return v.persist()
}

// ToggleWorkspace flips a workspace's tree expansion and persists it.
func (v *View) ToggleWorkspace(id string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.expandedWorkspaces[id] = !v.expandedWorkspaces[id]
	return v.persist()
}

// OrganizationExpanded reports whether an organization's subtree is open.
func (v *View) OrganizationExpanded(id string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.expandedOrgs[id]
}

// WorkspaceExpanded reports whether a workspace's subtree is open.
func (v *View) WorkspaceExpanded(id string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.expandedWorkspaces[id]
}
