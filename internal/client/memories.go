package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/kaihub/kai/internal/entity"
)

// SyncStatus reports the server-side context synchronization state for a
// scope.
type SyncStatus struct {
	Scope      string `json:"scope"`
	ScopeID    string `json:"scopeId"`
	InSync     bool   `json:"inSync"`
	PendingOps int    `json:"pendingOps,omitempty"`
	LastSyncAt string `json:"lastSyncAt,omitempty"`
}

// AddMemory stores a unit of contextual knowledge.
func (c *Client) AddMemory(ctx context.Context, m *entity.Memory) (*entity.Memory, error) {
	var out entity.Memory
	if err := c.do(ctx, http.MethodPost, "/api/context/memories", m, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchMemories performs a server-side semantic search.
func (c *Client) SearchMemories(ctx context.Context, req entity.MemorySearchRequest) ([]entity.Memory, error) {
	var out []entity.Memory
	if err := c.do(ctx, http.MethodPost, "/api/context/search", req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListMemories fetches memories for one scope level of the hierarchy.
func (c *Client) ListMemories(ctx context.Context, scope, scopeID string) ([]entity.Memory, error) {
	path := "/api/context/" + url.PathEscape(scope) + "/" + url.PathEscape(scopeID) + "/memories"
	var out []entity.Memory
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ImportMemories triggers a server-side import for a scope.
func (c *Client) ImportMemories(ctx context.Context, scope, scopeID string) error {
	path := "/api/context/import/" + url.PathEscape(scope) + "/" + url.PathEscape(scopeID)
	return c.do(ctx, http.MethodPost, path, nil, nil)
}

// GetSyncStatus fetches the context sync status for a scope.
func (c *Client) GetSyncStatus(ctx context.Context, scope, scopeID string) (*SyncStatus, error) {
	path := "/api/context/sync/" + url.PathEscape(scope) + "/" + url.PathEscape(scopeID)
	var out SyncStatus
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TriggerSync starts a context sync for a scope.
func (c *Client) TriggerSync(ctx context.Context, scope, scopeID string) error {
	path := "/api/context/sync/" + url.PathEscape(scope) + "/" + url.PathEscape(scopeID)
	return c.do(ctx, http.MethodPost, path, nil, nil)
}
