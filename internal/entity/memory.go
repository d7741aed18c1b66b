package entity

// Memory scope constants. Scopes mirror the entity hierarchy but memories
// are stored independently server-side.
const (
	ScopeOrganization = "organization"
	ScopeWorkspace    = "workspace"
	ScopeProject      = "project"
	ScopeTask         = "task"
)

// Memory is a unit of contextual knowledge stored server-side.
type Memory struct {
	ID       string         `json:"id"`
	Memory   string         `json:"memory"`
	Metadata MemoryMetadata `json:"metadata"`
}

// MemoryMetadata describes where a memory sits in the hierarchy and how it
// may be retrieved.
type MemoryMetadata struct {
	Hierarchy  string   `json:"hierarchy,omitempty"`
	MemoryType string   `json:"memory_type,omitempty"`
	Scope      string   `json:"scope"`
	Visibility string   `json:"visibility,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	Source     string   `json:"source,omitempty"`
}

// MemorySearchRequest is the payload for the context search endpoint.
type MemorySearchRequest struct {
	Query   string   `json:"query"`
	Scope   string   `json:"scope,omitempty"`
	ScopeID string   `json:"scopeId,omitempty"`
	Tags    []string `json:"tags,omitempty"`
	Limit   int      `json:"limit,omitempty"`
}
