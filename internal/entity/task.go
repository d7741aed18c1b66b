package entity

import "time"

// Task execution status constants.
const (
	TaskStatusPending   = "pending"
	TaskStatusQueued    = "queued"
	TaskStatusRunning   = "running"
	TaskStatusCompleted = "completed"
	TaskStatusFailed    = "failed"
	TaskStatusCancelled = "cancelled"
)

// TaskExecution is one invocation of an AI-driven action inside a project's
// sandbox, either tied to a workflow step or ad-hoc. Produced by the remote
// task subsystem; the client only displays and re-triggers these.
type TaskExecution struct {
	ID        string         `json:"id"`
	StepID    string         `json:"stepId,omitempty"`
	IsAdhoc   bool           `json:"isAdhoc,omitempty"`
	Title     string         `json:"title"`
	Prompt    string         `json:"prompt,omitempty"`
	Status    string         `json:"status"`
	StartTime time.Time      `json:"startTime"`
	Duration  float64        `json:"duration,omitempty"`
	Artifacts []TaskArtifact `json:"artifacts,omitempty"`
	Error     string         `json:"error,omitempty"`
}

// TaskArtifact is a file or output produced by a task execution.
type TaskArtifact struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Size int64  `json:"size,omitempty"`
}

// IsTerminal reports whether the execution has finished.
func (t *TaskExecution) IsTerminal() bool {
	switch t.Status {
	case TaskStatusCompleted, TaskStatusFailed, TaskStatusCancelled:
		return true
	}
	return false
}

// TaskFilter narrows a task history listing.
type TaskFilter struct {
	Status []string
	Type   string
	Search string
	Limit  int
}

// TaskHistory is the paginated task listing response.
type TaskHistory struct {
	Tasks []TaskExecution `json:"tasks"`
	Total int             `json:"total"`
}
