package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/kaihub/kai/internal/entity"
)

// AdhocTaskRequest is the payload for a one-off task execution.
type AdhocTaskRequest struct {
	Title            string         `json:"title"`
	Description      string         `json:"description,omitempty"`
	Prompt           string         `json:"prompt"`
	Parameters       map[string]any `json:"parameters,omitempty"`
	ContextMemoryIDs []string       `json:"contextMemoryIds,omitempty"`
}

// StepExecutionRequest is the payload for executing a workflow step's task.
type StepExecutionRequest struct {
	AdditionalInput string         `json:"additionalInput,omitempty"`
	Parameters      map[string]any `json:"parameters,omitempty"`
}

// TaskStarted is the acknowledgment for an execution request; the task runs
// asynchronously in the project's sandbox.
type TaskStarted struct {
	TaskID  string `json:"taskId"`
	StepID  string `json:"stepId,omitempty"`
	Message string `json:"message,omitempty"`
}

// ExecuteStep runs a workflow step's executable task in the project sandbox.
func (c *Client) ExecuteStep(ctx context.Context, projectID, stepID string, req StepExecutionRequest) (*TaskStarted, error) {
	path := "/api/projects/" + url.PathEscape(projectID) + "/workflow/steps/" + url.PathEscape(stepID) + "/execute"
	var out TaskStarted
	if err := c.do(ctx, http.MethodPost, path, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ExecuteAdhocTask runs a one-off task in the project sandbox.
func (c *Client) ExecuteAdhocTask(ctx context.Context, projectID string, req AdhocTaskRequest) (*TaskStarted, error) {
	path := "/api/projects/" + url.PathEscape(projectID) + "/tasks/adhoc"
	var out TaskStarted
	if err := c.do(ctx, http.MethodPost, path, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListTasks fetches a project's task history with optional filters.
func (c *Client) ListTasks(ctx context.Context, projectID string, filter *entity.TaskFilter) (*entity.TaskHistory, error) {
	path := "/api/projects/" + url.PathEscape(projectID) + "/tasks"
	if filter != nil {
		params := url.Values{}
		for _, s := range filter.Status {
			params.Add("status", s)
		}
		if filter.Type != "" {
			params.Set("type", filter.Type)
		}
		if filter.Search != "" {
			params.Set("search", filter.Search)
		}
		if filter.Limit > 0 {
			params.Set("limit", strconv.Itoa(filter.Limit))
		}
		if encoded := params.Encode(); encoded != "" {
			path += "?" + encoded
		}
	}

	var out entity.TaskHistory
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CancelTask requests cancellation of a queued or running task.
func (c *Client) CancelTask(ctx context.Context, projectID, taskID string) error {
	path := "/api/projects/" + url.PathEscape(projectID) + "/tasks/" + url.PathEscape(taskID) + "/cancel"
	return c.do(ctx, http.MethodPost, path, nil, nil)
}
