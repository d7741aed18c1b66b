// Package watcher delivers live task-execution updates for a project.
//
// The preferred transport is a websocket subscription to the server's event
// stream; when the socket cannot be established the watcher degrades to
// polling the task history at the configured interval and diffing it. Both
// paths stop cleanly on context cancellation.
package watcher

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/kaihub/kai/internal/client"
	"github.com/kaihub/kai/internal/entity"
)

// Event kinds.
const (
	EventTaskStarted = "task-started"
	EventTaskUpdated = "task-updated"
	EventTaskDone    = "task-done"
)

// Event is one task state change.
type Event struct {
	Type string               `json:"type"`
	Task entity.TaskExecution `json:"task"`
}

// Handler receives events. Called from the watcher's goroutine; it must not
// block for long or events back up.
type Handler func(Event)

// Watcher streams task updates for projects.
type Watcher struct {
	api      *client.Client
	baseURL  string
	interval time.Duration
	logger   *slog.Logger
	dialer   *websocket.Dialer
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(w *Watcher) { w.logger = logger }
}

// WithDialer replaces the websocket dialer.
func WithDialer(d *websocket.Dialer) Option {
	return func(w *Watcher) { w.dialer = d }
}

// New creates a watcher. baseURL is the HTTP API base; the websocket URL is
// derived from it. interval is the polling period for the fallback path.
func New(api *client.Client, baseURL string, interval time.Duration, opts ...Option) *Watcher {
	w := &Watcher{
		api:      api,
		baseURL:  strings.TrimRight(baseURL, "/"),
		interval: interval,
		logger:   slog.Default(),
		dialer:   websocket.DefaultDialer,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Watch streams task updates for a project until ctx is cancelled, which is
// the normal way to stop and returns nil. It subscribes over websocket when
// possible and falls back to polling otherwise.
func (w *Watcher) Watch(ctx context.Context, projectID string, handler Handler) error {
	if err := w.subscribe(ctx, projectID, handler); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		w.logger.Warn("event stream unavailable, falling back to polling",
			"project", projectID, "error", err)
		return w.poll(ctx, projectID, handler)
	}
	return nil
}

// socketURL converts the HTTP base URL to the ws endpoint for a project.
func (w *Watcher) socketURL(projectID string) string {
	u := w.baseURL
	if strings.HasPrefix(u, "https://") {
		u = "wss://" + strings.TrimPrefix(u, "https://")
	} else {
		u = "ws://" + strings.TrimPrefix(u, "http://")
	}
	return u + "/api/projects/" + projectID + "/events"
}

// subscribe reads events from the server's websocket stream until ctx is
// cancelled or the connection drops.
func (w *Watcher) subscribe(ctx context.Context, projectID string, handler Handler) error {
	conn, resp, err := w.dialer.DialContext(ctx, w.socketURL(projectID), http.Header{})
	if err != nil {
		return err
	}
	if resp != nil {
		resp.Body.Close()
	}
	defer conn.Close()

	// Unblock ReadMessage when the caller cancels.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	w.logger.Debug("subscribed to event stream", "project", projectID)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil {
			w.logger.Warn("dropping malformed event", "error", err)
			continue
		}
		handler(ev)
	}
}

// poll diffs the task history at the watcher's interval, emitting an event
// per new task or status change.
func (w *Watcher) poll(ctx context.Context, projectID string, handler Handler) error {
	known := make(map[string]string)

	emit := func() error {
		history, err := w.api.ListTasks(ctx, projectID, nil)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			// Transient failures keep the loop alive; the next tick retries.
			w.logger.Warn("task poll failed", "project", projectID, "error", err)
			return nil
		}
		for i := range history.Tasks {
			task := history.Tasks[i]
			prev, seen := known[task.ID]
			if seen && prev == task.Status {
				continue
			}
			known[task.ID] = task.Status
			switch {
			case !seen:
				handler(Event{Type: EventTaskStarted, Task: task})
			case task.IsTerminal():
				handler(Event{Type: EventTaskDone, Task: task})
			default:
				handler(Event{Type: EventTaskUpdated, Task: task})
			}
		}
		return nil
	}

	if err := emit(); err != nil {
		return nil
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := emit(); err != nil {
				return nil
			}
		}
	}
}

// WaitTerminal polls until the given task reaches a terminal status or ctx
// expires, returning the final execution record.
func (w *Watcher) WaitTerminal(ctx context.Context, projectID, taskID string) (*entity.TaskExecution, error) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		history, err := w.api.ListTasks(ctx, projectID, nil)
		if err != nil {
			return nil, err
		}
		for i := range history.Tasks {
			if t := &history.Tasks[i]; t.ID == taskID && t.IsTerminal() {
				return t, nil
			}
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
