package watcher

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaihub/kai/internal/client"
	"github.com/kaihub/kai/internal/entity"
)

type eventSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *eventSink) handle(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	s.mu.Unlock()
}

func (s *eventSink) snapshot() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Event(nil), s.events...)
}

func (s *eventSink) waitFor(t *testing.T, n int) []Event {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		if evs := s.snapshot(); len(evs) >= n {
			return evs
		}
		select {
		case <-deadline:
			t.Fatalf("timed out waiting for %d events, have %d", n, len(s.snapshot()))
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestPoll_EmitsStartAndTerminalEvents(t *testing.T) {
	var mu sync.Mutex
	status := entity.TaskStatusRunning

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/projects/p1/tasks", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		json.NewEncoder(w).Encode(entity.TaskHistory{
			Tasks: []entity.TaskExecution{{ID: "t1", Title: "build", Status: status}},
			Total: 1,
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	api, err := client.New(srv.URL)
	require.NoError(t, err)
	w := New(api, srv.URL, 20*time.Millisecond)

	sink := &eventSink{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Watch(ctx, "p1", sink.handle) }()

	evs := sink.waitFor(t, 1)
	assert.Equal(t, EventTaskStarted, evs[0].Type)
	assert.Equal(t, "t1", evs[0].Task.ID)

	mu.Lock()
	status = entity.TaskStatusCompleted
	mu.Unlock()

	evs = sink.waitFor(t, 2)
	assert.Equal(t, EventTaskDone, evs[1].Type)
	assert.Equal(t, entity.TaskStatusCompleted, evs[1].Task.Status)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err, "cancellation is the normal stop")
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop on cancellation")
	}
}

func TestPoll_UnchangedStatusEmitsNothing(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/projects/p1/tasks", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(entity.TaskHistory{
			Tasks: []entity.TaskExecution{{ID: "t1", Status: entity.TaskStatusRunning}},
			Total: 1,
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	api, err := client.New(srv.URL)
	require.NoError(t, err)
	w := New(api, srv.URL, 15*time.Millisecond)

	sink := &eventSink{}
	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()
	require.NoError(t, w.Watch(ctx, "p1", sink.handle))

	assert.Len(t, sink.snapshot(), 1, "repeat polls of an unchanged task must stay silent")
}

func TestSubscribe_DeliversSocketEvents(t *testing.T) {
	upgrader := websocket.Upgrader{}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/projects/p1/events", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		conn.WriteJSON(Event{Type: EventTaskStarted, Task: entity.TaskExecution{ID: "t9", Status: entity.TaskStatusRunning}})
		conn.WriteJSON(Event{Type: EventTaskDone, Task: entity.TaskExecution{ID: "t9", Status: entity.TaskStatusCompleted}})
		// Hold the connection open until the client goes away.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	api, err := client.New(srv.URL)
	require.NoError(t, err)
	w := New(api, srv.URL, time.Second)

	sink := &eventSink{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Watch(ctx, "p1", sink.handle) }()

	evs := sink.waitFor(t, 2)
	assert.Equal(t, EventTaskStarted, evs[0].Type)
	assert.Equal(t, "t9", evs[0].Task.ID)
	assert.Equal(t, EventTaskDone, evs[1].Type)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop on cancellation")
	}
}

func TestWatch_FallsBackToPollingWithoutSocket(t *testing.T) {
	mux := http.NewServeMux()
	// No websocket endpoint; the dial fails and polling takes over.
	mux.HandleFunc("GET /api/projects/p1/tasks", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(entity.TaskHistory{
			Tasks: []entity.TaskExecution{{ID: "t1", Status: entity.TaskStatusQueued}},
			Total: 1,
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	api, err := client.New(srv.URL)
	require.NoError(t, err)
	w := New(api, srv.URL, 20*time.Millisecond)

	sink := &eventSink{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Watch(ctx, "p1", sink.handle)

	evs := sink.waitFor(t, 1)
	assert.Equal(t, EventTaskStarted, evs[0].Type)
}

func TestWaitTerminal(t *testing.T) {
	var mu sync.Mutex
	status := entity.TaskStatusRunning

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/projects/p1/tasks", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		json.NewEncoder(w).Encode(entity.TaskHistory{
			Tasks: []entity.TaskExecution{{ID: "t1", Status: status, Error: ""}},
			Total: 1,
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	api, err := client.New(srv.URL)
	require.NoError(t, err)
	w := New(api, srv.URL, 15*time.Millisecond)

	go func() {
		time.Sleep(40 * time.Millisecond)
		mu.Lock()
		status = entity.TaskStatusFailed
		mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	task, err := w.WaitTerminal(ctx, "p1", "t1")
	require.NoError(t, err)
	assert.Equal(t, entity.TaskStatusFailed, task.Status)
}
