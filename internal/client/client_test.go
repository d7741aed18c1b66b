package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	kaierrors "github.com/kaihub/kai/internal/errors"
	"github.com/kaihub/kai/internal/entity"
)

func newTestClient(t *testing.T, handler http.Handler, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	opts = append([]Option{WithTokenSource(TokenFunc(func() string { return "tok-1" }))}, opts...)
	c, err := New(srv.URL, opts...)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestDo_AttachesAuthAndRequestID(t *testing.T) {
	var gotAuth, gotReqID string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotReqID = r.Header.Get("X-Request-ID")
		json.NewEncoder(w).Encode([]entity.Organization{})
	}))

	if _, err := c.ListOrganizations(context.Background()); err != nil {
		t.Fatalf("list: %v", err)
	}
	if gotAuth != "Bearer tok-1" {
		t.Errorf("auth header = %q", gotAuth)
	}
	if gotReqID == "" {
		t.Error("expected a request ID header")
	}
}

func TestDo_UnauthorizedFiresCallbackOnce(t *testing.T) {
	calls := 0
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}), WithOnUnauthorized(func() { calls++ }))

	_, err := c.ListProjects(context.Background(), "")
	if !errors.Is(err, kaierrors.ErrUnauthenticated()) {
		t.Fatalf("expected auth error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected callback once, got %d", calls)
	}
}

func TestDo_ForbiddenAlsoFiresCallback(t *testing.T) {
	fired := false
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}), WithOnUnauthorized(func() { fired = true }))

	if _, err := c.GetProject(context.Background(), "p1"); err == nil {
		t.Fatal("expected error")
	}
	if !fired {
		t.Error("403 must trigger the unauthorized callback")
	}
}

func TestDo_APIErrorCarriesServerMessage(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"message": "workspace is not empty"}`))
	}))

	_, err := c.CreateProject(context.Background(), "w1", "App", "app")
	kaiErr := kaierrors.AsKaiError(err)
	if kaiErr == nil {
		t.Fatalf("expected KaiError, got %v", err)
	}
	if kaiErr.HTTPStatus != http.StatusConflict {
		t.Errorf("status = %d", kaiErr.HTTPStatus)
	}
	if kaiErr.What != "workspace is not empty" {
		t.Errorf("server message not surfaced verbatim: %q", kaiErr.What)
	}
}

func TestDo_APIErrorToleratesNonJSONBody(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>gateway error</html>"))
	}))

	_, err := c.ListSandboxes(context.Background())
	kaiErr := kaierrors.AsKaiError(err)
	if kaiErr == nil || kaiErr.HTTPStatus != http.StatusBadGateway {
		t.Fatalf("expected API error with status, got %v", err)
	}
}

func TestDo_NetworkError(t *testing.T) {
	c, err := New("http://127.0.0.1:1")
	if err != nil {
		t.Fatal(err)
	}
	_, err = c.ListOrganizations(context.Background())
	kaiErr := kaierrors.AsKaiError(err)
	if kaiErr == nil || kaiErr.Code != kaierrors.CodeNetwork {
		t.Fatalf("expected network error, got %v", err)
	}
}

func TestDo_NoContent(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	if err := c.DeleteSandbox(context.Background(), "s1"); err != nil {
		t.Errorf("204 should succeed: %v", err)
	}
}

func TestMoveProject_Body(t *testing.T) {
	var gotPath string
	var gotBody map[string]string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(entity.Project{ID: "p1", WorkspaceID: "w2"})
	}))

	p, err := c.MoveProject(context.Background(), "p1", "w2")
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if gotPath != "/api/projects/p1/move" {
		t.Errorf("path = %s", gotPath)
	}
	if gotBody["newWorkspaceId"] != "w2" {
		t.Errorf("body = %v", gotBody)
	}
	if p.WorkspaceID != "w2" {
		t.Errorf("project not decoded: %+v", p)
	}
}

func TestDeleteProject_FolderFlag(t *testing.T) {
	var gotQuery string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.WriteHeader(http.StatusNoContent)
	}))

	if err := c.DeleteProject(context.Background(), "p1", true); err != nil {
		t.Fatal(err)
	}
	if gotQuery != "deleteFolder=true" {
		t.Errorf("query = %q", gotQuery)
	}

	if err := c.DeleteProject(context.Background(), "p1", false); err != nil {
		t.Fatal(err)
	}
	if gotQuery != "" {
		t.Errorf("expected no query without folder deletion, got %q", gotQuery)
	}
}

func TestListTasks_FilterQuery(t *testing.T) {
	var gotURL string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotURL = r.URL.String()
		json.NewEncoder(w).Encode(entity.TaskHistory{})
	}))

	filter := &entity.TaskFilter{
		Status: []string{"running", "queued"},
		Type:   "adhoc",
		Limit:  10,
	}
	if _, err := c.ListTasks(context.Background(), "p1", filter); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"status=running", "status=queued", "type=adhoc", "limit=10"} {
		if !strings.Contains(gotURL, want) {
			t.Errorf("URL %q missing %q", gotURL, want)
		}
	}
}

func TestGetWorkflowState(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/projects/p1/workflow" {
			t.Errorf("path = %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(entity.WorkflowState{
			CurrentPhaseID: "rapid-prototyping",
			StepStatuses:   map[string]string{"trigger": "completed"},
		})
	}))

	state, err := c.GetWorkflowState(context.Background(), "p1")
	if err != nil {
		t.Fatal(err)
	}
	if state.StepStatuses["trigger"] != "completed" {
		t.Errorf("state = %+v", state)
	}
}

func TestNew_RequiresBaseURL(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Error("expected error for empty base URL")
	}
}

func TestNew_TrimsTrailingSlash(t *testing.T) {
	c, err := New("http://example.com/")
	if err != nil {
		t.Fatal(err)
	}
	if c.baseURL != "http://example.com" {
		t.Errorf("baseURL = %q", c.baseURL)
	}
}
