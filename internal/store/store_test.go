package store

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaihub/kai/internal/client"
	"github.com/kaihub/kai/internal/config"
	"github.com/kaihub/kai/internal/entity"
)

type fakeAPI struct {
	mux      *http.ServeMux
	orgHits  atomic.Int64
	projHits atomic.Int64
	sbHits   atomic.Int64
	wsHits   atomic.Int64
}

func newFakeAPI() *fakeAPI {
	f := &fakeAPI{mux: http.NewServeMux()}
	f.mux.HandleFunc("GET /api/organizations", func(w http.ResponseWriter, r *http.Request) {
		f.orgHits.Add(1)
		json.NewEncoder(w).Encode([]entity.Organization{{ID: "o1", Name: "Acme"}})
	})
	f.mux.HandleFunc("GET /api/workspaces", func(w http.ResponseWriter, r *http.Request) {
		f.wsHits.Add(1)
		json.NewEncoder(w).Encode([]entity.Workspace{{ID: "w1", OrganizationID: "o1", Name: "Core"}})
	})
	f.mux.HandleFunc("GET /api/projects", func(w http.ResponseWriter, r *http.Request) {
		f.projHits.Add(1)
		json.NewEncoder(w).Encode([]entity.Project{
			{ID: "p1", WorkspaceID: "w1", Name: "App", SandboxID: "sb1"},
			{ID: "p2", WorkspaceID: "w1", Name: "Lib"},
		})
	})
	f.mux.HandleFunc("GET /api/flexy", func(w http.ResponseWriter, r *http.Request) {
		f.sbHits.Add(1)
		json.NewEncoder(w).Encode([]entity.Sandbox{
			{ID: "sb1", Name: "app-box", Status: entity.SandboxStatusRunning},
			{ID: "sb2", Name: "spare-box", Status: entity.SandboxStatusStopped},
		})
	})
	return f
}

func newTestStore(t *testing.T, handler http.Handler) *Store {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	api, err := client.New(srv.URL)
	require.NoError(t, err)
	return New(api, config.Default())
}

func TestOrganizations_CachedAcrossCalls(t *testing.T) {
	f := newFakeAPI()
	s := newTestStore(t, f.mux)
	ctx := context.Background()

	first, err := s.Organizations(ctx)
	require.NoError(t, err)
	second, err := s.Organizations(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.EqualValues(t, 1, f.orgHits.Load(), "second read must come from cache")
}

func TestOrganizations_ConcurrentReadsShareOneFetch(t *testing.T) {
	f := newFakeAPI()
	s := newTestStore(t, f.mux)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Organizations(context.Background())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, f.orgHits.Load(), "concurrent reads must coalesce")
}

func TestInvalidateScope_ForcesRefetch(t *testing.T) {
	f := newFakeAPI()
	s := newTestStore(t, f.mux)
	ctx := context.Background()

	_, err := s.Projects(ctx, "")
	require.NoError(t, err)
	_, err = s.Projects(ctx, "")
	require.NoError(t, err)
	require.EqualValues(t, 1, f.projHits.Load())

	s.InvalidateScope(TypeProjects, "")
	_, err = s.Projects(ctx, "")
	require.NoError(t, err)
	assert.EqualValues(t, 2, f.projHits.Load(), "invalidation must bypass remaining TTL")
}

func TestInvalidateType_DropsScopedEntries(t *testing.T) {
	f := newFakeAPI()
	s := newTestStore(t, f.mux)
	ctx := context.Background()

	_, err := s.Workspaces(ctx, "")
	require.NoError(t, err)
	require.EqualValues(t, 1, f.wsHits.Load())

	s.InvalidateType(TypeWorkspaces)
	_, err = s.Workspaces(ctx, "")
	require.NoError(t, err)
	assert.EqualValues(t, 2, f.wsHits.Load())
}

func TestReset_ClearsEverything(t *testing.T) {
	f := newFakeAPI()
	s := newTestStore(t, f.mux)
	ctx := context.Background()

	_, err := s.Organizations(ctx)
	require.NoError(t, err)
	_, err = s.Sandboxes(ctx)
	require.NoError(t, err)

	s.Reset()

	_, err = s.Organizations(ctx)
	require.NoError(t, err)
	_, err = s.Sandboxes(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, f.orgHits.Load())
	assert.EqualValues(t, 2, f.sbHits.Load())
}

func TestSandbox_ScansCachedList(t *testing.T) {
	f := newFakeAPI()
	s := newTestStore(t, f.mux)
	ctx := context.Background()

	sb, err := s.Sandbox(ctx, "sb2")
	require.NoError(t, err)
	require.NotNil(t, sb)
	assert.Equal(t, "spare-box", sb.Name)

	missing, err := s.Sandbox(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
	assert.EqualValues(t, 1, f.sbHits.Load(), "both lookups share one list fetch")
}

func TestSandboxOverview_JoinsHierarchy(t *testing.T) {
	f := newFakeAPI()
	s := newTestStore(t, f.mux)

	infos, err := s.SandboxOverview(context.Background())
	require.NoError(t, err)
	require.Len(t, infos, 2)

	bound := infos[0]
	assert.Equal(t, "sb1", bound.Sandbox.ID)
	require.NotNil(t, bound.Project)
	assert.Equal(t, "p1", bound.Project.ID)
	require.NotNil(t, bound.Workspace)
	assert.Equal(t, "w1", bound.Workspace.ID)

	unbound := infos[1]
	assert.Equal(t, "sb2", unbound.Sandbox.ID)
	assert.Nil(t, unbound.Project)
	assert.Nil(t, unbound.Workspace)
}

func TestSandboxOverview_AllOrNothing(t *testing.T) {
	f := newFakeAPI()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/flexy", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"sandbox backend down"}`, http.StatusServiceUnavailable)
	})
	mux.Handle("/", f.mux)
	s := newTestStore(t, mux)

	infos, err := s.SandboxOverview(context.Background())
	require.Error(t, err)
	assert.Nil(t, infos, "a failed leg must not yield a partial view")
}

func TestWorkflowState_Cached(t *testing.T) {
	var hits atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/projects/p1/workflow", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		json.NewEncoder(w).Encode(entity.WorkflowState{
			CurrentPhaseID: "rapid-prototyping",
			StepStatuses:   map[string]string{"trigger": "in-progress"},
		})
	})
	s := newTestStore(t, mux)
	ctx := context.Background()

	state, err := s.WorkflowState(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "rapid-prototyping", state.CurrentPhaseID)

	_, err = s.WorkflowState(ctx, "p1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, hits.Load())
}
