package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"migration-console/internal/adapter/notification"
	"migration-console/internal/core/configeditor"
	"migration-console/internal/core/refresh"
	"migration-console/internal/core/workspace"
	"migration-console/internal/model"
	"migration-console/internal/pkg/config"
	"migration-console/internal/pkg/database"
	"migration-console/internal/pkg/httpclient"
	"migration-console/internal/repository"
	"migration-console/internal/service"
	"migration-console/internal/state"
	"migration-console/pkg/responses"
)

type backendCall struct {
	Method string
	Path   string
	Body   map[string]interface{}
}

// fakeBackend 按 "METHOD /path" 返回固定 JSON
type fakeBackend struct {
	mu     sync.Mutex
	calls  []backendCall
	routes map[string]string
}

func (fb *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	call := backendCall{Method: r.Method, Path: r.URL.Path}
	_ = json.NewDecoder(r.Body).Decode(&call.Body)

	fb.mu.Lock()
	fb.calls = append(fb.calls, call)
	body, ok := fb.routes[r.Method+" "+r.URL.Path]
	fb.mu.Unlock()

	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, body)
}

func (fb *fakeBackend) on(route, body string) {
	fb.mu.Lock()
	fb.routes[route] = body
	fb.mu.Unlock()
}

func (fb *fakeBackend) find(method, path string) (backendCall, bool) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	for i := len(fb.calls) - 1; i >= 0; i-- {
		if fb.calls[i].Method == method && fb.calls[i].Path == path {
			return fb.calls[i], true
		}
	}
	return backendCall{}, false
}

type testEnv struct {
	engine  *gin.Engine
	backend *fakeBackend
	bus     *refresh.Bus
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	fb := &fakeBackend{routes: map[string]string{}}
	srv := httptest.NewServer(fb)
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		Server:  config.ServerConfig{Mode: "test"},
		Backend: config.BackendConfig{BaseURL: srv.URL, Timeout: "5s", RetryDelay: "1ms"},
		State:   config.StateConfig{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "state.db")},
	}

	db, err := database.Open(&cfg.State)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	client, err := httpclient.New(&cfg.Backend, nil)
	require.NoError(t, err)

	bus := refresh.NewBus(nil)
	repo := repository.NewPreferenceRepository(db)
	selection := state.NewSelection(repo, bus, nil)
	services := service.NewServices(client)

	engine := Setup(cfg, &Deps{
		Services:    services,
		Selection:   selection,
		Preferences: state.NewPreferences(repo),
		Panel:       state.NewPanel(bus),
		Workspace:   workspace.New(services, selection, bus, nil),
		Configs:     configeditor.NewManager(services.ConfigEditors, services.SourceDbs, bus, nil),
		Bus:         bus,
		Notifier:    notification.NewBusNotifier(bus),
	}, nil)

	return &testEnv{engine: engine, backend: fb, bus: bus}
}

type envelope struct {
	Code    int                 `json:"code"`
	Message string              `json:"message"`
	Kind    string              `json:"kind"`
	Errors  map[string][]string `json:"errors"`
	Data    json.RawMessage     `json:"data"`
	Label   string              `json:"label"`
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func (e *testEnv) selectProject(t *testing.T, id int64, name string) {
	t.Helper()
	e.backend.on(fmt.Sprintf("GET /api/projects/%d", id), fmt.Sprintf(`{"id": %d, "name": %q}`, id, name))
	_, env := e.do(t, http.MethodPut, "/api/v1/selection/project", map[string]int64{"project_id": id})
	require.Equal(t, responses.CodeSuccess, env.Code, env.Message)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	w, _ := env.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(httpclient.HeaderRequestID))
}

func TestCreateWaveWithoutProject(t *testing.T) {
	env := newTestEnv(t)

	w, res := env.do(t, http.MethodPost, "/api/v1/waves", map[string]string{"name": "Wave 1"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, responses.CodeBadRequest, res.Code)

	_, called := env.backend.find(http.MethodPost, "/api/waves")
	assert.False(t, called)
}

func TestCreateWaveNameTooLong(t *testing.T) {
	env := newTestEnv(t)
	env.selectProject(t, 42, "Proj")

	_, res := env.do(t, http.MethodPost, "/api/v1/waves", map[string]string{"name": strings.Repeat("w", 31)})
	assert.Equal(t, responses.CodeValidationError, res.Code)
	assert.Equal(t, "validation", res.Kind)
	assert.Contains(t, res.Errors, "name")
}

func TestCreateWaveUsesSelectedProject(t *testing.T) {
	env := newTestEnv(t)
	env.selectProject(t, 42, "Proj")
	env.backend.on("POST /api/waves", `{"id": 11, "name": "Wave 1", "project_id": 42, "mappings_count": 0,
		"status_rate": {"deployed": 0, "failed": 0, "undeployed": 0}}`)

	toasts := env.bus.Subscribe(refresh.TopicNotification)
	defer toasts.Close()

	_, res := env.do(t, http.MethodPost, "/api/v1/waves", map[string]interface{}{"name": "Wave 1", "project_id": 7})
	require.Equal(t, responses.CodeSuccess, res.Code, res.Message)

	call, ok := env.backend.find(http.MethodPost, "/api/waves")
	require.True(t, ok)
	assert.Equal(t, map[string]interface{}{"name": "Wave 1", "project_id": float64(42)}, call.Body)

	select {
	case ev := <-toasts.C():
		msg, ok := ev.Payload.(*notification.NotificationMessage)
		require.True(t, ok)
		assert.Equal(t, notification.NotifyWaveCreated, msg.Type)
		assert.EqualValues(t, 42, ev.ProjectID)
	default:
		t.Fatal("no toast published")
	}
}

func TestUpdateWaveKeepsIdentity(t *testing.T) {
	env := newTestEnv(t)
	env.backend.on("GET /api/waves/7", `{"id": 7, "project_id": 42, "name": "Old"}`)
	env.backend.on("PUT /api/waves/7", `{"id": 7, "project_id": 42, "name": "New"}`)

	_, res := env.do(t, http.MethodPut, "/api/v1/waves/7", map[string]string{"name": "New"})
	require.Equal(t, responses.CodeSuccess, res.Code, res.Message)

	call, ok := env.backend.find(http.MethodPut, "/api/waves/7")
	require.True(t, ok)
	assert.Equal(t, map[string]interface{}{"id": float64(7), "project_id": float64(42), "name": "New"}, call.Body)
}

func TestStartOperationRefusedWhileRunning(t *testing.T) {
	env := newTestEnv(t)
	env.backend.on("GET /api/waves/7", `{"id": 7, "project_id": 42, "name": "W", "is_running": true}`)

	_, res := env.do(t, http.MethodPost, "/api/v1/waves/7/operations", map[string]string{"operation_type": "restore"})
	assert.Equal(t, responses.CodeConflict, res.Code)

	_, called := env.backend.find(http.MethodPost, "/api/waves/7/operations")
	assert.False(t, called)
}

func TestExportWave(t *testing.T) {
	env := newTestEnv(t)
	env.backend.on("GET /api/waves/7", `{"id": 7, "project_id": 42, "name": "W", "mappings_count": 1,
		"status_rate": {"deployed": 1, "failed": 0, "undeployed": 0},
		"mappings": [{"db_id": 3, "db_name": "ORCL", "server": "db01"}]}`)

	w, _ := env.do(t, http.MethodGet, "/api/v1/waves/7/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/x-yaml")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "wave-7.yaml")
	assert.Contains(t, w.Body.String(), "name: W")
	assert.Contains(t, w.Body.String(), "db_name: ORCL")
}

func TestBackendErrorPassesThrough(t *testing.T) {
	env := newTestEnv(t)

	_, res := env.do(t, http.MethodGet, "/api/v1/projects/99", nil)
	assert.Equal(t, responses.CodeNotFound, res.Code)
	assert.Equal(t, "not_found", res.Kind)
}

func TestPaginationLabelPersistsPageSize(t *testing.T) {
	env := newTestEnv(t)

	_, res := env.do(t, http.MethodGet, "/api/v1/pagination/label?page_index=1&page_size=1&length=2", nil)
	require.Equal(t, responses.CodeSuccess, res.Code)
	var label struct {
		Label    string `json:"label"`
		PageSize int    `json:"page_size"`
	}
	require.NoError(t, json.Unmarshal(res.Data, &label))
	assert.Equal(t, "Page 2 of 2", label.Label)
	assert.Equal(t, 1, label.PageSize)

	_, res = env.do(t, http.MethodGet, "/api/v1/pagination/label?page_index=1&page_size=5&length=0", nil)
	require.NoError(t, json.Unmarshal(res.Data, &label))
	assert.Equal(t, "Page 1 of 1", label.Label)

	_, res = env.do(t, http.MethodGet, "/api/v1/preferences", nil)
	var prefs struct {
		Sidebar  string `json:"sidebar_state"`
		PageSize int    `json:"page_size"`
	}
	require.NoError(t, json.Unmarshal(res.Data, &prefs))
	assert.Equal(t, 5, prefs.PageSize)
	assert.Equal(t, "expanded", prefs.Sidebar)
}

func TestPreferencesValidation(t *testing.T) {
	env := newTestEnv(t)

	_, res := env.do(t, http.MethodPut, "/api/v1/preferences", map[string]string{"sidebar_state": "hidden"})
	assert.Equal(t, responses.CodeValidationError, res.Code)
	assert.Contains(t, res.Errors, "sidebar_state")

	_, res = env.do(t, http.MethodPut, "/api/v1/preferences", map[string]string{"sidebar_state": "collapsed"})
	require.Equal(t, responses.CodeSuccess, res.Code)
	assert.Contains(t, string(res.Data), `"collapsed"`)
}

func TestPanelOpenClose(t *testing.T) {
	env := newTestEnv(t)

	_, res := env.do(t, http.MethodPut, "/api/v1/panel", map[string]interface{}{"title": "Edit wave", "entity": "wave", "entity_id": 7})
	require.Equal(t, responses.CodeSuccess, res.Code, res.Message)
	assert.Contains(t, string(res.Data), `"open":true`)

	_, res = env.do(t, http.MethodDelete, "/api/v1/panel", nil)
	require.Equal(t, responses.CodeSuccess, res.Code)
	assert.Contains(t, string(res.Data), `"open":false`)
}

func TestSelectUnknownProject(t *testing.T) {
	env := newTestEnv(t)

	_, res := env.do(t, http.MethodPut, "/api/v1/selection/project", map[string]int64{"project_id": 5})
	assert.Equal(t, responses.CodeNotFound, res.Code)

	_, res = env.do(t, http.MethodGet, "/api/v1/selection/project", nil)
	assert.Equal(t, responses.CodeSuccess, res.Code)
	assert.Equal(t, "null", string(res.Data))
}

func TestMappingRACNeedsOneTargetPerNode(t *testing.T) {
	env := newTestEnv(t)
	env.backend.on("GET /api/source-dbs/3", `{"id": 3, "project_id": 42, "db_name": "ORCL", "db_type": "RAC", "rac_nodes": 2}`)
	env.backend.on("POST /api/mappings", `{"id": 5, "db_id": 3, "bms": [{"id": 8}, {"id": 9}], "fe_rac_nodes": 2}`)

	_, res := env.do(t, http.MethodPost, "/api/v1/mappings", map[string]interface{}{
		"db_id": 3, "bms": []map[string]int{{"id": 8}},
	})
	assert.Equal(t, responses.CodeValidationError, res.Code)
	assert.Contains(t, res.Errors, "bms")
	_, called := env.backend.find(http.MethodPost, "/api/mappings")
	assert.False(t, called)

	_, res = env.do(t, http.MethodPost, "/api/v1/mappings", map[string]interface{}{
		"db_id": 3, "bms": []map[string]int{{"id": 8}, {"id": 9}},
	})
	require.Equal(t, responses.CodeSuccess, res.Code, res.Message)
	call, ok := env.backend.find(http.MethodPost, "/api/mappings")
	require.True(t, ok)
	assert.EqualValues(t, 2, call.Body["fe_rac_nodes"])
}

func TestWaveListOutOfRangePageClamps(t *testing.T) {
	env := newTestEnv(t)
	env.selectProject(t, 42, "P")
	env.backend.on("GET /api/waves", `[
		{"id": 1, "project_id": 42, "name": "W1", "mappings_count": 0, "status_rate": {"deployed": 0, "failed": 0, "undeployed": 0}},
		{"id": 2, "project_id": 42, "name": "W2", "mappings_count": 0, "status_rate": {"deployed": 0, "failed": 0, "undeployed": 0}}
	]`)

	w, res := env.do(t, http.MethodGet, "/api/v1/waves?page=5&page_size=1", nil)
	require.Equal(t, responses.CodeSuccess, res.Code, res.Message)
	assert.Equal(t, "Page 2 of 2", res.Label)

	var waves []model.Wave
	require.NoError(t, json.Unmarshal(res.Data, &waves))
	require.Len(t, waves, 1)
	assert.EqualValues(t, 2, waves[0].ID)

	var page struct {
		Page int `json:"page"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, 2, page.Page)
}
