package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"migration-console/internal/model"
	"migration-console/internal/pkg/config"
	"migration-console/internal/pkg/httpclient"
	"migration-console/pkg/responses"
)

type recorded struct {
	Method string
	Path   string
	Query  string
	Body   map[string]interface{}
}

// fakeBackend 按 "METHOD /path" 返回固定响应并记录请求
type fakeBackend struct {
	mu       sync.Mutex
	requests []recorded
	routes   map[string]func(w http.ResponseWriter)
	// handlers 需要读取请求体的路由，优先于 routes
	handlers map[string]func(w http.ResponseWriter, req recorded)
}

func newFakeBackend(t *testing.T) (*fakeBackend, *Services) {
	t.Helper()
	fb := &fakeBackend{
		routes:   map[string]func(w http.ResponseWriter){},
		handlers: map[string]func(w http.ResponseWriter, req recorded){},
	}
	srv := httptest.NewServer(http.HandlerFunc(fb.serve))
	t.Cleanup(srv.Close)

	c, err := httpclient.New(&config.BackendConfig{BaseURL: srv.URL, Timeout: "5s", RetryDelay: "1ms"}, nil)
	require.NoError(t, err)
	return fb, NewServices(c)
}

func (fb *fakeBackend) on(route, body string) {
	fb.onStatus(route, http.StatusOK, body)
}

func (fb *fakeBackend) onStatus(route string, status int, body string) {
	fb.routes[route] = func(w http.ResponseWriter) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

func (fb *fakeBackend) serve(w http.ResponseWriter, r *http.Request) {
	rec := recorded{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		_ = json.NewDecoder(r.Body).Decode(&rec.Body)
	}
	fb.mu.Lock()
	fb.requests = append(fb.requests, rec)
	fb.mu.Unlock()

	if h, ok := fb.handlers[r.Method+" "+r.URL.Path]; ok {
		h(w, rec)
		return
	}
	if h, ok := fb.routes[r.Method+" "+r.URL.Path]; ok {
		h(w)
		return
	}
	w.WriteHeader(http.StatusNotFound)
}

func (fb *fakeBackend) last() recorded {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.requests[len(fb.requests)-1]
}

func (fb *fakeBackend) count() int {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return len(fb.requests)
}

func TestWaveCreateSendsNameAndProject(t *testing.T) {
	fb, svc := newFakeBackend(t)
	fb.on("POST /api/waves", `{"id": 11, "name": "Wave 1", "project_id": 42, "is_running": false, "mappings_count": 0,
		"status_rate": {"deployed": 0, "failed": 0, "undeployed": 0}}`)

	wave, err := svc.Waves.Create(context.Background(), &WaveBody{Name: "Wave 1", ProjectID: 42})
	require.NoError(t, err)
	assert.EqualValues(t, 11, wave.ID)
	assert.EqualValues(t, 42, wave.ProjectID)

	req := fb.last()
	assert.Equal(t, "/api/waves", req.Path)
	assert.Equal(t, map[string]interface{}{"name": "Wave 1", "project_id": float64(42)}, req.Body)
}

func TestWaveListAndOperation(t *testing.T) {
	fb, svc := newFakeBackend(t)
	fb.on("GET /api/waves", `[{"id": 1, "project_id": 42, "name": "W", "is_running": true, "mappings_count": 2,
		"status_rate": {"deployed": 1, "failed": 0, "undeployed": 1}, "curr_operation": "restore",
		"last_deployment": "Tue, 14 Oct 2025 08:00:00 GMT"}]`)
	fb.on("POST /api/waves/1/operations", `{"id": 99, "wave_id": 1, "operation_type": "restore", "operation_status": "STARTING"}`)

	ctx := context.Background()
	waves, err := svc.Waves.List(ctx, 42)
	require.NoError(t, err)
	require.Len(t, waves, 1)
	assert.Equal(t, "project_id=42", fb.last().Query)
	assert.True(t, waves[0].StatusRateConsistent())
	assert.Equal(t, 2025, waves[0].LastDeployment.Year())

	op, err := svc.Waves.StartOperation(ctx, 1, model.OperationRestore, nil)
	require.NoError(t, err)
	assert.Equal(t, model.OperationStarting, op.OperationStatus)
	assert.Equal(t, "restore", fb.last().Body["operation_type"])
}

func TestMappingDuplicateIsValidationError(t *testing.T) {
	fb, svc := newFakeBackend(t)
	fb.onStatus("POST /api/mappings", http.StatusBadRequest, `{"errors": {"db_id": ["already has an active mapping"]}}`)

	_, err := svc.Mappings.Create(context.Background(), &model.Mapping{DbID: 3, Bms: []model.BmsRef{{ID: 1}}, FeRacNodes: 1})
	require.Error(t, err)
	assert.Equal(t, responses.KindValidation, responses.KindOf(err))

	var appErr *responses.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, []string{"already has an active mapping"}, appErr.Fields["db_id"])
}

func TestMappingQueries(t *testing.T) {
	fb, svc := newFakeBackend(t)
	fb.on("GET /api/mappings", `[{"id": 1, "db_id": 3, "bms": [{"id": 8, "name": "bms-8"}], "fe_rac_nodes": 1}]`)

	ctx := context.Background()
	_, err := svc.Mappings.ListByProject(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "project_id=42", fb.last().Query)

	list, err := svc.Mappings.ListByDb(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "db_id=3", fb.last().Query)
	assert.Equal(t, []int64{8}, list[0].TargetIDs())
}

func TestNotFoundSurfaces(t *testing.T) {
	_, svc := newFakeBackend(t)
	_, err := svc.Projects.Get(context.Background(), 404)
	assert.True(t, responses.IsNotFound(err))
}

func TestConfigEditorGetFillsDbID(t *testing.T) {
	fb, svc := newFakeBackend(t)
	fb.on("GET /api/source-dbs/5/config", `{"is_configured": false}`)
	fb.on("POST /api/source-dbs/5/config", `{"db_id": 5, "is_configured": true, "install_config": {"oracle_version": "19c", "oracle_edition": "EE"}}`)

	ctx := context.Background()
	cfg, err := svc.ConfigEditors.Get(ctx, 5)
	require.NoError(t, err)
	assert.EqualValues(t, 5, cfg.DbID)
	assert.Nil(t, cfg.Asm)

	saved, err := svc.ConfigEditors.Save(ctx, 5, cfg)
	require.NoError(t, err)
	assert.True(t, saved.IsConfigured)
	assert.Equal(t, "EE", saved.Install.OracleEdition)
	assert.Equal(t, http.MethodPost, fb.last().Method)
	assert.Equal(t, "/api/source-dbs/5/config", fb.last().Path)
}

func TestConfigEditorSaveEmptyAck(t *testing.T) {
	fb, svc := newFakeBackend(t)
	fb.routes["POST /api/source-dbs/5/config"] = func(w http.ResponseWriter) {
		w.WriteHeader(http.StatusNoContent)
	}

	saved, err := svc.ConfigEditors.Save(context.Background(), 5, &model.ConfigEditor{DbID: 5})
	require.NoError(t, err)
	assert.EqualValues(t, 5, saved.DbID)
	assert.Nil(t, saved.Install)
	assert.Equal(t, http.MethodPost, fb.last().Method)
}

func TestLabelsForDb(t *testing.T) {
	fb, svc := newFakeBackend(t)
	fb.on("POST /api/source-dbs/5/labels", `{}`)
	fb.on("DELETE /api/source-dbs/5/labels/2", ``)

	ctx := context.Background()
	require.NoError(t, svc.Labels.AttachToDb(ctx, 5, []int64{1, 2}))
	assert.Equal(t, []interface{}{float64(1), float64(2)}, fb.last().Body["label_ids"])

	require.NoError(t, svc.Labels.DetachFromDb(ctx, 5, 2))
	assert.Equal(t, http.MethodDelete, fb.last().Method)
}

func TestDeploymentHistoryByWave(t *testing.T) {
	fb, svc := newFakeBackend(t)
	fb.on("GET /api/operations", `[{"id": 1, "wave_id": 3, "operation_type": "pre_restore", "operation_status": "COMPLETE",
		"started_at": "2025-10-14 08:00:00", "completed_at": "2025-10-14 08:00:30",
		"bms": [{"id": 8, "name": "bms-8", "logs_url": "http://logs/8", "operation_status": "COMPLETE"}]}]`)

	ops, err := svc.DeploymentHistory.ListByWave(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "wave_id=3", fb.last().Query)
	require.Len(t, ops, 1)
	assert.True(t, ops[0].IsTerminal())
	assert.EqualValues(t, 30000, ops[0].Duration(ops[0].CompletedAt.Time).Milliseconds())
}

func TestMigvisorUpload(t *testing.T) {
	fb, svc := newFakeBackend(t)
	fb.on("POST /api/source-dbs/migvisor", `{"imported": 3}`)

	res, err := svc.SourceDbs.UploadMigvisor(context.Background(), 42, "dbs.csv", strings.NewReader("a,b\n"))
	require.NoError(t, err)
	assert.EqualValues(t, 3, res["imported"])
	assert.Equal(t, "/api/source-dbs/migvisor", fb.last().Path)
}

func TestMetadata(t *testing.T) {
	fb, svc := newFakeBackend(t)
	fb.on("GET /api/metadata", `{"version": "1.2.0", "features": {"failover": true}}`)
	fb.on("GET /api/metadata/wave-steps", `[{"operation_type": "restore", "steps": ["prepare", "restore"]}]`)

	ctx := context.Background()
	md, err := svc.Metadata.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1.2.0", md["version"])

	steps, err := svc.Metadata.WaveSteps(ctx)
	require.NoError(t, err)
	require.Len(t, steps, 1)
	assert.Equal(t, []string{"prepare", "restore"}, steps[0].Steps)
}

func TestServiceMutationsNotRetried(t *testing.T) {
	fb, svc := newFakeBackend(t)
	fb.onStatus("DELETE /api/scheduled-tasks/4", http.StatusServiceUnavailable, `{"message": "busy"}`)

	err := svc.ScheduleRestore.Delete(context.Background(), 4)
	require.Error(t, err)
	assert.Equal(t, responses.KindServer, responses.KindOf(err))
	assert.Equal(t, 1, fb.count())
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func TestWaveCreateThenGetKeepsIdentity(t *testing.T) {
	fb, svc := newFakeBackend(t)
	var (
		mu     sync.Mutex
		stored map[string]interface{}
	)
	fb.handlers["POST /api/waves"] = func(w http.ResponseWriter, req recorded) {
		mu.Lock()
		defer mu.Unlock()
		stored = req.Body
		stored["id"] = 11
		writeJSON(w, stored)
	}
	fb.handlers["GET /api/waves/11"] = func(w http.ResponseWriter, _ recorded) {
		mu.Lock()
		defer mu.Unlock()
		writeJSON(w, stored)
	}

	ctx := context.Background()
	created, err := svc.Waves.Create(ctx, &WaveBody{Name: "Wave 1", ProjectID: 42})
	require.NoError(t, err)

	got, err := svc.Waves.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 11, got.ID)
	assert.Equal(t, "Wave 1", got.Name)
	assert.EqualValues(t, 42, got.ProjectID)
}

func TestMappingCreateThenListKeepsIdentity(t *testing.T) {
	fb, svc := newFakeBackend(t)
	var (
		mu     sync.Mutex
		stored map[string]interface{}
	)
	fb.handlers["POST /api/mappings"] = func(w http.ResponseWriter, req recorded) {
		mu.Lock()
		defer mu.Unlock()
		stored = req.Body
		stored["id"] = 7
		writeJSON(w, stored)
	}
	fb.handlers["GET /api/mappings"] = func(w http.ResponseWriter, _ recorded) {
		mu.Lock()
		defer mu.Unlock()
		writeJSON(w, []interface{}{stored})
	}

	ctx := context.Background()
	waveID := int64(3)
	created, err := svc.Mappings.Create(ctx, &model.Mapping{DbID: 5, Bms: []model.BmsRef{{ID: 8}}, FeRacNodes: 1, WaveID: &waveID})
	require.NoError(t, err)
	assert.EqualValues(t, 7, created.ID)

	list, err := svc.Mappings.ListByDb(ctx, 5)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.EqualValues(t, 5, list[0].DbID)
	assert.Equal(t, []int64{8}, list[0].TargetIDs())
	assert.Equal(t, 1, list[0].FeRacNodes)
	require.NotNil(t, list[0].WaveID)
	assert.EqualValues(t, 3, *list[0].WaveID)
}

func TestMappingUpdateUsesPut(t *testing.T) {
	fb, svc := newFakeBackend(t)
	fb.handlers["PUT /api/mappings"] = func(w http.ResponseWriter, req recorded) {
		writeJSON(w, req.Body)
	}

	updated, err := svc.Mappings.Update(context.Background(), &model.Mapping{ID: 7, DbID: 5, Bms: []model.BmsRef{{ID: 9}}, FeRacNodes: 1})
	require.NoError(t, err)

	req := fb.last()
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "/api/mappings", req.Path)
	assert.EqualValues(t, 7, req.Body["id"])
	assert.EqualValues(t, 7, updated.ID)
	assert.Equal(t, []int64{9}, updated.TargetIDs())
}
