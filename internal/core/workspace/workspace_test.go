package workspace

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"migration-console/internal/core/refresh"
	"migration-console/internal/model"
	"migration-console/internal/pkg/config"
	"migration-console/internal/pkg/database"
	"migration-console/internal/repository"
	"migration-console/internal/service"
	"migration-console/internal/state"
)

// calls 记录各列表被请求时的项目 id
type calls struct {
	mu  sync.Mutex
	log map[string][]int64
}

func (c *calls) add(name string, projectID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.log[name] = append(c.log[name], projectID)
}

func (c *calls) get(name string) []int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]int64(nil), c.log[name]...)
}

type fakeWaves struct {
	service.WaveService
	c *calls
}

func (f *fakeWaves) List(_ context.Context, projectID int64) ([]model.Wave, error) {
	f.c.add("waves", projectID)
	return []model.Wave{{ID: projectID * 10, ProjectID: projectID, Name: "W"}}, nil
}

type fakeSourceDbs struct {
	service.SourceDbService
	c   *calls
	err error
}

func (f *fakeSourceDbs) List(_ context.Context, projectID int64) ([]model.SourceDb, error) {
	f.c.add("source_dbs", projectID)
	if f.err != nil {
		return nil, f.err
	}
	return []model.SourceDb{{ID: 1, ProjectID: projectID}}, nil
}

type fakeMappings struct {
	service.MappingService
	c *calls
}

func (f *fakeMappings) ListByProject(_ context.Context, projectID int64) ([]model.Mapping, error) {
	f.c.add("mappings", projectID)
	return []model.Mapping{{ID: 1, DbID: 1, Bms: []model.BmsRef{{ID: 7}}}}, nil
}

type fakeTargets struct {
	service.TargetService
	c *calls
}

func (f *fakeTargets) List(_ context.Context, projectID int64) ([]model.Target, error) {
	f.c.add("targets", projectID)
	return []model.Target{{ID: 7, Name: "bms-7"}, {ID: 8, Name: "bms-8"}}, nil
}

type fakeLabels struct {
	service.LabelService
	c *calls
}

func (f *fakeLabels) List(_ context.Context, projectID int64) ([]model.Label, error) {
	f.c.add("labels", projectID)
	return nil, nil
}

type fixture struct {
	ws        *Workspace
	selection *state.Selection
	bus       *refresh.Bus
	calls     *calls
	dbs       *fakeSourceDbs
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.Open(&config.StateConfig{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "state.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	c := &calls{log: map[string][]int64{}}
	dbs := &fakeSourceDbs{c: c}
	svc := &service.Services{
		Waves:     &fakeWaves{c: c},
		SourceDbs: dbs,
		Mappings:  &fakeMappings{c: c},
		Targets:   &fakeTargets{c: c},
		Labels:    &fakeLabels{c: c},
	}
	bus := refresh.NewBus(nil)
	sel := state.NewSelection(repository.NewPreferenceRepository(db), bus, nil)
	return &fixture{ws: New(svc, sel, bus, nil), selection: sel, bus: bus, calls: c, dbs: dbs}
}

func TestSnapshotWithoutProjectIsEmpty(t *testing.T) {
	f := newFixture(t)
	snap, err := f.ws.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Nil(t, snap.Project)
	assert.Empty(t, snap.Waves)
	assert.Empty(t, f.calls.get("waves"))
}

func TestSwitchingProjectRefetchesWithNewID(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, f.selection.SetProject(ctx, 1, "Alpha"))
	snap, err := f.ws.Snapshot(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 10, snap.Waves[0].ID)

	// 缓存命中时不再请求
	_, err = f.ws.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, f.calls.get("waves"))

	require.NoError(t, f.selection.SetProject(ctx, 2, "Beta"))
	snap, err = f.ws.Snapshot(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, snap.Project.ID)
	assert.EqualValues(t, 20, snap.Waves[0].ID)

	for _, name := range []string{"waves", "source_dbs", "mappings", "targets", "labels"} {
		assert.Equal(t, []int64{1, 2}, f.calls.get(name), name)
	}
}

func TestTargetsMarkedFromMappings(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.selection.SetProject(ctx, 1, "Alpha"))

	snap, err := f.ws.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Targets, 2)
	assert.True(t, snap.Targets[0].IsMapped)
	assert.False(t, snap.Targets[1].IsMapped)
}

func TestReadFailureRecordedInline(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.dbs.err = errors.New("Error Code: 500")
	require.NoError(t, f.selection.SetProject(ctx, 1, "Alpha"))

	snap, err := f.ws.Snapshot(ctx)
	require.NoError(t, err)
	assert.Empty(t, snap.SourceDbs)
	assert.Equal(t, "Error Code: 500", snap.Errors[refresh.TopicSourceDbs])
	assert.NotEmpty(t, snap.Waves)

	f.dbs.err = nil
	require.NoError(t, f.ws.Refresh(ctx, refresh.TopicSourceDbs))
	snap, err = f.ws.Snapshot(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, snap.SourceDbs)
	assert.Empty(t, snap.Errors)
	// 只刷新了源库
	assert.Equal(t, []int64{1}, f.calls.get("waves"))
}

func TestRefreshMappingsAlsoRefetchesTargets(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.selection.SetProject(ctx, 1, "Alpha"))
	_, err := f.ws.Snapshot(ctx)
	require.NoError(t, err)

	require.NoError(t, f.ws.Refresh(ctx, refresh.TopicMappings))
	assert.Len(t, f.calls.get("targets"), 2)
	assert.Len(t, f.calls.get("labels"), 1)
}

func TestStartReloadsOnSelectionEvent(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f := newFixture(t)
	f.ws.Start(ctx)

	require.NoError(t, f.selection.SetProject(ctx, 3, "Gamma"))

	assert.Eventually(t, func() bool {
		waves := f.calls.get("waves")
		return len(waves) == 1 && waves[0] == 3
	}, 2*time.Second, 10*time.Millisecond)
}
