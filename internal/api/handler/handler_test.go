package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"migration-console/internal/core/refresh"
	"migration-console/internal/model"
	"migration-console/internal/service"
	"migration-console/internal/state"
)

func TestParseTopics(t *testing.T) {
	assert.Empty(t, parseTopics(""))
	assert.Equal(t,
		[]refresh.Topic{refresh.TopicWaves, refresh.TopicNotification},
		parseTopics(" waves, ,notification,waves"))
}

func TestOperationViewDuration(t *testing.T) {
	start := time.Date(2025, 10, 14, 8, 0, 0, 0, time.UTC)
	now := start.Add(time.Hour + 2*time.Minute + 3*time.Second)

	op := &model.DeploymentOperation{
		OperationStatus: model.OperationInProgress,
		StartedAt:       model.Timestamp{Time: start},
	}
	assert.Equal(t, "01:02:03", newOperationView(op, now).Duration)

	op.OperationStatus = model.OperationComplete
	op.CompletedAt = model.Timestamp{Time: start.Add(90 * time.Second)}
	assert.Equal(t, "00:01:30", newOperationView(op, now).Duration)

	assert.Equal(t, "-", newOperationView(&model.DeploymentOperation{}, now).Duration)
}

// readOnlyPrefs 读取正常，写入总是失败
type readOnlyPrefs struct {
	values map[string]string
}

func (p *readOnlyPrefs) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := p.values[key]
	return v, ok, nil
}

func (p *readOnlyPrefs) Set(context.Context, string, string) error {
	return errors.New("database is locked")
}

func (p *readOnlyPrefs) Delete(context.Context, string) error {
	return errors.New("database is locked")
}

func (p *readOnlyPrefs) All(context.Context) (map[string]string, error) {
	return p.values, nil
}

type renameProjects struct {
	service.ProjectService
}

func (renameProjects) Update(_ context.Context, p *model.Project) (*model.Project, error) {
	return p, nil
}

func TestProjectRenameLogsSelectionWriteFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.WarnLevel)
	logger := zap.New(core)

	prefs := &readOnlyPrefs{values: map[string]string{
		model.PrefCurrentProjectID:   "42",
		model.PrefCurrentProjectName: "old",
	}}
	bus := refresh.NewBus(nil)
	h := NewProjectHandler(renameProjects{}, state.NewSelection(prefs, bus, logger), NewFeedback(bus, nil, logger))

	r := gin.New()
	r.PUT("/projects/:id", h.Update)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/projects/42", strings.NewReader(`{"name": "new"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	entries := logs.FilterMessage("同步当前项目名称失败").All()
	require.Len(t, entries, 1)
	assert.EqualValues(t, 42, entries[0].ContextMap()["project_id"])
}
