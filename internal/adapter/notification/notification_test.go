package notification

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"migration-console/internal/core/refresh"
	"migration-console/internal/model"
)

func testWave() *model.Wave {
	return &model.Wave{ID: 3, ProjectID: 42, Name: "Wave 1", MappingsCount: 2,
		StatusRate: model.StatusRate{Deployed: 1, Failed: 1}}
}

func TestBusNotifierPublishesToast(t *testing.T) {
	bus := refresh.NewBus(nil)
	sub := bus.Subscribe(refresh.TopicNotification)
	defer sub.Close()

	n := NewBusNotifier(bus)
	require.NoError(t, n.SendWaveNotification(context.Background(), testWave(), NotifyWaveCreated, "created"))

	select {
	case ev := <-sub.C():
		assert.EqualValues(t, 42, ev.ProjectID)
		msg, ok := ev.Payload.(*NotificationMessage)
		require.True(t, ok)
		assert.Equal(t, LevelSuccess, msg.Level)
		assert.Contains(t, msg.Content, "Wave 1")
	case <-time.After(time.Second):
		t.Fatal("no toast")
	}
}

func TestLarkForwardsOnlyWaveOutcome(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		var body map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "interactive", body["msg_type"])
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewLarkNotifier(srv.URL, true, zap.NewNop())
	ctx := context.Background()
	require.NoError(t, n.SendWaveNotification(ctx, testWave(), NotifyWaveCreated, "x"))
	require.NoError(t, n.SendWaveNotification(ctx, testWave(), NotifyWaveFailed, "1 of 2 failed"))
	assert.EqualValues(t, 1, atomic.LoadInt32(&hits))

	disabled := NewLarkNotifier(srv.URL, false, zap.NewNop())
	require.NoError(t, disabled.SendWaveNotification(ctx, testWave(), NotifyWaveFinished, "done"))
	assert.EqualValues(t, 1, atomic.LoadInt32(&hits))
}

func TestMultiNotifierContinuesOnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	bus := refresh.NewBus(nil)
	sub := bus.Subscribe(refresh.TopicNotification)
	defer sub.Close()

	m := NewMultiNotifier(zap.NewNop(), NewLarkNotifier(srv.URL, true, zap.NewNop()), NewBusNotifier(bus))
	err := m.SendWaveNotification(context.Background(), testWave(), NotifyWaveFinished, "done")
	assert.Error(t, err)
	assert.Len(t, sub.C(), 1)
}
