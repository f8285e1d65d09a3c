package handler

import (
	"io"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"migration-console/internal/core/refresh"
	"migration-console/internal/dto"
	"migration-console/pkg/responses"
)

const heartbeatInterval = 15 * time.Second

// EventHandler 以 SSE 推送刷新信号、提示和面板变化
type EventHandler struct {
	bus    *refresh.Bus
	logger *zap.Logger
}

func NewEventHandler(bus *refresh.Bus, logger *zap.Logger) *EventHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventHandler{bus: bus, logger: logger}
}

// Stream 订阅事件流
// @Summary 事件流
// @Tags Event
// @Produce text/event-stream
// @Param topics query string false "主题，逗号分隔"
// @Router /api/v1/events [get]
func (h *EventHandler) Stream(c *gin.Context) {
	var q dto.EventsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		responses.Error(c, bindError(err))
		return
	}
	topics := parseTopics(q.Topics)

	sub := h.bus.Subscribe(topics...)
	defer sub.Close()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	h.logger.Debug("SSE 连接建立", zap.Int("topics", len(topics)), zap.String("client", c.ClientIP()))

	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case ev, ok := <-sub.C():
			if !ok {
				return false
			}
			c.SSEvent(string(ev.Topic), ev)
			return true
		case <-ticker.C:
			c.SSEvent("ping", time.Now().Unix())
			return true
		}
	})
	h.logger.Debug("SSE 连接关闭", zap.String("client", c.ClientIP()))
}

func parseTopics(raw string) []refresh.Topic {
	parts := lo.Compact(lo.Map(strings.Split(raw, ","), func(s string, _ int) string {
		return strings.TrimSpace(s)
	}))
	return lo.Uniq(lo.Map(parts, func(s string, _ int) refresh.Topic {
		return refresh.Topic(s)
	}))
}
