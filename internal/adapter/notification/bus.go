package notification

import (
	"context"

	"migration-console/internal/core/refresh"
	"migration-console/internal/model"
)

// BusNotifier 把通知作为 toast 推给浏览器（经 SSE）
type BusNotifier struct {
	bus *refresh.Bus
}

func NewBusNotifier(bus *refresh.Bus) *BusNotifier {
	return &BusNotifier{bus: bus}
}

func (n *BusNotifier) Send(_ context.Context, msg *NotificationMessage) error {
	ev := refresh.Event{Topic: refresh.TopicNotification, Payload: msg, At: msg.Timestamp}
	if pid, ok := msg.Extra["project_id"].(int64); ok {
		ev.ProjectID = pid
	}
	n.bus.Publish(ev)
	return nil
}

func (n *BusNotifier) SendWaveNotification(ctx context.Context, wave *model.Wave, notifyType NotificationType, message string) error {
	return n.Send(ctx, NewWaveMessage(wave, notifyType, message))
}
