package notification

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"migration-console/internal/model"
)

// NotificationType 通知类型
type NotificationType string

const (
	NotifyWaveCreated      NotificationType = "wave_created"      // 波次创建
	NotifyWaveUpdated      NotificationType = "wave_updated"      // 波次改名
	NotifyWaveDeleted      NotificationType = "wave_deleted"      // 波次删除
	NotifyOperationStarted NotificationType = "operation_started" // 部署操作已提交
	NotifyWaveFinished     NotificationType = "wave_finished"     // 波次操作完成
	NotifyWaveFailed       NotificationType = "wave_failed"       // 波次操作失败
	NotifyMappingSaved     NotificationType = "mapping_saved"     // 映射保存
	NotifyConfigSaved      NotificationType = "config_saved"      // 源库配置保存
	NotifyActionFailed     NotificationType = "action_failed"     // 用户操作失败
	NotifyActionSucceeded  NotificationType = "action_succeeded"  // 其他写操作成功
)

// Level 提示级别
type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelError   Level = "error"
)

// NotificationMessage 通知消息
type NotificationMessage struct {
	Type      NotificationType       `json:"type"`
	Level     Level                  `json:"level"`
	Title     string                 `json:"title"`
	Content   string                 `json:"content"`
	Timestamp time.Time              `json:"timestamp"`
	Extra     map[string]interface{} `json:"extra,omitempty"` // 额外信息
}

// Notifier 通知器接口
type Notifier interface {
	// Send 发送通知
	Send(ctx context.Context, msg *NotificationMessage) error

	// SendWaveNotification 发送波次相关通知
	SendWaveNotification(ctx context.Context, wave *model.Wave, notifyType NotificationType, message string) error
}

func levelOf(t NotificationType) Level {
	switch t {
	case NotifyWaveFailed, NotifyActionFailed:
		return LevelError
	case NotifyOperationStarted:
		return LevelInfo
	}
	return LevelSuccess
}

func waveTitle(t NotificationType) (string, string) {
	switch t {
	case NotifyWaveCreated:
		return "波次已创建", "blue"
	case NotifyWaveUpdated:
		return "波次已更新", "blue"
	case NotifyWaveDeleted:
		return "波次已删除", "grey"
	case NotifyOperationStarted:
		return "部署操作已开始", "blue"
	case NotifyWaveFinished:
		return "✅ 波次操作完成", "green"
	case NotifyWaveFailed:
		return "❌ 波次操作失败", "red"
	}
	return "📢 波次通知", "grey"
}

// NewWaveMessage 构建波次通知
func NewWaveMessage(wave *model.Wave, notifyType NotificationType, message string) *NotificationMessage {
	title, color := waveTitle(notifyType)
	content := fmt.Sprintf("**波次**: %s (ID: %d)\n**项目ID**: %d\n**进度**: 成功 %d / 失败 %d / 未部署 %d\n**消息**: %s",
		wave.Name, wave.ID, wave.ProjectID,
		wave.StatusRate.Deployed, wave.StatusRate.Failed, wave.StatusRate.Undeployed, message)

	return &NotificationMessage{
		Type:      notifyType,
		Level:     levelOf(notifyType),
		Title:     title,
		Content:   content,
		Timestamp: time.Now(),
		Extra: map[string]interface{}{
			"wave_id":    wave.ID,
			"project_id": wave.ProjectID,
			"color":      color,
		},
	}
}

// NewActionMessage 构建一般操作提示
func NewActionMessage(notifyType NotificationType, title, content string) *NotificationMessage {
	return &NotificationMessage{
		Type:      notifyType,
		Level:     levelOf(notifyType),
		Title:     title,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// ============= 多通知器 =============

// MultiNotifier 同时发送到多个渠道
type MultiNotifier struct {
	notifiers []Notifier
	logger    *zap.Logger
}

func NewMultiNotifier(logger *zap.Logger, notifiers ...Notifier) *MultiNotifier {
	return &MultiNotifier{
		notifiers: notifiers,
		logger:    logger,
	}
}

func (m *MultiNotifier) Send(ctx context.Context, msg *NotificationMessage) error {
	var lastErr error
	for _, notifier := range m.notifiers {
		if err := notifier.Send(ctx, msg); err != nil {
			m.logger.Error("发送通知失败", zap.Error(err))
			lastErr = err
		}
	}
	return lastErr
}

func (m *MultiNotifier) SendWaveNotification(ctx context.Context, wave *model.Wave, notifyType NotificationType, message string) error {
	return m.Send(ctx, NewWaveMessage(wave, notifyType, message))
}

// ============= 日志通知器 =============

// LogNotifier 仅记录日志
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Send(_ context.Context, msg *NotificationMessage) error {
	n.logger.Info("📢 通知",
		zap.String("type", string(msg.Type)),
		zap.String("level", string(msg.Level)),
		zap.String("title", msg.Title),
		zap.String("content", msg.Content),
		zap.Any("extra", msg.Extra))
	return nil
}

func (n *LogNotifier) SendWaveNotification(ctx context.Context, wave *model.Wave, notifyType NotificationType, message string) error {
	return n.Send(ctx, NewWaveMessage(wave, notifyType, message))
}
