package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"migration-console/internal/model"
)

// LarkNotifier 只转发波次结束类通知，toast 类消息不发到群里
type LarkNotifier struct {
	webhookURL string
	enabled    bool
	logger     *zap.Logger
	client     *resty.Client
}

func NewLarkNotifier(webhookURL string, enabled bool, logger *zap.Logger) *LarkNotifier {
	return &LarkNotifier{
		webhookURL: webhookURL,
		enabled:    enabled,
		logger:     logger,
		client:     resty.New().SetTimeout(10 * time.Second),
	}
}

func (n *LarkNotifier) forwards(t NotificationType) bool {
	return t == NotifyWaveFinished || t == NotifyWaveFailed
}

func (n *LarkNotifier) Send(ctx context.Context, msg *NotificationMessage) error {
	if !n.enabled || !n.forwards(msg.Type) {
		return nil
	}
	if n.webhookURL == "" {
		n.logger.Warn("Lark Webhook URL未配置")
		return nil
	}

	resp, err := n.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(buildLarkMessage(msg)).
		Post(n.webhookURL)
	if err != nil {
		return fmt.Errorf("发送请求失败: %w", err)
	}
	if resp.StatusCode() != 200 {
		return fmt.Errorf("Lark API返回错误状态码: %d", resp.StatusCode())
	}

	n.logger.Info("Lark通知发送成功",
		zap.String("type", string(msg.Type)),
		zap.String("title", msg.Title))
	return nil
}

func (n *LarkNotifier) SendWaveNotification(ctx context.Context, wave *model.Wave, notifyType NotificationType, message string) error {
	return n.Send(ctx, NewWaveMessage(wave, notifyType, message))
}

// buildLarkMessage Lark 卡片消息
func buildLarkMessage(msg *NotificationMessage) map[string]interface{} {
	color := "grey"
	if c, ok := msg.Extra["color"].(string); ok {
		color = c
	}

	return map[string]interface{}{
		"msg_type": "interactive",
		"card": map[string]interface{}{
			"header": map[string]interface{}{
				"title": map[string]interface{}{
					"tag":     "plain_text",
					"content": msg.Title,
				},
				"template": color,
			},
			"elements": []interface{}{
				map[string]interface{}{
					"tag": "div",
					"text": map[string]interface{}{
						"tag":     "lark_md",
						"content": msg.Content,
					},
				},
				map[string]interface{}{
					"tag": "div",
					"text": map[string]interface{}{
						"tag":     "plain_text",
						"content": fmt.Sprintf("时间: %s", msg.Timestamp.Format("2006-01-02 15:04:05")),
					},
				},
			},
		},
	}
}
