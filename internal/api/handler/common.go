package handler

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"migration-console/internal/adapter/notification"
	"migration-console/internal/core/pagination"
	"migration-console/internal/core/refresh"
	"migration-console/internal/dto"
	"migration-console/internal/model"
	"migration-console/pkg/responses"
	"migration-console/pkg/utils"
)

func init() {
	// 绑定校验错误的字段名使用 json tag，与后端字段错误保持一致
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(utils.TagName)
	}
}

// Feedback 写操作完成后的刷新广播与提示
type Feedback struct {
	bus      *refresh.Bus
	notifier notification.Notifier
	logger   *zap.Logger
}

func NewFeedback(bus *refresh.Bus, notifier notification.Notifier, logger *zap.Logger) *Feedback {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Feedback{bus: bus, notifier: notifier, logger: logger}
}

// Done 广播刷新并发送成功提示
func (f *Feedback) Done(ctx context.Context, projectID int64, title, content string, topics ...refresh.Topic) {
	f.bus.Refresh(projectID, topics...)
	f.notify(ctx, notification.NewActionMessage(notification.NotifyActionSucceeded, title, content), projectID)
}

// WaveDone 波次写操作完成
func (f *Feedback) WaveDone(ctx context.Context, wave *model.Wave, notifyType notification.NotificationType, message string, topics ...refresh.Topic) {
	f.bus.Refresh(wave.ProjectID, topics...)
	if f.notifier == nil {
		return
	}
	if err := f.notifier.SendWaveNotification(ctx, wave, notifyType, message); err != nil {
		f.logger.Warn("发送波次提示失败", zap.Int64("wave_id", wave.ID), zap.Error(err))
	}
}

// Failed 发送失败提示，错误本身仍由调用方返回
func (f *Feedback) Failed(ctx context.Context, projectID int64, title string, err error) {
	f.notify(ctx, notification.NewActionMessage(notification.NotifyActionFailed, title, errorMessage(err)), projectID)
}

func (f *Feedback) notify(ctx context.Context, msg *notification.NotificationMessage, projectID int64) {
	if f.notifier == nil {
		return
	}
	if projectID > 0 {
		if msg.Extra == nil {
			msg.Extra = map[string]interface{}{}
		}
		msg.Extra["project_id"] = projectID
	}
	if err := f.notifier.Send(ctx, msg); err != nil {
		f.logger.Warn("发送提示失败", zap.String("title", msg.Title), zap.Error(err))
	}
}

func errorMessage(err error) string {
	var appErr *responses.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

// bindError 把绑定/校验错误转换为字段错误
func bindError(err error) *responses.AppError {
	return responses.NewFieldError(utils.FieldErrors(err))
}

// bindID 绑定路径中的 id
func bindID(c *gin.Context) (int64, bool) {
	var p dto.IDParam
	if err := c.ShouldBindUri(&p); err != nil {
		responses.Error(c, bindError(err))
		return 0, false
	}
	return p.ID, true
}

// paginate 未请求分页时返回全部，否则返回当前页和 "Page X of Y"
func paginate[T any](c *gin.Context, p *pagination.Paginator, q *dto.PageQuery, items []T) {
	if !q.Paged() {
		responses.Success(c, items)
		return
	}

	size := q.PageSize
	if size == 0 {
		size = p.PageSize(c.Request.Context())
	}
	pageIndex := pagination.Clamp(q.GetPage()-1, size, len(items))
	label, err := p.RangeLabel(c.Request.Context(), pageIndex, size, len(items))
	if err != nil {
		responses.Error(c, err)
		return
	}
	start, end := pagination.Window(pageIndex, size, len(items))
	responses.PageSuccess(c, items[start:end], int64(len(items)), pageIndex+1, size, label)
}

