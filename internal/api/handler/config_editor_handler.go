package handler

import (
	"github.com/gin-gonic/gin"

	"migration-console/internal/adapter/notification"
	"migration-console/internal/core/configeditor"
	"migration-console/internal/model"
	"migration-console/pkg/responses"
)

type ConfigEditorHandler struct {
	manager  *configeditor.Manager
	feedback *Feedback
}

func NewConfigEditorHandler(manager *configeditor.Manager, feedback *Feedback) *ConfigEditorHandler {
	return &ConfigEditorHandler{manager: manager, feedback: feedback}
}

// Get 源库配置编辑状态（含未提交草稿）
// @Summary 获取源库配置
// @Tags ConfigEditor
// @Produce json
// @Param id path int64 true "源库ID"
// @Success 200 {object} responses.Response{data=configeditor.Snapshot}
// @Router /api/v1/source-dbs/{id}/config [get]
func (h *ConfigEditorHandler) Get(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	snap, err := h.manager.Get(c.Request.Context(), id)
	if err != nil {
		responses.Error(c, err)
		return
	}
	responses.Success(c, snap)
}

// Reload 丢弃草稿并从后端重新加载
// @Summary 重新加载源库配置
// @Tags ConfigEditor
// @Produce json
// @Param id path int64 true "源库ID"
// @Success 200 {object} responses.Response{data=configeditor.Snapshot}
// @Router /api/v1/source-dbs/{id}/config/reload [post]
func (h *ConfigEditorHandler) Reload(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	snap, err := h.manager.Load(c.Request.Context(), id)
	if err != nil {
		responses.Error(c, err)
		return
	}
	responses.Success(c, snap)
}

// Edit 修改草稿，只合并传入的子配置
// @Summary 编辑源库配置草稿
// @Tags ConfigEditor
// @Accept json
// @Produce json
// @Param id path int64 true "源库ID"
// @Param request body model.ConfigEditor true "子配置"
// @Success 200 {object} responses.Response{data=configeditor.Snapshot}
// @Router /api/v1/source-dbs/{id}/config/draft [put]
func (h *ConfigEditorHandler) Edit(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	// 子配置的完整性在提交时校验，这里只做结构解析
	var patch model.ConfigEditor
	if err := c.ShouldBindJSON(&patch); err != nil {
		responses.Error(c, bindError(err))
		return
	}
	snap, err := h.manager.Edit(c.Request.Context(), id, &patch)
	if err != nil {
		responses.Error(c, err)
		return
	}
	responses.Success(c, snap)
}

// Discard 放弃草稿
// @Summary 放弃源库配置草稿
// @Tags ConfigEditor
// @Produce json
// @Param id path int64 true "源库ID"
// @Success 200 {object} responses.Response{data=configeditor.Snapshot}
// @Router /api/v1/source-dbs/{id}/config/draft [delete]
func (h *ConfigEditorHandler) Discard(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	responses.Success(c, h.manager.Discard(id))
}

// Submit 提交草稿
// @Summary 提交源库配置
// @Tags ConfigEditor
// @Produce json
// @Param id path int64 true "源库ID"
// @Success 200 {object} responses.Response{data=configeditor.Snapshot}
// @Router /api/v1/source-dbs/{id}/config/submit [post]
func (h *ConfigEditorHandler) Submit(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	snap, err := h.manager.Submit(ctx, id)
	if err != nil {
		h.feedback.Failed(ctx, 0, "保存配置失败", err)
		responses.Error(c, err)
		return
	}

	h.feedback.notify(ctx, notification.NewActionMessage(notification.NotifyConfigSaved, "配置已保存", ""), 0)
	responses.Success(c, snap)
}
