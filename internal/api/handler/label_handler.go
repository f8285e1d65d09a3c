package handler

import (
	"github.com/gin-gonic/gin"

	"migration-console/internal/core/refresh"
	"migration-console/internal/dto"
	"migration-console/internal/model"
	"migration-console/internal/service"
	"migration-console/internal/state"
	"migration-console/pkg/responses"
)

type LabelHandler struct {
	labelService service.LabelService
	selection    *state.Selection
	feedback     *Feedback
}

func NewLabelHandler(labelService service.LabelService, selection *state.Selection, feedback *Feedback) *LabelHandler {
	return &LabelHandler{labelService: labelService, selection: selection, feedback: feedback}
}

// List 当前项目的标签
// @Summary 标签列表
// @Tags Label
// @Produce json
// @Success 200 {object} responses.Response{data=[]model.Label}
// @Router /api/v1/labels [get]
func (h *LabelHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	projectID, err := h.selection.ProjectID(ctx)
	if err != nil {
		responses.Error(c, err)
		return
	}
	labels, err := h.labelService.List(ctx, projectID)
	if err != nil {
		responses.Error(c, err)
		return
	}
	responses.Success(c, labels)
}

// Create 创建标签
// @Summary 创建标签
// @Tags Label
// @Accept json
// @Produce json
// @Param request body dto.LabelRequest true "标签"
// @Success 200 {object} responses.Response{data=model.Label}
// @Router /api/v1/labels [post]
func (h *LabelHandler) Create(c *gin.Context) {
	var req dto.LabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, bindError(err))
		return
	}

	ctx := c.Request.Context()
	projectID, err := h.selection.ProjectID(ctx)
	if err != nil {
		responses.Error(c, err)
		return
	}
	label, err := h.labelService.Create(ctx, &model.Label{Name: req.Name, ProjectID: projectID})
	if err != nil {
		h.feedback.Failed(ctx, projectID, "创建标签失败", err)
		responses.Error(c, err)
		return
	}

	h.feedback.Done(ctx, projectID, "标签已创建", req.Name, refresh.TopicLabels)
	responses.Success(c, label)
}

// Update 修改标签
// @Summary 修改标签
// @Tags Label
// @Accept json
// @Produce json
// @Param id path int64 true "标签ID"
// @Param request body dto.LabelRequest true "标签"
// @Success 200 {object} responses.Response{data=model.Label}
// @Router /api/v1/labels/{id} [put]
func (h *LabelHandler) Update(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	var req dto.LabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, bindError(err))
		return
	}

	ctx := c.Request.Context()
	projectID, err := h.selection.ProjectID(ctx)
	if err != nil {
		responses.Error(c, err)
		return
	}
	label, err := h.labelService.Update(ctx, &model.Label{ID: id, Name: req.Name, ProjectID: projectID})
	if err != nil {
		h.feedback.Failed(ctx, projectID, "修改标签失败", err)
		responses.Error(c, err)
		return
	}

	// 源库列表中内嵌了标签名
	h.feedback.Done(ctx, projectID, "标签已更新", req.Name, refresh.TopicLabels, refresh.TopicSourceDbs)
	responses.Success(c, label)
}

// Delete 删除标签
// @Summary 删除标签
// @Tags Label
// @Produce json
// @Param id path int64 true "标签ID"
// @Success 200 {object} responses.Response
// @Router /api/v1/labels/{id} [delete]
func (h *LabelHandler) Delete(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	projectID, _ := h.selection.ProjectID(ctx)
	if err := h.labelService.Delete(ctx, id); err != nil {
		h.feedback.Failed(ctx, projectID, "删除标签失败", err)
		responses.Error(c, err)
		return
	}

	h.feedback.Done(ctx, projectID, "标签已删除", "", refresh.TopicLabels, refresh.TopicSourceDbs)
	responses.SuccessWithMessage(c, "删除成功", nil)
}

// ListForDb 源库的标签
// @Summary 源库标签
// @Tags Label
// @Produce json
// @Param id path int64 true "源库ID"
// @Success 200 {object} responses.Response{data=[]model.Label}
// @Router /api/v1/source-dbs/{id}/labels [get]
func (h *LabelHandler) ListForDb(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	labels, err := h.labelService.ListForDb(c.Request.Context(), id)
	if err != nil {
		responses.Error(c, err)
		return
	}
	responses.Success(c, labels)
}

// AttachToDb 给源库打标签
// @Summary 给源库打标签
// @Tags Label
// @Accept json
// @Produce json
// @Param id path int64 true "源库ID"
// @Param request body dto.AttachLabelsRequest true "标签ID列表"
// @Success 200 {object} responses.Response
// @Router /api/v1/source-dbs/{id}/labels [post]
func (h *LabelHandler) AttachToDb(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	var req dto.AttachLabelsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, bindError(err))
		return
	}

	ctx := c.Request.Context()
	projectID, _ := h.selection.ProjectID(ctx)
	if err := h.labelService.AttachToDb(ctx, id, req.LabelIDs); err != nil {
		h.feedback.Failed(ctx, projectID, "添加标签失败", err)
		responses.Error(c, err)
		return
	}

	h.feedback.Done(ctx, projectID, "标签已添加", "", refresh.TopicSourceDbs)
	responses.SuccessWithMessage(c, "添加成功", nil)
}

// DetachFromDb 移除源库标签
// @Summary 移除源库标签
// @Tags Label
// @Produce json
// @Param id path int64 true "源库ID"
// @Param label_id path int64 true "标签ID"
// @Success 200 {object} responses.Response
// @Router /api/v1/source-dbs/{id}/labels/{label_id} [delete]
func (h *LabelHandler) DetachFromDb(c *gin.Context) {
	var p dto.LabelIDParam
	if err := c.ShouldBindUri(&p); err != nil {
		responses.Error(c, bindError(err))
		return
	}

	ctx := c.Request.Context()
	projectID, _ := h.selection.ProjectID(ctx)
	if err := h.labelService.DetachFromDb(ctx, p.ID, p.LabelID); err != nil {
		h.feedback.Failed(ctx, projectID, "移除标签失败", err)
		responses.Error(c, err)
		return
	}

	h.feedback.Done(ctx, projectID, "标签已移除", "", refresh.TopicSourceDbs)
	responses.SuccessWithMessage(c, "移除成功", nil)
}
