package handler

import (
	"github.com/gin-gonic/gin"

	"migration-console/internal/core/pagination"
	"migration-console/internal/core/refresh"
	"migration-console/internal/dto"
	"migration-console/internal/model"
	"migration-console/internal/service"
	"migration-console/internal/state"
	"migration-console/pkg/responses"
)

type TargetHandler struct {
	targetService  service.TargetService
	mappingService service.MappingService
	selection      *state.Selection
	paginator      *pagination.Paginator
	feedback       *Feedback
}

func NewTargetHandler(targetService service.TargetService, mappingService service.MappingService, selection *state.Selection, paginator *pagination.Paginator, feedback *Feedback) *TargetHandler {
	return &TargetHandler{
		targetService:  targetService,
		mappingService: mappingService,
		selection:      selection,
		paginator:      paginator,
		feedback:       feedback,
	}
}

// List 当前项目的目标机，is_mapped 根据映射推导
// @Summary 目标机列表
// @Tags Target
// @Produce json
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {object} responses.Response{data=[]model.Target}
// @Router /api/v1/targets [get]
func (h *TargetHandler) List(c *gin.Context) {
	var q dto.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		responses.Error(c, bindError(err))
		return
	}

	ctx := c.Request.Context()
	projectID, err := h.selection.ProjectID(ctx)
	if err != nil {
		responses.Error(c, err)
		return
	}
	targets, err := h.targetService.List(ctx, projectID)
	if err != nil {
		responses.Error(c, err)
		return
	}
	mappings, err := h.mappingService.ListByProject(ctx, projectID)
	if err != nil {
		responses.Error(c, err)
		return
	}
	paginate(c, h.paginator, &q, model.MarkMapped(targets, mappings))
}

// Get 目标机详情
// @Summary 目标机详情
// @Tags Target
// @Produce json
// @Param id path int64 true "目标机ID"
// @Success 200 {object} responses.Response{data=model.Target}
// @Router /api/v1/targets/{id} [get]
func (h *TargetHandler) Get(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	target, err := h.targetService.Get(c.Request.Context(), id)
	if err != nil {
		responses.Error(c, err)
		return
	}
	responses.Success(c, target)
}

// Create 在当前项目下创建目标机
// @Summary 创建目标机
// @Tags Target
// @Accept json
// @Produce json
// @Param request body dto.TargetRequest true "创建目标机请求"
// @Success 200 {object} responses.Response{data=model.Target}
// @Router /api/v1/targets [post]
func (h *TargetHandler) Create(c *gin.Context) {
	var req dto.TargetRequest
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
	target, err := h.targetService.Create(ctx, req.ToModel(0, projectID))
	if err != nil {
		h.feedback.Failed(ctx, projectID, "创建目标机失败", err)
		responses.Error(c, err)
		return
	}

	h.feedback.Done(ctx, projectID, "目标机已创建", req.Name, refresh.TopicTargets)
	responses.Success(c, target)
}

// Update 修改目标机
// @Summary 修改目标机
// @Tags Target
// @Accept json
// @Produce json
// @Param id path int64 true "目标机ID"
// @Param request body dto.TargetRequest true "修改目标机请求"
// @Success 200 {object} responses.Response{data=model.Target}
// @Router /api/v1/targets/{id} [put]
func (h *TargetHandler) Update(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	var req dto.TargetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, bindError(err))
		return
	}

	ctx := c.Request.Context()
	current, err := h.targetService.Get(ctx, id)
	if err != nil {
		responses.Error(c, err)
		return
	}
	target, err := h.targetService.Update(ctx, req.ToModel(id, current.ProjectID))
	if err != nil {
		h.feedback.Failed(ctx, current.ProjectID, "修改目标机失败", err)
		responses.Error(c, err)
		return
	}

	h.feedback.Done(ctx, current.ProjectID, "目标机已更新", req.Name, refresh.TopicTargets)
	responses.Success(c, target)
}

// Delete 删除目标机
// @Summary 删除目标机
// @Tags Target
// @Produce json
// @Param id path int64 true "目标机ID"
// @Success 200 {object} responses.Response
// @Router /api/v1/targets/{id} [delete]
func (h *TargetHandler) Delete(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	projectID, _ := h.selection.ProjectID(ctx)
	if err := h.targetService.Delete(ctx, id); err != nil {
		h.feedback.Failed(ctx, projectID, "删除目标机失败", err)
		responses.Error(c, err)
		return
	}

	h.feedback.Done(ctx, projectID, "目标机已删除", "", refresh.TopicTargets, refresh.TopicMappings)
	responses.SuccessWithMessage(c, "删除成功", nil)
}
