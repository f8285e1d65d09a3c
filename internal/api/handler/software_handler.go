package handler

import (
	"github.com/gin-gonic/gin"

	"migration-console/internal/core/refresh"
	"migration-console/internal/dto"
	"migration-console/internal/model"
	"migration-console/internal/service"
	"migration-console/pkg/responses"
)

type SoftwareHandler struct {
	softwareService service.SoftwareLibraryService
	feedback        *Feedback
}

func NewSoftwareHandler(softwareService service.SoftwareLibraryService, feedback *Feedback) *SoftwareHandler {
	return &SoftwareHandler{softwareService: softwareService, feedback: feedback}
}

// List 软件库
// @Summary 软件库列表
// @Tags Software
// @Produce json
// @Success 200 {object} responses.Response{data=[]model.SoftwareItem}
// @Router /api/v1/software-library [get]
func (h *SoftwareHandler) List(c *gin.Context) {
	items, err := h.softwareService.List(c.Request.Context())
	if err != nil {
		responses.Error(c, err)
		return
	}
	responses.Success(c, items)
}

// Get 软件库条目详情
// @Summary 软件库条目详情
// @Tags Software
// @Produce json
// @Param id path int64 true "条目ID"
// @Success 200 {object} responses.Response{data=model.SoftwareItem}
// @Router /api/v1/software-library/{id} [get]
func (h *SoftwareHandler) Get(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	item, err := h.softwareService.Get(c.Request.Context(), id)
	if err != nil {
		responses.Error(c, err)
		return
	}
	responses.Success(c, item)
}

// Create 新增软件库条目
// @Summary 新增软件库条目
// @Tags Software
// @Accept json
// @Produce json
// @Param request body dto.SoftwareRequest true "条目"
// @Success 200 {object} responses.Response{data=model.SoftwareItem}
// @Router /api/v1/software-library [post]
func (h *SoftwareHandler) Create(c *gin.Context) {
	h.save(c, 0)
}

// Update 修改软件库条目
// @Summary 修改软件库条目
// @Tags Software
// @Accept json
// @Produce json
// @Param id path int64 true "条目ID"
// @Param request body dto.SoftwareRequest true "条目"
// @Success 200 {object} responses.Response{data=model.SoftwareItem}
// @Router /api/v1/software-library/{id} [put]
func (h *SoftwareHandler) Update(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	h.save(c, id)
}

func (h *SoftwareHandler) save(c *gin.Context, id int64) {
	var req dto.SoftwareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, bindError(err))
		return
	}

	item := &model.SoftwareItem{
		ID:            id,
		Name:          req.Name,
		Version:       req.Version,
		OracleVersion: req.OracleVersion,
		FileName:      req.FileName,
		Description:   req.Description,
	}

	ctx := c.Request.Context()
	var (
		saved *model.SoftwareItem
		err   error
	)
	if id == 0 {
		saved, err = h.softwareService.Create(ctx, item)
	} else {
		saved, err = h.softwareService.Update(ctx, item)
	}
	if err != nil {
		h.feedback.Failed(ctx, 0, "保存软件库条目失败", err)
		responses.Error(c, err)
		return
	}

	h.feedback.Done(ctx, 0, "软件库已更新", req.Name, refresh.TopicSoftware)
	responses.Success(c, saved)
}

// Delete 删除软件库条目
// @Summary 删除软件库条目
// @Tags Software
// @Produce json
// @Param id path int64 true "条目ID"
// @Success 200 {object} responses.Response
// @Router /api/v1/software-library/{id} [delete]
func (h *SoftwareHandler) Delete(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if err := h.softwareService.Delete(ctx, id); err != nil {
		h.feedback.Failed(ctx, 0, "删除软件库条目失败", err)
		responses.Error(c, err)
		return
	}

	h.feedback.Done(ctx, 0, "软件库条目已删除", "", refresh.TopicSoftware)
	responses.SuccessWithMessage(c, "删除成功", nil)
}
