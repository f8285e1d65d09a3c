package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"migration-console/internal/core/refresh"
	"migration-console/internal/dto"
	"migration-console/internal/model"
	"migration-console/internal/service"
	"migration-console/internal/state"
	"migration-console/pkg/responses"
)

type ProjectHandler struct {
	projectService service.ProjectService
	selection      *state.Selection
	feedback       *Feedback
}

func NewProjectHandler(projectService service.ProjectService, selection *state.Selection, feedback *Feedback) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		selection:      selection,
		feedback:       feedback,
	}
}

// List 获取项目列表
// @Summary 获取项目列表
// @Tags Project
// @Produce json
// @Success 200 {object} responses.Response{data=[]model.Project}
// @Router /api/v1/projects [get]
func (h *ProjectHandler) List(c *gin.Context) {
	projects, err := h.projectService.List(c.Request.Context())
	if err != nil {
		responses.Error(c, err)
		return
	}
	responses.Success(c, projects)
}

// Get 获取项目详情
// @Summary 获取项目详情
// @Tags Project
// @Produce json
// @Param id path int64 true "项目ID"
// @Success 200 {object} responses.Response{data=model.Project}
// @Router /api/v1/projects/{id} [get]
func (h *ProjectHandler) Get(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	project, err := h.projectService.Get(c.Request.Context(), id)
	if err != nil {
		responses.Error(c, err)
		return
	}
	responses.Success(c, project)
}

// Create 创建项目
// @Summary 创建项目
// @Tags Project
// @Accept json
// @Produce json
// @Param request body dto.ProjectRequest true "创建项目请求"
// @Success 200 {object} responses.Response{data=model.Project}
// @Router /api/v1/projects [post]
func (h *ProjectHandler) Create(c *gin.Context) {
	var req dto.ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, bindError(err))
		return
	}

	ctx := c.Request.Context()
	project, err := h.projectService.Create(ctx, &model.Project{Name: req.Name, Description: req.Description})
	if err != nil {
		h.feedback.Failed(ctx, 0, "创建项目失败", err)
		responses.Error(c, err)
		return
	}

	h.feedback.Done(ctx, project.ID, "项目已创建", project.Name, refresh.TopicProjects)
	responses.Success(c, project)
}

// Update 更新项目
// @Summary 更新项目
// @Tags Project
// @Accept json
// @Produce json
// @Param id path int64 true "项目ID"
// @Param request body dto.ProjectRequest true "更新项目请求"
// @Success 200 {object} responses.Response{data=model.Project}
// @Router /api/v1/projects/{id} [put]
func (h *ProjectHandler) Update(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	var req dto.ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, bindError(err))
		return
	}

	ctx := c.Request.Context()
	project, err := h.projectService.Update(ctx, &model.Project{ID: id, Name: req.Name, Description: req.Description})
	if err != nil {
		h.feedback.Failed(ctx, id, "更新项目失败", err)
		responses.Error(c, err)
		return
	}

	// 当前项目改名时同步选择状态中的名称
	if cur, err := h.selection.Current(ctx); err == nil && cur != nil && cur.ID == id && cur.Name != project.Name {
		if err := h.selection.SetProject(ctx, id, project.Name); err != nil {
			h.feedback.logger.Warn("同步当前项目名称失败", zap.Int64("project_id", id), zap.Error(err))
		}
	}

	h.feedback.Done(ctx, id, "项目已更新", project.Name, refresh.TopicProjects)
	responses.Success(c, project)
}

// Delete 删除项目，删除当前项目时清空选择
// @Summary 删除项目
// @Tags Project
// @Produce json
// @Param id path int64 true "项目ID"
// @Success 200 {object} responses.Response
// @Router /api/v1/projects/{id} [delete]
func (h *ProjectHandler) Delete(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if err := h.projectService.Delete(ctx, id); err != nil {
		h.feedback.Failed(ctx, id, "删除项目失败", err)
		responses.Error(c, err)
		return
	}

	if cur, err := h.selection.Current(ctx); err == nil && cur != nil && cur.ID == id {
		if err := h.selection.Clear(ctx); err != nil {
			responses.Error(c, err)
			return
		}
	}

	h.feedback.Done(ctx, id, "项目已删除", "", refresh.TopicProjects)
	responses.SuccessWithMessage(c, "删除成功", nil)
}
