package handler

import (
	"github.com/gin-gonic/gin"

	"migration-console/internal/core/pagination"
	"migration-console/internal/core/workspace"
	"migration-console/internal/dto"
	"migration-console/internal/service"
	"migration-console/internal/state"
	"migration-console/pkg/responses"
)

// StateHandler 控制台本地状态：当前项目、界面偏好、侧滑面板、工作区快照
type StateHandler struct {
	selection      *state.Selection
	preferences    *state.Preferences
	panel          *state.Panel
	workspace      *workspace.Workspace
	paginator      *pagination.Paginator
	projectService service.ProjectService
}

func NewStateHandler(
	selection *state.Selection,
	preferences *state.Preferences,
	panel *state.Panel,
	ws *workspace.Workspace,
	paginator *pagination.Paginator,
	projectService service.ProjectService,
) *StateHandler {
	return &StateHandler{
		selection:      selection,
		preferences:    preferences,
		panel:          panel,
		workspace:      ws,
		paginator:      paginator,
		projectService: projectService,
	}
}

// GetSelection 当前项目
// @Summary 当前项目
// @Tags State
// @Produce json
// @Success 200 {object} responses.Response{data=state.CurrentProject}
// @Router /api/v1/selection/project [get]
func (h *StateHandler) GetSelection(c *gin.Context) {
	cur, err := h.selection.Current(c.Request.Context())
	if err != nil {
		responses.Error(c, err)
		return
	}
	responses.Success(c, cur)
}

// SelectProject 切换当前项目，项目须在后端存在
// @Summary 切换当前项目
// @Tags State
// @Accept json
// @Produce json
// @Param request body dto.SelectProjectRequest true "项目"
// @Success 200 {object} responses.Response{data=state.CurrentProject}
// @Router /api/v1/selection/project [put]
func (h *StateHandler) SelectProject(c *gin.Context) {
	var req dto.SelectProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, bindError(err))
		return
	}

	ctx := c.Request.Context()
	project, err := h.projectService.Get(ctx, req.ProjectID)
	if err != nil {
		responses.Error(c, err)
		return
	}
	if err := h.selection.SetProject(ctx, project.ID, project.Name); err != nil {
		responses.Error(c, err)
		return
	}
	responses.Success(c, &state.CurrentProject{ID: project.ID, Name: project.Name})
}

// ClearSelection 取消选择
// @Summary 取消当前项目
// @Tags State
// @Produce json
// @Success 200 {object} responses.Response
// @Router /api/v1/selection/project [delete]
func (h *StateHandler) ClearSelection(c *gin.Context) {
	if err := h.selection.Clear(c.Request.Context()); err != nil {
		responses.Error(c, err)
		return
	}
	responses.Success(c, nil)
}

// GetPreferences 界面偏好
// @Summary 界面偏好
// @Tags State
// @Produce json
// @Success 200 {object} responses.Response{data=state.UIPreferences}
// @Router /api/v1/preferences [get]
func (h *StateHandler) GetPreferences(c *gin.Context) {
	prefs, err := h.preferences.Get(c.Request.Context())
	if err != nil {
		responses.Error(c, err)
		return
	}
	responses.Success(c, prefs)
}

// UpdatePreferences 更新界面偏好
// @Summary 更新界面偏好
// @Tags State
// @Accept json
// @Produce json
// @Param request body dto.PreferencesRequest true "偏好"
// @Success 200 {object} responses.Response{data=state.UIPreferences}
// @Router /api/v1/preferences [put]
func (h *StateHandler) UpdatePreferences(c *gin.Context) {
	var req dto.PreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, bindError(err))
		return
	}

	ctx := c.Request.Context()
	if req.SidebarState != nil {
		if err := h.preferences.SetSidebar(ctx, state.SidebarState(*req.SidebarState)); err != nil {
			responses.Error(c, err)
			return
		}
	}
	if req.PageSize != nil {
		if err := h.preferences.SetPageSize(ctx, *req.PageSize); err != nil {
			responses.Error(c, err)
			return
		}
	}
	h.GetPreferences(c)
}

// GetPanel 侧滑面板状态
// @Summary 侧滑面板状态
// @Tags State
// @Produce json
// @Success 200 {object} responses.Response{data=state.PanelConfig}
// @Router /api/v1/panel [get]
func (h *StateHandler) GetPanel(c *gin.Context) {
	responses.Success(c, h.panel.Get())
}

// OpenPanel 打开侧滑面板
// @Summary 打开侧滑面板
// @Tags State
// @Accept json
// @Produce json
// @Param request body dto.PanelRequest true "面板"
// @Success 200 {object} responses.Response{data=state.PanelConfig}
// @Router /api/v1/panel [put]
func (h *StateHandler) OpenPanel(c *gin.Context) {
	var req dto.PanelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, bindError(err))
		return
	}
	h.panel.Open(state.PanelConfig{Title: req.Title, Entity: req.Entity, EntityID: req.EntityID})
	responses.Success(c, h.panel.Get())
}

// ClosePanel 关闭侧滑面板
// @Summary 关闭侧滑面板
// @Tags State
// @Produce json
// @Success 200 {object} responses.Response{data=state.PanelConfig}
// @Router /api/v1/panel [delete]
func (h *StateHandler) ClosePanel(c *gin.Context) {
	h.panel.Close()
	responses.Success(c, h.panel.Get())
}

// Workspace 当前项目的工作区快照
// @Summary 工作区快照
// @Tags State
// @Produce json
// @Param reload query bool false "丢弃缓存重新加载"
// @Success 200 {object} responses.Response{data=workspace.Snapshot}
// @Router /api/v1/workspace [get]
func (h *StateHandler) Workspace(c *gin.Context) {
	ctx := c.Request.Context()
	var (
		snap *workspace.Snapshot
		err  error
	)
	if c.Query("reload") == "true" {
		snap, err = h.workspace.Reload(ctx)
	} else {
		snap, err = h.workspace.Snapshot(ctx)
	}
	if err != nil {
		responses.Error(c, err)
		return
	}
	responses.Success(c, snap)
}

// PaginationLabel 分页文案，同时记住每页条数
// @Summary 分页文案
// @Tags State
// @Produce json
// @Param page_index query int false "页序号，从0开始"
// @Param page_size query int false "每页条数"
// @Param length query int false "总条数"
// @Success 200 {object} responses.Response{data=dto.PaginationLabelResponse}
// @Router /api/v1/pagination/label [get]
func (h *StateHandler) PaginationLabel(c *gin.Context) {
	var q dto.PaginationLabelQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		responses.Error(c, bindError(err))
		return
	}

	ctx := c.Request.Context()
	label, err := h.paginator.RangeLabel(ctx, q.PageIndex, q.PageSize, q.Length)
	if err != nil {
		responses.Error(c, err)
		return
	}
	responses.Success(c, dto.PaginationLabelResponse{Label: label, PageSize: h.paginator.PageSize(ctx)})
}
