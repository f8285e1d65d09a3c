package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"migration-console/internal/adapter/notification"
	"migration-console/internal/core/pagination"
	"migration-console/internal/core/refresh"
	"migration-console/internal/dto"
	"migration-console/internal/model"
	"migration-console/internal/service"
	"migration-console/internal/state"
	"migration-console/pkg/responses"
)

type WaveHandler struct {
	waveService service.WaveService
	selection   *state.Selection
	paginator   *pagination.Paginator
	feedback    *Feedback
	logger      *zap.Logger
}

func NewWaveHandler(waveService service.WaveService, selection *state.Selection, paginator *pagination.Paginator, feedback *Feedback, logger *zap.Logger) *WaveHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WaveHandler{
		waveService: waveService,
		selection:   selection,
		paginator:   paginator,
		feedback:    feedback,
		logger:      logger,
	}
}

// List 当前项目的波次
// @Summary 波次列表
// @Tags Wave
// @Produce json
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {object} responses.Response{data=[]model.Wave}
// @Router /api/v1/waves [get]
func (h *WaveHandler) List(c *gin.Context) {
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
	waves, err := h.waveService.List(ctx, projectID)
	if err != nil {
		responses.Error(c, err)
		return
	}
	for i := range waves {
		h.checkStatusRate(&waves[i])
	}
	paginate(c, h.paginator, &q, waves)
}

// Get 波次详情
// @Summary 波次详情
// @Tags Wave
// @Produce json
// @Param id path int64 true "波次ID"
// @Success 200 {object} responses.Response{data=model.Wave}
// @Router /api/v1/waves/{id} [get]
func (h *WaveHandler) Get(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	wave, err := h.waveService.Get(c.Request.Context(), id)
	if err != nil {
		responses.Error(c, err)
		return
	}
	h.checkStatusRate(wave)
	responses.Success(c, wave)
}

// Create 在当前项目下创建波次
// @Summary 创建波次
// @Description 项目id取自当前选择，请求体中的 project_id 会被忽略
// @Tags Wave
// @Accept json
// @Produce json
// @Param request body dto.CreateWaveRequest true "创建波次请求"
// @Success 200 {object} responses.Response{data=model.Wave}
// @Router /api/v1/waves [post]
func (h *WaveHandler) Create(c *gin.Context) {
	var req dto.CreateWaveRequest
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

	wave, err := h.waveService.Create(ctx, &service.WaveBody{Name: req.Name, ProjectID: projectID})
	if err != nil {
		h.feedback.Failed(ctx, projectID, "创建波次失败", err)
		responses.Error(c, err)
		return
	}
	if wave.ProjectID == 0 {
		wave.ProjectID = projectID
	}

	h.feedback.WaveDone(ctx, wave, notification.NotifyWaveCreated, req.Name, refresh.TopicWaves)
	responses.Success(c, wave)
}

// Update 修改波次名称，id 与 project_id 保持不变
// @Summary 修改波次
// @Tags Wave
// @Accept json
// @Produce json
// @Param id path int64 true "波次ID"
// @Param request body dto.UpdateWaveRequest true "修改波次请求"
// @Success 200 {object} responses.Response{data=model.Wave}
// @Router /api/v1/waves/{id} [put]
func (h *WaveHandler) Update(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	var req dto.UpdateWaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, bindError(err))
		return
	}

	ctx := c.Request.Context()
	current, err := h.waveService.Get(ctx, id)
	if err != nil {
		responses.Error(c, err)
		return
	}

	wave, err := h.waveService.Update(ctx, &service.WaveBody{ID: current.ID, ProjectID: current.ProjectID, Name: req.Name})
	if err != nil {
		h.feedback.Failed(ctx, current.ProjectID, "修改波次失败", err)
		responses.Error(c, err)
		return
	}
	if wave.ID == 0 {
		wave.ID = current.ID
	}
	if wave.ProjectID == 0 {
		wave.ProjectID = current.ProjectID
	}

	h.feedback.WaveDone(ctx, wave, notification.NotifyWaveUpdated, req.Name, refresh.TopicWaves)
	responses.Success(c, wave)
}

// Delete 删除波次
// @Summary 删除波次
// @Tags Wave
// @Produce json
// @Param id path int64 true "波次ID"
// @Success 200 {object} responses.Response
// @Router /api/v1/waves/{id} [delete]
func (h *WaveHandler) Delete(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	wave, err := h.waveService.Get(ctx, id)
	if err != nil {
		responses.Error(c, err)
		return
	}
	if err := h.waveService.Delete(ctx, id); err != nil {
		h.feedback.Failed(ctx, wave.ProjectID, "删除波次失败", err)
		responses.Error(c, err)
		return
	}

	// 波次内的源库与映射会被移出
	h.feedback.WaveDone(ctx, wave, notification.NotifyWaveDeleted, wave.Name,
		refresh.TopicWaves, refresh.TopicSourceDbs, refresh.TopicMappings)
	responses.SuccessWithMessage(c, "删除成功", nil)
}

// StartOperation 对波次发起部署操作
// @Summary 发起部署操作
// @Tags Wave
// @Accept json
// @Produce json
// @Param id path int64 true "波次ID"
// @Param request body dto.StartOperationRequest true "操作类型"
// @Success 200 {object} responses.Response{data=model.DeploymentOperation}
// @Router /api/v1/waves/{id}/operations [post]
func (h *WaveHandler) StartOperation(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	var req dto.StartOperationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, bindError(err))
		return
	}

	ctx := c.Request.Context()
	wave, err := h.waveService.Get(ctx, id)
	if err != nil {
		responses.Error(c, err)
		return
	}
	if wave.IsRunning {
		responses.Error(c, responses.New(responses.CodeConflict, fmt.Sprintf("波次 %s 正在执行操作", wave.Name)))
		return
	}

	op, err := h.waveService.StartOperation(ctx, id, req.OperationType, req.DbIDs)
	if err != nil {
		h.feedback.Failed(ctx, wave.ProjectID, "发起部署操作失败", err)
		responses.Error(c, err)
		return
	}

	h.feedback.WaveDone(ctx, wave, notification.NotifyOperationStarted, string(req.OperationType), refresh.TopicWaves)
	responses.Success(c, op)
}

// Export 导出波次及其映射
// @Summary 导出波次为 YAML
// @Tags Wave
// @Produce application/x-yaml
// @Param id path int64 true "波次ID"
// @Success 200 {string} string "YAML"
// @Router /api/v1/waves/{id}/export [get]
func (h *WaveHandler) Export(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	wave, err := h.waveService.Get(c.Request.Context(), id)
	if err != nil {
		responses.Error(c, err)
		return
	}

	out, err := yaml.Marshal(newWaveExport(wave))
	if err != nil {
		responses.Error(c, responses.Wrap(responses.CodeInternalError, "导出失败", err))
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="wave-%d.yaml"`, wave.ID))
	c.Data(200, "application/x-yaml; charset=utf-8", out)
}

// checkStatusRate 统计不一致时只告警，原样返回
func (h *WaveHandler) checkStatusRate(w *model.Wave) {
	if !w.StatusRateConsistent() {
		h.logger.Warn("波次统计与映射数不一致",
			zap.Int64("wave_id", w.ID),
			zap.Int("mappings_count", w.MappingsCount),
			zap.Int("status_total", w.StatusRate.Total()))
	}
}

// waveExport 导出格式
type waveExport struct {
	ID             int64              `yaml:"id"`
	ProjectID      int64              `yaml:"project_id"`
	Name           string             `yaml:"name"`
	IsRunning      bool               `yaml:"is_running"`
	CurrOperation  string             `yaml:"curr_operation,omitempty"`
	LastDeployment model.Timestamp    `yaml:"last_deployment"`
	StatusRate     model.StatusRate   `yaml:"status_rate"`
	Mappings       []waveExportMember `yaml:"mappings"`
}

type waveExportMember struct {
	DbID            int64                 `yaml:"db_id"`
	DbName          string                `yaml:"db_name"`
	Server          string                `yaml:"server"`
	OperationType   model.OperationType   `yaml:"operation_type,omitempty"`
	OperationStatus model.OperationStatus `yaml:"operation_status,omitempty"`
}

func newWaveExport(w *model.Wave) *waveExport {
	out := &waveExport{
		ID:             w.ID,
		ProjectID:      w.ProjectID,
		Name:           w.Name,
		IsRunning:      w.IsRunning,
		LastDeployment: w.LastDeployment,
		StatusRate:     w.StatusRate,
		Mappings:       make([]waveExportMember, 0, len(w.Mappings)),
	}
	if w.CurrOperation != nil {
		out.CurrOperation = *w.CurrOperation
	}
	for _, m := range w.Mappings {
		out.Mappings = append(out.Mappings, waveExportMember{
			DbID:            m.DbID,
			DbName:          m.DbName,
			Server:          m.Server,
			OperationType:   m.OperationType,
			OperationStatus: m.OperationStatus,
		})
	}
	return out
}
