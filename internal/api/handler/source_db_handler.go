package handler

import (
	"github.com/gin-gonic/gin"

	"migration-console/internal/core/pagination"
	"migration-console/internal/core/refresh"
	"migration-console/internal/dto"
	"migration-console/internal/service"
	"migration-console/internal/state"
	"migration-console/pkg/responses"
)

type SourceDbHandler struct {
	sourceDbService service.SourceDbService
	selection       *state.Selection
	paginator       *pagination.Paginator
	feedback        *Feedback
}

func NewSourceDbHandler(sourceDbService service.SourceDbService, selection *state.Selection, paginator *pagination.Paginator, feedback *Feedback) *SourceDbHandler {
	return &SourceDbHandler{
		sourceDbService: sourceDbService,
		selection:       selection,
		paginator:       paginator,
		feedback:        feedback,
	}
}

// List 当前项目的源库
// @Summary 源库列表
// @Tags SourceDb
// @Produce json
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {object} responses.Response{data=[]model.SourceDb}
// @Router /api/v1/source-dbs [get]
func (h *SourceDbHandler) List(c *gin.Context) {
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
	dbs, err := h.sourceDbService.List(ctx, projectID)
	if err != nil {
		responses.Error(c, err)
		return
	}
	paginate(c, h.paginator, &q, dbs)
}

// Get 源库详情
// @Summary 源库详情
// @Tags SourceDb
// @Produce json
// @Param id path int64 true "源库ID"
// @Success 200 {object} responses.Response{data=model.SourceDb}
// @Router /api/v1/source-dbs/{id} [get]
func (h *SourceDbHandler) Get(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	db, err := h.sourceDbService.Get(c.Request.Context(), id)
	if err != nil {
		responses.Error(c, err)
		return
	}
	responses.Success(c, db)
}

// Update 修改源库（Oracle 版本、所属波次）
// @Summary 修改源库
// @Tags SourceDb
// @Accept json
// @Produce json
// @Param id path int64 true "源库ID"
// @Param request body dto.UpdateSourceDbRequest true "修改源库请求"
// @Success 200 {object} responses.Response{data=model.SourceDb}
// @Router /api/v1/source-dbs/{id} [put]
func (h *SourceDbHandler) Update(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	var req dto.UpdateSourceDbRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, bindError(err))
		return
	}

	ctx := c.Request.Context()
	db, err := h.sourceDbService.Get(ctx, id)
	if err != nil {
		responses.Error(c, err)
		return
	}
	if req.OracleVersion != nil {
		db.OracleVersion = *req.OracleVersion
	}
	if req.WaveID != nil {
		if *req.WaveID == 0 {
			db.WaveID = nil
		} else {
			db.WaveID = req.WaveID
		}
	}

	updated, err := h.sourceDbService.Update(ctx, db)
	if err != nil {
		h.feedback.Failed(ctx, db.ProjectID, "修改源库失败", err)
		responses.Error(c, err)
		return
	}

	h.feedback.Done(ctx, db.ProjectID, "源库已更新", db.DbName, refresh.TopicSourceDbs, refresh.TopicWaves)
	responses.Success(c, updated)
}

// UploadMigvisor 导入 migVisor 评估结果到当前项目
// @Summary 导入 migVisor 文件
// @Tags SourceDb
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "migVisor 导出文件"
// @Success 200 {object} responses.Response
// @Router /api/v1/source-dbs/migvisor [post]
func (h *SourceDbHandler) UploadMigvisor(c *gin.Context) {
	ctx := c.Request.Context()
	projectID, err := h.selection.ProjectID(ctx)
	if err != nil {
		responses.Error(c, err)
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		responses.Error(c, responses.NewFieldError(map[string][]string{"file": {"is required"}}))
		return
	}
	f, err := fh.Open()
	if err != nil {
		responses.Error(c, responses.Wrap(responses.CodeBadRequest, "读取上传文件失败", err))
		return
	}
	defer f.Close()

	result, err := h.sourceDbService.UploadMigvisor(ctx, projectID, fh.Filename, f)
	if err != nil {
		h.feedback.Failed(ctx, projectID, "导入 migVisor 失败", err)
		responses.Error(c, err)
		return
	}

	h.feedback.Done(ctx, projectID, "migVisor 导入完成", fh.Filename, refresh.TopicSourceDbs)
	responses.Success(c, result)
}
