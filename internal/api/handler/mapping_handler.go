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

type MappingHandler struct {
	mappingService  service.MappingService
	sourceDbService service.SourceDbService
	selection       *state.Selection
	paginator       *pagination.Paginator
	feedback        *Feedback
}

func NewMappingHandler(mappingService service.MappingService, sourceDbService service.SourceDbService, selection *state.Selection, paginator *pagination.Paginator, feedback *Feedback) *MappingHandler {
	return &MappingHandler{
		mappingService:  mappingService,
		sourceDbService: sourceDbService,
		selection:       selection,
		paginator:       paginator,
		feedback:        feedback,
	}
}

// List 按源库或当前项目列出映射
// @Summary 映射列表
// @Tags Mapping
// @Produce json
// @Param db_id query int64 false "源库ID，不传时为当前项目全部映射"
// @Success 200 {object} responses.Response{data=[]model.Mapping}
// @Router /api/v1/mappings [get]
func (h *MappingHandler) List(c *gin.Context) {
	var q dto.MappingListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		responses.Error(c, bindError(err))
		return
	}

	ctx := c.Request.Context()
	var (
		mappings []model.Mapping
		err      error
	)
	if q.DbID > 0 {
		mappings, err = h.mappingService.ListByDb(ctx, q.DbID)
	} else {
		var projectID int64
		if projectID, err = h.selection.ProjectID(ctx); err == nil {
			mappings, err = h.mappingService.ListByProject(ctx, projectID)
		}
	}
	if err != nil {
		responses.Error(c, err)
		return
	}
	paginate(c, h.paginator, &q.PageQuery, mappings)
}

// Create 创建映射
// @Summary 创建映射
// @Description 源库已有映射时后端返回字段错误
// @Tags Mapping
// @Accept json
// @Produce json
// @Param request body dto.MappingRequest true "创建映射请求"
// @Success 200 {object} responses.Response{data=model.Mapping}
// @Router /api/v1/mappings [post]
func (h *MappingHandler) Create(c *gin.Context) {
	h.save(c, 0)
}

// Update 修改映射
// @Summary 修改映射
// @Tags Mapping
// @Accept json
// @Produce json
// @Param id path int64 true "映射ID"
// @Param request body dto.MappingRequest true "修改映射请求"
// @Success 200 {object} responses.Response{data=model.Mapping}
// @Router /api/v1/mappings/{id} [put]
func (h *MappingHandler) Update(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	h.save(c, id)
}

func (h *MappingHandler) save(c *gin.Context, id int64) {
	var req dto.MappingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, bindError(err))
		return
	}

	ctx := c.Request.Context()
	db, err := h.sourceDbService.Get(ctx, req.DbID)
	if err != nil {
		responses.Error(c, err)
		return
	}

	m := req.ToModel(id, db.ProjectID)
	if db.IsRAC() && m.FeRacNodes == 0 {
		m.FeRacNodes = db.RacNodes
	}
	if fields := model.ValidateMapping(m, db); fields != nil {
		responses.Error(c, responses.NewFieldError(fields))
		return
	}

	var saved *model.Mapping
	if id == 0 {
		saved, err = h.mappingService.Create(ctx, m)
	} else {
		saved, err = h.mappingService.Update(ctx, m)
	}
	if err != nil {
		h.feedback.Failed(ctx, db.ProjectID, "保存映射失败", err)
		responses.Error(c, err)
		return
	}

	h.feedback.Done(ctx, db.ProjectID, "映射已保存", db.DbName,
		refresh.TopicMappings, refresh.TopicTargets, refresh.TopicSourceDbs)
	responses.Success(c, saved)
}
