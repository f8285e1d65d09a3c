package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"migration-console/internal/core/pagination"
	"migration-console/internal/dto"
	"migration-console/internal/model"
	"migration-console/internal/service"
	"migration-console/pkg/responses"
	"migration-console/pkg/utils"
)

type OperationHandler struct {
	historyService service.DeploymentHistoryService
	paginator      *pagination.Paginator
}

func NewOperationHandler(historyService service.DeploymentHistoryService, paginator *pagination.Paginator) *OperationHandler {
	return &OperationHandler{historyService: historyService, paginator: paginator}
}

// List 部署历史
// @Summary 部署历史
// @Tags Operation
// @Produce json
// @Param wave_id query int64 false "波次ID"
// @Param db_id query int64 false "源库ID"
// @Success 200 {object} responses.Response{data=[]dto.OperationView}
// @Router /api/v1/operations [get]
func (h *OperationHandler) List(c *gin.Context) {
	var q dto.OperationListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		responses.Error(c, bindError(err))
		return
	}
	if (q.WaveID == 0) == (q.DbID == 0) {
		responses.Error(c, responses.NewFieldError(map[string][]string{"wave_id": {"exactly one of wave_id or db_id is required"}}))
		return
	}

	ctx := c.Request.Context()
	var (
		ops []model.DeploymentOperation
		err error
	)
	if q.WaveID > 0 {
		ops, err = h.historyService.ListByWave(ctx, q.WaveID)
	} else {
		ops, err = h.historyService.ListByDb(ctx, q.DbID)
	}
	if err != nil {
		responses.Error(c, err)
		return
	}

	now := time.Now()
	views := lo.Map(ops, func(op model.DeploymentOperation, _ int) dto.OperationView {
		return newOperationView(&op, now)
	})
	paginate(c, h.paginator, &q.PageQuery, views)
}

// Get 部署操作详情
// @Summary 部署操作详情
// @Tags Operation
// @Produce json
// @Param id path int64 true "操作ID"
// @Success 200 {object} responses.Response{data=dto.OperationView}
// @Router /api/v1/operations/{id} [get]
func (h *OperationHandler) Get(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	op, err := h.historyService.Get(c.Request.Context(), id)
	if err != nil {
		responses.Error(c, err)
		return
	}
	responses.Success(c, newOperationView(op, time.Now()))
}

func newOperationView(op *model.DeploymentOperation, now time.Time) dto.OperationView {
	return dto.OperationView{
		DeploymentOperation: *op,
		Duration:            utils.FormatMillisecondsToTime(op.Duration(now).Milliseconds()),
	}
}
