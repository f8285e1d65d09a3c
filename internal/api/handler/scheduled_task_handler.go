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

type ScheduledTaskHandler struct {
	taskService service.ScheduleRestoreService
	selection   *state.Selection
	feedback    *Feedback
}

func NewScheduledTaskHandler(taskService service.ScheduleRestoreService, selection *state.Selection, feedback *Feedback) *ScheduledTaskHandler {
	return &ScheduledTaskHandler{taskService: taskService, selection: selection, feedback: feedback}
}

// List 当前项目的定时恢复任务
// @Summary 定时恢复任务列表
// @Tags ScheduledTask
// @Produce json
// @Success 200 {object} responses.Response{data=[]model.ScheduledTask}
// @Router /api/v1/scheduled-tasks [get]
func (h *ScheduledTaskHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	projectID, err := h.selection.ProjectID(ctx)
	if err != nil {
		responses.Error(c, err)
		return
	}
	tasks, err := h.taskService.List(ctx, projectID)
	if err != nil {
		responses.Error(c, err)
		return
	}
	responses.Success(c, tasks)
}

// Get 定时恢复任务详情
// @Summary 定时恢复任务详情
// @Tags ScheduledTask
// @Produce json
// @Param id path int64 true "任务ID"
// @Success 200 {object} responses.Response{data=model.ScheduledTask}
// @Router /api/v1/scheduled-tasks/{id} [get]
func (h *ScheduledTaskHandler) Get(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	task, err := h.taskService.Get(c.Request.Context(), id)
	if err != nil {
		responses.Error(c, err)
		return
	}
	responses.Success(c, task)
}

// Create 创建定时恢复任务
// @Summary 创建定时恢复任务
// @Tags ScheduledTask
// @Accept json
// @Produce json
// @Param request body dto.ScheduledTaskRequest true "任务"
// @Success 200 {object} responses.Response{data=model.ScheduledTask}
// @Router /api/v1/scheduled-tasks [post]
func (h *ScheduledTaskHandler) Create(c *gin.Context) {
	h.save(c, 0)
}

// Update 修改定时恢复任务
// @Summary 修改定时恢复任务
// @Tags ScheduledTask
// @Accept json
// @Produce json
// @Param id path int64 true "任务ID"
// @Param request body dto.ScheduledTaskRequest true "任务"
// @Success 200 {object} responses.Response{data=model.ScheduledTask}
// @Router /api/v1/scheduled-tasks/{id} [put]
func (h *ScheduledTaskHandler) Update(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	h.save(c, id)
}

func (h *ScheduledTaskHandler) save(c *gin.Context, id int64) {
	var req dto.ScheduledTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, bindError(err))
		return
	}
	if fields := req.Check(); fields != nil {
		responses.Error(c, responses.NewFieldError(fields))
		return
	}

	ctx := c.Request.Context()
	projectID, err := h.selection.ProjectID(ctx)
	if err != nil {
		responses.Error(c, err)
		return
	}

	task := &model.ScheduledTask{
		ID:            id,
		ProjectID:     projectID,
		WaveID:        req.WaveID,
		DbID:          req.DbID,
		OperationType: req.OperationType,
		ScheduleTime:  req.ScheduleTime,
	}
	var saved *model.ScheduledTask
	if id == 0 {
		saved, err = h.taskService.Create(ctx, task)
	} else {
		saved, err = h.taskService.Update(ctx, task)
	}
	if err != nil {
		h.feedback.Failed(ctx, projectID, "保存定时任务失败", err)
		responses.Error(c, err)
		return
	}

	h.feedback.Done(ctx, projectID, "定时任务已保存", string(req.OperationType), refresh.TopicScheduledTasks)
	responses.Success(c, saved)
}

// Delete 删除定时恢复任务
// @Summary 删除定时恢复任务
// @Tags ScheduledTask
// @Produce json
// @Param id path int64 true "任务ID"
// @Success 200 {object} responses.Response
// @Router /api/v1/scheduled-tasks/{id} [delete]
func (h *ScheduledTaskHandler) Delete(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	projectID, _ := h.selection.ProjectID(ctx)
	if err := h.taskService.Delete(ctx, id); err != nil {
		h.feedback.Failed(ctx, projectID, "删除定时任务失败", err)
		responses.Error(c, err)
		return
	}

	h.feedback.Done(ctx, projectID, "定时任务已删除", "", refresh.TopicScheduledTasks)
	responses.SuccessWithMessage(c, "删除成功", nil)
}
