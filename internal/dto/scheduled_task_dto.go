package dto

import "migration-console/internal/model"

// ScheduledTaskRequest 创建/更新定时恢复任务，wave_id 与 db_id 至少一个
type ScheduledTaskRequest struct {
	WaveID        *int64              `json:"wave_id" binding:"omitempty,gt=0"`
	DbID          *int64              `json:"db_id" binding:"omitempty,gt=0"`
	OperationType model.OperationType `json:"operation_type" binding:"required,oneof=pre_restore restore rollback_restore failover"`
	ScheduleTime  model.Timestamp     `json:"schedule_time"`
}

// Check 补充 binding 无法表达的校验
func (r *ScheduledTaskRequest) Check() map[string][]string {
	fields := map[string][]string{}
	if r.ScheduleTime.IsZero() {
		fields["schedule_time"] = []string{"is required"}
	}
	if r.WaveID == nil && r.DbID == nil {
		fields["wave_id"] = []string{"wave_id or db_id is required"}
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}
