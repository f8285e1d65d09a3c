package model

// ScheduledTask 定时恢复任务
type ScheduledTask struct {
	ID            int64         `json:"id,omitempty"`
	ProjectID     int64         `json:"project_id"`
	WaveID        *int64        `json:"wave_id,omitempty"`
	DbID          *int64        `json:"db_id,omitempty"`
	OperationType OperationType `json:"operation_type"`
	ScheduleTime  Timestamp     `json:"schedule_time"`
	Status        *string       `json:"status,omitempty"`
}
