package model

import "time"

// OperationType 部署操作类型
type OperationType string

const (
	OperationPreRestore      OperationType = "pre_restore"
	OperationRestore         OperationType = "restore"
	OperationRollbackRestore OperationType = "rollback_restore"
	OperationFailover        OperationType = "failover"
)

// Valid 是否为已知操作类型
func (t OperationType) Valid() bool {
	switch t {
	case OperationPreRestore, OperationRestore, OperationRollbackRestore, OperationFailover:
		return true
	}
	return false
}

// OperationStatus 部署操作状态
type OperationStatus string

const (
	OperationStarting          OperationStatus = "STARTING"
	OperationInProgress        OperationStatus = "IN_PROGRESS"
	OperationComplete          OperationStatus = "COMPLETE"
	OperationFailed            OperationStatus = "FAILED"
	OperationCompletePartially OperationStatus = "COMPLETE_PARTIALLY"
)

// IsTerminal COMPLETE / FAILED / COMPLETE_PARTIALLY 为终态
// 未知状态按非终态处理，继续轮询
func (s OperationStatus) IsTerminal() bool {
	switch s {
	case OperationComplete, OperationFailed, OperationCompletePartially:
		return true
	}
	return false
}

// OperationBms 操作涉及的单台目标机
type OperationBms struct {
	ID              int64           `json:"id"`
	Name            string          `json:"name"`
	LogsURL         string          `json:"logs_url,omitempty"`
	OperationStatus OperationStatus `json:"operation_status,omitempty"`
}

// DeploymentOperation 部署历史条目
type DeploymentOperation struct {
	ID              int64           `json:"id"`
	WaveID          *int64          `json:"wave_id,omitempty"`
	DbID            *int64          `json:"db_id,omitempty"`
	OperationType   OperationType   `json:"operation_type"`
	OperationStatus OperationStatus `json:"operation_status"`
	StartedAt       Timestamp       `json:"started_at,omitempty"`
	CompletedAt     Timestamp       `json:"completed_at,omitempty"`
	Bms             []OperationBms  `json:"bms,omitempty"`
}

// IsTerminal 是否已结束
func (op *DeploymentOperation) IsTerminal() bool {
	return op.OperationStatus.IsTerminal()
}

// Duration 耗时，未开始返回负值（显示为 "-"）；未结束时按 now 计算
func (op *DeploymentOperation) Duration(now time.Time) time.Duration {
	if op.StartedAt.IsZero() {
		return -time.Millisecond
	}
	end := now
	if op.IsTerminal() && !op.CompletedAt.IsZero() {
		end = op.CompletedAt.Time
	}
	if end.Before(op.StartedAt.Time) {
		return -time.Millisecond
	}
	return end.Sub(op.StartedAt.Time)
}
