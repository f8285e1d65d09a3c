package dto

import "migration-console/internal/model"

// CreateWaveRequest 创建波次，项目取自当前选择
type CreateWaveRequest struct {
	Name string `json:"name" binding:"required,max=30" example:"Wave 1"`
}

// UpdateWaveRequest 只允许修改名称
type UpdateWaveRequest struct {
	Name string `json:"name" binding:"required,max=30" example:"Wave 1"`
}

// StartOperationRequest 对波次发起部署操作
type StartOperationRequest struct {
	OperationType model.OperationType `json:"operation_type" binding:"required,oneof=pre_restore restore rollback_restore failover" example:"restore"`
	DbIDs         []int64             `json:"db_ids" binding:"omitempty,dive,gt=0"`
}

// OperationListQuery 部署历史查询，wave_id 与 db_id 二选一
type OperationListQuery struct {
	PageQuery
	WaveID int64 `form:"wave_id" binding:"omitempty,gt=0"`
	DbID   int64 `form:"db_id" binding:"omitempty,gt=0"`
}

// OperationView 部署历史条目及格式化后的耗时
type OperationView struct {
	model.DeploymentOperation
	Duration string `json:"duration"` // HH:MM:SS，未开始为 "-"
}
