package dto

import "migration-console/internal/model"

// TargetRequest 创建/更新目标机
type TargetRequest struct {
	Name     string      `json:"name" binding:"required,max=100" example:"bms-01"`
	Cpu      *float64    `json:"cpu" binding:"omitempty,gt=0"`
	Ram      *float64    `json:"ram" binding:"omitempty,gt=0"`
	ClientIP string      `json:"client_ip" binding:"omitempty,ip"`
	Luns     []model.Lun `json:"luns"`
}

// ToModel 转换为后端模型
func (r *TargetRequest) ToModel(id, projectID int64) *model.Target {
	return &model.Target{
		ID:        id,
		ProjectID: projectID,
		Name:      r.Name,
		Cpu:       r.Cpu,
		Ram:       r.Ram,
		ClientIP:  r.ClientIP,
		Luns:      r.Luns,
	}
}
