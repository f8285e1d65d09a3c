package dto

import "migration-console/internal/model"

// MappingRequest 创建/更新映射
type MappingRequest struct {
	DbID          int64          `json:"db_id" binding:"required,gt=0"`
	Bms           []model.BmsRef `json:"bms" binding:"required,min=1"`
	OracleVersion string         `json:"oracle_version" binding:"omitempty,max=20"`
	FeRacNodes    int            `json:"fe_rac_nodes" binding:"gte=0"`
	WaveID        *int64         `json:"wave_id" binding:"omitempty,gt=0"`
}

// ToModel 转换为后端模型
func (r *MappingRequest) ToModel(id, projectID int64) *model.Mapping {
	m := &model.Mapping{
		ID:            id,
		DbID:          r.DbID,
		Bms:           r.Bms,
		OracleVersion: r.OracleVersion,
		FeRacNodes:    r.FeRacNodes,
		WaveID:        r.WaveID,
	}
	if projectID > 0 {
		m.ProjectID = &projectID
	}
	return m
}

// MappingListQuery 不传 db_id 时列出当前项目全部映射
type MappingListQuery struct {
	PageQuery
	DbID int64 `form:"db_id" binding:"omitempty,gt=0"`
}
