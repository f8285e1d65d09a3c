package model

// StatusRate 波次内映射的部署状态统计，由后端计算
type StatusRate struct {
	Deployed   int `json:"deployed"`
	Failed     int `json:"failed"`
	Undeployed int `json:"undeployed"`
}

// Total 三项之和
func (r StatusRate) Total() int {
	return r.Deployed + r.Failed + r.Undeployed
}

// WaveMapping 波次中的映射摘要
type WaveMapping struct {
	DbID            int64           `json:"db_id"`
	DbName          string          `json:"db_name"`
	Server          string          `json:"server"`
	OperationStatus OperationStatus `json:"operation_status,omitempty"`
	OperationType   OperationType   `json:"operation_type,omitempty"`
}

// Wave 一批一起部署的映射
type Wave struct {
	ID             int64         `json:"id"`
	ProjectID      int64         `json:"project_id"`
	Name           string        `json:"name"`
	IsRunning      bool          `json:"is_running"`
	Mappings       []WaveMapping `json:"mappings,omitempty"`
	MappingsCount  int           `json:"mappings_count"`
	StatusRate     StatusRate    `json:"status_rate"`
	CurrOperation  *string       `json:"curr_operation,omitempty"`
	LastDeployment Timestamp     `json:"last_deployment,omitempty"`
}

// StatusRateConsistent deployed + failed + undeployed == mappings_count
// 仅用于告警，前端不自行重算统计
func (w *Wave) StatusRateConsistent() bool {
	return w.StatusRate.Total() == w.MappingsCount
}
