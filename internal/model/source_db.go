package model

// DbType 源库类型
type DbType string

const (
	DbTypeRAC DbType = "RAC" // Real Application Cluster，多节点
	DbTypeSI  DbType = "SI"  // 单实例
	DbTypeDG  DbType = "DG"  // Data Guard
)

// Valid 是否为已知类型
func (t DbType) Valid() bool {
	switch t {
	case DbTypeRAC, DbTypeSI, DbTypeDG:
		return true
	}
	return false
}

// SourceDb 源数据库
// 由外部导入（migVisor），本层从不直接删除
type SourceDb struct {
	ID              int64    `json:"id"`
	ProjectID       int64    `json:"project_id"`
	Server          string   `json:"server"`
	DbName          string   `json:"db_name"`
	DbType          DbType   `json:"db_type"`
	RacNodes        int      `json:"rac_nodes"`
	OracleVersion   string   `json:"oracle_version,omitempty"`
	Cores           *float64 `json:"cores,omitempty"`
	Ram             *float64 `json:"ram,omitempty"`
	AllocatedMemory *float64 `json:"allocated_memory,omitempty"`
	DbSize          *float64 `json:"db_size,omitempty"`
	Labels          []Label  `json:"labels,omitempty"`
	WaveID          *int64   `json:"wave_id,omitempty"`
	IsConfigured    bool     `json:"is_configured"`
}

// IsRAC 是否 RAC 库
func (db *SourceDb) IsRAC() bool {
	return db.DbType == DbTypeRAC
}

// ExpectedTargets 该库映射时需要的目标数：RAC 每节点一台，其余一台
func (db *SourceDb) ExpectedTargets() int {
	if db.IsRAC() {
		return db.RacNodes
	}
	return 1
}
