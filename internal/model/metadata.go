package model

import "gorm.io/datatypes"

// Metadata 后端元数据（枚举、版本等），结构不固定
type Metadata = datatypes.JSONMap

// Settings 后端设置
type Settings = datatypes.JSONMap

// WaveStep 一种部署操作包含的步骤
type WaveStep struct {
	OperationType OperationType     `json:"operation_type"`
	Steps         []string          `json:"steps"`
	Extra         datatypes.JSONMap `json:"extra,omitempty"`
}
