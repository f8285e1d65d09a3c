package dto

// UpdateSourceDbRequest 源库可修改字段，未传的字段保持不变
type UpdateSourceDbRequest struct {
	OracleVersion *string `json:"oracle_version" binding:"omitempty,max=20"`
	WaveID        *int64  `json:"wave_id" binding:"omitempty,gte=0"` // 0 表示移出波次
}

// AttachLabelsRequest 给源库打标签
type AttachLabelsRequest struct {
	LabelIDs []int64 `json:"label_ids" binding:"required,min=1,dive,gt=0"`
}
