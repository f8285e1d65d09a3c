package dto

// LabelRequest 创建/更新标签
type LabelRequest struct {
	Name string `json:"name" binding:"required,max=50" example:"critical"`
}
