package dto

// PageQuery 分页查询参数，page 与 page_size 均未传时返回全部
type PageQuery struct {
	Page     int `form:"page" binding:"omitempty,min=1"`              // 可选：页码，从1开始
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"` // 可选：每页数量
}

// Paged 是否请求了分页
func (p *PageQuery) Paged() bool {
	return p.Page > 0 || p.PageSize > 0
}

// GetPage 获取页码
func (p *PageQuery) GetPage() int {
	if p.Page < 1 {
		return 1
	}
	return p.Page
}

// IDParam ID参数
type IDParam struct {
	ID int64 `uri:"id" binding:"required,min=1"`
}

// LabelIDParam 源库标签路径参数
type LabelIDParam struct {
	ID      int64 `uri:"id" binding:"required,min=1"`
	LabelID int64 `uri:"label_id" binding:"required,min=1"`
}
