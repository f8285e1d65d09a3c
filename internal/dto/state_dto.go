package dto

// PreferencesRequest 更新界面偏好，未传字段不变
type PreferencesRequest struct {
	SidebarState *string `json:"sidebar_state" binding:"omitempty,oneof=expanded collapsed"`
	PageSize     *int    `json:"page_size" binding:"omitempty,min=1,max=100"`
}

// PanelRequest 打开侧滑面板
type PanelRequest struct {
	Title    string `json:"title" binding:"max=100"`
	Entity   string `json:"entity" binding:"required,oneof=project wave source_db target mapping label config scheduled_task software operation"`
	EntityID int64  `json:"entity_id" binding:"gte=0"`
}

// PaginationLabelQuery page_index 从 0 开始
type PaginationLabelQuery struct {
	PageIndex int `form:"page_index" binding:"gte=0"`
	PageSize  int `form:"page_size" binding:"gte=0"`
	Length    int `form:"length" binding:"gte=0"`
}

// PaginationLabelResponse 分页文案
type PaginationLabelResponse struct {
	Label    string `json:"label"`
	PageSize int    `json:"page_size"`
}

// EventsQuery SSE 订阅的主题，逗号分隔，为空表示全部
type EventsQuery struct {
	Topics string `form:"topics"`
}
