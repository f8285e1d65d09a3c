package dto

// ProjectRequest 创建/更新项目
type ProjectRequest struct {
	Name        string  `json:"name" binding:"required,max=100" example:"Datacenter exit"`
	Description *string `json:"description" binding:"omitempty,max=500"`
}

// SelectProjectRequest 切换当前项目
type SelectProjectRequest struct {
	ProjectID int64 `json:"project_id" binding:"required,gt=0"`
}
