package model

// Project 迁移项目，波次与源库的根
type Project struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   Timestamp `json:"created_at,omitempty"`
}

// Label 项目内标签，与源库多对多
type Label struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	ProjectID int64  `json:"project_id"`
}
