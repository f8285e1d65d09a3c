package dto

// SoftwareRequest 软件库条目
type SoftwareRequest struct {
	Name          string  `json:"name" binding:"required,max=100"`
	Version       string  `json:"version" binding:"required,max=50"`
	OracleVersion string  `json:"oracle_version" binding:"omitempty,max=20"`
	FileName      string  `json:"file_name" binding:"required,max=255"`
	Description   *string `json:"description" binding:"omitempty,max=500"`
}
