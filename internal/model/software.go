package model

// SoftwareItem 软件库中的安装介质
type SoftwareItem struct {
	ID            int64   `json:"id,omitempty"`
	Name          string  `json:"name"`
	Version       string  `json:"version"`
	OracleVersion string  `json:"oracle_version,omitempty"`
	FileName      string  `json:"file_name"`
	Description   *string `json:"description,omitempty"`
}
