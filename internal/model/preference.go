package model

import "time"

const PreferenceTableName = "preferences"

// 本地持久化的键
const (
	PrefCurrentProjectID   = "currentProjectId"
	PrefCurrentProjectName = "currentProjectName"
	PrefSidebarState       = "sidebar-state"
	PrefPageSize           = "pageSize"
)

// Preference 本地键值状态
type Preference struct {
	Key       string    `gorm:"primaryKey;size:64" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Preference) TableName() string {
	return PreferenceTableName
}
