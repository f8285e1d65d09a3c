package model

import "github.com/samber/lo"

// Lun 目标机存储卷
type Lun struct {
	ID         int64   `json:"id"`
	LunName    string  `json:"lun_name"`
	StorageVol *string `json:"storage_volume,omitempty"`
	SizeGB     float64 `json:"size,omitempty"`
}

// Target BMS 裸金属目标机
// IsMapped 为派生字段：有映射引用该目标 id 即为 true
type Target struct {
	ID        int64    `json:"id"`
	ProjectID int64    `json:"project_id,omitempty"`
	Name      string   `json:"name"`
	Cpu       *float64 `json:"cpu,omitempty"`
	Ram       *float64 `json:"ram,omitempty"`
	ClientIP  string   `json:"client_ip,omitempty"`
	Luns      []Lun    `json:"luns,omitempty"`
	IsMapped  bool     `json:"is_mapped"`
}

// MarkMapped 根据映射重新推导 IsMapped，返回新切片，不修改入参
func MarkMapped(targets []Target, mappings []Mapping) []Target {
	mapped := make(map[int64]struct{})
	for _, m := range mappings {
		for _, b := range m.Bms {
			mapped[b.ID] = struct{}{}
		}
	}

	return lo.Map(targets, func(t Target, _ int) Target {
		_, ok := mapped[t.ID]
		t.IsMapped = ok
		return t
	})
}
