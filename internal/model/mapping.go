package model

import (
	"fmt"

	"github.com/samber/lo"
)

// BmsRef 映射中引用的目标机
type BmsRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Mapping 源库到目标机的映射，一个源库同一时刻至多一个有效映射
type Mapping struct {
	ID            int64    `json:"id,omitempty"`
	DbID          int64    `json:"db_id"`
	Bms           []BmsRef `json:"bms"`
	OracleVersion string   `json:"oracle_version,omitempty"`
	FeRacNodes    int      `json:"fe_rac_nodes"`
	WaveID        *int64   `json:"wave_id,omitempty"`
	ProjectID     *int64   `json:"project_id,omitempty"`
}

// TargetIDs 引用的目标 id 列表
func (m *Mapping) TargetIDs() []int64 {
	return lo.Map(m.Bms, func(b BmsRef, _ int) int64 { return b.ID })
}

// ValidateMapping 校验映射与源库是否匹配，返回字段错误
// db 为空时只做结构性校验
func ValidateMapping(m *Mapping, db *SourceDb) map[string][]string {
	fields := map[string][]string{}
	add := func(field, msg string) {
		fields[field] = append(fields[field], msg)
	}

	if m.DbID <= 0 {
		add("db_id", "is required")
	}
	if len(m.Bms) == 0 {
		add("bms", "at least one target is required")
	}
	if ids := m.TargetIDs(); len(lo.Uniq(ids)) != len(ids) {
		add("bms", "targets must be distinct")
	}

	if db != nil {
		if db.ID != m.DbID {
			add("db_id", fmt.Sprintf("does not match source database %d", db.ID))
		}
		if db.IsRAC() {
			if m.FeRacNodes != len(m.Bms) {
				add("bms", fmt.Sprintf("RAC database needs one target per node: got %d targets for %d nodes", len(m.Bms), m.FeRacNodes))
			}
		} else if len(m.Bms) > 1 {
			add("bms", fmt.Sprintf("%s database maps to a single target", db.DbType))
		}
	}

	if len(fields) == 0 {
		return nil
	}
	return fields
}
