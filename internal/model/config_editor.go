package model

import (
	"fmt"

	"migration-console/pkg/utils"
)

// AsmDisk ASM 磁盘
type AsmDisk struct {
	Name      string `json:"name" validate:"required"`
	BlkDevice string `json:"blk_device" validate:"required"`
}

// AsmDiskGroup ASM 磁盘组
type AsmDiskGroup struct {
	DiskGroup string    `json:"diskgroup" validate:"required"`
	Disks     []AsmDisk `json:"disks" validate:"required,min=1,dive"`
}

// AsmConfig ASM 配置
type AsmConfig struct {
	DiskGroups []AsmDiskGroup `json:"asm_disks" validate:"required,min=1,dive"`
}

// InstallConfig 数据库软件安装配置
type InstallConfig struct {
	OracleVersion string  `json:"oracle_version" validate:"required"`
	OracleEdition string  `json:"oracle_edition" validate:"required,oneof=EE SE2"`
	OracleRoot    string  `json:"oracle_root" validate:"omitempty,startswith=/"`
	SwlibPath     string  `json:"swlib_path" validate:"omitempty,startswith=/"`
	PatchVersion  *string `json:"patch_version,omitempty"`
	IsEncrypted   bool    `json:"is_encrypted"`
}

// RacNode RAC 节点网络信息
type RacNode struct {
	NodeName string `json:"node_name" validate:"required"`
	NodeIP   string `json:"node_ip" validate:"required,ip"`
	VipName  string `json:"vip_name" validate:"required"`
	VipIP    string `json:"vip_ip" validate:"required,ip"`
}

// RacConfig RAC 集群配置，仅 RAC 库需要
type RacConfig struct {
	ClusterName string    `json:"cluster_name" validate:"required"`
	ScanName    string    `json:"scan_name" validate:"required"`
	ScanPort    int       `json:"scan_port" validate:"required,gt=0,lte=65535"`
	Nodes       []RacNode `json:"nodes" validate:"required,min=1,dive"`
}

// DataMount 数据盘挂载
type DataMount struct {
	Purpose    string `json:"purpose" validate:"required,oneof=software diag"`
	BlkDevice  string `json:"blk_device" validate:"required"`
	Name       string `json:"name" validate:"required"`
	FsType     string `json:"fstype" validate:"required"`
	MountPoint string `json:"mount_point" validate:"required,startswith=/"`
	MountOpts  string `json:"mount_opts,omitempty"`
}

// DataMountValues DMS 挂载配置
type DataMountValues struct {
	Mounts []DataMount `json:"data_mounts" validate:"required,min=1,dive"`
}

// ConfigEditor 源库配置包
// 各子配置都可能缺省，IsConfigured 只在一次完整提交被后端确认后为 true
type ConfigEditor struct {
	DbID         int64            `json:"db_id"`
	IsConfigured bool             `json:"is_configured"`
	Asm          *AsmConfig       `json:"asm_config,omitempty"`
	Install      *InstallConfig   `json:"install_config,omitempty"`
	Rac          *RacConfig       `json:"rac_config,omitempty"`
	Dms          *DataMountValues `json:"data_mounts_values,omitempty"`
}

// Clone 深拷贝，子配置切片不共享
func (c *ConfigEditor) Clone() *ConfigEditor {
	if c == nil {
		return nil
	}
	out := *c
	if c.Asm != nil {
		asm := *c.Asm
		asm.DiskGroups = make([]AsmDiskGroup, len(c.Asm.DiskGroups))
		for i, g := range c.Asm.DiskGroups {
			g.Disks = append([]AsmDisk(nil), g.Disks...)
			asm.DiskGroups[i] = g
		}
		out.Asm = &asm
	}
	if c.Install != nil {
		install := *c.Install
		out.Install = &install
	}
	if c.Rac != nil {
		rac := *c.Rac
		rac.Nodes = append([]RacNode(nil), c.Rac.Nodes...)
		out.Rac = &rac
	}
	if c.Dms != nil {
		dms := *c.Dms
		dms.Mounts = append([]DataMount(nil), c.Dms.Mounts...)
		out.Dms = &dms
	}
	return &out
}

// Complete 校验配置是否可以完整提交，返回字段错误，nil 表示完整
func (c *ConfigEditor) Complete(db *SourceDb) map[string][]string {
	fields := map[string][]string{}
	merge := func(prefix string, v interface{}) {
		for k, msgs := range utils.FieldErrors(utils.ValidateStruct(v)) {
			fields[prefix+"."+k] = append(fields[prefix+"."+k], msgs...)
		}
	}

	if c.Install == nil {
		fields["install_config"] = []string{"is required"}
	} else {
		merge("install_config", c.Install)
	}
	if c.Asm == nil {
		fields["asm_config"] = []string{"is required"}
	} else {
		merge("asm_config", c.Asm)
	}
	if c.Dms == nil {
		fields["data_mounts_values"] = []string{"is required"}
	} else {
		merge("data_mounts_values", c.Dms)
	}

	if db != nil && db.IsRAC() {
		switch {
		case c.Rac == nil:
			fields["rac_config"] = []string{"is required for RAC databases"}
		case len(c.Rac.Nodes) != db.RacNodes:
			merge("rac_config", c.Rac)
			fields["rac_config.nodes"] = append(fields["rac_config.nodes"],
				fmt.Sprintf("expected %d nodes, got %d", db.RacNodes, len(c.Rac.Nodes)))
		default:
			merge("rac_config", c.Rac)
		}
	}

	if len(fields) == 0 {
		return nil
	}
	return fields
}
