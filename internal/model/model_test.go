package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperationStatusIsTerminal(t *testing.T) {
	cases := map[OperationStatus]bool{
		OperationStarting:          false,
		OperationInProgress:        false,
		OperationComplete:          true,
		OperationFailed:            true,
		OperationCompletePartially: true,
		"SOMETHING_NEW":            false,
		"":                         false,
	}
	for status, want := range cases {
		assert.Equal(t, want, status.IsTerminal(), "status=%q", status)
	}
}

func TestWaveStatusRateConsistent(t *testing.T) {
	var w Wave
	require.NoError(t, json.Unmarshal([]byte(`{
		"id": 3, "project_id": 42, "name": "Wave 1", "is_running": false,
		"mappings_count": 5,
		"status_rate": {"deployed": 2, "failed": 1, "undeployed": 2},
		"last_deployment": "Tue, 01 Jun 2021 10:00:00 GMT"
	}`), &w))

	assert.Equal(t, 5, w.StatusRate.Total())
	assert.True(t, w.StatusRateConsistent())
	assert.Equal(t, 2021, w.LastDeployment.Year())

	w.MappingsCount = 6
	assert.False(t, w.StatusRateConsistent())
}

func TestValidateMappingRAC(t *testing.T) {
	db := &SourceDb{ID: 7, DbType: DbTypeRAC, RacNodes: 2}

	ok := &Mapping{DbID: 7, FeRacNodes: 2, Bms: []BmsRef{{ID: 1, Name: "bms-1"}, {ID: 2, Name: "bms-2"}}}
	assert.Nil(t, ValidateMapping(ok, db))

	short := &Mapping{DbID: 7, FeRacNodes: 2, Bms: []BmsRef{{ID: 1}}}
	fields := ValidateMapping(short, db)
	require.NotNil(t, fields)
	assert.Contains(t, fields["bms"][0], "one target per node")

	dup := &Mapping{DbID: 7, FeRacNodes: 2, Bms: []BmsRef{{ID: 1}, {ID: 1}}}
	assert.Contains(t, ValidateMapping(dup, db)["bms"], "targets must be distinct")
}

func TestValidateMappingSingleInstance(t *testing.T) {
	db := &SourceDb{ID: 9, DbType: DbTypeSI}

	assert.Nil(t, ValidateMapping(&Mapping{DbID: 9, Bms: []BmsRef{{ID: 4}}}, db))
	assert.NotNil(t, ValidateMapping(&Mapping{DbID: 9, Bms: []BmsRef{{ID: 4}, {ID: 5}}}, db))
	assert.NotNil(t, ValidateMapping(&Mapping{DbID: 9}, db))
	assert.Contains(t, ValidateMapping(&Mapping{DbID: 8, Bms: []BmsRef{{ID: 4}}}, db), "db_id")
}

func TestMarkMapped(t *testing.T) {
	targets := []Target{{ID: 1, IsMapped: true}, {ID: 2}, {ID: 3}}
	mappings := []Mapping{{DbID: 10, Bms: []BmsRef{{ID: 2}, {ID: 3}}}}

	got := MarkMapped(targets, mappings)
	assert.False(t, got[0].IsMapped, "stale backend flag is not authoritative")
	assert.True(t, got[1].IsMapped)
	assert.True(t, got[2].IsMapped)
	assert.True(t, targets[0].IsMapped, "input untouched")
}

func TestTimestampFormats(t *testing.T) {
	cases := []string{
		`"2024-03-01T10:00:00Z"`,
		`"2024-03-01 10:00:00"`,
		`"Fri, 01 Mar 2024 10:00:00 GMT"`,
	}
	for _, raw := range cases {
		var ts Timestamp
		require.NoError(t, json.Unmarshal([]byte(raw), &ts), raw)
		assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), ts.UTC(), raw)
	}

	var empty Timestamp
	require.NoError(t, json.Unmarshal([]byte(`null`), &empty))
	assert.True(t, empty.IsZero())
	require.NoError(t, json.Unmarshal([]byte(`""`), &empty))
	assert.True(t, empty.IsZero())

	out, err := json.Marshal(empty)
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))
}

func TestDeploymentOperationDuration(t *testing.T) {
	start := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	op := DeploymentOperation{
		OperationStatus: OperationComplete,
		StartedAt:       Timestamp{start},
		CompletedAt:     Timestamp{start.Add(30 * time.Second)},
	}
	assert.Equal(t, 30*time.Second, op.Duration(start.Add(time.Hour)))

	running := DeploymentOperation{OperationStatus: OperationInProgress, StartedAt: Timestamp{start}}
	assert.Equal(t, time.Minute, running.Duration(start.Add(time.Minute)))

	notStarted := DeploymentOperation{OperationStatus: OperationStarting}
	assert.Equal(t, int64(-1), notStarted.Duration(start).Milliseconds())
}

func completeConfig() *ConfigEditor {
	return &ConfigEditor{
		DbID:    1,
		Install: &InstallConfig{OracleVersion: "19.3.0.0.0", OracleEdition: "EE"},
		Asm: &AsmConfig{DiskGroups: []AsmDiskGroup{
			{DiskGroup: "DATA", Disks: []AsmDisk{{Name: "DATA1", BlkDevice: "/dev/sdb"}}},
		}},
		Dms: &DataMountValues{Mounts: []DataMount{
			{Purpose: "software", BlkDevice: "/dev/sdc", Name: "u01", FsType: "xfs", MountPoint: "/u01"},
		}},
	}
}

func TestConfigEditorComplete(t *testing.T) {
	si := &SourceDb{ID: 1, DbType: DbTypeSI}
	assert.Nil(t, completeConfig().Complete(si))

	missing := completeConfig()
	missing.Asm = nil
	assert.Equal(t, []string{"is required"}, missing.Complete(si)["asm_config"])

	bad := completeConfig()
	bad.Install.OracleEdition = "XE"
	assert.Contains(t, bad.Complete(si), "install_config.oracle_edition")
}

func TestConfigEditorCompleteRAC(t *testing.T) {
	rac := &SourceDb{ID: 1, DbType: DbTypeRAC, RacNodes: 2}

	cfg := completeConfig()
	assert.Contains(t, cfg.Complete(rac), "rac_config")

	cfg.Rac = &RacConfig{
		ClusterName: "crs", ScanName: "scan", ScanPort: 1521,
		Nodes: []RacNode{{NodeName: "n1", NodeIP: "10.0.0.1", VipName: "v1", VipIP: "10.0.0.11"}},
	}
	assert.Contains(t, cfg.Complete(rac), "rac_config.nodes")

	cfg.Rac.Nodes = append(cfg.Rac.Nodes, RacNode{NodeName: "n2", NodeIP: "10.0.0.2", VipName: "v2", VipIP: "10.0.0.12"})
	assert.Nil(t, cfg.Complete(rac))
}

func TestConfigEditorClone(t *testing.T) {
	orig := completeConfig()
	cp := orig.Clone()
	cp.Asm.DiskGroups[0].Disks[0].Name = "changed"
	cp.Install.OracleVersion = "21"

	assert.Equal(t, "DATA1", orig.Asm.DiskGroups[0].Disks[0].Name)
	assert.Equal(t, "19.3.0.0.0", orig.Install.OracleVersion)
}
