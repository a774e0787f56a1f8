package testutil

import (
	"fmt"

	"github.com/dshills/quantasplit/internal/sql/planner"
)

// Vgroups builds a shard list with the given ids and one endpoint each.
func Vgroups(ids ...int32) []planner.VgroupInfo {
	vgroups := make([]planner.VgroupInfo, len(ids))
	for i, id := range ids {
		vgroups[i] = planner.VgroupInfo{
			ID:        id,
			Endpoints: []string{fmt.Sprintf("dnode%d:6030", id)},
		}
	}
	return vgroups
}

// Columns builds output columns with the given names.
func Columns(names ...string) []planner.Column {
	cols := make([]planner.Column, len(names))
	for i, name := range names {
		cols[i] = planner.Column{Name: name}
	}
	return cols
}

// TableColumns builds output columns qualified by table.
func TableColumns(table string, names ...string) []planner.Column {
	cols := Columns(names...)
	for i := range cols {
		cols[i].TableName = table
	}
	return cols
}

// SuperTableScan builds a scan of a super table spread over vgroups.
func SuperTableScan(table string, vgroupIDs ...int32) *planner.LogicalScan {
	return planner.NewLogicalScan(table, planner.SuperTable, Vgroups(vgroupIDs...), TableColumns(table, "ts", "val"))
}

// NormalTableScan builds a scan of an unpartitioned table on vgroup.
func NormalTableScan(table string, vgroup int32) *planner.LogicalScan {
	return planner.NewLogicalScan(table, planner.NormalTable, Vgroups(vgroup), TableColumns(table, "ts", "val"))
}
