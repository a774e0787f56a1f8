package planner

import (
	"fmt"
	"strings"
)

// TableType classifies how a table is partitioned.
type TableType int

const (
	NormalTable TableType = iota
	SuperTable
	ChildTable
)

func (t TableType) String() string {
	switch t {
	case SuperTable:
		return "super"
	case ChildTable:
		return "child"
	default:
		return "normal"
	}
}

// ParseTableType parses "normal", "super" or "child". The empty string means normal.
func ParseTableType(s string) (TableType, error) {
	switch strings.ToLower(s) {
	case "", "normal":
		return NormalTable, nil
	case "super", "stable":
		return SuperTable, nil
	case "child":
		return ChildTable, nil
	default:
		return 0, fmt.Errorf("unknown table type %q", s)
	}
}

// LogicalScan represents a table scan. Vgroups lists the shards the scan
// has to visit; a scan over more than one shard can be distributed.
type LogicalScan struct {
	baseNode
	TableName string
	TableType TableType
	Vgroups   []VgroupInfo
}

func (s *LogicalScan) Kind() NodeKind { return KindScan }

func (s *LogicalScan) String() string {
	if len(s.Vgroups) == 0 {
		return fmt.Sprintf("Scan(%s)", s.TableName)
	}
	return fmt.Sprintf("Scan(%s vgroups=%v)", s.TableName, VgroupIDs(s.Vgroups))
}

// MultiVgroup reports whether the scan spans more than one shard.
func (s *LogicalScan) MultiVgroup() bool {
	return len(s.Vgroups) > 1
}

// JoinType represents the type of join.
type JoinType int

const (
	InnerJoin JoinType = iota
	LeftJoin
	RightJoin
	FullJoin
)

func (j JoinType) String() string {
	switch j {
	case InnerJoin:
		return "INNER"
	case LeftJoin:
		return "LEFT"
	case RightJoin:
		return "RIGHT"
	case FullJoin:
		return "FULL"
	default:
		return fmt.Sprintf("Unknown(%d)", j)
	}
}

// ParseJoinType parses a join type name. The empty string means INNER.
func ParseJoinType(s string) (JoinType, error) {
	switch strings.ToUpper(s) {
	case "", "INNER":
		return InnerJoin, nil
	case "LEFT":
		return LeftJoin, nil
	case "RIGHT":
		return RightJoin, nil
	case "FULL":
		return FullJoin, nil
	default:
		return 0, fmt.Errorf("unknown join type %q", s)
	}
}

// LogicalJoin represents a two-input join. SingleTableJoin is set upstream
// when the first input is an unpartitioned table that must stay with the
// join operator while the second input is probed against it.
type LogicalJoin struct {
	baseNode
	JoinType        JoinType
	SingleTableJoin bool
}

func (j *LogicalJoin) Kind() NodeKind { return KindJoin }

func (j *LogicalJoin) String() string {
	if j.SingleTableJoin {
		return fmt.Sprintf("%sJoin(single-table)", j.JoinType)
	}
	return fmt.Sprintf("%sJoin", j.JoinType)
}

// LogicalProject represents a projection. With more than one child it is
// the merge point of a UNION ALL.
type LogicalProject struct {
	baseNode
}

func (p *LogicalProject) Kind() NodeKind { return KindProject }

func (p *LogicalProject) String() string {
	return fmt.Sprintf("Project(%s)", columnList(p.targets))
}

// LogicalAggregate represents an aggregation. With more than one child it
// is the merge point of a UNION (DISTINCT) reduced on GroupKeys.
type LogicalAggregate struct {
	baseNode
	GroupKeys  []Column
	Aggregates []string
}

func (a *LogicalAggregate) Kind() NodeKind { return KindAggregate }

func (a *LogicalAggregate) String() string {
	var parts []string
	if len(a.GroupKeys) > 0 {
		parts = append(parts, "GROUP BY "+columnList(a.GroupKeys))
	}
	if len(a.Aggregates) > 0 {
		parts = append(parts, strings.Join(a.Aggregates, ", "))
	}
	return fmt.Sprintf("Aggregate(%s)", strings.Join(parts, " "))
}

// LogicalExchange marks a network boundary. Rows arrive from the subplans
// named by SrcGroupIDs with the schema given by its targets.
type LogicalExchange struct {
	baseNode
	SrcGroupIDs []int32
}

func (e *LogicalExchange) Kind() NodeKind { return KindExchange }

func (e *LogicalExchange) String() string {
	return fmt.Sprintf("Exchange(src=%v cols=[%s])", e.SrcGroupIDs, columnList(e.targets))
}

// SourcedBy reports whether groupID is one of the exchange's producers.
func (e *LogicalExchange) SourcedBy(groupID int32) bool {
	for _, id := range e.SrcGroupIDs {
		if id == groupID {
			return true
		}
	}
	return false
}

// LogicalModify is the root of a write-path plan. DataBlocks holds the
// encoded rows destined for each vgroup.
type LogicalModify struct {
	baseNode
	TableName  string
	DataBlocks map[int32][]byte
}

func (m *LogicalModify) Kind() NodeKind { return KindModify }

func (m *LogicalModify) String() string {
	return fmt.Sprintf("Modify(%s blocks=%d)", m.TableName, len(m.DataBlocks))
}

// LogicalFilter represents a filter operation.
type LogicalFilter struct {
	baseNode
	Condition string
}

func (f *LogicalFilter) Kind() NodeKind { return KindFilter }

func (f *LogicalFilter) String() string {
	return fmt.Sprintf("Filter(%s)", f.Condition)
}

// LogicalSort represents a sort operation.
type LogicalSort struct {
	baseNode
	OrderBy []string
}

func (s *LogicalSort) Kind() NodeKind { return KindSort }

func (s *LogicalSort) String() string {
	return fmt.Sprintf("Sort(%s)", strings.Join(s.OrderBy, ", "))
}

// LogicalLimit represents a limit operation.
type LogicalLimit struct {
	baseNode
	Limit  int64
	Offset int64
}

func (l *LogicalLimit) Kind() NodeKind { return KindLimit }

func (l *LogicalLimit) String() string {
	if l.Offset > 0 {
		return fmt.Sprintf("Limit(%d, %d)", l.Limit, l.Offset)
	}
	return fmt.Sprintf("Limit(%d)", l.Limit)
}

// NewLogicalScan creates a new logical scan node.
func NewLogicalScan(tableName string, tableType TableType, vgroups []VgroupInfo, targets []Column) *LogicalScan {
	return &LogicalScan{
		baseNode: baseNode{
			targets: targets,
		},
		TableName: tableName,
		TableType: tableType,
		Vgroups:   vgroups,
	}
}

// NewLogicalJoin creates a new logical join node.
func NewLogicalJoin(left, right LogicalPlan, joinType JoinType, singleTable bool, targets []Column) *LogicalJoin {
	return &LogicalJoin{
		baseNode: baseNode{
			children:  []LogicalPlan{left, right},
			targets:   targets,
			precision: left.Precision(),
		},
		JoinType:        joinType,
		SingleTableJoin: singleTable,
	}
}

// NewLogicalProject creates a projection over one or more inputs.
func NewLogicalProject(targets []Column, children ...LogicalPlan) *LogicalProject {
	p := &LogicalProject{
		baseNode: baseNode{
			children: children,
			targets:  targets,
		},
	}
	if len(children) > 0 {
		p.precision = children[0].Precision()
	}
	return p
}

// NewLogicalAggregate creates an aggregation over one or more inputs. The
// output columns are the group keys followed by one column per aggregate.
func NewLogicalAggregate(groupKeys []Column, aggregates []string, children ...LogicalPlan) *LogicalAggregate {
	targets := CloneColumns(groupKeys)
	for _, agg := range aggregates {
		targets = append(targets, Column{Name: agg})
	}
	a := &LogicalAggregate{
		baseNode: baseNode{
			children: children,
			targets:  targets,
		},
		GroupKeys:  groupKeys,
		Aggregates: aggregates,
	}
	if len(children) > 0 {
		a.precision = children[0].Precision()
	}
	return a
}

// NewLogicalExchange creates an exchange fed by the given producer groups.
func NewLogicalExchange(targets []Column, precision Precision, srcGroupIDs ...int32) *LogicalExchange {
	return &LogicalExchange{
		baseNode: baseNode{
			targets:   targets,
			precision: precision,
		},
		SrcGroupIDs: srcGroupIDs,
	}
}

// NewLogicalModify creates a write-path root.
func NewLogicalModify(tableName string, dataBlocks map[int32][]byte) *LogicalModify {
	return &LogicalModify{
		TableName:  tableName,
		DataBlocks: dataBlocks,
	}
}

// NewLogicalFilter creates a new logical filter node.
func NewLogicalFilter(child LogicalPlan, condition string) *LogicalFilter {
	return &LogicalFilter{
		baseNode: baseNode{
			children:  []LogicalPlan{child},
			targets:   CloneColumns(child.Targets()),
			precision: child.Precision(),
		},
		Condition: condition,
	}
}

// NewLogicalSort creates a new logical sort node.
func NewLogicalSort(child LogicalPlan, orderBy ...string) *LogicalSort {
	return &LogicalSort{
		baseNode: baseNode{
			children:  []LogicalPlan{child},
			targets:   CloneColumns(child.Targets()),
			precision: child.Precision(),
		},
		OrderBy: orderBy,
	}
}

// NewLogicalLimit creates a new logical limit node.
func NewLogicalLimit(child LogicalPlan, limit, offset int64) *LogicalLimit {
	return &LogicalLimit{
		baseNode: baseNode{
			children:  []LogicalPlan{child},
			targets:   CloneColumns(child.Targets()),
			precision: child.Precision(),
		},
		Limit:  limit,
		Offset: offset,
	}
}

// WithPrecision sets the timestamp precision of a scan and returns it.
func (s *LogicalScan) WithPrecision(p Precision) *LogicalScan {
	s.precision = p
	return s
}

// SetPrecision overrides the timestamp precision of any node.
func SetPrecision(node LogicalPlan, p Precision) {
	if b := envelope(node); b != nil {
		b.precision = p
	}
}

// SetTargets overrides the output columns of any node.
func SetTargets(node LogicalPlan, targets []Column) {
	if b := envelope(node); b != nil {
		b.targets = targets
	}
}

func envelope(node LogicalPlan) *baseNode {
	switch n := node.(type) {
	case *LogicalScan:
		return &n.baseNode
	case *LogicalJoin:
		return &n.baseNode
	case *LogicalProject:
		return &n.baseNode
	case *LogicalAggregate:
		return &n.baseNode
	case *LogicalExchange:
		return &n.baseNode
	case *LogicalModify:
		return &n.baseNode
	case *LogicalFilter:
		return &n.baseNode
	case *LogicalSort:
		return &n.baseNode
	case *LogicalLimit:
		return &n.baseNode
	}
	return nil
}
