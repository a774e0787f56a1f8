package planner

import (
	"github.com/dshills/quantasplit/internal/errors"
)

// Clone returns a deep copy of node and its subtree. The copy shares no
// slices or maps with the original.
func Clone(node LogicalPlan) (LogicalPlan, error) {
	if node == nil {
		return nil, errors.CloneFailedError("<nil>")
	}

	var out LogicalPlan
	switch n := node.(type) {
	case *LogicalScan:
		out = &LogicalScan{
			baseNode:  n.cloneEnvelope(),
			TableName: n.TableName,
			TableType: n.TableType,
			Vgroups:   CloneVgroups(n.Vgroups),
		}
	case *LogicalJoin:
		out = &LogicalJoin{
			baseNode:        n.cloneEnvelope(),
			JoinType:        n.JoinType,
			SingleTableJoin: n.SingleTableJoin,
		}
	case *LogicalProject:
		out = &LogicalProject{baseNode: n.cloneEnvelope()}
	case *LogicalAggregate:
		out = &LogicalAggregate{
			baseNode:   n.cloneEnvelope(),
			GroupKeys:  CloneColumns(n.GroupKeys),
			Aggregates: append([]string(nil), n.Aggregates...),
		}
	case *LogicalExchange:
		out = &LogicalExchange{
			baseNode:    n.cloneEnvelope(),
			SrcGroupIDs: append([]int32(nil), n.SrcGroupIDs...),
		}
	case *LogicalModify:
		m := &LogicalModify{
			baseNode:  n.cloneEnvelope(),
			TableName: n.TableName,
		}
		if n.DataBlocks != nil {
			m.DataBlocks = make(map[int32][]byte, len(n.DataBlocks))
			for vg, block := range n.DataBlocks {
				m.DataBlocks[vg] = append([]byte(nil), block...)
			}
		}
		out = m
	case *LogicalFilter:
		out = &LogicalFilter{baseNode: n.cloneEnvelope(), Condition: n.Condition}
	case *LogicalSort:
		out = &LogicalSort{baseNode: n.cloneEnvelope(), OrderBy: append([]string(nil), n.OrderBy...)}
	case *LogicalLimit:
		out = &LogicalLimit{baseNode: n.cloneEnvelope(), Limit: n.Limit, Offset: n.Offset}
	default:
		return nil, errors.CloneFailedError(node.String())
	}

	if children := node.Children(); len(children) > 0 {
		cloned := make([]LogicalPlan, len(children))
		for i, child := range children {
			c, err := Clone(child)
			if err != nil {
				return nil, err
			}
			cloned[i] = c
		}
		out.SetChildren(cloned...)
	}
	return out, nil
}
