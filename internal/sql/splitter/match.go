package splitter

import (
	"github.com/dshills/quantasplit/internal/sql/planner"
)

// matchInfo is the first node a rule predicate accepted, together with the
// subplan that owns it.
type matchInfo struct {
	subplan *Subplan
	node    planner.LogicalPlan
}

// nodeMatcher decides whether a logical node is a split point for a rule.
type nodeMatcher func(node planner.LogicalPlan) bool

// findMatch searches the subplan tree in pre-order and, within each
// subplan, the logical tree in pre-order. A subplan carrying any bit of
// flag is not searched itself, but its children are.
func findMatch(s *Subplan, flag SplitFlag, match nodeMatcher) *matchInfo {
	if !s.SplitFlags.Has(flag) {
		if node := planner.Find(s.Root, match); node != nil {
			return &matchInfo{subplan: s, node: node}
		}
	}
	for _, c := range s.Children {
		if info := findMatch(c, flag, match); info != nil {
			return info
		}
	}
	return nil
}

func isExchange(node planner.LogicalPlan) bool {
	return node.Kind() == planner.KindExchange
}

func matchMultiVgroupScan(node planner.LogicalPlan) bool {
	scan, ok := node.(*planner.LogicalScan)
	return ok && scan.MultiVgroup()
}

func matchSingleTableJoin(node planner.LogicalPlan) bool {
	join, ok := node.(*planner.LogicalJoin)
	if !ok || !join.SingleTableJoin {
		return false
	}
	children := join.Children()
	return len(children) == 2 && !isExchange(children[0]) && !isExchange(children[1])
}

func matchUnionAll(node planner.LogicalPlan) bool {
	return node.Kind() == planner.KindProject && len(node.Children()) > 1
}

func matchUnionDistinct(node planner.LogicalPlan) bool {
	return node.Kind() == planner.KindAggregate && len(node.Children()) > 1
}
