package splitter

import (
	"github.com/dshills/quantasplit/internal/sql/planner"
)

// splitFunc attempts one rewrite of the forest rooted at root. It sets
// cxt.split when it changed anything.
type splitFunc func(cxt *splitContext, root *Subplan) error

type splitRule struct {
	name  string
	split splitFunc
}

// splitRuleSet is applied in order on every pass.
var splitRuleSet = []splitRule{
	{name: "SuperTableSplit", split: stableSplit},
	{name: "SingleTableJoinSplit", split: singleTableJoinSplit},
	{name: "UnionAllSplit", split: unionAllSplit},
	{name: "UnionDistinctSplit", split: unionDistinctSplit},
}

// RuleNames returns the split rules in application order.
func RuleNames() []string {
	names := make([]string, len(splitRuleSet))
	for i, r := range splitRuleSet {
		names[i] = r.name
	}
	return names
}

// stableSplit moves a scan over several vgroups into its own subplan that
// runs once per vgroup; the original subplan merges its output.
func stableSplit(cxt *splitContext, root *Subplan) error {
	info := findMatch(root, FlagStableSplit, matchMultiVgroupScan)
	if info == nil {
		return nil
	}
	child, err := cxt.cloneSubplan(info.node, FlagStableSplit)
	if err != nil {
		return err
	}
	info.subplan.Children = append(info.subplan.Children, child)
	if err := cxt.replaceWithExchange(info.subplan, info.node, SubplanMerge, child.ID.GroupID); err != nil {
		return err
	}
	cxt.split = true
	return nil
}

// singleTableJoinSplit peels the probe side of a single-table join into a
// child subplan. The build side stays with the join.
func singleTableJoinSplit(cxt *splitContext, root *Subplan) error {
	info := findMatch(root, 0, matchSingleTableJoin)
	if info == nil {
		return nil
	}
	probe := info.node.Children()[1]
	child, err := cxt.cloneSubplan(probe, 0)
	if err != nil {
		return err
	}
	// Producers of exchanges inside the probe side move with it.
	child.Children, info.subplan.Children = mountSubplans(probe, info.subplan.Children)
	if len(child.Children) > 0 {
		child.Kind = SubplanMerge
	}
	info.subplan.Children = append(info.subplan.Children, child)
	if err := cxt.replaceWithExchange(info.subplan, probe, info.subplan.Kind, child.ID.GroupID); err != nil {
		return err
	}
	cxt.split = true
	return nil
}

// unionAllSplit turns every branch of a UNION ALL into its own subplan and
// replaces the merging projection with an exchange.
func unionAllSplit(cxt *splitContext, root *Subplan) error {
	info := findMatch(root, 0, matchUnionAll)
	if info == nil {
		return nil
	}
	srcs, err := cxt.splitUnionBranches(info.subplan, info.node)
	if err != nil {
		return err
	}
	if err := cxt.replaceWithExchange(info.subplan, info.node, SubplanMerge, srcs...); err != nil {
		return err
	}
	cxt.split = true
	return nil
}

// unionDistinctSplit turns every branch of a UNION into its own subplan.
// The aggregate stays in place to reduce the merged rows again and reads
// them through a single exchange.
func unionDistinctSplit(cxt *splitContext, root *Subplan) error {
	info := findMatch(root, 0, matchUnionDistinct)
	if info == nil {
		return nil
	}
	agg := info.node.(*planner.LogicalAggregate)
	srcs, err := cxt.splitUnionBranches(info.subplan, agg)
	if err != nil {
		return err
	}
	exchange := planner.NewLogicalExchange(planner.CloneColumns(agg.GroupKeys), agg.Precision(), srcs...)
	agg.SetChildren(exchange)
	info.subplan.Kind = SubplanMerge
	cxt.split = true
	return nil
}

// splitUnionBranches moves each child of fanIn into a new subplan of s and
// returns the new group ids. The existing children of s follow the branch
// whose exchanges they feed; those feeding exchanges outside fanIn stay
// with s.
func (cxt *splitContext) splitUnionBranches(s *Subplan, fanIn planner.LogicalPlan) ([]int32, error) {
	detached := s.Children
	s.Children = nil

	branches := make([]*Subplan, 0, len(fanIn.Children()))
	srcs := make([]int32, 0, len(fanIn.Children()))
	for _, node := range fanIn.Children() {
		branch, err := cxt.newSubplan(node)
		if err != nil {
			return nil, err
		}
		branch.Children, detached = mountSubplans(node, detached)
		if len(branch.Children) > 0 {
			branch.Kind = SubplanMerge
		}
		branches = append(branches, branch)
		srcs = append(srcs, branch.ID.GroupID)
	}
	s.Children = append(append([]*Subplan(nil), detached...), branches...)
	fanIn.SetChildren()
	return srcs, nil
}

// mountSubplans splits candidates into the subplans feeding an exchange
// under node and the rest, both in their original order.
func mountSubplans(node planner.LogicalPlan, candidates []*Subplan) (mounted, rest []*Subplan) {
	for _, c := range candidates {
		if planner.ReferencesGroup(node, c.ID.GroupID) {
			mounted = append(mounted, c)
		} else {
			rest = append(rest, c)
		}
	}
	return mounted, rest
}
