package splitter

import (
	"github.com/dshills/quantasplit/internal/errors"
	"github.com/dshills/quantasplit/internal/sql/planner"
)

// splitContext carries the state of one planning call.
type splitContext struct {
	queryID     uint64
	rootGroupID int32
	groupID     int32 // next group id to hand out
	split       bool  // set by a rule that rewrote the forest
	subplans    int   // subplans in the forest
	maxSubplans int
}

func newSplitContext(queryID uint64, rootGroupID int32, maxSubplans int) *splitContext {
	return &splitContext{
		queryID:     queryID,
		rootGroupID: rootGroupID,
		groupID:     rootGroupID + 1,
		subplans:    1,
		maxSubplans: maxSubplans,
	}
}

// newSubplan wraps node in a subplan with a fresh group id. The node is
// moved, not copied.
func (cxt *splitContext) newSubplan(node planner.LogicalPlan) (*Subplan, error) {
	if cxt.maxSubplans > 0 && cxt.subplans >= cxt.maxSubplans {
		return nil, errors.SubplanLimitError(cxt.maxSubplans)
	}
	// Past math.MaxInt32 the counter wraps below the root id.
	if cxt.groupID <= cxt.rootGroupID {
		return nil, errors.GroupIDExhaustedError(cxt.rootGroupID)
	}
	s := &Subplan{
		ID:   SubplanID{QueryID: cxt.queryID, GroupID: cxt.groupID},
		Kind: SubplanScan,
		Root: node,
	}
	cxt.groupID++
	cxt.subplans++
	s.rebuildParents()
	return s, nil
}

// cloneSubplan copies node into a new subplan. When node is a scan its
// vgroup list moves from the copy onto the subplan.
func (cxt *splitContext) cloneSubplan(node planner.LogicalPlan, flag SplitFlag) (*Subplan, error) {
	clone, err := planner.Clone(node)
	if err != nil {
		return nil, err
	}
	s, err := cxt.newSubplan(clone)
	if err != nil {
		return nil, err
	}
	if scan, ok := clone.(*planner.LogicalScan); ok {
		s.Vgroups, scan.Vgroups = scan.Vgroups, nil
	}
	s.SplitFlags = s.SplitFlags.Set(flag)
	return s, nil
}

// replaceWithExchange puts an exchange fed by srcGroupIDs where node sits in
// s, dropping node, and sets the kind of s.
func (cxt *splitContext) replaceWithExchange(s *Subplan, node planner.LogicalPlan, kind SubplanKind, srcGroupIDs ...int32) error {
	exchange := planner.NewLogicalExchange(planner.CloneColumns(node.Targets()), node.Precision(), srcGroupIDs...)

	parents := s.Parents()
	if !parents.Contains(node) {
		return errors.StaleParentError(node.String(), s.ID.String())
	}

	s.Kind = kind
	parent, ok := parents.Parent(node)
	if !ok {
		if s.Root != node {
			return errors.StaleParentError(node.String(), "<root>")
		}
		s.Root = exchange
		return nil
	}
	return planner.ReplaceChild(parent, node, exchange)
}
