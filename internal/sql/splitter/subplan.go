package splitter

import (
	"fmt"
	"strings"

	"github.com/dshills/quantasplit/internal/sql/planner"
)

// SubplanKind tells the scheduler how a subplan runs.
type SubplanKind int

const (
	// SubplanScan runs once per vgroup of the shards it reads.
	SubplanScan SubplanKind = iota
	// SubplanMerge runs once and consumes exchange inputs.
	SubplanMerge
	// SubplanModify is a write-path root. It is never split.
	SubplanModify
)

func (k SubplanKind) String() string {
	switch k {
	case SubplanScan:
		return "SCAN"
	case SubplanMerge:
		return "MERGE"
	case SubplanModify:
		return "MODIFY"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// SplitFlag records which rules already fired on a subplan.
type SplitFlag uint32

const (
	// FlagStableSplit marks a subplan produced by the super table split.
	FlagStableSplit SplitFlag = 1 << iota
)

// Has reports whether any bit of mask is set.
func (f SplitFlag) Has(mask SplitFlag) bool {
	return f&mask != 0
}

// Set returns f with the bits of mask set.
func (f SplitFlag) Set(mask SplitFlag) SplitFlag {
	return f | mask
}

func (f SplitFlag) String() string {
	if f.Has(FlagStableSplit) {
		return "stable"
	}
	return "-"
}

// SubplanID identifies a subplan within a query.
type SubplanID struct {
	QueryID uint64
	GroupID int32
}

func (id SubplanID) String() string {
	return fmt.Sprintf("%d:%d", id.QueryID, id.GroupID)
}

// Subplan is an independently schedulable fragment of a query plan. It
// owns its logical tree and its child subplans exclusively.
type Subplan struct {
	ID         SubplanID
	Kind       SubplanKind
	Root       planner.LogicalPlan
	Children   []*Subplan
	Vgroups    []planner.VgroupInfo
	SplitFlags SplitFlag

	parents *planner.ParentIndex
}

// ChildGroupIDs returns the group ids of the direct children in order.
func (s *Subplan) ChildGroupIDs() []int32 {
	ids := make([]int32, len(s.Children))
	for i, c := range s.Children {
		ids[i] = c.ID.GroupID
	}
	return ids
}

// Parents returns the parent index of the subplan's logical tree.
func (s *Subplan) Parents() *planner.ParentIndex {
	if s.parents == nil || s.parents.Root() != s.Root {
		s.parents = planner.BuildParentIndex(s.Root)
	}
	return s.parents
}

func (s *Subplan) rebuildParents() {
	s.parents = planner.BuildParentIndex(s.Root)
}

func (s *Subplan) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Subplan(%s %s", s.ID, s.Kind)
	if len(s.Vgroups) > 0 {
		fmt.Fprintf(&sb, " vgroups=%v", planner.VgroupIDs(s.Vgroups))
	}
	if len(s.Children) > 0 {
		fmt.Fprintf(&sb, " children=%v", s.ChildGroupIDs())
	}
	sb.WriteString(")")
	return sb.String()
}

// Walk visits s and its descendants in pre-order.
func Walk(s *Subplan, fn func(*Subplan)) {
	if s == nil {
		return
	}
	fn(s)
	for _, c := range s.Children {
		Walk(c, fn)
	}
}

// Flatten returns s and its descendants in pre-order.
func Flatten(s *Subplan) []*Subplan {
	var out []*Subplan
	Walk(s, func(sp *Subplan) {
		out = append(out, sp)
	})
	return out
}

// FindGroup returns the subplan in the tree rooted at s with groupID.
func FindGroup(s *Subplan, groupID int32) *Subplan {
	if s == nil {
		return nil
	}
	if s.ID.GroupID == groupID {
		return s
	}
	for _, c := range s.Children {
		if found := FindGroup(c, groupID); found != nil {
			return found
		}
	}
	return nil
}

// FormatForest renders the subplan tree with each subplan's logical plan
// indented beneath it.
func FormatForest(root *Subplan) string {
	var sb strings.Builder
	formatSubplan(root, "", &sb)
	return sb.String()
}

func formatSubplan(s *Subplan, indent string, sb *strings.Builder) {
	sb.WriteString(indent)
	sb.WriteString(s.String())
	sb.WriteByte('\n')
	for _, line := range strings.Split(strings.TrimRight(planner.ExplainPlan(s.Root), "\n"), "\n") {
		sb.WriteString(indent)
		sb.WriteString("  | ")
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	for _, c := range s.Children {
		formatSubplan(c, indent+"    ", sb)
	}
}
