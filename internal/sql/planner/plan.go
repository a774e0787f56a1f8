package planner

import (
	"fmt"
	"strings"
)

// LogicalPlan represents a node in a logical query plan.
type LogicalPlan interface {
	// Kind returns the operator variant of this node.
	Kind() NodeKind
	// Children returns the child plans in order.
	Children() []LogicalPlan
	// SetChildren replaces the child list.
	SetChildren(children ...LogicalPlan)
	// Targets returns the output columns of this node.
	Targets() []Column
	// Precision returns the timestamp precision of the rows this node produces.
	Precision() Precision
	// String returns a one-line representation for debugging.
	String() string
	logicalNode()
}

// NodeKind identifies a logical operator variant.
type NodeKind int

const (
	KindScan NodeKind = iota
	KindJoin
	KindProject
	KindAggregate
	KindExchange
	KindModify
	KindFilter
	KindSort
	KindLimit
)

func (k NodeKind) String() string {
	switch k {
	case KindScan:
		return "Scan"
	case KindJoin:
		return "Join"
	case KindProject:
		return "Project"
	case KindAggregate:
		return "Aggregate"
	case KindExchange:
		return "Exchange"
	case KindModify:
		return "Modify"
	case KindFilter:
		return "Filter"
	case KindSort:
		return "Sort"
	case KindLimit:
		return "Limit"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// ParseNodeKind maps an operator name to its kind, ignoring case.
func ParseNodeKind(s string) (NodeKind, bool) {
	for k := KindScan; k <= KindLimit; k++ {
		if strings.EqualFold(k.String(), s) {
			return k, true
		}
	}
	return 0, false
}

// Column represents an output column crossing a plan node.
type Column struct {
	Name      string `json:"name" yaml:"name"`
	TableName string `json:"table,omitempty" yaml:"table,omitempty"`
	DataType  string `json:"type,omitempty" yaml:"type,omitempty"`
}

func (c Column) String() string {
	if c.TableName != "" {
		return c.TableName + "." + c.Name
	}
	return c.Name
}

// CloneColumns returns a copy of cols. A nil list stays nil.
func CloneColumns(cols []Column) []Column {
	if cols == nil {
		return nil
	}
	out := make([]Column, len(cols))
	copy(out, cols)
	return out
}

func columnList(cols []Column) string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.String()
	}
	return strings.Join(names, ", ")
}

// Precision is the timestamp resolution of a time-series table.
type Precision uint8

const (
	PrecisionMilli Precision = iota
	PrecisionMicro
	PrecisionNano
)

func (p Precision) String() string {
	switch p {
	case PrecisionMicro:
		return "us"
	case PrecisionNano:
		return "ns"
	default:
		return "ms"
	}
}

// ParsePrecision parses "ms", "us" or "ns". The empty string means milliseconds.
func ParsePrecision(s string) (Precision, error) {
	switch strings.ToLower(s) {
	case "", "ms":
		return PrecisionMilli, nil
	case "us":
		return PrecisionMicro, nil
	case "ns":
		return PrecisionNano, nil
	default:
		return 0, fmt.Errorf("unknown precision %q", s)
	}
}

// VgroupInfo identifies one physical shard of a table.
type VgroupInfo struct {
	ID        int32    `json:"id" yaml:"id"`
	Endpoints []string `json:"endpoints,omitempty" yaml:"endpoints,omitempty"`
}

// CloneVgroups returns a deep copy of vgroups.
func CloneVgroups(vgroups []VgroupInfo) []VgroupInfo {
	if vgroups == nil {
		return nil
	}
	out := make([]VgroupInfo, len(vgroups))
	for i, vg := range vgroups {
		out[i] = VgroupInfo{ID: vg.ID}
		if vg.Endpoints != nil {
			out[i].Endpoints = append([]string(nil), vg.Endpoints...)
		}
	}
	return out
}

// VgroupIDs returns the shard ids in order.
func VgroupIDs(vgroups []VgroupInfo) []int32 {
	ids := make([]int32, len(vgroups))
	for i, vg := range vgroups {
		ids[i] = vg.ID
	}
	return ids
}

// baseNode provides the envelope shared by every logical node.
type baseNode struct {
	children  []LogicalPlan
	targets   []Column
	precision Precision
}

func (n *baseNode) Children() []LogicalPlan {
	return n.children
}

func (n *baseNode) SetChildren(children ...LogicalPlan) {
	n.children = children
}

func (n *baseNode) Targets() []Column {
	return n.targets
}

func (n *baseNode) Precision() Precision {
	return n.precision
}

func (n *baseNode) logicalNode() {}

func (n *baseNode) cloneEnvelope() baseNode {
	return baseNode{
		targets:   CloneColumns(n.targets),
		precision: n.precision,
	}
}

// explainPlan renders plan and its subtree, one node per line.
func explainPlan(plan LogicalPlan, indent string, sb *strings.Builder) {
	sb.WriteString(indent)
	sb.WriteString(plan.String())
	sb.WriteByte('\n')
	for _, child := range plan.Children() {
		explainPlan(child, indent+"  ", sb)
	}
}

// ExplainPlan returns a human-readable representation of a plan tree.
func ExplainPlan(plan LogicalPlan) string {
	if plan == nil {
		return "<nil>\n"
	}
	var sb strings.Builder
	explainPlan(plan, "", &sb)
	return sb.String()
}
