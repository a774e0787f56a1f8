// Package planfile reads logical plans from YAML or JSON documents and
// writes split subplan forests back out.
package planfile

import (
	"fmt"
	"strings"

	"github.com/dshills/quantasplit/internal/errors"
	"github.com/dshills/quantasplit/internal/sql/planner"
)

// Node is the document form of one logical operator.
type Node struct {
	Type            string               `json:"type" yaml:"type"`
	Table           string               `json:"table,omitempty" yaml:"table,omitempty"`
	TableType       string               `json:"table_type,omitempty" yaml:"table_type,omitempty"`
	Vgroups         []planner.VgroupInfo `json:"vgroups,omitempty" yaml:"vgroups,omitempty"`
	JoinType        string               `json:"join_type,omitempty" yaml:"join_type,omitempty"`
	SingleTableJoin bool                 `json:"single_table_join,omitempty" yaml:"single_table_join,omitempty"`
	GroupKeys       []planner.Column     `json:"group_keys,omitempty" yaml:"group_keys,omitempty"`
	Aggregates      []string             `json:"aggregates,omitempty" yaml:"aggregates,omitempty"`
	Condition       string               `json:"condition,omitempty" yaml:"condition,omitempty"`
	OrderBy         []string             `json:"order_by,omitempty" yaml:"order_by,omitempty"`
	Limit           int64                `json:"limit,omitempty" yaml:"limit,omitempty"`
	Offset          int64                `json:"offset,omitempty" yaml:"offset,omitempty"`
	SrcGroupIDs     []int32              `json:"src_group_ids,omitempty" yaml:"src_group_ids,omitempty"`
	Blocks          map[int32]string     `json:"blocks,omitempty" yaml:"blocks,omitempty"`
	Targets         []planner.Column     `json:"targets,omitempty" yaml:"targets,omitempty"`
	Precision       string               `json:"precision,omitempty" yaml:"precision,omitempty"`
	Children        []*Node              `json:"children,omitempty" yaml:"children,omitempty"`
}

// Build converts a document node and its subtree into a logical plan.
func Build(n *Node) (planner.LogicalPlan, error) {
	if n == nil {
		return nil, errors.InvalidPlanError("missing plan node")
	}
	kind, ok := planner.ParseNodeKind(n.Type)
	if !ok {
		return nil, errors.UnknownNodeTypeError(n.Type)
	}

	children := make([]planner.LogicalPlan, len(n.Children))
	for i, c := range n.Children {
		child, err := Build(c)
		if err != nil {
			return nil, err
		}
		children[i] = child
	}

	node, err := buildNode(kind, n, children)
	if err != nil {
		return nil, err
	}

	if n.Precision != "" {
		p, err := planner.ParsePrecision(n.Precision)
		if err != nil {
			return nil, errors.InvalidPlanError(err.Error())
		}
		planner.SetPrecision(node, p)
	}
	if n.Targets != nil && kind != planner.KindAggregate {
		planner.SetTargets(node, planner.CloneColumns(n.Targets))
	}
	return node, nil
}

func buildNode(kind planner.NodeKind, n *Node, children []planner.LogicalPlan) (planner.LogicalPlan, error) {
	switch kind {
	case planner.KindScan:
		if n.Table == "" {
			return nil, errors.InvalidPlanError("scan without table")
		}
		if err := wantChildren(n, children, 0); err != nil {
			return nil, err
		}
		tt, err := planner.ParseTableType(n.TableType)
		if err != nil {
			return nil, errors.InvalidPlanError(err.Error())
		}
		return planner.NewLogicalScan(n.Table, tt, planner.CloneVgroups(n.Vgroups), nil), nil

	case planner.KindJoin:
		if err := wantChildren(n, children, 2); err != nil {
			return nil, err
		}
		jt, err := planner.ParseJoinType(n.JoinType)
		if err != nil {
			return nil, errors.InvalidPlanError(err.Error())
		}
		return planner.NewLogicalJoin(children[0], children[1], jt, n.SingleTableJoin, nil), nil

	case planner.KindProject:
		if len(children) == 0 {
			return nil, errors.InvalidPlanError("project without input")
		}
		return planner.NewLogicalProject(nil, children...), nil

	case planner.KindAggregate:
		if len(children) == 0 {
			return nil, errors.InvalidPlanError("aggregate without input")
		}
		return planner.NewLogicalAggregate(planner.CloneColumns(n.GroupKeys), append([]string(nil), n.Aggregates...), children...), nil

	case planner.KindExchange:
		if err := wantChildren(n, children, 0); err != nil {
			return nil, err
		}
		return planner.NewLogicalExchange(nil, planner.PrecisionMilli, append([]int32(nil), n.SrcGroupIDs...)...), nil

	case planner.KindModify:
		if err := wantChildren(n, children, 0); err != nil {
			return nil, err
		}
		var blocks map[int32][]byte
		if n.Blocks != nil {
			blocks = make(map[int32][]byte, len(n.Blocks))
			for vg, data := range n.Blocks {
				blocks[vg] = []byte(data)
			}
		}
		return planner.NewLogicalModify(n.Table, blocks), nil

	case planner.KindFilter:
		if err := wantChildren(n, children, 1); err != nil {
			return nil, err
		}
		return planner.NewLogicalFilter(children[0], n.Condition), nil

	case planner.KindSort:
		if err := wantChildren(n, children, 1); err != nil {
			return nil, err
		}
		return planner.NewLogicalSort(children[0], n.OrderBy...), nil

	case planner.KindLimit:
		if err := wantChildren(n, children, 1); err != nil {
			return nil, err
		}
		return planner.NewLogicalLimit(children[0], n.Limit, n.Offset), nil
	}
	return nil, errors.UnknownNodeTypeError(n.Type)
}

func wantChildren(n *Node, children []planner.LogicalPlan, want int) error {
	if len(children) != want {
		return errors.InvalidPlanErrorf("%s needs %d inputs, has %d", n, want, len(children))
	}
	return nil
}

// FromPlan converts a logical plan into its document form. Targets and
// precision are written only where they originate; nodes that pass their
// input through inherit them again on Build.
func FromPlan(node planner.LogicalPlan) *Node {
	if node == nil {
		return nil
	}
	n := &Node{Type: strings.ToLower(node.Kind().String())}

	switch p := node.(type) {
	case *planner.LogicalScan:
		n.Table = p.TableName
		n.TableType = p.TableType.String()
		n.Vgroups = planner.CloneVgroups(p.Vgroups)
		n.Targets = planner.CloneColumns(p.Targets())
		n.Precision = p.Precision().String()
	case *planner.LogicalJoin:
		n.JoinType = p.JoinType.String()
		n.SingleTableJoin = p.SingleTableJoin
		n.Targets = planner.CloneColumns(p.Targets())
	case *planner.LogicalProject:
		n.Targets = planner.CloneColumns(p.Targets())
	case *planner.LogicalAggregate:
		n.GroupKeys = planner.CloneColumns(p.GroupKeys)
		n.Aggregates = append([]string(nil), p.Aggregates...)
	case *planner.LogicalExchange:
		n.SrcGroupIDs = append([]int32(nil), p.SrcGroupIDs...)
		n.Targets = planner.CloneColumns(p.Targets())
		n.Precision = p.Precision().String()
	case *planner.LogicalModify:
		n.Table = p.TableName
		if len(p.DataBlocks) > 0 {
			n.Blocks = make(map[int32]string, len(p.DataBlocks))
			for vg, data := range p.DataBlocks {
				n.Blocks[vg] = string(data)
			}
		}
	case *planner.LogicalFilter:
		n.Condition = p.Condition
	case *planner.LogicalSort:
		n.OrderBy = append([]string(nil), p.OrderBy...)
	case *planner.LogicalLimit:
		n.Limit = p.Limit
		n.Offset = p.Offset
	}

	for _, child := range node.Children() {
		n.Children = append(n.Children, FromPlan(child))
	}
	return n
}

func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	if n.Table != "" {
		return fmt.Sprintf("%s(%s)", n.Type, n.Table)
	}
	return n.Type
}
