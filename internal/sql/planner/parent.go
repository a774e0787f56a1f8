package planner

import (
	"github.com/dshills/quantasplit/internal/errors"
)

// ParentIndex maps every node of a tree to the node that owns it. Nodes do
// not point upwards themselves; the index is rebuilt after the tree is
// restructured.
type ParentIndex struct {
	root    LogicalPlan
	parents map[LogicalPlan]LogicalPlan
}

// BuildParentIndex records the parent of every node reachable from root.
func BuildParentIndex(root LogicalPlan) *ParentIndex {
	idx := &ParentIndex{
		root:    root,
		parents: make(map[LogicalPlan]LogicalPlan),
	}
	if root == nil {
		return idx
	}
	idx.parents[root] = nil
	idx.build(root)
	return idx
}

func (p *ParentIndex) build(node LogicalPlan) {
	for _, child := range node.Children() {
		p.parents[child] = node
		p.build(child)
	}
}

// Root returns the root the index was built from.
func (p *ParentIndex) Root() LogicalPlan {
	return p.root
}

// Parent returns the parent of node. The root, and nodes unknown to the
// index, have no parent.
func (p *ParentIndex) Parent(node LogicalPlan) (LogicalPlan, bool) {
	parent, ok := p.parents[node]
	if !ok || parent == nil {
		return nil, false
	}
	return parent, true
}

// Contains reports whether node was part of the indexed tree.
func (p *ParentIndex) Contains(node LogicalPlan) bool {
	_, ok := p.parents[node]
	return ok
}

// Len returns the number of indexed nodes.
func (p *ParentIndex) Len() int {
	return len(p.parents)
}

// Check verifies that the index still describes the tree rooted at root:
// every node appears exactly once and its recorded parent lists it as a child.
func (p *ParentIndex) Check(root LogicalPlan) error {
	if root != p.root {
		return errors.InvariantViolationError("parent index", "index was built for a different root")
	}
	seen := make(map[LogicalPlan]bool, len(p.parents))
	var visit func(node, parent LogicalPlan) error
	visit = func(node, parent LogicalPlan) error {
		if seen[node] {
			return errors.InvariantViolationError("parent index", node.String()+" is owned twice")
		}
		seen[node] = true
		recorded, ok := p.parents[node]
		if !ok {
			return errors.InvariantViolationError("parent index", node.String()+" is not indexed")
		}
		if recorded != parent {
			return errors.StaleParentError(node.String(), describe(recorded))
		}
		for _, child := range node.Children() {
			if err := visit(child, node); err != nil {
				return err
			}
		}
		return nil
	}
	if root == nil {
		return nil
	}
	if err := visit(root, nil); err != nil {
		return err
	}
	if len(seen) != len(p.parents) {
		return errors.InvariantViolationError("parent index", "index holds detached nodes")
	}
	return nil
}

// ReplaceChild swaps old for replacement in parent's child list. It fails
// if parent does not own old, which means the parent index that produced
// parent is stale.
func ReplaceChild(parent, old, replacement LogicalPlan) error {
	children := parent.Children()
	for i, child := range children {
		if child == old {
			children[i] = replacement
			return nil
		}
	}
	return errors.StaleParentError(old.String(), parent.String())
}

func describe(node LogicalPlan) string {
	if node == nil {
		return "<root>"
	}
	return node.String()
}
