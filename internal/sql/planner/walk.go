package planner

// Walk visits node and its subtree in pre-order. Returning false from fn
// skips the children of the node just visited.
func Walk(node LogicalPlan, fn func(LogicalPlan) bool) {
	if node == nil || !fn(node) {
		return
	}
	for _, child := range node.Children() {
		Walk(child, fn)
	}
}

// Find returns the first node in pre-order, left to right, that satisfies
// pred, or nil.
func Find(node LogicalPlan, pred func(LogicalPlan) bool) LogicalPlan {
	if node == nil {
		return nil
	}
	if pred(node) {
		return node
	}
	for _, child := range node.Children() {
		if found := Find(child, pred); found != nil {
			return found
		}
	}
	return nil
}

// CountNodes returns the number of nodes in the subtree rooted at node.
func CountNodes(node LogicalPlan) int {
	n := 0
	Walk(node, func(LogicalPlan) bool {
		n++
		return true
	})
	return n
}

// Exchanges returns every exchange node in the subtree, in pre-order.
func Exchanges(node LogicalPlan) []*LogicalExchange {
	var out []*LogicalExchange
	Walk(node, func(n LogicalPlan) bool {
		if ex, ok := n.(*LogicalExchange); ok {
			out = append(out, ex)
		}
		return true
	})
	return out
}

// ReferencesGroup reports whether any exchange in the subtree is fed by groupID.
func ReferencesGroup(node LogicalPlan, groupID int32) bool {
	return Find(node, func(n LogicalPlan) bool {
		ex, ok := n.(*LogicalExchange)
		return ok && ex.SourcedBy(groupID)
	}) != nil
}
