package splitter

import (
	"fmt"

	"github.com/dshills/quantasplit/internal/errors"
	"github.com/dshills/quantasplit/internal/sql/planner"
)

// Verify checks the structural invariants of a finished forest:
//   - group ids are unique;
//   - every exchange source is a descendant of the subplan holding the exchange;
//   - every child subplan feeds an exchange of its parent;
//   - each logical tree agrees with its parent index;
//   - modify subplans have no children.
func Verify(root *Subplan) error {
	if root == nil {
		return errors.InvariantViolationError("forest", "no root subplan")
	}

	all := Flatten(root)
	seen := make(map[int32]bool, len(all))
	for _, s := range all {
		if seen[s.ID.GroupID] {
			return errors.InvariantViolationError("unique group id", fmt.Sprintf("group %d is used twice", s.ID.GroupID))
		}
		seen[s.ID.GroupID] = true
	}
	for _, s := range all {
		if err := verifySubplan(s); err != nil {
			return err
		}
	}
	return nil
}

func verifySubplan(s *Subplan) error {
	if s.Root == nil {
		return errors.InvariantViolationError("subplan root", s.String()+" has no plan")
	}
	if s.Kind == SubplanModify && len(s.Children) > 0 {
		return errors.InvariantViolationError("modify subplan", s.String()+" has children")
	}
	if err := s.Parents().Check(s.Root); err != nil {
		return err
	}

	for _, ex := range planner.Exchanges(s.Root) {
		if len(ex.SrcGroupIDs) == 0 {
			return errors.InvariantViolationError("exchange source", ex.String()+" has no producer")
		}
		for _, src := range ex.SrcGroupIDs {
			if !isDescendant(s, src) {
				return errors.InvariantViolationError("exchange source",
					fmt.Sprintf("%s in %s reads group %d which is not a descendant", ex, s, src))
			}
		}
	}

	for _, c := range s.Children {
		if !planner.ReferencesGroup(s.Root, c.ID.GroupID) {
			return errors.InvariantViolationError("orphan subplan",
				fmt.Sprintf("%s is not read by any exchange of %s", c, s))
		}
	}
	return nil
}

func isDescendant(s *Subplan, groupID int32) bool {
	for _, c := range s.Children {
		if FindGroup(c, groupID) != nil {
			return true
		}
	}
	return false
}
