package planfile

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/dshills/quantasplit/internal/sql/planner"
	"github.com/dshills/quantasplit/internal/sql/splitter"
)

// Format selects the encoding of a forest document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Subplan is the document form of one subplan. Children are referenced by
// group id; the subplans of a forest are listed in pre-order.
type Subplan struct {
	QueryID    uint64               `json:"query_id" yaml:"query_id"`
	GroupID    int32                `json:"group_id" yaml:"group_id"`
	Kind       string               `json:"kind" yaml:"kind"`
	SplitFlags string               `json:"split_flags,omitempty" yaml:"split_flags,omitempty"`
	Vgroups    []planner.VgroupInfo `json:"vgroups,omitempty" yaml:"vgroups,omitempty"`
	Children   []int32              `json:"children,omitempty" yaml:"children,omitempty"`
	Root       *Node                `json:"root" yaml:"root"`
}

// Forest is the document form of a split plan.
type Forest struct {
	QueryID     uint64    `json:"query_id" yaml:"query_id"`
	RootGroupID int32     `json:"root_group_id" yaml:"root_group_id"`
	Subplans    []Subplan `json:"subplans" yaml:"subplans"`
}

// FromForest converts a subplan forest into its document form.
func FromForest(root *splitter.Subplan) *Forest {
	f := &Forest{
		QueryID:     root.ID.QueryID,
		RootGroupID: root.ID.GroupID,
	}
	for _, s := range splitter.Flatten(root) {
		doc := Subplan{
			QueryID: s.ID.QueryID,
			GroupID: s.ID.GroupID,
			Kind:    s.Kind.String(),
			Vgroups: planner.CloneVgroups(s.Vgroups),
			Root:    FromPlan(s.Root),
		}
		if s.SplitFlags != 0 {
			doc.SplitFlags = s.SplitFlags.String()
		}
		if len(s.Children) > 0 {
			doc.Children = s.ChildGroupIDs()
		}
		f.Subplans = append(f.Subplans, doc)
	}
	return f
}

// Encode writes the forest rooted at root to w.
func Encode(w io.Writer, root *splitter.Subplan, format Format) error {
	if root == nil {
		return fmt.Errorf("encode: no subplan")
	}
	doc := FromForest(root)

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode forest: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode forest: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("encode: unknown format %q", format)
	}
}

// DecodeForest reads a forest document written by Encode. JSON and YAML
// are both accepted.
func DecodeForest(r io.Reader) (*Forest, error) {
	var f Forest
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to decode forest: %w", err)
	}
	return &f, nil
}
