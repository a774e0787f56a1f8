package planfile

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dshills/quantasplit/internal/errors"
	"github.com/dshills/quantasplit/internal/sql/planner"
)

// File is a plan document: the identity of the query and its logical tree.
// JSON documents are read by the same decoder.
type File struct {
	QueryID uint64 `json:"query_id" yaml:"query_id"`
	GroupID int32  `json:"group_id,omitempty" yaml:"group_id,omitempty"`
	Root    *Node  `json:"root" yaml:"root"`
}

// Decode reads one plan document from r. Unknown fields are rejected.
func Decode(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if stderrors.Is(err, io.EOF) {
			return nil, errors.InvalidPlanError("empty plan file")
		}
		return nil, errors.Wrap(err, errors.InvalidParameterValue, "malformed plan file")
	}
	if f.Root == nil {
		return nil, errors.InvalidPlanError("plan file has no root")
	}
	return &f, nil
}

// DecodeFile reads the plan document at path.
func DecodeFile(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open plan file: %w", err)
	}
	defer fh.Close()

	f, err := Decode(fh)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan file %s: %w", path, err)
	}
	return f, nil
}

// Plan builds the logical tree of the document.
func (f *File) Plan() (planner.LogicalPlan, error) {
	return Build(f.Root)
}
