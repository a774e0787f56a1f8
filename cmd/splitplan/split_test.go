package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/quantasplit/internal/sql/planfile"
	"github.com/dshills/quantasplit/internal/testutil"
)

const stablePlan = `
query_id: 9
root:
  type: filter
  condition: val > 1
  children:
    - type: scan
      table: meters
      table_type: super
      vgroups: [{id: 1}, {id: 2}, {id: 3}]
      targets: [{name: ts}, {name: val}]
`

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	rc := NewRootCommand(strings.NewReader(stdin), &stdout, &stderr)
	rc.SetArgs(args)
	err := rc.Execute()
	return stdout.String(), stderr.String(), err
}

func writePlan(t *testing.T, content string) string {
	t.Helper()
	dir, cleanup := testutil.TempDir(t)
	t.Cleanup(cleanup)
	return testutil.WriteFile(t, dir, "plan.yaml", content)
}

func TestSplitCommandJSON(t *testing.T) {
	path := writePlan(t, stablePlan)

	out, _, err := execute(t, "", "split", "-f", path, "--output", "json")
	require.NoError(t, err)

	forest, err := planfile.DecodeForest(strings.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, uint64(9), forest.QueryID)
	assert.Equal(t, int32(1), forest.RootGroupID)
	require.Len(t, forest.Subplans, 2)
	assert.Equal(t, "MERGE", forest.Subplans[0].Kind)
	assert.Equal(t, "filter", forest.Subplans[0].Root.Type)
	assert.Equal(t, []int32{2}, forest.Subplans[0].Root.Children[0].SrcGroupIDs)
	assert.Equal(t, "stable", forest.Subplans[1].SplitFlags)
}

func TestSplitCommandOverridesIDs(t *testing.T) {
	path := writePlan(t, stablePlan)

	out, _, err := execute(t, "", "split", "-f", path, "-o", "yaml", "--query-id", "77", "--group-id", "20")
	require.NoError(t, err)

	forest, err := planfile.DecodeForest(strings.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, uint64(77), forest.QueryID)
	assert.Equal(t, int32(20), forest.RootGroupID)
	assert.Equal(t, int32(21), forest.Subplans[1].GroupID)
}

func TestSplitCommandTreeFromStdin(t *testing.T) {
	out, _, err := execute(t, stablePlan, "split", "-f", "-", "--output", "tree", "--no-color", "--verify")
	require.NoError(t, err)
	assert.Contains(t, out, "Subplan(9:1 MERGE children=[2])")
	assert.Contains(t, out, "Subplan(9:2 SCAN vgroups=[1 2 3])")
	assert.NotContains(t, out, "\x1b[")
}

func TestSplitCommandTable(t *testing.T) {
	path := writePlan(t, stablePlan)

	out, _, err := execute(t, "", "split", "-f", path)
	require.NoError(t, err)
	assert.Contains(t, out, "2 subplans, query 9")
}

func TestSplitCommandConfigFile(t *testing.T) {
	dir, cleanup := testutil.TempDir(t)
	defer cleanup()
	plan := testutil.WriteFile(t, dir, "plan.yaml", stablePlan)
	cfg := testutil.WriteFile(t, dir, "config.json", `{
		"log_level": "error",
		"log_format": "json",
		"splitter": {"root_group_id": 5, "max_subplans": 10},
		"explain": {"format": "json"}
	}`)

	out, _, err := execute(t, "", "split", "-f", plan, "--config", cfg)
	require.NoError(t, err)

	forest, err := planfile.DecodeForest(strings.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, int32(5), forest.RootGroupID)
}

func TestSplitCommandErrors(t *testing.T) {
	path := writePlan(t, "root: {type: window}\n")

	_, _, err := execute(t, "", "split", "-f", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown plan node type")

	_, _, err = execute(t, "", "split")
	require.Error(t, err)

	_, _, err = execute(t, "", "split", "-f", writePlan(t, stablePlan), "--output", "dot")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid explain format")

	_, _, err = execute(t, "", "split", "-f", writePlan(t, stablePlan), "--group-id", "-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "root group id -1 is negative")

	_, _, err = execute(t, "", "split", "-f", writePlan(t, stablePlan), "--group-id", "2147483647")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of resources")
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "splitplan v"+version)
	assert.Contains(t, out, "SuperTableSplit, SingleTableJoinSplit, UnionAllSplit, UnionDistinctSplit")
}
