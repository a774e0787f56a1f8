package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExplainPlan(t *testing.T) {
	scan := NewLogicalScan("meters", SuperTable, sampleVgroups(1, 2), []Column{{Name: "ts", TableName: "meters"}, {Name: "val", TableName: "meters"}})
	plan := NewLogicalLimit(
		NewLogicalProject([]Column{{Name: "val"}},
			NewLogicalFilter(scan, "val > 10"),
			NewLogicalExchange([]Column{{Name: "val"}}, PrecisionMilli, 2, 3),
		), 5, 1)

	want := "Limit(5, 1)\n" +
		"  Project(val)\n" +
		"    Filter(val > 10)\n" +
		"      Scan(meters vgroups=[1 2])\n" +
		"    Exchange(src=[2 3] cols=[val])\n"
	assert.Equal(t, want, ExplainPlan(plan))
	assert.Equal(t, "<nil>\n", ExplainPlan(nil))
}

func TestNodeStrings(t *testing.T) {
	tests := []struct {
		node LogicalPlan
		want string
	}{
		{NewLogicalScan("t", NormalTable, nil, nil), "Scan(t)"},
		{NewLogicalJoin(NewLogicalScan("a", NormalTable, nil, nil), NewLogicalScan("b", NormalTable, nil, nil), FullJoin, false, nil), "FULLJoin"},
		{NewLogicalAggregate([]Column{{Name: "d"}}, []string{"count(*)"}), "Aggregate(GROUP BY d count(*))"},
		{NewLogicalSort(NewLogicalScan("a", NormalTable, nil, nil), "ts", "val"), "Sort(ts, val)"},
		{NewLogicalLimit(NewLogicalScan("a", NormalTable, nil, nil), 3, 0), "Limit(3)"},
		{NewLogicalModify("t", nil), "Modify(t blocks=0)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.node.String())
	}
}

func TestAggregateTargets(t *testing.T) {
	agg := NewLogicalAggregate([]Column{{Name: "device"}}, []string{"max(val)", "count(*)"})
	assert.Equal(t, []Column{{Name: "device"}, {Name: "max(val)"}, {Name: "count(*)"}}, agg.Targets())
}

func TestExchangeSourcedBy(t *testing.T) {
	ex := NewLogicalExchange(nil, PrecisionMilli, 4, 7)
	assert.True(t, ex.SourcedBy(4))
	assert.True(t, ex.SourcedBy(7))
	assert.False(t, ex.SourcedBy(5))
}

func TestParseEnums(t *testing.T) {
	tt, err := ParseTableType("stable")
	require.NoError(t, err)
	assert.Equal(t, SuperTable, tt)
	_, err = ParseTableType("view")
	assert.Error(t, err)

	jt, err := ParseJoinType("left")
	require.NoError(t, err)
	assert.Equal(t, LeftJoin, jt)
	jt, err = ParseJoinType("")
	require.NoError(t, err)
	assert.Equal(t, InnerJoin, jt)

	p, err := ParsePrecision("NS")
	require.NoError(t, err)
	assert.Equal(t, PrecisionNano, p)
	_, err = ParsePrecision("s")
	assert.Error(t, err)

	k, ok := ParseNodeKind("exchange")
	require.True(t, ok)
	assert.Equal(t, KindExchange, k)
	_, ok = ParseNodeKind("window")
	assert.False(t, ok)
}

func TestSetTargetsAndPrecision(t *testing.T) {
	f := NewLogicalFilter(NewLogicalScan("a", NormalTable, nil, nil), "x")
	SetTargets(f, []Column{{Name: "x"}})
	SetPrecision(f, PrecisionNano)
	assert.Equal(t, []Column{{Name: "x"}}, f.Targets())
	assert.Equal(t, PrecisionNano, f.Precision())
}

func TestWalkAndFind(t *testing.T) {
	a := NewLogicalScan("a", NormalTable, nil, nil)
	ex := NewLogicalExchange(nil, PrecisionMilli, 9)
	filter := NewLogicalFilter(a, "x")
	root := NewLogicalProject(nil, filter, ex)

	var order []NodeKind
	Walk(root, func(n LogicalPlan) bool {
		order = append(order, n.Kind())
		return n.Kind() != KindFilter
	})
	assert.Equal(t, []NodeKind{KindProject, KindFilter, KindExchange}, order)

	assert.Equal(t, 4, CountNodes(root))
	assert.Same(t, a, Find(root, func(n LogicalPlan) bool { return n.Kind() == KindScan }))
	assert.Nil(t, Find(root, func(n LogicalPlan) bool { return n.Kind() == KindJoin }))
	assert.Equal(t, []*LogicalExchange{ex}, Exchanges(root))
	assert.True(t, ReferencesGroup(root, 9))
	assert.False(t, ReferencesGroup(root, 8))
}
