package graph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/21it/grenade/internal/graph"
)

func attrNode() *graph.Node {
	return &graph.Node{
		Name:   "conv",
		OpType: "Conv",
		Attributes: []graph.Attribute{
			{Name: "alpha", Type: graph.AttrDouble, D: 0.5},
			{Name: "group", Type: graph.AttrInt, I: 2},
			{Name: "mode", Type: graph.AttrString, S: "same"},
			{Name: "strides", Type: graph.AttrInts, Ints: []int64{2, 2}},
			{Name: "scales", Type: graph.AttrDoubles, Doubles: []float64{1, 0.5}},
		},
	}
}

func TestTypedAttributeLookup(t *testing.T) {
	n := attrNode()

	d, ok := n.DoubleAttribute("alpha")
	require.True(t, ok)
	assert.Equal(t, 0.5, d)

	i, ok := n.IntAttribute("group")
	require.True(t, ok)
	assert.Equal(t, int64(2), i)

	s, ok := n.StringAttribute("mode")
	require.True(t, ok)
	assert.Equal(t, "same", s)

	is, ok := n.IntsAttribute("strides")
	require.True(t, ok)
	assert.Equal(t, []int64{2, 2}, is)

	ds, ok := n.DoublesAttribute("scales")
	require.True(t, ok)
	assert.Equal(t, []float64{1, 0.5}, ds)
}

func TestAbsentAttribute(t *testing.T) {
	n := attrNode()
	_, ok := n.DoubleAttribute("missing")
	assert.False(t, ok)
}

// A wrong-typed attribute reads the same as an absent one.
func TestWrongTypedAttribute(t *testing.T) {
	n := attrNode()

	_, ok := n.IntAttribute("alpha")
	assert.False(t, ok, "alpha is a double, not an int")

	_, ok = n.DoubleAttribute("group")
	assert.False(t, ok, "group is an int, not a double")

	_, ok = n.IntsAttribute("scales")
	assert.False(t, ok, "scales holds doubles, not ints")
}

func initGraph() *graph.Graph {
	return &graph.Graph{
		Initializers: map[string]graph.Tensor{
			"b": {Name: "b", Dims: []int64{3}, Data: []float64{1, 2, 3}},
			"w": {Name: "w", Dims: []int64{2, 3}, Data: []float64{1, 2, 3, 4, 5, 6}},
		},
	}
}

func TestVectorInitializer(t *testing.T) {
	g := initGraph()

	v, err := g.VectorInitializer("b", 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, v.Data())

	_, err = g.VectorInitializer("b", 4)
	assert.Error(t, err, "stored length does not match the requested one")

	_, err = g.VectorInitializer("w", 6)
	assert.Error(t, err, "rank 2 tensor is not a vector")

	_, err = g.VectorInitializer("missing", 3)
	assert.Error(t, err)
}

func TestMatrixInitializer(t *testing.T) {
	g := initGraph()

	m, err := g.MatrixInitializer("w", 2, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, m.Rows())
	assert.Equal(t, 3, m.Cols())
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6}, m.Data())

	_, err = g.MatrixInitializer("w", 3, 2)
	assert.Error(t, err, "transposed dimensions must not pass")

	_, err = g.MatrixInitializer("b", 1, 3)
	assert.Error(t, err, "rank 1 tensor is not a matrix")
}

// chain builds op nodes a -> b -> ... where each node consumes the
// previous node's output tensor.
func node(name string, inputs, outputs []string) graph.Node {
	return graph.Node{Name: name, OpType: "Op", Inputs: inputs, Outputs: outputs}
}

func leafNames(t *testing.T, seg graph.Segment) []string {
	t.Helper()
	switch s := seg.(type) {
	case *graph.Leaf:
		return []string{s.Node.Name}
	case *graph.Series:
		var names []string
		for _, item := range s.Items {
			names = append(names, leafNames(t, item)...)
		}
		return names
	case *graph.Parallel:
		var names []string
		for _, b := range s.Branches {
			names = append(names, leafNames(t, b)...)
		}
		return names
	default:
		t.Fatalf("unexpected segment %T", seg)
		return nil
	}
}

func TestSegmentChain(t *testing.T) {
	g := &graph.Graph{Nodes: []graph.Node{
		node("a", []string{"x"}, []string{"t1"}),
		node("b", []string{"t1"}, []string{"t2"}),
		node("c", []string{"t2"}, []string{"y"}),
	}}

	seg, err := g.Segment()
	require.NoError(t, err)

	series, ok := seg.(*graph.Series)
	require.True(t, ok)
	require.Len(t, series.Items, 3)
	assert.Equal(t, []string{"a", "b", "c"}, leafNames(t, seg))
}

func TestSegmentDiamond(t *testing.T) {
	g := &graph.Graph{Nodes: []graph.Node{
		node("split", []string{"x"}, []string{"t"}),
		node("left", []string{"t"}, []string{"l"}),
		node("right", []string{"t"}, []string{"r"}),
		node("join", []string{"l", "r"}, []string{"y"}),
	}}

	seg, err := g.Segment()
	require.NoError(t, err)

	series, ok := seg.(*graph.Series)
	require.True(t, ok)
	require.Len(t, series.Items, 3)

	assert.Equal(t, "split", series.Items[0].(*graph.Leaf).Node.Name)

	par, ok := series.Items[1].(*graph.Parallel)
	require.True(t, ok)
	require.Len(t, par.Branches, 2)
	assert.Equal(t, "left", par.Branches[0].(*graph.Leaf).Node.Name)
	assert.Equal(t, "right", par.Branches[1].(*graph.Leaf).Node.Name)

	assert.Equal(t, "join", series.Items[2].(*graph.Leaf).Node.Name)
}

// A fan-out where one branch feeds the join directly is a pass-through
// edge and becomes an empty Series branch.
func TestSegmentPassThroughBranch(t *testing.T) {
	g := &graph.Graph{Nodes: []graph.Node{
		node("split", []string{"x"}, []string{"t"}),
		node("body", []string{"t"}, []string{"b"}),
		node("join", []string{"b", "t"}, []string{"y"}),
	}}

	seg, err := g.Segment()
	require.NoError(t, err)

	series, ok := seg.(*graph.Series)
	require.True(t, ok)
	require.Len(t, series.Items, 3)

	par, ok := series.Items[1].(*graph.Parallel)
	require.True(t, ok)
	require.Len(t, par.Branches, 2)

	var empties, leaves int
	for _, b := range par.Branches {
		switch s := b.(type) {
		case *graph.Series:
			assert.Empty(t, s.Items)
			empties++
		case *graph.Leaf:
			assert.Equal(t, "body", s.Node.Name)
			leaves++
		}
	}
	assert.Equal(t, 1, empties)
	assert.Equal(t, 1, leaves)
}

func TestSegmentNestedParallel(t *testing.T) {
	g := &graph.Graph{Nodes: []graph.Node{
		node("a", []string{"x"}, []string{"t"}),
		node("b1", []string{"t"}, []string{"u"}),
		node("c1", []string{"u"}, []string{"v1"}),
		node("c2", []string{"u"}, []string{"v2"}),
		node("d", []string{"v1", "v2"}, []string{"w"}),
		node("b2", []string{"t"}, []string{"z"}),
		node("join", []string{"w", "z"}, []string{"y"}),
	}}

	seg, err := g.Segment()
	require.NoError(t, err)
	assert.ElementsMatch(t,
		[]string{"a", "b1", "c1", "c2", "d", "b2", "join"},
		leafNames(t, seg))

	series := seg.(*graph.Series)
	outer, ok := series.Items[1].(*graph.Parallel)
	require.True(t, ok)
	require.Len(t, outer.Branches, 2)
}

func TestSegmentMultipleEntries(t *testing.T) {
	g := &graph.Graph{Nodes: []graph.Node{
		node("a", []string{"x1"}, []string{"t1"}),
		node("b", []string{"x2"}, []string{"t2"}),
		node("join", []string{"t1", "t2"}, []string{"y"}),
	}}

	_, err := g.Segment()
	require.Error(t, err)
}

func TestSegmentNonReconverging(t *testing.T) {
	g := &graph.Graph{Nodes: []graph.Node{
		node("split", []string{"x"}, []string{"t"}),
		node("left", []string{"t"}, []string{"y1"}),
		node("right", []string{"t"}, []string{"y2"}),
	}}

	_, err := g.Segment()
	require.Error(t, err)
}

func TestSegmentEmptyGraph(t *testing.T) {
	seg, err := (&graph.Graph{}).Segment()
	require.NoError(t, err)
	series, ok := seg.(*graph.Series)
	require.True(t, ok)
	assert.Empty(t, series.Items)
}

func TestSegmentSingleNode(t *testing.T) {
	g := &graph.Graph{Nodes: []graph.Node{
		node("only", []string{"x"}, []string{"y"}),
	}}

	seg, err := g.Segment()
	require.NoError(t, err)
	leaf, ok := seg.(*graph.Leaf)
	require.True(t, ok)
	assert.Equal(t, "only", leaf.Node.Name)
}
