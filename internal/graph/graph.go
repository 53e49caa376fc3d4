// Package graph is the boundary to externally defined network graphs.
//
// An importer hands the library nodes (name, ordered input/output
// tensor references, typed attributes) and a table of named
// initializer tensors. This package provides the two things the core
// needs from that data: typed attribute lookup that treats a
// wrong-typed attribute the same as a missing one, and shape-checked
// initializer readers that fail recoverably when stored dimensions do
// not match what the target layer statically expects.
//
// It also segments a node graph into a Series/Parallel tree, so
// importers can reconstruct topologies that are not strict chains.
// Parsing any on-disk format into these structures is the importer's
// job, not this package's.
package graph

// AttrType identifies how an attribute's value is stored.
type AttrType int32

const (
	AttrUndefined AttrType = iota
	AttrDouble
	AttrInt
	AttrString
	AttrDoubles
	AttrInts
)

// Attribute is one typed node attribute. Only the field matching Type
// is meaningful.
type Attribute struct {
	Name    string
	Type    AttrType
	D       float64
	I       int64
	S       string
	Doubles []float64
	Ints    []int64
}

// Node is a single operation in an imported graph.
type Node struct {
	Name       string
	OpType     string
	Inputs     []string // ordered input tensor references
	Outputs    []string // ordered output tensor references
	Attributes []Attribute
}

// Tensor is a named initializer: a dimension list plus flat row-major
// numeric data.
type Tensor struct {
	Name string
	Dims []int64
	Data []float64
}

// Graph is a set of nodes plus the initializer table and the graph's
// external input and output tensor references.
type Graph struct {
	Name         string
	Nodes        []Node
	Initializers map[string]Tensor
	Inputs       []string
	Outputs      []string
}
