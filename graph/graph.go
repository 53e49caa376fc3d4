// Package graph is the public surface of the external graph import
// boundary: typed attribute lookup, shape-checked initializer readers
// and Series/Parallel segmentation.
package graph

import internal "github.com/21it/grenade/internal/graph"

// Graph is an imported node graph plus its initializer table.
type Graph = internal.Graph

// Node is a single imported operation.
type Node = internal.Node

// Attribute is one typed node attribute.
type Attribute = internal.Attribute

// AttrType identifies how an attribute's value is stored.
type AttrType = internal.AttrType

// Tensor is a named initializer.
type Tensor = internal.Tensor

// Segment, Leaf, Series and Parallel form the reconstructed topology
// tree.
type (
	Segment  = internal.Segment
	Leaf     = internal.Leaf
	Series   = internal.Series
	Parallel = internal.Parallel
)

// Attribute type tags.
const (
	AttrUndefined = internal.AttrUndefined
	AttrDouble    = internal.AttrDouble
	AttrInt       = internal.AttrInt
	AttrString    = internal.AttrString
	AttrDoubles   = internal.AttrDoubles
	AttrInts      = internal.AttrInts
)
