package graph

import "fmt"

// Segmentation reconstructs a Series/Parallel tree from a node graph.
// Nodes with a single inbound edge chain into Series; a node whose
// output fans out to several consumers opens Parallel branches, and a
// node with multiple inbound edges is a branch point where they must
// reconverge. Graphs that are not series-parallel are rejected.

// Segment is a node of the reconstructed topology tree.
type Segment interface {
	isSegment()
}

// Leaf wraps a single graph node.
type Leaf struct {
	Node *Node
}

// Series is an ordered chain of segments.
type Series struct {
	Items []Segment
}

// Parallel is a set of branches sharing one producer and one
// reconvergence point. An empty Series branch is a pass-through edge
// straight from the producer to the reconvergence node.
type Parallel struct {
	Branches []Segment
}

func (*Leaf) isSegment()     {}
func (*Series) isSegment()   {}
func (*Parallel) isSegment() {}

type segmenter struct {
	g     *Graph
	preds [][]int
	succs [][]int
}

// Segment builds the Series/Parallel tree for the graph's nodes. The
// graph must have exactly one entry node (no inbound edges from other
// nodes) and every fan-out must reconverge at a single node.
func (g *Graph) Segment() (Segment, error) {
	if len(g.Nodes) == 0 {
		return &Series{}, nil
	}

	s := &segmenter{
		g:     g,
		preds: make([][]int, len(g.Nodes)),
		succs: make([][]int, len(g.Nodes)),
	}

	producers := map[string]int{}
	for i := range g.Nodes {
		for _, out := range g.Nodes[i].Outputs {
			producers[out] = i
		}
	}
	for i := range g.Nodes {
		seen := map[int]bool{}
		for _, in := range g.Nodes[i].Inputs {
			p, ok := producers[in]
			if !ok || seen[p] {
				// graph inputs and initializers are not edges
				continue
			}
			seen[p] = true
			s.preds[i] = append(s.preds[i], p)
			s.succs[p] = append(s.succs[p], i)
		}
	}

	entry := -1
	for i := range g.Nodes {
		if len(s.preds[i]) == 0 {
			if entry != -1 {
				return nil, fmt.Errorf("graph: multiple entry nodes (%q and %q)",
					g.Nodes[entry].Name, g.Nodes[i].Name)
			}
			entry = i
		}
	}
	if entry == -1 {
		return nil, fmt.Errorf("graph: no entry node (cycle)")
	}

	items, join, err := s.walk(entry)
	if err != nil {
		return nil, err
	}
	if join != -1 {
		return nil, fmt.Errorf("graph: node %q has multiple inbound edges without a matching fan-out",
			g.Nodes[join].Name)
	}
	return collapse(items), nil
}

func collapse(items []Segment) Segment {
	if len(items) == 1 {
		return items[0]
	}
	return &Series{Items: items}
}

// walk follows the chain from cur, consuming fan-out/reconverge pairs
// as Parallel segments. It stops either at the end of the graph
// (join == -1) or just before a node with multiple inbound edges,
// returning that node for the enclosing branch walk to consume.
func (s *segmenter) walk(cur int) ([]Segment, int, error) {
	var items []Segment
	for {
		items = append(items, &Leaf{Node: &s.g.Nodes[cur]})
		succ := s.succs[cur]
		switch len(succ) {
		case 0:
			return items, -1, nil
		case 1:
			next := succ[0]
			if len(s.preds[next]) > 1 {
				return items, next, nil
			}
			cur = next
		default:
			par, join, err := s.parallel(succ)
			if err != nil {
				return nil, 0, err
			}
			items = append(items, par)
			cur = join
		}
	}
}

func (s *segmenter) parallel(starts []int) (*Parallel, int, error) {
	par := &Parallel{}
	join := -1
	for _, b := range starts {
		var branch []Segment
		bJoin := b
		if len(s.preds[b]) <= 1 {
			var err error
			branch, bJoin, err = s.walk(b)
			if err != nil {
				return nil, 0, err
			}
		}
		if bJoin == -1 {
			return nil, 0, fmt.Errorf("graph: branch starting at %q never reconverges",
				s.g.Nodes[b].Name)
		}
		if join == -1 {
			join = bJoin
		} else if join != bJoin {
			return nil, 0, fmt.Errorf("graph: branches reconverge at different nodes (%q and %q)",
				s.g.Nodes[join].Name, s.g.Nodes[bJoin].Name)
		}
		par.Branches = append(par.Branches, collapse(branch))
	}
	return par, join, nil
}
