package graph

// Attribute readers. Requesting an attribute as one type when it is
// stored as another reports absence rather than attempting a
// coercion, so importers fall back exactly as they would for a
// missing attribute.

func (n *Node) attr(name string) *Attribute {
	for i := range n.Attributes {
		if n.Attributes[i].Name == name {
			return &n.Attributes[i]
		}
	}
	return nil
}

// DoubleAttribute returns the named attribute as a double.
func (n *Node) DoubleAttribute(name string) (float64, bool) {
	a := n.attr(name)
	if a == nil || a.Type != AttrDouble {
		return 0, false
	}
	return a.D, true
}

// IntAttribute returns the named attribute as an integer.
func (n *Node) IntAttribute(name string) (int64, bool) {
	a := n.attr(name)
	if a == nil || a.Type != AttrInt {
		return 0, false
	}
	return a.I, true
}

// StringAttribute returns the named attribute as a string.
func (n *Node) StringAttribute(name string) (string, bool) {
	a := n.attr(name)
	if a == nil || a.Type != AttrString {
		return "", false
	}
	return a.S, true
}

// IntsAttribute returns the named attribute as an integer list.
func (n *Node) IntsAttribute(name string) ([]int64, bool) {
	a := n.attr(name)
	if a == nil || a.Type != AttrInts {
		return nil, false
	}
	return a.Ints, true
}

// DoublesAttribute returns the named attribute as a double list.
func (n *Node) DoublesAttribute(name string) ([]float64, bool) {
	a := n.attr(name)
	if a == nil || a.Type != AttrDoubles {
		return nil, false
	}
	return a.Doubles, true
}
