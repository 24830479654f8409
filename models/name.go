package models

// ColorName is a node in the ISCC-NBS name tree. The tree is three
// levels deep in the published dataset: broad groupings at the top,
// the fine chart-referenced names at the leaves. Identifiers are
// unique across the whole tree.
type ColorName struct {
	ID       int         `json:"color" xml:"color,attr"`
	Name     string      `json:"name" xml:"name,attr"`
	Abbr     string      `json:"abbr" xml:"abbr,attr"`
	Children []ColorName `json:"children,omitempty" xml:"name"`
}

// Walk visits the node and every descendant in document order. The
// visitor receives the node's depth, starting at 0 for the receiver.
func (n *ColorName) Walk(depth int, visit func(depth int, node *ColorName) error) error {
	if err := visit(depth, n); err != nil {
		return err
	}
	for i := range n.Children {
		if err := n.Children[i].Walk(depth+1, visit); err != nil {
			return err
		}
	}
	return nil
}
