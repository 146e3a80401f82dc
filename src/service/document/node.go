package document

import "marklint/src/model"

// NodeKind discriminates the tree node variants
type NodeKind string

const (
	KindElement NodeKind = "element"
	KindText    NodeKind = "text"
	KindComment NodeKind = "comment"
)

// NoParent marks a node without a parent (top-level node)
const NoParent = -1

// Node is one parsed tree element, text run or comment.
// Nodes live in the owning Document's arena and reference each other by index,
// so cycles are impossible: an index only ever points at an earlier node.
type Node struct {
	Kind       NodeKind
	Name       string
	Attributes map[string]string
	Parent     int
	Children   []int
	Location   model.Location
	Text       string
}

// Attribute returns the value of the named attribute and whether it is present
func (n *Node) Attribute(name string) (string, bool) {
	v, ok := n.Attributes[name]
	return v, ok
}

// Document is one parsed file: an arena of nodes plus the raw source lines
// and the suppression table extracted from its comments.
// A Document is immutable after Parse returns.
type Document struct {
	Path         string
	Lines        []string
	Suppressions *Suppressions

	nodes []Node
	roots []int
}

// Len returns the number of nodes in the document
func (d *Document) Len() int {
	return len(d.nodes)
}

// Node returns the node at the given arena index
func (d *Document) Node(idx int) *Node {
	return &d.nodes[idx]
}

// Root returns the index of the document's root element, or NoParent
// when the document has no element at all.
func (d *Document) Root() int {
	for _, idx := range d.roots {
		if d.nodes[idx].Kind == KindElement {
			return idx
		}
	}
	return NoParent
}

// PreOrder returns all node indices in pre-order document order.
// Nodes are appended to the arena as their start events arrive, so arena
// order is already pre-order; the traversal below keeps that guarantee
// independent of how the arena was filled.
func (d *Document) PreOrder() []int {
	out := make([]int, 0, len(d.nodes))
	var walk func(idx int)
	walk = func(idx int) {
		out = append(out, idx)
		for _, child := range d.nodes[idx].Children {
			walk(child)
		}
	}
	for _, root := range d.roots {
		walk(root)
	}
	return out
}

// Elements returns the indices of all element nodes named name, in document order
func (d *Document) Elements(name string) []int {
	var out []int
	for _, idx := range d.PreOrder() {
		n := &d.nodes[idx]
		if n.Kind == KindElement && n.Name == name {
			out = append(out, idx)
		}
	}
	return out
}

// ParentName returns the element name of the node's parent, or ok=false
// for top-level nodes.
func (d *Document) ParentName(idx int) (string, bool) {
	parent := d.nodes[idx].Parent
	if parent == NoParent {
		return "", false
	}
	return d.nodes[parent].Name, true
}
