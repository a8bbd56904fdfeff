package domain

import (
	"iter"
	"time"
)

// NodeKind distinguishes the two synthetic tree levels from header occurrences.
type NodeKind uint8

const (
	// NodeRoot is the single synthetic forest root.
	NodeRoot NodeKind = iota
	// NodeSource is the per-translation-unit root.
	NodeSource
	// NodeHeader is one occurrence of a header in one trace.
	NodeHeader
)

// Cost is the attributed cost of one header node.
type Cost struct {
	Total time.Duration
	Self  time.Duration
	// Known is false when the header has no successful measurement.
	Known bool
}

// Node is one vertex of the inclusion forest. Header nodes refer to their
// Header record by Label only; the record lives in the Registry.
type Node struct {
	Kind     NodeKind
	Label    FileID
	Depth    int
	Parent   *Node
	Children []*Node
	Cost     Cost
}

// NewSourceTree returns an empty per-source root labeled with its path.
func NewSourceTree(source FileID) *Node {
	return &Node{Kind: NodeSource, Label: source}
}

// NewHeaderNode returns a detached header node at the given trace depth.
func NewHeaderNode(id FileID, depth int) *Node {
	return &Node{Kind: NodeHeader, Label: id, Depth: depth}
}

// AddChild appends c to n's children and sets its parent.
func (n *Node) AddChild(c *Node) {
	c.Parent = n
	n.Children = append(n.Children, c)
}

// Ancestors yields the header ancestors of n, nearest first. The source and
// forest roots are not yielded.
func (n *Node) Ancestors() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for p := n.Parent; p != nil && p.Kind == NodeHeader; p = p.Parent {
			if !yield(p) {
				return
			}
		}
	}
}

// Walk yields n and its descendants in pre-order.
func (n *Node) Walk() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		n.walk(yield)
	}
}

func (n *Node) walk(yield func(*Node) bool) bool {
	if !yield(n) {
		return false
	}
	for _, c := range n.Children {
		if !c.walk(yield) {
			return false
		}
	}
	return true
}

// Forest is the merged inclusion structure of every analyzed source file.
type Forest struct {
	Root *Node
}

// NewForest returns a forest with only its synthetic root.
func NewForest() *Forest {
	return &Forest{Root: &Node{Kind: NodeRoot}}
}

// Attach adds a per-source tree under the forest root. Callers attach in
// source order so the result does not depend on trace completion order.
func (f *Forest) Attach(source *Node) {
	f.Root.AddChild(source)
}

// Sources returns the per-source roots.
func (f *Forest) Sources() []*Node {
	return f.Root.Children
}

// Levels groups header nodes by their distance from the forest root. Every
// ancestor of a node in level i lies in a level before i.
func (f *Forest) Levels() [][]*Node {
	var levels [][]*Node
	frontier := f.Root.Children
	for len(frontier) > 0 {
		var next []*Node
		for _, n := range frontier {
			next = append(next, n.Children...)
		}
		if len(next) > 0 {
			levels = append(levels, next)
		}
		frontier = next
	}
	return levels
}

// BreadthFirst yields every header node, shallower levels first.
func (f *Forest) BreadthFirst() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for _, level := range f.Levels() {
			for _, n := range level {
				if !yield(n) {
					return
				}
			}
		}
	}
}
