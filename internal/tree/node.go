// Package tree implements the rooted, weighted tree of branches used
// throughout arbor: one Node per branch, carrying a label, the length of
// the edge to its parent, an ordered list of owned children, and derived
// fields (depth, height, cumulative value) recomputed on demand.
package tree

import "sync/atomic"

// Node is a single branch of a rooted weighted tree. The parent pointer is
// a back-reference only; children are owned and ordered (order matters for
// serialization, not for distance computation). A node with no children is
// a leaf; a node with no parent is a root.
type Node struct {
	name     string
	length   float64
	parent   *Node
	children []*Node
	depth    int
	height   int
	value    float64
	guid     uint64
}

var guidCounter atomic.Uint64

// New creates a detached node with the given label and branch length.
func New(name string, length float64) *Node {
	return &Node{
		name:   name,
		length: length,
		guid:   guidCounter.Add(1),
	}
}

func (n *Node) Name() string        { return n.name }
func (n *Node) SetName(name string) { n.name = name }

// Length is the weight of the edge connecting n to its parent. It is
// unused (conventionally 0) on a root.
func (n *Node) Length() float64       { return n.length }
func (n *Node) SetLength(len float64) { n.length = len }

func (n *Node) Parent() *Node { return n.parent }

// Children returns the owned, ordered child slice. Callers must not
// modify it directly; use the mutation methods.
func (n *Node) Children() []*Node { return n.children }

func (n *Node) IsLeaf() bool { return len(n.children) == 0 }
func (n *Node) IsRoot() bool { return n.parent == nil }

// Depth is the number of edges between n and the root, as of the last
// FixDistances call.
func (n *Node) Depth() int { return n.depth }

// Height is the number of edges between n and its furthest descendant
// leaf, as of the last FixDistances call.
func (n *Node) Height() int { return n.height }

// Value is a scratch accumulator fully overwritten by whichever pass
// (FixDistances, counting, normalization) last ran; FixDistances stores
// the cumulative branch length from the root.
func (n *Node) Value() float64     { return n.value }
func (n *Node) SetValue(v float64) { n.value = v }

// GUID is a process-unique identifier assigned at construction. It is
// never persisted and is only meaningful for identity comparisons.
func (n *Node) GUID() uint64 { return n.guid }

// Root walks the parent chain to the root of the structure containing n.
func (n *Node) Root() *Node {
	cur := n
	for cur.parent != nil {
		cur = cur.parent
	}
	return cur
}

// Plain is the export shape of a tree: no parent back-references, so any
// generic serializer can walk it without cycle detection.
type Plain struct {
	ID       string   `json:"id"`
	Length   float64  `json:"length"`
	Children []*Plain `json:"children,omitempty"`
}

// Plain converts the subtree rooted at n into its export shape.
func (n *Node) Plain() *Plain {
	p := &Plain{ID: n.name, Length: n.length}
	for _, c := range n.children {
		p.Children = append(p.Children, c.Plain())
	}
	return p
}

// FromPlain rebuilds a live tree from its export shape and recomputes
// derived fields.
func FromPlain(p *Plain) *Node {
	root := fromPlain(p)
	root.FixDistances()
	return root
}

func fromPlain(p *Plain) *Node {
	n := New(p.ID, p.Length)
	for _, c := range p.Children {
		n.AddChild(fromPlain(c))
	}
	return n
}
