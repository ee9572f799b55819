package tree

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
)

var (
	ErrRootExcise = errors.New("cannot excise a root with more than one child")
	ErrRootInvert = errors.New("cannot invert a root")
	ErrNoSuchNode = errors.New("no such node")
)

// Branches shorter than this are considered negligible by Consolidate.
const lengthThreshold = 1e-3 / 2

// AddChild attaches c as the last child of n. If c already has a parent,
// ownership is transferred. Returns c.
func (n *Node) AddChild(c *Node) *Node {
	if c.parent != nil {
		c.parent.removeChild(c)
	}
	c.parent = n
	n.children = append(n.children, c)
	return c
}

// NewChild creates a node with the given label and length and attaches it
// as the last child of n.
func (n *Node) NewChild(name string, length float64) *Node {
	return n.AddChild(New(name, length))
}

// AddParent inserts p above n: p takes n's slot under n's former parent
// (or becomes a new root), and n plus any given siblings are re-parented
// under p. Returns p. If this changes rootedness the caller must discard
// references to the old root.
func (n *Node) AddParent(p *Node, siblings ...*Node) *Node {
	old := n.parent
	if old != nil {
		old.replaceChild(n, p)
		p.parent = old
	}
	n.parent = nil
	p.AddChild(n)
	for _, s := range siblings {
		p.AddChild(s)
	}
	return p
}

// Excise removes n, reattaching each of its children directly to its
// former parent with the child's length increased by n's length, so the
// total path length to every descendant is unchanged. Excising a root
// with more than one child is an error; excising a single-child root
// promotes the child. Returns the former parent (or, for a root, the new
// root of what remains, which may be nil).
func (n *Node) Excise() (*Node, error) {
	p := n.parent
	if p == nil && len(n.children) > 1 {
		return nil, ErrRootExcise
	}
	for _, c := range n.children {
		c.length += n.length
		c.parent = p
	}
	if p == nil {
		var root *Node
		if len(n.children) == 1 {
			root = n.children[0]
		}
		n.children = nil
		return root, nil
	}
	idx := slices.Index(p.children, n)
	p.children = slices.Insert(slices.Delete(p.children, idx, idx+1), idx, n.children...)
	n.parent = nil
	n.children = nil
	return p, nil
}

// Isolate detaches n (with its whole subtree) from its parent, making it
// a new root.
func (n *Node) Isolate() *Node {
	if n.parent != nil {
		n.parent.removeChild(n)
		n.parent = nil
	}
	return n
}

// Remove detaches n like Isolate and returns the root of the structure
// left behind (nil if n was the root).
func (n *Node) Remove() *Node {
	p := n.parent
	n.Isolate()
	if p == nil {
		return nil
	}
	return p.Root()
}

// Invert swaps the roles of n and its immediate parent: n takes the
// parent's place under the grandparent, the former parent becomes a child
// of n, and the two branch lengths are exchanged. Errors on a root.
func (n *Node) Invert() error {
	p := n.parent
	if p == nil {
		return ErrRootInvert
	}
	g := p.parent
	p.removeChild(n)
	if g != nil {
		g.replaceChild(p, n)
	}
	n.parent = g
	p.parent = n
	n.children = append(n.children, p)
	n.length, p.length = p.length, n.length
	return nil
}

// Reroot makes n the root of its structure by inverting every edge on the
// path from the old root down to n, then recomputes derived fields.
// Branch lengths along the path are preserved edge by edge, so all
// pairwise distances are unchanged.
func (n *Node) Reroot() *Node {
	path := append([]*Node{n}, n.Ancestors()...)
	for i := len(path) - 2; i >= 0; i-- {
		if err := path[i].Invert(); err != nil {
			panic(fmt.Sprintf("invert failed during reroot: %s", err))
		}
	}
	n.length = 0
	n.FixDistances()
	return n
}

// FixDistances recomputes depth and cumulative value (pre-order, value is
// the sum of lengths from n down to each node, n's own length included)
// and height (post-order). It must be called explicitly after structural
// or length mutations whose effects should be visible in those fields.
func (n *Node) FixDistances() {
	n.PreOrder(func(cur, parent *Node) bool {
		if parent == nil {
			cur.depth = 0
			cur.value = cur.length
		} else {
			cur.depth = parent.depth + 1
			cur.value = parent.value + cur.length
		}
		return true
	})
	n.PostOrder(func(cur, parent *Node) bool {
		h := 0
		for _, c := range cur.children {
			if c.height+1 > h {
				h = c.height + 1
			}
		}
		cur.height = h
		return true
	})
}

// FixParenthood repairs parent back-references throughout the subtree to
// match the owned children slices. It is a consistency-repair utility
// (e.g. after Clone), not part of normal control flow.
func (n *Node) FixParenthood() {
	for _, c := range n.children {
		c.parent = n
		c.FixParenthood()
	}
}

// Consolidate excises every non-root branch whose length is below the
// negligible-length threshold, folding the excised label into its
// parent's label (joined with "+") so no label is silently lost, then
// recomputes derived fields.
func (n *Node) Consolidate() {
	n.collapse(func(cur *Node) bool { return cur.length < lengthThreshold })
}

// Simplify excises every non-root node with exactly one child, collapsing
// chains into single edges whose length is the sum of the collapsed
// segments; labels fold into the parent as in Consolidate.
func (n *Node) Simplify() {
	n.collapse(func(cur *Node) bool { return len(cur.children) == 1 })
}

func (n *Node) collapse(victim func(cur *Node) bool) {
	victims := make([]*Node, 0)
	n.PostOrder(func(cur, parent *Node) bool {
		if cur != n && victim(cur) {
			victims = append(victims, cur)
		}
		return true
	})
	for _, v := range victims {
		p := v.parent
		if v.name != "" {
			if p.name == "" {
				p.name = v.name
			} else {
				p.name += "+" + v.name
			}
		}
		if _, err := v.Excise(); err != nil {
			panic(fmt.Sprintf("excise failed during collapse: %s", err))
		}
	}
	n.FixDistances()
}

// SortChildren stably reorders every node's children top-down using the
// given comparator (ascending by value if nil).
func (n *Node) SortChildren(compare func(a, b *Node) int) {
	if compare == nil {
		compare = func(a, b *Node) int { return cmp.Compare(a.value, b.value) }
	}
	n.PreOrder(func(cur, parent *Node) bool {
		slices.SortStableFunc(cur.children, compare)
		return true
	})
}

// Clone returns a shallow copy of n: a new detached node sharing the same
// child subtrees. The children's parent pointers still reference n; use
// FixParenthood on the clone if the copy is meant to own them.
func (n *Node) Clone() *Node {
	c := New(n.name, n.length)
	c.depth, c.height, c.value = n.depth, n.height, n.value
	c.children = slices.Clone(n.children)
	return c
}

// Copy returns a deep copy of the subtree rooted at n, rebuilt with fresh
// identities and detached from any original parent.
func (n *Node) Copy() *Node {
	c := New(n.name, n.length)
	c.depth, c.height, c.value = n.depth, n.height, n.value
	for _, child := range n.children {
		cc := child.Copy()
		cc.parent = c
		c.children = append(c.children, cc)
	}
	return c
}

func (n *Node) removeChild(c *Node) {
	idx := slices.Index(n.children, c)
	if idx < 0 {
		return
	}
	n.children = slices.Delete(n.children, idx, idx+1)
}

func (n *Node) replaceChild(old, repl *Node) {
	idx := slices.Index(n.children, old)
	if idx < 0 {
		return
	}
	n.children[idx] = repl
}
