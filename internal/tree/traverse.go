package tree

import "fmt"

// PreOrder visits the subtree rooted at n parents-first. The callback
// receives the current node and its parent within the traversal (nil for
// n itself); returning false stops the whole traversal.
func (n *Node) PreOrder(f func(cur, parent *Node) bool) {
	n.preOrder(nil, f)
}

func (n *Node) preOrder(parent *Node, f func(cur, parent *Node) bool) bool {
	if !f(n, parent) {
		return false
	}
	for _, c := range n.children {
		if !c.preOrder(n, f) {
			return false
		}
	}
	return true
}

// PostOrder visits the subtree rooted at n children-first; returning
// false stops the whole traversal.
func (n *Node) PostOrder(f func(cur, parent *Node) bool) {
	n.postOrder(nil, f)
}

func (n *Node) postOrder(parent *Node, f func(cur, parent *Node) bool) bool {
	for _, c := range n.children {
		if !c.postOrder(n, f) {
			return false
		}
	}
	return f(n, parent)
}

// LevelOrder visits the subtree rooted at n breadth-first; returning
// false stops the whole traversal.
func (n *Node) LevelOrder(f func(cur, parent *Node) bool) {
	queue := []*Node{n}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if !f(cur, cur.parent) {
			return
		}
		queue = append(queue, cur.children...)
	}
}

// Descendants returns every node strictly below n, in pre-order.
func (n *Node) Descendants() []*Node {
	nodes := make([]*Node, 0)
	n.PreOrder(func(cur, parent *Node) bool {
		if cur != n {
			nodes = append(nodes, cur)
		}
		return true
	})
	return nodes
}

// Leaves returns the leaves of the subtree rooted at n, in traversal
// (pre-order) order.
func (n *Node) Leaves() []*Node {
	leaves := make([]*Node, 0)
	n.PreOrder(func(cur, parent *Node) bool {
		if cur.IsLeaf() {
			leaves = append(leaves, cur)
		}
		return true
	})
	return leaves
}

// Ancestors returns the parent chain of n, nearest first, root last.
func (n *Node) Ancestors() []*Node {
	anc := make([]*Node, 0)
	for cur := n.parent; cur != nil; cur = cur.parent {
		anc = append(anc, cur)
	}
	return anc
}

// Find returns the first node in the subtree rooted at n (pre-order)
// whose name matches, or ErrNoSuchNode.
func (n *Node) Find(name string) (*Node, error) {
	var found *Node
	n.PreOrder(func(cur, parent *Node) bool {
		if cur.name == name {
			found = cur
			return false
		}
		return true
	})
	if found == nil {
		return nil, fmt.Errorf("%w with name %q", ErrNoSuchNode, name)
	}
	return found, nil
}
