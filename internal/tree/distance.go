package tree

import (
	"errors"
	"fmt"
	"slices"
)

var (
	ErrDisconnected  = errors.New("nodes are not part of the same tree")
	ErrNotDescendant = errors.New("node is not a descendant")
)

// DistanceMatrix is the pairwise patristic distance matrix over the
// leaves of a tree, with labels in leaf-traversal order.
type DistanceMatrix struct {
	Dists  [][]float64
	Labels []string
}

// Contains reports whether other is n or one of n's descendants.
func (n *Node) Contains(other *Node) bool {
	found := false
	n.PreOrder(func(cur, parent *Node) bool {
		if cur == other {
			found = true
			return false
		}
		return true
	})
	return found
}

// MRCA returns the most recent common ancestor of n and other, walking
// upward from n until an ancestor's subtree contains other. Errors if the
// two nodes are not part of the same structure.
func (n *Node) MRCA(other *Node) (*Node, error) {
	for anc := n; anc != nil; anc = anc.parent {
		if anc.Contains(other) {
			return anc, nil
		}
	}
	return nil, fmt.Errorf("%w (%q and %q)", ErrDisconnected, n.name, other.name)
}

// DepthOf sums branch lengths along the unique path from desc up to n.
// Errors if desc is not in the subtree rooted at n.
func (n *Node) DepthOf(desc *Node) (float64, error) {
	depth := 0.0
	cur := desc
	for cur != n {
		if cur == nil {
			return 0, fmt.Errorf("%w of %q: %q", ErrNotDescendant, n.name, desc.name)
		}
		depth += cur.length
		cur = cur.parent
	}
	return depth, nil
}

// DistanceTo returns the patristic distance between n and other: the sum
// of branch lengths along the unique path through their MRCA.
func (n *Node) DistanceTo(other *Node) (float64, error) {
	mrca, err := n.MRCA(other)
	if err != nil {
		return 0, err
	}
	d1, err := mrca.DepthOf(n)
	if err != nil {
		return 0, err
	}
	d2, err := mrca.DepthOf(other)
	if err != nil {
		return 0, err
	}
	return d1 + d2, nil
}

// Path returns the ordered node sequence from n to target: n up to their
// MRCA, then down to target. Both endpoints are included; the MRCA
// appears exactly once.
func (n *Node) Path(target *Node) ([]*Node, error) {
	mrca, err := n.MRCA(target)
	if err != nil {
		return nil, err
	}
	path := make([]*Node, 0)
	for cur := n; cur != mrca; cur = cur.parent {
		path = append(path, cur)
	}
	path = append(path, mrca)
	down := make([]*Node, 0)
	for cur := target; cur != mrca; cur = cur.parent {
		down = append(down, cur)
	}
	slices.Reverse(down)
	return append(path, down...), nil
}

// ToMatrix computes the symmetric pairwise patristic distance matrix over
// all leaves below n, in leaf-traversal order, with a zero diagonal.
func (n *Node) ToMatrix() *DistanceMatrix {
	leaves := n.Leaves()
	dists := make([][]float64, len(leaves))
	labels := make([]string, len(leaves))
	for i := range leaves {
		dists[i] = make([]float64, len(leaves))
		labels[i] = leaves[i].name
	}
	for i := range leaves {
		for j := i + 1; j < len(leaves); j++ {
			d, err := leaves[i].DistanceTo(leaves[j])
			if err != nil {
				panic(fmt.Sprintf("leaves of one tree have no distance: %s", err))
			}
			dists[i][j] = d
			dists[j][i] = d
		}
	}
	return &DistanceMatrix{Dists: dists, Labels: labels}
}
