// Package nj reconstructs a tree from a symmetric pairwise distance
// matrix with the neighbor joining algorithm (Saitou–Nei), using a
// Studier–Keppler-style pruned search for the minimum-Q pair.
package nj

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"
	"sort"
	"strconv"

	"github.com/bits-and-blooms/bitset"

	"arbor/internal/tree"
)

var (
	ErrBadMatrix  = errors.New("invalid distance matrix")
	ErrTooFewTaxa = errors.New("too few taxa for neighbor joining")
)

// neighbor is one entry of a row's distance-sorted neighbor list.
type neighbor struct {
	dist float64
	col  int
}

type joiner struct {
	dists   [][]float64     // working copy, reduced in place
	rowSums []float64       // sum of active distances per active row
	rows    [][]neighbor    // per-row neighbors sorted by distance
	nodes   []*tree.Node    // subtree built so far for each slot (nil = plain taxon)
	labels  []string        // taxon labels
	active  *bitset.BitSet  // still-active slots
	cN      int             // number of active slots
}

// Join builds an unrooted bifurcating tree (returned rooted at the final
// bifurcation) whose patristic distances approximate dists. dists must be
// a symmetric square matrix with zero diagonal over at least three taxa;
// labels defaults to "0", "1", ... when nil. Ties in the pair search are
// broken by scan order, so output is deterministic in row order.
func Join(dists [][]float64, labels []string) (*tree.Node, error) {
	if labels == nil {
		labels = make([]string, len(dists))
		for i := range labels {
			labels[i] = strconv.Itoa(i)
		}
	}
	if err := validate(dists, labels); err != nil {
		return nil, err
	}
	j := makeJoiner(dists, labels)
	for j.cN > 2 {
		j.merge(j.findPair())
	}
	root := j.finish()
	root.FixParenthood()
	root.FixDistances()
	return root, nil
}

func validate(dists [][]float64, labels []string) error {
	n := len(dists)
	if n < 3 {
		return fmt.Errorf("%w: got %d, need at least 3", ErrTooFewTaxa, n)
	}
	if len(labels) != n {
		return fmt.Errorf("%w: %d labels for %d rows", ErrBadMatrix, len(labels), n)
	}
	for i, row := range dists {
		if len(row) != n {
			return fmt.Errorf("%w: row %d has %d columns, want %d", ErrBadMatrix, i, len(row), n)
		}
	}
	return nil
}

func makeJoiner(dists [][]float64, labels []string) *joiner {
	n := len(dists)
	j := &joiner{
		dists:   make([][]float64, n),
		rowSums: make([]float64, n),
		rows:    make([][]neighbor, n),
		nodes:   make([]*tree.Node, n),
		labels:  labels,
		active:  bitset.New(uint(n)),
		cN:      n,
	}
	for i, row := range dists {
		j.dists[i] = make([]float64, n)
		copy(j.dists[i], row)
		j.active.Set(uint(i))
	}
	for i := 0; i < n; i++ {
		for k := 0; k < n; k++ {
			if k != i {
				j.rowSums[i] += j.dists[i][k]
			}
		}
		j.rows[i] = j.sortedRow(i)
	}
	return j
}

func (j *joiner) sortedRow(i int) []neighbor {
	row := make([]neighbor, 0, j.cN-1)
	for k, ok := j.active.NextSet(0); ok; k, ok = j.active.NextSet(k + 1) {
		if int(k) != i {
			row = append(row, neighbor{dist: j.dists[i][k], col: int(k)})
		}
	}
	slices.SortStableFunc(row, func(a, b neighbor) int { return cmp.Compare(a.dist, b.dist) })
	return row
}

// findPair locates the active pair minimizing
// Q(i,j) = (cN-2)*D[i][j] - R[i] - R[j]. Each row's nearest neighbor
// seeds the candidate; the full per-row scan then stops as soon as the
// lower bound (cN-2)*d - R[i] - maxR on the row's remaining (sorted)
// entries cannot beat the best Q found so far.
func (j *joiner) findPair() (int, int) {
	factor := float64(j.cN - 2)
	maxSum := math.Inf(-1)
	for i, ok := j.active.NextSet(0); ok; i, ok = j.active.NextSet(i + 1) {
		maxSum = math.Max(maxSum, j.rowSums[i])
	}
	bestQ := math.Inf(1)
	bi, bj := -1, -1
	for i, ok := j.active.NextSet(0); ok; i, ok = j.active.NextSet(i + 1) {
		for _, nb := range j.rows[i] {
			if !j.active.Test(uint(nb.col)) {
				continue
			}
			if q := factor*nb.dist - j.rowSums[i] - j.rowSums[nb.col]; q < bestQ {
				bestQ, bi, bj = q, int(i), nb.col
			}
			break // nearest active neighbor only
		}
	}
	for i, ok := j.active.NextSet(0); ok; i, ok = j.active.NextSet(i + 1) {
		for _, nb := range j.rows[i] {
			if !j.active.Test(uint(nb.col)) {
				continue
			}
			if factor*nb.dist-j.rowSums[i]-maxSum >= bestQ {
				break
			}
			if q := factor*nb.dist - j.rowSums[i] - j.rowSums[nb.col]; q < bestQ {
				bestQ, bi, bj = q, int(i), nb.col
			}
		}
	}
	if bi < 0 {
		panic("no active pair found")
	}
	return bi, bj
}

// merge agglomerates the pair (a, b): the joined subtree takes slot b,
// slot a goes inactive, distances and row sums are reduced incrementally,
// and only the rows touched by the merge have their sorted neighbor lists
// refreshed.
func (j *joiner) merge(a, b int) {
	dab := j.dists[a][b]
	d1 := 0.5*dab + (j.rowSums[a]-j.rowSums[b])/float64(2*j.cN-4)
	d2 := dab - d1
	parent := tree.New("", 0)
	parent.AddChild(j.endpoint(a, d1))
	parent.AddChild(j.endpoint(b, d2))
	j.nodes[b] = parent
	j.nodes[a] = nil
	j.active.Clear(uint(a))
	j.cN--

	j.rowSums[b] = 0
	for k, ok := j.active.NextSet(0); ok; k, ok = j.active.NextSet(k + 1) {
		if int(k) == b {
			continue
		}
		reduced := 0.5 * (j.dists[a][k] + j.dists[b][k] - dab)
		j.rowSums[k] += reduced - j.dists[a][k] - j.dists[b][k]
		j.dists[b][k], j.dists[k][b] = reduced, reduced
		j.rowSums[b] += reduced
		j.rows[k] = updateRow(j.rows[k], a, b, reduced)
	}
	j.rows[b] = j.sortedRow(b)
}

// endpoint returns the subtree occupying a slot (creating a leaf for a
// never-merged taxon) with its new branch length set.
func (j *joiner) endpoint(slot int, length float64) *tree.Node {
	n := j.nodes[slot]
	if n == nil {
		n = tree.New(j.labels[slot], 0)
	}
	n.SetLength(length)
	return n
}

// finish connects the last two active subtrees through a final root
// bifurcation, splitting their distance evenly.
func (j *joiner) finish() *tree.Node {
	a, ok := j.active.NextSet(0)
	if !ok {
		panic("no active taxa left")
	}
	b, ok := j.active.NextSet(a + 1)
	if !ok {
		panic("only one active taxon left")
	}
	half := j.dists[a][b] / 2
	root := tree.New("", 0)
	root.AddChild(j.endpoint(int(a), half))
	root.AddChild(j.endpoint(int(b), half))
	return root
}

// updateRow drops the dead columns of the last merge from a sorted
// neighbor list and re-inserts the merged column with its reduced
// distance, keeping the list exactly sorted so the scan bound stays
// sound.
func updateRow(row []neighbor, dead, merged int, dist float64) []neighbor {
	kept := row[:0]
	for _, nb := range row {
		if nb.col != dead && nb.col != merged {
			kept = append(kept, nb)
		}
	}
	idx := sort.Search(len(kept), func(i int) bool { return kept[i].dist >= dist })
	kept = append(kept, neighbor{})
	copy(kept[idx+1:], kept[idx:])
	kept[idx] = neighbor{dist: dist, col: merged}
	return kept
}
