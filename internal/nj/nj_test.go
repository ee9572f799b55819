package nj

import (
	"errors"
	"math"
	"testing"

	"arbor/internal/newick"
	"arbor/internal/tree"
)

func TestJoinClassicFourTaxa(t *testing.T) {
	dists := [][]float64{
		{0, 5, 9, 9},
		{5, 0, 10, 10},
		{9, 10, 0, 8},
		{9, 10, 8, 0},
	}
	labels := []string{"A", "B", "C", "D"}
	root, err := Join(dists, labels)
	if err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	// A and B (and C and D, across the root) end up as cherries; all
	// reconstructed branch lengths are exact for this additive matrix.
	if got := newick.Write(root); got != "(((A:2,B:3):3,C:4):2,D:2);" {
		t.Errorf("unexpected tree: %s", got)
	}
	checkRecovers(t, root, dists, labels)
}

func TestJoinFiveTaxaAdditive(t *testing.T) {
	dists := [][]float64{
		{0, 5, 9, 9, 8},
		{5, 0, 10, 10, 9},
		{9, 10, 0, 8, 7},
		{9, 10, 8, 0, 3},
		{8, 9, 7, 3, 0},
	}
	labels := []string{"a", "b", "c", "d", "e"}
	root, err := Join(dists, labels)
	if err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	if got := newick.Write(root); got != "(d:1,((c:4,(a:2,b:3):3):2,e:1):1);" {
		t.Errorf("unexpected tree: %s", got)
	}
	checkRecovers(t, root, dists, labels)
}

func TestJoinDefaultLabels(t *testing.T) {
	dists := [][]float64{
		{0, 2, 4},
		{2, 0, 4},
		{4, 4, 0},
	}
	root, err := Join(dists, nil)
	if err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	for _, name := range []string{"0", "1", "2"} {
		if _, err := root.Find(name); err != nil {
			t.Errorf("missing default label %q", name)
		}
	}
	checkRecovers(t, root, dists, []string{"0", "1", "2"})
}

func TestJoinInputErrors(t *testing.T) {
	testCases := []struct {
		name        string
		dists       [][]float64
		labels      []string
		expectedErr error
	}{
		{
			name:        "too few taxa",
			dists:       [][]float64{{0, 1}, {1, 0}},
			labels:      []string{"A", "B"},
			expectedErr: ErrTooFewTaxa,
		},
		{
			name:        "empty",
			dists:       [][]float64{},
			labels:      nil,
			expectedErr: ErrTooFewTaxa,
		},
		{
			name:        "ragged row",
			dists:       [][]float64{{0, 1, 2}, {1, 0}, {2, 3, 0}},
			labels:      []string{"A", "B", "C"},
			expectedErr: ErrBadMatrix,
		},
		{
			name:        "label count mismatch",
			dists:       [][]float64{{0, 1, 2}, {1, 0, 3}, {2, 3, 0}},
			labels:      []string{"A", "B"},
			expectedErr: ErrBadMatrix,
		},
	}
	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			if _, err := Join(test.dists, test.labels); !errors.Is(err, test.expectedErr) {
				t.Errorf("failed with unexpected error %+v", err)
			} else {
				t.Logf("%s", err)
			}
		})
	}
}

func TestJoinLeavesInputIntact(t *testing.T) {
	dists := [][]float64{
		{0, 5, 9, 9},
		{5, 0, 10, 10},
		{9, 10, 0, 8},
		{9, 10, 8, 0},
	}
	if _, err := Join(dists, []string{"A", "B", "C", "D"}); err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	if dists[1][2] != 10 || dists[2][3] != 8 {
		t.Error("Join must not modify the caller's matrix")
	}
}

// checkRecovers verifies that patristic distances on the reconstructed
// tree reproduce the input matrix (exact recovery holds for additive
// matrices, up to float tolerance).
func checkRecovers(t *testing.T, root *tree.Node, dists [][]float64, labels []string) {
	t.Helper()
	m := root.ToMatrix()
	index := make(map[string]int, len(m.Labels))
	for i, l := range m.Labels {
		index[l] = i
	}
	if len(m.Labels) != len(labels) {
		t.Fatalf("tree has %d leaves, want %d", len(m.Labels), len(labels))
	}
	for i, a := range labels {
		for j, b := range labels {
			got := m.Dists[index[a]][index[b]]
			if math.Abs(got-dists[i][j]) > 1e-9 {
				t.Errorf("recovered distance %s-%s = %f, want %f", a, b, got, dists[i][j])
			}
		}
	}
}
