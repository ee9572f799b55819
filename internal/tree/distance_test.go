package tree_test

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"arbor/internal/tree"
)

func TestMRCA(t *testing.T) {
	root := mustParse(t, "(A:1,B:2,(C:3,D:4)n:5);")
	testCases := []struct {
		name    string
		a, b    string
		mrca    string
		dist    float64
		pathLen int
	}{
		{name: "through root", a: "A", b: "C", mrca: "", dist: 9, pathLen: 4},
		{name: "siblings", a: "C", b: "D", mrca: "n", dist: 7, pathLen: 3},
		{name: "leaf and internal", a: "A", b: "n", mrca: "", dist: 6, pathLen: 3},
		{name: "self", a: "C", b: "C", mrca: "C", dist: 0, pathLen: 1},
		{name: "ancestor", a: "C", b: "n", mrca: "n", dist: 3, pathLen: 2},
	}
	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			a, b := mustFind(t, root, test.a), mustFind(t, root, test.b)
			mrca, err := a.MRCA(b)
			if err != nil {
				t.Fatalf("unexpected error %s", err)
			}
			if mrca.Name() != test.mrca {
				t.Errorf("MRCA(%s,%s) = %q, want %q", test.a, test.b, mrca.Name(), test.mrca)
			}
			d1, err := a.DistanceTo(b)
			if err != nil {
				t.Fatalf("unexpected error %s", err)
			}
			d2, err := b.DistanceTo(a)
			if err != nil {
				t.Fatalf("unexpected error %s", err)
			}
			if d1 != d2 {
				t.Errorf("distance not symmetric: %f != %f", d1, d2)
			}
			if d1 != test.dist {
				t.Errorf("distance(%s,%s) = %f, want %f", test.a, test.b, d1, test.dist)
			}
			path, err := a.Path(b)
			if err != nil {
				t.Fatalf("unexpected error %s", err)
			}
			if len(path) != test.pathLen || path[0] != a || path[len(path)-1] != b {
				t.Errorf("bad path from %s to %s (%d nodes)", test.a, test.b, len(path))
			}
		})
	}
}

func TestMRCADisconnected(t *testing.T) {
	t1 := mustParse(t, "(A:1,B:2);")
	t2 := mustParse(t, "(C:1,D:2);")
	a, c := mustFind(t, t1, "A"), mustFind(t, t2, "C")
	if _, err := a.MRCA(c); !errors.Is(err, tree.ErrDisconnected) {
		t.Errorf("expected ErrDisconnected, got %+v", err)
	}
	if _, err := a.DistanceTo(c); !errors.Is(err, tree.ErrDisconnected) {
		t.Errorf("expected ErrDisconnected, got %+v", err)
	}
	if _, err := a.Path(c); !errors.Is(err, tree.ErrDisconnected) {
		t.Errorf("expected ErrDisconnected, got %+v", err)
	}
}

func TestDepthOf(t *testing.T) {
	root := mustParse(t, "(A:1,B:2,(C:3,D:4)n:5);")
	n, c, a := mustFind(t, root, "n"), mustFind(t, root, "C"), mustFind(t, root, "A")
	if d, err := n.DepthOf(c); err != nil || d != 3 {
		t.Errorf("DepthOf(C) from n = %f (err %v), want 3", d, err)
	}
	if d, err := root.DepthOf(mustFind(t, root, "D")); err != nil || d != 9 {
		t.Errorf("DepthOf(D) from root = %f (err %v), want 9", d, err)
	}
	if _, err := n.DepthOf(a); !errors.Is(err, tree.ErrNotDescendant) {
		t.Errorf("expected ErrNotDescendant, got %+v", err)
	}
}

func TestPathOrder(t *testing.T) {
	root := mustParse(t, "(A:1,B:2,(C:3,D:4)n:5);")
	c, a := mustFind(t, root, "C"), mustFind(t, root, "A")
	path, err := c.Path(a)
	if err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	names := make([]string, 0, len(path))
	for _, n := range path {
		names = append(names, n.Name())
	}
	if !reflect.DeepEqual(names, []string{"C", "n", "", "A"}) {
		t.Errorf("wrong path: %v", names)
	}
}

func TestToMatrix(t *testing.T) {
	root := mustParse(t, "(A:1,B:2,(C:3,D:4)n:5);")
	m := root.ToMatrix()
	if !reflect.DeepEqual(m.Labels, []string{"A", "B", "C", "D"}) {
		t.Fatalf("wrong labels: %v", m.Labels)
	}
	expected := [][]float64{
		{0, 3, 9, 10},
		{3, 0, 10, 11},
		{9, 10, 0, 7},
		{10, 11, 7, 0},
	}
	for i := range expected {
		for j := range expected {
			if math.Abs(m.Dists[i][j]-expected[i][j]) > 1e-9 {
				t.Errorf("dist[%d][%d] = %f, want %f", i, j, m.Dists[i][j], expected[i][j])
			}
		}
	}
}
