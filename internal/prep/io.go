// Package prep reads and writes the files arbor works with: single-tree
// newick or nexus files and CSV distance matrices.
package prep

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/evolbioinfo/gotree/io/nexus"
	gtree "github.com/evolbioinfo/gotree/tree"

	"arbor/internal/newick"
	"arbor/internal/tree"
)

var (
	ErrInvalidFile   = errors.New("invalid file")
	ErrInvalidFormat = errors.New("invalid format")
	ErrWritingFile   = errors.New("error writing file")
)

type Format int

const (
	Newick Format = iota
	Nexus
)

var ParseFormat = map[string]Format{
	"newick": Newick,
	"nexus":  Nexus,
}

func (f *Format) Set(s string) error {
	if format, ok := ParseFormat[s]; ok {
		*f = format
		return nil
	}
	return fmt.Errorf("\"%s\" is not a valid tree file format", s)
}

func (f Format) String() string {
	for s, fr := range ParseFormat {
		if fr == f {
			return s
		}
	}
	panic(fmt.Sprintf("format (%d) does not exist", int(f)))
}

// Type implements pflag.Value.
func (f Format) Type() string { return "format" }

// ReadTreeFile reads and validates a tree file containing exactly one
// tree in the given format.
func ReadTreeFile(path string, format Format) (*tree.Node, error) {
	switch format {
	case Newick:
		return readNewickFile(path)
	case Nexus:
		return readNexusFile(path)
	default:
		return nil, fmt.Errorf("%w, not a valid file format", ErrInvalidFile)
	}
}

func readNewickFile(path string) (*tree.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading tree file: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Count(data, []byte{';'}) != 1 {
		return nil, fmt.Errorf("%w, there should be exactly one newick tree in tree file %s",
			ErrInvalidFile, path)
	}
	root, err := newick.Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("%w, error parsing newick string from %s: %s",
			ErrInvalidFormat, path, err.Error())
	}
	return root, nil
}

func readNexusFile(path string) (*tree.Node, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening %s, %w", path, err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			panic(fmt.Sprintf("could not close file %s, %s", path, err))
		}
	}()
	flags := log.Flags()
	lout := log.Writer()
	log.SetOutput(io.Discard) // gotree can be noisy while parsing
	defer func() {
		log.SetOutput(lout)
		log.SetFlags(flags)
	}()
	nex, err := nexus.NewParser(file).Parse()
	if err != nil {
		return nil, fmt.Errorf("%w, error reading nexus file %s: %s",
			ErrInvalidFormat, path, err.Error())
	}
	trees := make([]*gtree.Tree, 0)
	nex.IterateTrees(func(s string, t *gtree.Tree) {
		trees = append(trees, t)
	})
	if len(trees) != 1 {
		return nil, fmt.Errorf("%w, there should be exactly one tree in nexus file %s (found %d)",
			ErrInvalidFile, path, len(trees))
	}
	return FromGotree(trees[0])
}

// FromGotree converts a gotree tree into arbor's owned-children node
// structure, keeping names and branch lengths.
func FromGotree(t *gtree.Tree) (*tree.Node, error) {
	if t.Root() == nil {
		return nil, fmt.Errorf("%w, tree has no root", ErrInvalidFile)
	}
	nodes := make(map[*gtree.Node]*tree.Node)
	var root *tree.Node
	t.PreOrder(func(cur, prev *gtree.Node, e *gtree.Edge) (keep bool) {
		length := 0.0
		if e != nil && e.Length() != gtree.NIL_LENGTH {
			length = e.Length()
		}
		n := tree.New(cur.Name(), length)
		if prev == nil {
			root = n
		} else {
			nodes[prev].AddChild(n)
		}
		nodes[cur] = n
		return true
	})
	root.FixDistances()
	return root, nil
}

// ReadMatrixFile reads a CSV distance matrix whose header row holds the
// taxon labels, followed by one row of distances per taxon.
func ReadMatrixFile(path string) ([][]float64, []string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("error opening %s, %w", path, err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			panic(fmt.Sprintf("could not close file %s, %s", path, err))
		}
	}()
	return ReadMatrix(file)
}

// ReadMatrix reads a CSV distance matrix from r (labels header plus one
// N-column row per taxon).
func ReadMatrix(r io.Reader) ([][]float64, []string, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("%w, error reading matrix csv: %s", ErrInvalidFormat, err.Error())
	}
	if len(records) < 2 {
		return nil, nil, fmt.Errorf("%w, matrix csv needs a label header and at least one row", ErrInvalidFile)
	}
	labels := records[0]
	n := len(labels)
	if len(records) != n+1 {
		return nil, nil, fmt.Errorf("%w, %d labels but %d matrix rows", ErrInvalidFile, n, len(records)-1)
	}
	dists := make([][]float64, n)
	for i, record := range records[1:] {
		if len(record) != n {
			return nil, nil, fmt.Errorf("%w, row %d has %d columns, want %d", ErrInvalidFile, i, len(record), n)
		}
		dists[i] = make([]float64, n)
		for k, field := range record {
			d, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, nil, fmt.Errorf("%w, bad distance %q in row %d", ErrInvalidFormat, field, i)
			}
			dists[i][k] = d
		}
	}
	return dists, labels, nil
}

// WriteMatrixCSV writes a distance matrix to w with the labels as header
// row; distances are formatted in plain decimal form.
func WriteMatrixCSV(w io.Writer, m *tree.DistanceMatrix) (err error) {
	data := make([][]string, len(m.Dists)+1)
	data[0] = m.Labels
	for i, row := range m.Dists {
		data[i+1] = make([]string, len(row))
		for k, d := range row {
			data[i+1][k] = strconv.FormatFloat(d, 'f', -1, 64)
		}
	}
	writer := csv.NewWriter(w)
	defer func() {
		writer.Flush()
		if err == nil && writer.Error() != nil {
			err = fmt.Errorf("%w, %s", ErrWritingFile, writer.Error())
		}
	}()
	if err = writer.WriteAll(data); err != nil {
		err = fmt.Errorf("%w, %s", ErrWritingFile, err)
	}
	return
}
