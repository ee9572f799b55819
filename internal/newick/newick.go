// Package newick converts between the Newick text format and arbor's tree
// structure. Parsing is a single left-to-right pass over tokens split on
// the delimiter set ( ) , : ; with a stack tracking nesting, since newick
// nesting depth is unbounded and labels/lengths are optional and
// positional.
package newick

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"arbor/internal/tree"
)

var (
	ErrUnbalanced = errors.New("unbalanced newick string")
	ErrBadLength  = errors.New("invalid branch length")
)

// Parse reads a single newick tree from s and returns its root with
// derived fields recomputed. Lengths in exponential form are accepted.
func Parse(s string) (*tree.Node, error) {
	root := tree.New("", 0)
	cur := root
	stack := make([]*tree.Node, 0)
	prev := ""
	for _, tok := range tokenize(s) {
		if prev == ";" {
			return nil, fmt.Errorf("%w: data after ';'", ErrUnbalanced)
		}
		switch tok {
		case "(":
			stack = append(stack, cur)
			cur = cur.NewChild("", 0)
		case ",":
			if len(stack) == 0 {
				return nil, fmt.Errorf("%w: ',' outside any descendant list", ErrUnbalanced)
			}
			cur = stack[len(stack)-1].NewChild("", 0)
		case ")":
			if len(stack) == 0 {
				return nil, fmt.Errorf("%w: too many ')'", ErrUnbalanced)
			}
			cur = stack[len(stack)-1]
			stack = stack[:len(stack)-1]
		case ":", ";":
			// handled through prev
		default:
			if prev == ":" {
				length, err := strconv.ParseFloat(tok, 64)
				if err != nil {
					return nil, fmt.Errorf("%w %q", ErrBadLength, tok)
				}
				cur.SetLength(length)
			} else {
				cur.SetName(tok)
			}
		}
		prev = tok
	}
	if len(stack) != 0 {
		return nil, fmt.Errorf("%w: missing ')'", ErrUnbalanced)
	}
	root.FixDistances()
	return root, nil
}

// Read parses a single newick tree from r.
func Read(r io.Reader) (*tree.Node, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(string(data))
}

// Write serializes the subtree rooted at n as a newick string, children
// first, terminated with ';'. Zero lengths are omitted; nonzero lengths
// are always written in plain decimal form (never exponential), so the
// output stays inside newick's number grammar.
func Write(n *tree.Node) string {
	var sb strings.Builder
	writeSubtree(&sb, n)
	sb.WriteByte(';')
	return sb.String()
}

func writeSubtree(sb *strings.Builder, n *tree.Node) {
	if !n.IsLeaf() {
		sb.WriteByte('(')
		for i, c := range n.Children() {
			if i > 0 {
				sb.WriteByte(',')
			}
			writeSubtree(sb, c)
		}
		sb.WriteByte(')')
	}
	sb.WriteString(n.Name())
	if n.Length() != 0 {
		sb.WriteByte(':')
		sb.WriteString(strconv.FormatFloat(n.Length(), 'f', -1, 64))
	}
}

// tokenize splits s into single-character delimiter tokens and trimmed
// text tokens; whitespace around delimiters is dropped.
func tokenize(s string) []string {
	toks := make([]string, 0, len(s)/2)
	var text strings.Builder
	flush := func() {
		if tok := strings.TrimSpace(text.String()); tok != "" {
			toks = append(toks, tok)
		}
		text.Reset()
	}
	for _, r := range s {
		switch r {
		case '(', ')', ',', ':', ';':
			flush()
			toks = append(toks, string(r))
		default:
			text.WriteRune(r)
		}
	}
	flush()
	return toks
}
