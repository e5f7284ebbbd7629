package syntax

import (
	"errors"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
)

// ErrClosed is returned when querying a tree after Close.
var ErrClosed = errors.New("syntax tree is closed")

// Capture is one named node of a query match.
type Capture struct {
	Name string
	Node *Node
}

// Match is the ordered set of captures produced by one pattern match.
type Match []Capture

// Get returns the first node captured under name, or nil.
func (m Match) Get(name string) *Node {
	for _, c := range m {
		if c.Name == name {
			return c.Node
		}
	}
	return nil
}

// Query runs a tree-sitter query over the whole file and maps every captured
// node back onto the immutable Node tree.
func (t *Tree) Query(pattern string) ([]Match, error) {
	if t.ts == nil {
		return nil, ErrClosed
	}

	query, err := sitter.NewQuery([]byte(pattern), t.Dialect.language())
	if err != nil {
		return nil, fmt.Errorf("failed to create query: %w", err)
	}
	defer query.Close()

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()

	cursor.Exec(query, t.ts.RootNode())

	var matches []Match
	for {
		match, ok := cursor.NextMatch()
		if !ok {
			break
		}
		m := make(Match, 0, len(match.Captures))
		for _, capture := range match.Captures {
			node := t.lookup(capture.Node)
			if node == nil {
				continue
			}
			m = append(m, Capture{Name: query.CaptureNameForId(capture.Index), Node: node})
		}
		matches = append(matches, m)
	}
	return matches, nil
}

func (t *Tree) lookup(n *sitter.Node) *Node {
	if n == nil {
		return nil
	}
	start, end, err := span(n)
	if err != nil {
		return nil
	}
	return t.index[nodeKey{start: start, end: end, kind: n.Type()}]
}
