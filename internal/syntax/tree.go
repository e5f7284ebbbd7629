package syntax

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"fortio.org/safecast"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// Dialect selects the grammar a file is parsed with.
type Dialect string

const (
	DialectTypeScript Dialect = "typescript"
	DialectTSX        Dialect = "tsx"
)

// DialectForPath picks the grammar from the file extension. Anything that is
// not .tsx is treated as plain TypeScript.
func DialectForPath(path string) Dialect {
	if strings.EqualFold(filepath.Ext(path), ".tsx") {
		return DialectTSX
	}
	return DialectTypeScript
}

func (d Dialect) language() *sitter.Language {
	if d == DialectTSX {
		return tsx.GetLanguage()
	}
	return typescript.GetLanguage()
}

// Node is an immutable syntax element copied out of the tree-sitter tree.
// Anonymous tokens (keywords, punctuation) are kept so they can be looked up
// by kind like any other node.
type Node struct {
	Kind    string
	Field   string
	Named   bool
	Missing bool
	Start   int
	End     int

	parent   *Node
	index    int
	children []*Node
}

// Children returns the child nodes in source order. The slice must not be modified.
func (n *Node) Children() []*Node { return n.children }

// Parent returns the enclosing node, or nil for the root.
func (n *Node) Parent() *Node { return n.parent }

// Index returns the position of n in its parent's child list.
func (n *Node) Index() int { return n.index }

// ChildByField returns the first child that the grammar labels with field.
func (n *Node) ChildByField(field string) *Node {
	for _, c := range n.children {
		if c.Field == field {
			return c
		}
	}
	return nil
}

// Text returns the source slice covered by n.
func (n *Node) Text(src []byte) string {
	if n == nil || n.Start < 0 || n.End > len(src) || n.Start > n.End {
		return ""
	}
	return string(src[n.Start:n.End])
}

func (n *Node) String() string {
	return fmt.Sprintf("%s[%d:%d]", n.Kind, n.Start, n.End)
}

// Tree is a parsed source file. It is built once per read and never mutated.
// Close releases the tree-sitter tree kept for queries.
type Tree struct {
	Path     string
	Source   []byte
	Root     *Node
	Dialect  Dialect
	HasError bool

	ts    *sitter.Tree
	index map[nodeKey]*Node
}

type nodeKey struct {
	start, end int
	kind       string
}

// Close releases parser resources. The Node tree stays usable.
func (t *Tree) Close() {
	if t.ts != nil {
		t.ts.Close()
		t.ts = nil
	}
}

// Text returns the source covered by n.
func (t *Tree) Text(n *Node) string { return n.Text(t.Source) }

// Parse parses content with the grammar matching path and copies the result
// into a Tree.
func Parse(ctx context.Context, path string, content []byte) (*Tree, error) {
	dialect := DialectForPath(path)

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(dialect.language())

	tsTree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	t := &Tree{
		Path:    path,
		Source:  content,
		Dialect: dialect,
		ts:      tsTree,
		index:   make(map[nodeKey]*Node),
	}
	tsRoot := tsTree.RootNode()
	root, err := t.copyNode(tsRoot, "", nil, 0)
	if err != nil {
		tsTree.Close()
		return nil, fmt.Errorf("failed to build tree for %s: %w", path, err)
	}
	t.Root = root
	t.HasError = tsRoot.HasError()
	return t, nil
}

// span converts the byte range of a tree-sitter node.
func span(src *sitter.Node) (start, end int, err error) {
	if start, err = safecast.Conv[int](src.StartByte()); err != nil {
		return 0, 0, err
	}
	if end, err = safecast.Conv[int](src.EndByte()); err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

func (t *Tree) copyNode(src *sitter.Node, field string, parent *Node, index int) (*Node, error) {
	start, end, err := span(src)
	if err != nil {
		return nil, err
	}

	n := &Node{
		Kind:    src.Type(),
		Field:   field,
		Named:   src.IsNamed(),
		Missing: src.IsMissing(),
		Start:   start,
		End:     end,
		parent:  parent,
		index:   index,
	}
	key := nodeKey{start: start, end: end, kind: n.Kind}
	if _, seen := t.index[key]; !seen {
		t.index[key] = n
	}

	count := int(src.ChildCount())
	if count == 0 {
		return n, nil
	}
	n.children = make([]*Node, 0, count)
	for i := 0; i < count; i++ {
		child := src.Child(i)
		if child == nil {
			continue
		}
		c, err := t.copyNode(child, src.FieldNameForChild(i), n, len(n.children))
		if err != nil {
			return nil, err
		}
		n.children = append(n.children, c)
	}
	return n, nil
}
