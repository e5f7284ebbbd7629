package syntax

import (
	"errors"
	"iter"
)

// ErrNoParent is returned when a sibling lookup starts at a root node.
var ErrNoParent = errors.New("node has no parent")

// Flatten yields root and all of its descendants in pre-order: a node before
// its children, children in source order.
func Flatten(root *Node) iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		walk(root, yield)
	}
}

func walk(n *Node, yield func(*Node) bool) bool {
	if n == nil {
		return true
	}
	if !yield(n) {
		return false
	}
	for _, c := range n.children {
		if !walk(c, yield) {
			return false
		}
	}
	return true
}

// FirstOfKind returns the first node of the given kind, or nil.
func FirstOfKind(nodes iter.Seq[*Node], kind string) *Node {
	for n := range nodes {
		if n.Kind == kind {
			return n
		}
	}
	return nil
}

// SiblingsFrom returns the parent's children starting at node (inclusive).
func SiblingsFrom(node *Node) ([]*Node, error) {
	if node == nil || node.parent == nil {
		return nil, ErrNoParent
	}
	return node.parent.children[node.index:], nil
}

// SuccessorAlongPath descends from node through the first child matching each
// kind in turn. It returns nil as soon as a step has no match.
func SuccessorAlongPath(node *Node, kinds ...string) *Node {
	current := node
	for _, kind := range kinds {
		if current == nil {
			return nil
		}
		var next *Node
		for _, c := range current.children {
			if c.Kind == kind {
				next = c
				break
			}
		}
		current = next
	}
	return current
}

// ChildrenOfKind returns the direct children of n whose kind is one of kinds.
func ChildrenOfKind(n *Node, kinds ...string) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, c := range n.children {
		for _, k := range kinds {
			if c.Kind == k {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

// FirstError returns the first ERROR node or parser-inserted MISSING token
// under root, or nil when the subtree parsed cleanly.
func FirstError(root *Node) *Node {
	for n := range Flatten(root) {
		if n.Kind == "ERROR" || n.Missing {
			return n
		}
	}
	return nil
}
