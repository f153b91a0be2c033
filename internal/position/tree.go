package position

import "encoding/json"

// Node is a position plus its place in a tree.
type Node struct {
	pos      Position
	parent   *Node
	children []*Node
}

// Position returns the node's position.
func (n *Node) Position() Position {
	return n.pos
}

// Parent returns the enclosing node, or nil for the root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns the direct children in source order.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// Tree is a discovery result rooted at a file or directory position.
type Tree struct {
	root  *Node
	byID  map[string]*Node
	order []*Node
}

// NewTree starts a tree with the given root.
func NewTree(root Position) *Tree {
	node := &Node{pos: root}
	return &Tree{
		root:  node,
		byID:  map[string]*Node{root.ID: node},
		order: []*Node{node},
	}
}

// Add attaches a position under parent and returns the new node. A nil
// parent means the root. When an id is already taken the first node keeps
// the id index entry; both nodes stay in the tree.
func (t *Tree) Add(parent *Node, pos Position) *Node {
	if parent == nil {
		parent = t.root
	}
	node := &Node{pos: pos, parent: parent}
	parent.children = append(parent.children, node)
	if _, exists := t.byID[pos.ID]; !exists {
		t.byID[pos.ID] = node
	}
	t.order = append(t.order, node)
	return node
}

// Root returns the root node.
func (t *Tree) Root() *Node {
	return t.root
}

// Get looks up a node by id.
func (t *Tree) Get(id string) (*Node, bool) {
	node, ok := t.byID[id]
	return node, ok
}

// Walk visits nodes depth-first in source order until fn returns false.
func (t *Tree) Walk(fn func(*Node) bool) {
	var visit func(*Node) bool
	visit = func(n *Node) bool {
		if !fn(n) {
			return false
		}
		for _, child := range n.children {
			if !visit(child) {
				return false
			}
		}
		return true
	}
	visit(t.root)
}

// Positions returns every position depth-first, root included.
func (t *Tree) Positions() []Position {
	out := make([]Position, 0, len(t.order))
	t.Walk(func(n *Node) bool {
		out = append(out, n.pos)
		return true
	})
	return out
}

// Tests returns the test positions in source order.
func (t *Tree) Tests() []Position {
	var out []Position
	t.Walk(func(n *Node) bool {
		if n.pos.Kind == KindTest {
			out = append(out, n.pos)
		}
		return true
	})
	return out
}

// FindTest locates a test by enclosing namespace name and test name. An
// empty namespace matches tests hanging directly off the root.
func (t *Tree) FindTest(namespace, name string) (*Node, bool) {
	var found *Node
	t.Walk(func(n *Node) bool {
		if n.pos.Kind != KindTest || n.pos.Name != name {
			return true
		}
		parent := n.parent
		switch {
		case namespace == "" && (parent == nil || parent.pos.Kind != KindNamespace):
			found = n
		case parent != nil && parent.pos.Kind == KindNamespace && parent.pos.Name == namespace:
			found = n
		}
		return found == nil
	})
	return found, found != nil
}

// Len returns the number of nodes.
func (t *Tree) Len() int {
	return len(t.order)
}

type jsonNode struct {
	Position
	Children []jsonNode `json:"children,omitempty"`
}

// MarshalJSON renders the tree as nested positions.
func (t *Tree) MarshalJSON() ([]byte, error) {
	var convert func(*Node) jsonNode
	convert = func(n *Node) jsonNode {
		out := jsonNode{Position: n.pos}
		for _, child := range n.children {
			out.Children = append(out.Children, convert(child))
		}
		return out
	}
	return json.Marshal(convert(t.root))
}
