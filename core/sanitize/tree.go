package sanitize

import (
	"slices"
	"strings"

	"golang.org/x/net/html"
)

// NodeID indexes a node inside a Tree.
type NodeID int32

// NodeKind is the type of a Node.
type NodeKind uint8

const (
	RootNode NodeKind = iota
	ElementNode
	TextNode
)

// Attr is a single element attribute.
type Attr struct {
	Key string
	Val string
}

// Node is one entry of the arena. Links are indexes, there are no parent
// pointers.
type Node struct {
	Kind     NodeKind
	Tag      string
	Attrs    []Attr
	Text     string
	Children []NodeID
}

// Tree is an arena of nodes built from a parsed fragment. Node 0 is the root.
type Tree struct {
	nodes []Node
}

const rootID NodeID = 0

// Root returns the id of the fragment root.
func (t *Tree) Root() NodeID { return rootID }

// Node returns the node with the given id.
func (t *Tree) Node(id NodeID) *Node { return &t.nodes[id] }

// Len returns the number of nodes in the arena, including detached ones.
func (t *Tree) Len() int { return len(t.nodes) }

func (t *Tree) add(n Node) NodeID {
	t.nodes = append(t.nodes, n)
	return NodeID(len(t.nodes) - 1)
}

// buildTree copies the parser output into an arena. Comments, doctypes and
// attributes carrying a namespace are not copied.
func buildTree(fragment []*html.Node) *Tree {
	t := &Tree{nodes: make([]Node, 0, 64)}
	t.add(Node{Kind: RootNode})

	type frame struct {
		src    *html.Node
		parent NodeID
	}
	stack := make([]frame, 0, len(fragment))
	for i := len(fragment) - 1; i >= 0; i-- {
		stack = append(stack, frame{src: fragment[i], parent: rootID})
	}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		var id NodeID
		switch f.src.Type {
		case html.TextNode:
			id = t.add(Node{Kind: TextNode, Text: f.src.Data})
		case html.ElementNode:
			attrs := make([]Attr, 0, len(f.src.Attr))
			for _, a := range f.src.Attr {
				if a.Namespace != "" {
					continue
				}
				attrs = append(attrs, Attr{Key: strings.ToLower(a.Key), Val: a.Val})
			}
			id = t.add(Node{Kind: ElementNode, Tag: strings.ToLower(f.src.Data), Attrs: attrs})
		default:
			continue
		}
		t.nodes[f.parent].Children = append(t.nodes[f.parent].Children, id)

		// Push in reverse so children are visited, and appended, in order.
		var kids []*html.Node
		for c := f.src.FirstChild; c != nil; c = c.NextSibling {
			kids = append(kids, c)
		}
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, frame{src: kids[i], parent: id})
		}
	}
	return t
}

// preorder returns every node reachable from the root, parents first.
func (t *Tree) preorder() []NodeID {
	order := make([]NodeID, 0, len(t.nodes))
	stack := []NodeID{rootID}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		order = append(order, id)
		kids := t.nodes[id].Children
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, kids[i])
		}
	}
	return order
}

// TextContent concatenates the text of id and all its descendants.
func (t *Tree) TextContent(id NodeID) string {
	var b strings.Builder
	stack := []NodeID{id}
	for len(stack) > 0 {
		n := &t.nodes[stack[len(stack)-1]]
		stack = stack[:len(stack)-1]
		if n.Kind == TextNode {
			b.WriteString(n.Text)
			continue
		}
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, n.Children[i])
		}
	}
	return b.String()
}

type set map[string]struct{}

func newSet(names []string) set {
	s := make(set, len(names))
	for _, n := range names {
		s[strings.ToLower(n)] = struct{}{}
	}
	return s
}

func (s set) has(name string) bool {
	_, ok := s[name]
	return ok
}

func (s set) sorted() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
