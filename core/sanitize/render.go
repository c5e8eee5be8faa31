package sanitize

import (
	"strings"
)

var voidElements = newSet([]string{
	"area", "base", "br", "col", "embed", "hr", "img", "input",
	"link", "meta", "source", "track", "wbr",
})

var (
	textEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		"\u00a0", "&nbsp;",
	)
	attrEscaper = strings.NewReplacer(
		"&", "&amp;",
		`"`, "&quot;",
		"<", "&lt;",
		">", "&gt;",
		"\u00a0", "&nbsp;",
	)
)

// IsVoid reports whether tag never has content or a closing tag.
func IsVoid(tag string) bool {
	return voidElements.has(tag)
}

// Render serializes the children of the tree root. Void elements are written
// without a closing tag (<br>), attribute values are always double quoted
// and non-breaking spaces are written as &nbsp;.
func Render(t *Tree) string {
	type frame struct {
		id      NodeID
		closing bool
	}

	var b strings.Builder
	root := t.Node(t.Root())
	stack := make([]frame, 0, len(root.Children))
	for i := len(root.Children) - 1; i >= 0; i-- {
		stack = append(stack, frame{id: root.Children[i]})
	}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := t.Node(f.id)

		if f.closing {
			b.WriteString("</")
			b.WriteString(n.Tag)
			b.WriteByte('>')
			continue
		}

		if n.Kind == TextNode {
			textEscaper.WriteString(&b, n.Text)
			continue
		}
		if n.Kind != ElementNode {
			continue
		}

		b.WriteByte('<')
		b.WriteString(n.Tag)
		for _, a := range n.Attrs {
			b.WriteByte(' ')
			b.WriteString(a.Key)
			b.WriteString(`="`)
			attrEscaper.WriteString(&b, a.Val)
			b.WriteByte('"')
		}
		b.WriteByte('>')

		if IsVoid(n.Tag) {
			continue
		}

		// The parser drops one newline right after <pre>, so an extra one
		// keeps a leading newline in the content.
		if n.Tag == "pre" && len(n.Children) > 0 {
			if first := t.Node(n.Children[0]); first.Kind == TextNode && strings.HasPrefix(first.Text, "\n") {
				b.WriteByte('\n')
			}
		}

		stack = append(stack, frame{id: f.id, closing: true})
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{id: n.Children[i]})
		}
	}
	return b.String()
}
