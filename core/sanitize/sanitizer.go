// Package sanitize implements the allow-list HTML sanitizer that every piece
// of externally sourced markup passes through before it reaches the editing
// document or an exported email.
//
// The sanitizer parses leniently and copies the parse tree into an arena.
// Filtering uses an explicit work-list instead of recursion. Markup nested
// deeper than the tree parser accepts is first flattened with a streaming
// tokenizer, so text survives any depth. It never fails: the worst case is
// an empty string.
package sanitize

import (
	"strings"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// maxPasses bounds the re-parse loop that makes output a fixed point.
const maxPasses = 4

// Sanitizer filters HTML against an AllowList.
// It holds no per-call state and is safe for concurrent use.
type Sanitizer struct {
	allow *AllowList
	log   *zap.Logger
}

// New creates a Sanitizer. A nil allow uses DefaultAllowList, a nil log
// disables logging.
func New(allow *AllowList, log *zap.Logger) *Sanitizer {
	if allow == nil {
		allow = DefaultAllowList()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Sanitizer{allow: allow, log: log.Named("sanitizer")}
}

// AllowList returns the configuration the sanitizer was built with.
func (s *Sanitizer) AllowList() *AllowList {
	return s.allow
}

var defaultSanitizer = New(nil, nil)

// Sanitize cleans input with the default allow-list.
func Sanitize(input string) string {
	return defaultSanitizer.Sanitize(input)
}

// SanitizePaste is the entry point for pasted payloads. It applies exactly
// the same rules as Sanitize.
func SanitizePaste(input string) string {
	return defaultSanitizer.SanitizePaste(input)
}

// SanitizePaste cleans a pasted payload.
func (s *Sanitizer) SanitizePaste(input string) string {
	return s.Sanitize(input)
}

// stats counts what a pass removed. Only used for logging.
type stats struct {
	discarded  int
	unwrapped  int
	attrs      int
	paragraphs int
}

// Sanitize returns input reduced to allowed tags, attributes, style
// properties and URL schemes, with empty paragraphs removed.
//
// Lenient parsing may re-nest markup whose wrappers were removed, so the
// pass is repeated on its own output until it stops changing. The result
// is therefore stable: Sanitize(Sanitize(x)) == Sanitize(x).
func (s *Sanitizer) Sanitize(input string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("Sanitizer failed, content dropped", zap.Any("panic", r))
			out = ""
		}
	}()

	var st stats
	cur := input
	for pass := 1; pass <= maxPasses; pass++ {
		next := s.pass(cur, &st)
		if next == cur {
			s.logStats(input, next, pass, st)
			return next
		}
		cur = next
	}
	s.log.Debug("Sanitized output did not settle", zap.Int("passes", maxPasses))
	s.logStats(input, cur, maxPasses, st)
	return cur
}

func (s *Sanitizer) logStats(in, out string, passes int, st stats) {
	if ce := s.log.Check(zap.DebugLevel, "Sanitized markup"); ce != nil {
		ce.Write(
			zap.Int("bytes_in", len(in)),
			zap.Int("bytes_out", len(out)),
			zap.Int("passes", passes),
			zap.Int("discarded", st.discarded),
			zap.Int("unwrapped", st.unwrapped),
			zap.Int("attributes_removed", st.attrs),
			zap.Int("empty_paragraphs", st.paragraphs),
		)
	}
}

func (s *Sanitizer) pass(input string, st *stats) string {
	if input == "" {
		return ""
	}

	fragment, err := parseFragment(input)
	if err != nil {
		s.log.Debug("Flattening markup", zap.Error(err))
		flat, ferr := s.flatten(input)
		if ferr == nil {
			fragment, err = parseFragment(flat)
		} else {
			err = ferr
		}
	}
	if err != nil {
		s.log.Debug("Unable to parse markup", zap.Error(err))
		return ""
	}

	t := buildTree(fragment)
	s.filter(t, st)
	s.removeEmptyParagraphs(t, st)
	return Render(t)
}

func parseFragment(input string) ([]*html.Node, error) {
	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	return html.ParseFragment(strings.NewReader(input), context)
}

// filter walks the tree in document order. Kept elements get fresh child
// lists; children of unwrapped elements are appended to the nearest kept
// ancestor, which splices them into the unwrapped element's position.
func (s *Sanitizer) filter(t *Tree, st *stats) {
	type frame struct {
		id     NodeID
		target NodeID
	}

	push := func(stack []frame, kids []NodeID, target NodeID) []frame {
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, frame{id: kids[i], target: target})
		}
		return stack
	}

	root := t.Node(t.Root())
	stack := push(nil, root.Children, t.Root())
	root.Children = make([]NodeID, 0, len(root.Children))

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := t.Node(f.id)
		target := t.Node(f.target)

		switch {
		case n.Kind == TextNode:
			target.Children = append(target.Children, f.id)

		case s.allow.Discards(n.Tag):
			st.discarded++

		case !s.allow.AllowsTag(n.Tag):
			st.unwrapped++
			stack = push(stack, n.Children, f.target)

		default:
			n.Attrs = s.filterAttrs(n.Attrs, st)
			target.Children = append(target.Children, f.id)
			kids := n.Children
			n.Children = make([]NodeID, 0, len(kids))
			stack = push(stack, kids, f.id)
		}
	}
}

func (s *Sanitizer) filterAttrs(attrs []Attr, st *stats) []Attr {
	out := attrs[:0]
	for _, a := range attrs {
		switch {
		case strings.HasPrefix(a.Key, "on"), a.Key == "class":
			st.attrs++
			continue

		case a.Key == "style":
			a.Val = s.filterStyle(a.Val)
			if a.Val == "" {
				st.attrs++
				continue
			}

		case a.Key == "href":
			if !s.allow.SafeHref(a.Val) {
				st.attrs++
				continue
			}
			a.Val = strings.TrimSpace(a.Val)

		case a.Key == "src":
			if !s.allow.SafeSrc(a.Val) {
				st.attrs++
				continue
			}
			a.Val = strings.TrimSpace(a.Val)
		}

		if !s.allow.AllowsAttr(a.Key) {
			st.attrs++
			continue
		}
		out = append(out, a)
	}
	return out
}

// removeEmptyParagraphs drops every <p> with neither a structural
// descendant nor non-whitespace text. Content flags are computed bottom-up
// in one pass, so the cost is linear in the number of nodes.
func (s *Sanitizer) removeEmptyParagraphs(t *Tree, st *stats) {
	order := t.preorder()
	content := make([]bool, t.Len())

	for i := len(order) - 1; i >= 0; i-- {
		id := order[i]
		n := t.Node(id)
		switch n.Kind {
		case TextNode:
			content[id] = !isBlank(n.Text)
		case ElementNode:
			if s.allow.IsStructural(n.Tag) {
				content[id] = true
				continue
			}
			for _, c := range n.Children {
				if content[c] {
					content[id] = true
					break
				}
			}
		}
	}

	for _, id := range order {
		n := t.Node(id)
		if len(n.Children) == 0 {
			continue
		}
		kept := n.Children[:0]
		for _, c := range n.Children {
			child := t.Node(c)
			if child.Kind == ElementNode && child.Tag == "p" && !content[c] {
				st.paragraphs++
				continue
			}
			kept = append(kept, c)
		}
		n.Children = kept
	}
}

// isBlank treats U+00A0 like any other whitespace.
func isBlank(s string) bool {
	return strings.TrimFunc(s, unicode.IsSpace) == ""
}
