package document

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/gaurav-prasanna/mailpipe/core/formatting"
	"github.com/gaurav-prasanna/mailpipe/core/sanitize"
)

var (
	textBlock = cascadia.MustCompile("p, h1, h2, h3")
	spaces    = regexp.MustCompile(`[ \t\r\n\f]+`)
)

// inlineTags may appear loose at the top level; they are gathered into an
// implicit paragraph.
var inlineTags = map[string]bool{
	"a": true, "b": true, "strong": true, "em": true, "i": true, "u": true,
	"span": true, "code": true, "sub": true, "sup": true, "br": true, "img": true,
}

// parseBlocks turns markup into blocks. Paragraphs and headings 1 to 3
// become text blocks, other top-level elements are kept as opaque blocks.
func parseBlocks(src string, log *zap.Logger) ([]Block, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}

	var (
		blocks []Block
		loose  []*html.Node
	)
	flush := func() {
		if len(loose) == 0 {
			return
		}
		b := Block{Kind: formatting.Paragraph(), Runs: collectRuns(loose, Run{})}
		if strings.TrimSpace(b.Text()) != "" || slices.ContainsFunc(b.Runs, func(r Run) bool { return r.Raw != "" }) {
			blocks = append(blocks, b)
		}
		loose = nil
	}

	doc.Find("body").Contents().Each(func(_ int, s *goquery.Selection) {
		n := s.Get(0)
		switch {
		case n.Type == html.TextNode:
			loose = append(loose, n)
		case n.Type != html.ElementNode:
		case textBlock.Match(n):
			flush()
			blocks = append(blocks, parseTextBlock(n))
		case inlineTags[n.Data]:
			loose = append(loose, n)
		default:
			flush()
			raw, err := goquery.OuterHtml(s)
			if err != nil {
				log.Debug("Unable to render block", zap.String("tag", n.Data), zap.Error(err))
				return
			}
			blocks = append(blocks, Block{Raw: raw})
		}
	})
	flush()

	log.Debug("Parsed document", zap.Int("blocks", len(blocks)))
	return blocks, nil
}

func parseTextBlock(n *html.Node) Block {
	b := Block{Kind: formatting.Paragraph()}
	if n.Data != "p" {
		level, _ := strconv.Atoi(strings.TrimPrefix(n.Data, "h"))
		b.Kind = formatting.Heading(level)
	}

	for _, a := range n.Attr {
		switch a.Key {
		case "align":
			if al, ok := formatting.ParseAlign(strings.ToLower(a.Val)); ok {
				b.Align = al
			}
		case "style":
		default:
			b.Attrs = append(b.Attrs, a)
		}
	}

	var base Run
	for _, d := range parseInlineStyle(attr(n, "style")) {
		switch {
		case d.Property == "text-align":
			if a, ok := formatting.ParseAlign(strings.ToLower(d.Value)); ok {
				b.Align = a
			}
		case d.Property == "line-height":
			b.LineHeight = d.Value
		case runProperties[d.Property]:
			applyDeclaration(&base, d)
		default:
			b.Extra = setDeclaration(b.Extra, d)
		}
	}

	var kids []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		kids = append(kids, c)
	}
	b.Runs = collectRuns(kids, base)
	return b
}

// collectRuns flattens inline content into runs, depth first with an
// explicit stack. Each frame carries the formatting inherited so far.
func collectRuns(nodes []*html.Node, base Run) []Run {
	type frame struct {
		n     *html.Node
		state Run
	}

	stack := make([]frame, 0, len(nodes))
	for i := len(nodes) - 1; i >= 0; i-- {
		stack = append(stack, frame{n: nodes[i], state: base})
	}

	var runs []Run
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch f.n.Type {
		case html.TextNode:
			r := f.state
			r.Text = spaces.ReplaceAllString(f.n.Data, " ")
			runs = append(runs, r)
			continue
		case html.ElementNode:
		default:
			continue
		}

		st := f.state
		switch f.n.Data {
		case "br":
			r := f.state
			r.Text = "\n"
			runs = append(runs, r)
			continue
		case "img":
			var b strings.Builder
			if err := html.Render(&b, f.n); err == nil {
				runs = append(runs, Run{Raw: b.String()})
			}
			continue
		case "b", "strong":
			st.setMark(formatting.Bold, true)
		case "em", "i":
			st.setMark(formatting.Italic, true)
		case "u":
			st.setMark(formatting.Underline, true)
		case "a":
			if href := attr(f.n, "href"); href != "" {
				st.Link = href
				st.LinkAttrs = nil
				for _, a := range f.n.Attr {
					if a.Key != "href" && a.Key != "style" {
						st.LinkAttrs = append(st.LinkAttrs, a)
					}
				}
			}
		case "code", "sub", "sup":
			st.Wrap = append(slices.Clip(st.Wrap), f.n.Data)
		}
		for _, d := range parseInlineStyle(attr(f.n, "style")) {
			applyDeclaration(&st, d)
		}

		var kids []*html.Node
		for c := f.n.FirstChild; c != nil; c = c.NextSibling {
			kids = append(kids, c)
		}
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, frame{n: kids[i], state: st})
		}
	}
	return mergeRuns(runs)
}

// runProperties are the declarations a block passes down to its runs.
var runProperties = map[string]bool{
	"color": true, "background-color": true, "font-size": true, "font-family": true,
	"font-weight": true, "font-style": true, "text-decoration": true,
}

// applyDeclaration folds d into r. Mark properties set the mark and stay in
// Extra as written; properties the model does not edit go to Extra.
func applyDeclaration(r *Run, d sanitize.Declaration) {
	switch d.Property {
	case "color":
		r.Style.Color = d.Value
	case "background-color":
		r.Style.BackgroundColor = d.Value
	case "font-size":
		r.Style.FontSize = d.Value
	case "font-family":
		r.Style.FontFamily = d.Value
	case "font-weight":
		switch v := strings.ToLower(d.Value); v {
		case "bold", "bolder":
			r.Bold = true
		case "normal", "lighter":
			r.Bold = false
		default:
			if w, err := strconv.Atoi(v); err == nil {
				r.Bold = w >= 600
			}
		}
		r.Extra = setDeclaration(r.Extra, d)
	case "font-style":
		v := strings.ToLower(d.Value)
		r.Italic = v == "italic" || v == "oblique"
		r.Extra = setDeclaration(r.Extra, d)
	case "text-decoration":
		r.Underline = strings.Contains(strings.ToLower(d.Value), "underline")
		r.Extra = setDeclaration(r.Extra, d)
	default:
		r.Extra = setDeclaration(r.Extra, d)
	}
}

// parseInlineStyle reads the declarations of a style attribute. Values are
// kept as written, inner whitespace included.
func parseInlineStyle(style string) []sanitize.Declaration {
	if strings.TrimSpace(style) == "" {
		return nil
	}

	var (
		out     []sanitize.Declaration
		prop    string
		value   strings.Builder
		inValue bool
	)
	flush := func() {
		if v := strings.TrimSpace(value.String()); inValue && v != "" {
			out = append(out, sanitize.Declaration{Property: strings.ToLower(prop), Value: v})
		}
		prop, inValue = "", false
		value.Reset()
	}

	l := css.NewLexer(parse.NewInputString(style))
	for {
		tt, data := l.Next()
		switch {
		case tt == css.ErrorToken:
			flush()
			return out
		case tt == css.SemicolonToken:
			flush()
		case inValue:
			value.Write(data)
		case tt == css.IdentToken && prop == "":
			prop = string(data)
		case tt == css.ColonToken && prop != "":
			inValue = true
		}
	}
}

// setDeclaration replaces or appends d without touching the shared
// backing array of decls.
func setDeclaration(decls []sanitize.Declaration, d sanitize.Declaration) []sanitize.Declaration {
	return append(slices.Clip(withoutDeclaration(decls, d.Property)), d)
}

func withoutDeclaration(decls []sanitize.Declaration, prop string) []sanitize.Declaration {
	if !hasDeclaration(decls, prop) {
		return decls
	}
	var out []sanitize.Declaration
	for _, d := range decls {
		if d.Property != prop {
			out = append(out, d)
		}
	}
	return out
}

func hasDeclaration(decls []sanitize.Declaration, prop string) bool {
	return slices.ContainsFunc(decls, func(d sanitize.Declaration) bool { return d.Property == prop })
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
