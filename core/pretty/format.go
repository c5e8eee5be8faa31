// Package pretty indents sanitized HTML for the editable source view.
//
// It is a line-oriented readability transform, not a validator: input is
// assumed to be sanitizer output and markup it does not expect is printed
// as-is, possibly misindented.
package pretty

import (
	"regexp"
	"strings"
)

// Indent is the unit written once per nesting level.
const Indent = "  "

var (
	betweenTags = regexp.MustCompile(`>\s+<`)
	lineBreaks  = regexp.MustCompile(`\r?\n`)
	leadingTag  = regexp.MustCompile(`^</?\s*([a-zA-Z0-9:-]+)`)
)

var blockTags = map[string]bool{
	"html": true, "head": true, "body": true,
	"table": true, "thead": true, "tbody": true, "tfoot": true,
	"tr": true, "td": true, "th": true,
	"div": true, "section": true, "article": true, "header": true,
	"footer": true, "main": true, "nav": true,
	"p": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"ul": true, "ol": true, "li": true, "blockquote": true, "pre": true,
}

var voidTags = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// Collapse removes whitespace between tags and all line breaks, then trims
// the result.
func Collapse(html string) string {
	s := betweenTags.ReplaceAllString(html, "><")
	s = lineBreaks.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// Format puts every tag boundary on its own line and indents by the first
// tag of each line. A line starting with a closing tag is dedented one
// level; a line starting with an opening block tag indents the lines after
// it. Inline, void and self-closing tags never indent.
//
// The rule looks at one line at a time, so unbalanced markup may be
// misindented. Format(Format(x)) == Format(x) for collapsed x.
func Format(html string) string {
	collapsed := Collapse(html)
	if collapsed == "" {
		return ""
	}

	tokens := strings.Split(strings.ReplaceAll(collapsed, "><", ">\n<"), "\n")
	lines := make([]string, 0, len(tokens))
	depth := 0

	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}

		closing := strings.HasPrefix(tok, "</")
		if closing && depth > 0 {
			depth--
		}
		lines = append(lines, strings.Repeat(Indent, depth)+tok)
		if !closing && opensBlock(tok) {
			depth++
		}
	}
	return strings.Join(lines, "\n")
}

// opensBlock reports whether tok starts with an opening block tag.
func opensBlock(tok string) bool {
	if strings.HasSuffix(tok, "/>") {
		return false
	}
	m := leadingTag.FindStringSubmatch(tok)
	if m == nil {
		return false
	}
	name := strings.ToLower(m[1])
	return blockTags[name] && !voidTags[name]
}
