package sanitize

import (
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// maxKeptDepth caps allowed-element nesting when markup is too deep for the
// tree parser. It stays well below the parser's open-element limit so that
// implied elements such as tbody still fit.
const maxKeptDepth = 256

var flattenVoidElements = newSet([]string{
	"area", "base", "br", "col", "embed", "hr", "img", "input",
	"link", "meta", "param", "source", "track", "wbr",
})

// flatten rewrites input token by token with a bounded element depth.
// Discarded elements lose their content, disallowed tags are unwrapped
// and allowed elements nested past maxKeptDepth are unwrapped too. Text
// is always kept. The result still goes through the normal tree pass.
func (s *Sanitizer) flatten(input string) (string, error) {
	type open struct {
		tag  string
		kept bool
	}

	var (
		b     strings.Builder
		stack []open
		kept  int
		skip  string
		depth int
	)

	z := html.NewTokenizer(strings.NewReader(input))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return "", err
			}
			return b.String(), nil
		}
		tok := z.Token()

		if skip != "" {
			switch {
			case tt == html.StartTagToken && tok.Data == skip:
				depth++
			case tt == html.EndTagToken && tok.Data == skip:
				depth--
				if depth == 0 {
					skip = ""
				}
			}
			continue
		}

		switch tt {
		case html.TextToken:
			b.WriteString(tok.String())

		case html.StartTagToken, html.SelfClosingTagToken:
			switch {
			case s.allow.Discards(tok.Data):
				if tt == html.StartTagToken && !flattenVoidElements.has(tok.Data) {
					skip, depth = tok.Data, 1
				}
			case !s.allow.AllowsTag(tok.Data):
			case tt == html.SelfClosingTagToken || flattenVoidElements.has(tok.Data):
				b.WriteString(tok.String())
			default:
				keep := kept < maxKeptDepth
				if keep {
					kept++
					b.WriteString(tok.String())
				}
				stack = append(stack, open{tag: tok.Data, kept: keep})
			}

		case html.EndTagToken:
			for i := len(stack) - 1; i >= 0; i-- {
				if stack[i].tag != tok.Data {
					continue
				}
				for _, o := range stack[i+1:] {
					if o.kept {
						kept--
					}
				}
				if stack[i].kept {
					kept--
					b.WriteString(tok.String())
				}
				stack = stack[:i]
				break
			}
		}
	}
}
