package document

import (
	"slices"
	"strings"

	"golang.org/x/net/html"

	"github.com/gaurav-prasanna/mailpipe/core/formatting"
	"github.com/gaurav-prasanna/mailpipe/core/sanitize"
)

// renderBlocks writes blocks as HTML with inline styles only.
func renderBlocks(blocks []Block) string {
	var b strings.Builder
	for _, blk := range blocks {
		if !blk.IsText() {
			b.WriteString(blk.Raw)
			continue
		}

		tag := blk.Kind.Tag()
		b.WriteByte('<')
		b.WriteString(tag)
		writeAttrs(&b, blk.Attrs)
		writeStyle(&b, append([]sanitize.Declaration{
			{Property: "text-align", Value: string(blk.Align)},
			{Property: "line-height", Value: blk.LineHeight},
		}, blk.Extra...))
		b.WriteByte('>')
		for _, r := range blk.Runs {
			writeRun(&b, r)
		}
		b.WriteString("</")
		b.WriteString(tag)
		b.WriteByte('>')
	}
	return b.String()
}

// writeRun nests a run as link, styled span, strong, em, u and then any
// wrapped elements, outermost first.
func writeRun(b *strings.Builder, r Run) {
	if r.Raw != "" {
		b.WriteString(r.Raw)
		return
	}

	var closers []string
	open := func(tag string) {
		b.WriteByte('<')
		b.WriteString(tag)
		b.WriteByte('>')
		closers = append(closers, tag)
	}

	if r.Link != "" {
		b.WriteString(`<a href="`)
		b.WriteString(html.EscapeString(r.Link))
		b.WriteByte('"')
		writeAttrs(b, r.LinkAttrs)
		b.WriteByte('>')
		closers = append(closers, "a")
	}
	if r.Style != (formatting.TextStyle{}) || len(r.Extra) > 0 {
		b.WriteString("<span")
		writeStyle(b, append([]sanitize.Declaration{
			{Property: "color", Value: r.Style.Color},
			{Property: "background-color", Value: r.Style.BackgroundColor},
			{Property: "font-size", Value: r.Style.FontSize},
			{Property: "font-family", Value: r.Style.FontFamily},
		}, r.Extra...))
		b.WriteByte('>')
		closers = append(closers, "span")
	}
	if r.markTag(formatting.Bold) {
		open("strong")
	}
	if r.markTag(formatting.Italic) {
		open("em")
	}
	if r.markTag(formatting.Underline) {
		open("u")
	}
	for _, w := range r.Wrap {
		open(w)
	}

	for i, line := range strings.Split(r.Text, "\n") {
		if i > 0 {
			b.WriteString("<br>")
		}
		b.WriteString(html.EscapeString(line))
	}

	for i := len(closers) - 1; i >= 0; i-- {
		b.WriteString("</")
		b.WriteString(closers[i])
		b.WriteByte('>')
	}
}

// writeStyle writes a style attribute from the non-empty declarations, if
// any.
func writeStyle(b *strings.Builder, decls []sanitize.Declaration) {
	decls = slices.DeleteFunc(decls, func(d sanitize.Declaration) bool { return d.Value == "" })
	if len(decls) == 0 {
		return
	}
	b.WriteString(` style="`)
	b.WriteString(html.EscapeString(sanitize.FormatStyle(decls)))
	b.WriteByte('"')
}

func writeAttrs(b *strings.Builder, attrs []html.Attribute) {
	for _, a := range attrs {
		b.WriteByte(' ')
		b.WriteString(a.Key)
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(a.Val))
		b.WriteByte('"')
	}
}
