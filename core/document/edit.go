package document

import (
	"fmt"
	"slices"

	"golang.org/x/net/html"

	"github.com/gaurav-prasanna/mailpipe/core/colors"
	"github.com/gaurav-prasanna/mailpipe/core/formatting"
)

// Batch runs fn against a private copy of the blocks and commits the copy
// as one undo step. When fn fails, or the selection holds no text block,
// the document is untouched.
func (d *Document) Batch(fn func(w formatting.Writer) error) error {
	if d.sel == nil {
		return ErrNoSelection
	}
	if len(selectedBlocks(d.blocks, *d.sel)) == 0 {
		return ErrNoTextBlocks
	}

	e := &editor{blocks: cloneBlocks(d.blocks), sel: *d.sel}
	if err := fn(e); err != nil {
		return fmt.Errorf("formatting batch: %w", err)
	}
	for i := range e.blocks {
		e.blocks[i].Runs = mergeRuns(e.blocks[i].Runs)
	}
	d.commit(e.blocks)
	return nil
}

// editor is the formatting.Writer handed to Batch callbacks.
type editor struct {
	blocks []Block
	sel    Selection
}

var _ formatting.Writer = (*editor)(nil)

// eachRun splits runs at the selection edges and calls fn for every text
// run inside the selection. A caret selects no runs.
func (e *editor) eachRun(fn func(r *Run)) {
	for _, i := range selectedBlocks(e.blocks, e.sel) {
		b := &e.blocks[i]
		start, end := e.sel.span(i, *b)
		if start >= end {
			continue
		}
		splitAt(b, start)
		splitAt(b, end)

		pos := 0
		for j := range b.Runs {
			n := b.Runs[j].Len()
			if b.Runs[j].Raw == "" && pos >= start && pos+n <= end && n > 0 {
				fn(&b.Runs[j])
			}
			pos += n
		}
	}
}

func (e *editor) eachBlock(fn func(b *Block)) {
	for _, i := range selectedBlocks(e.blocks, e.sel) {
		fn(&e.blocks[i])
	}
}

func (e *editor) SetMark(m formatting.Mark)   { e.eachRun(func(r *Run) { r.setMark(m, true) }) }
func (e *editor) UnsetMark(m formatting.Mark) { e.eachRun(func(r *Run) { r.setMark(m, false) }) }

func (e *editor) SetColor(c colors.Hex) { e.eachRun(func(r *Run) { r.Style.Color = c.String() }) }
func (e *editor) UnsetColor()           { e.eachRun(func(r *Run) { r.Style.Color = "" }) }

func (e *editor) SetBackgroundColor(c colors.Hex) {
	e.eachRun(func(r *Run) { r.Style.BackgroundColor = c.String() })
}
func (e *editor) UnsetBackgroundColor() { e.eachRun(func(r *Run) { r.Style.BackgroundColor = "" }) }

func (e *editor) SetFontSize(size string) { e.eachRun(func(r *Run) { r.Style.FontSize = size }) }
func (e *editor) UnsetFontSize()          { e.eachRun(func(r *Run) { r.Style.FontSize = "" }) }

func (e *editor) SetFontFamily(family string) { e.eachRun(func(r *Run) { r.Style.FontFamily = family }) }
func (e *editor) UnsetFontFamily()            { e.eachRun(func(r *Run) { r.Style.FontFamily = "" }) }

// SetLink gives new links target and rel attributes; existing link
// attributes are kept.
func (e *editor) SetLink(href string) {
	e.eachRun(func(r *Run) {
		r.Link = href
		if len(r.LinkAttrs) == 0 {
			r.LinkAttrs = []html.Attribute{
				{Key: "target", Val: "_blank"},
				{Key: "rel", Val: "noopener noreferrer"},
			}
		}
	})
}

func (e *editor) UnsetLink() {
	e.eachRun(func(r *Run) {
		r.Link = ""
		r.LinkAttrs = nil
	})
}

func (e *editor) SetAlign(a formatting.Align) { e.eachBlock(func(b *Block) { b.Align = a }) }
func (e *editor) UnsetAlign()                 { e.eachBlock(func(b *Block) { b.Align = "" }) }

func (e *editor) SetLineHeight(h string) { e.eachBlock(func(b *Block) { b.LineHeight = h }) }
func (e *editor) UnsetLineHeight()       { e.eachBlock(func(b *Block) { b.LineHeight = "" }) }

func (e *editor) SetBlock(k formatting.Block) {
	if k.IsZero() {
		return
	}
	e.eachBlock(func(b *Block) { b.Kind = k })
}

// ClearBlock turns headings back into paragraphs.
func (e *editor) ClearBlock() {
	e.eachBlock(func(b *Block) { b.Kind = formatting.Paragraph() })
}

// splitAt makes offset a run boundary in b.
func splitAt(b *Block, offset int) {
	pos := 0
	for j, r := range b.Runs {
		n := r.Len()
		if offset > pos && offset < pos+n {
			text := []rune(r.Text)
			left, right := r, r
			left.Text = string(text[:offset-pos])
			right.Text = string(text[offset-pos:])
			right.Wrap = slices.Clone(r.Wrap)
			right.Extra = slices.Clone(r.Extra)
			right.LinkAttrs = slices.Clone(r.LinkAttrs)
			b.Runs = slices.Replace(b.Runs, j, j+1, left, right)
			return
		}
		pos += n
	}
}

// mergeRuns joins neighbours with identical formatting and drops empty
// text runs. Offsets are unchanged.
func mergeRuns(runs []Run) []Run {
	out := runs[:0]
	for _, r := range runs {
		if r.Raw == "" && r.Text == "" {
			continue
		}
		if n := len(out); n > 0 && sameFormat(out[n-1], r) {
			out[n-1].Text += r.Text
			continue
		}
		out = append(out, r)
	}
	return out
}
