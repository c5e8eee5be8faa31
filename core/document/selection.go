package document

import (
	"fmt"

	"github.com/gaurav-prasanna/mailpipe/core/formatting"
)

// Position addresses a point in the document: a block index and a rune
// offset into the block's text. Opaque blocks only have offset 0.
type Position struct {
	Block  int
	Offset int
}

// Before reports whether p comes before q.
func (p Position) Before(q Position) bool {
	if p.Block != q.Block {
		return p.Block < q.Block
	}
	return p.Offset < q.Offset
}

// Selection is an ordered range, From never after To.
type Selection struct {
	From Position
	To   Position
}

// Collapsed reports whether the selection is a caret.
func (s Selection) Collapsed() bool {
	return s.From == s.To
}

// Select sets the selection. The endpoints may be given in any order.
func (d *Document) Select(from, to Position) error {
	for _, p := range []Position{from, to} {
		if err := d.checkPosition(p); err != nil {
			return err
		}
	}
	if to.Before(from) {
		from, to = to, from
	}
	d.sel = &Selection{From: from, To: to}
	return nil
}

// SelectBlock selects the whole text of block i.
func (d *Document) SelectBlock(i int) error {
	if i < 0 || i >= len(d.blocks) {
		return fmt.Errorf("block %d: %w", i, ErrOutOfRange)
	}
	return d.Select(Position{Block: i}, Position{Block: i, Offset: d.blocks[i].Len()})
}

// SelectAll selects the whole document. An empty document has no selection.
func (d *Document) SelectAll() {
	if len(d.blocks) == 0 {
		d.sel = nil
		return
	}
	last := len(d.blocks) - 1
	d.sel = &Selection{To: Position{Block: last, Offset: d.blocks[last].Len()}}
}

// ClearSelection removes the selection.
func (d *Document) ClearSelection() {
	d.sel = nil
}

// Selection returns the current selection.
func (d *Document) Selection() (Selection, bool) {
	if d.sel == nil {
		return Selection{}, false
	}
	return *d.sel, true
}

func (d *Document) checkPosition(p Position) error {
	if p.Block < 0 || p.Block >= len(d.blocks) {
		return fmt.Errorf("block %d: %w", p.Block, ErrOutOfRange)
	}
	if p.Offset < 0 || p.Offset > d.blocks[p.Block].Len() {
		return fmt.Errorf("offset %d in block %d: %w", p.Offset, p.Block, ErrOutOfRange)
	}
	return nil
}

func (d *Document) revalidateSelection() {
	if d.sel == nil {
		return
	}
	if d.checkPosition(d.sel.From) != nil || d.checkPosition(d.sel.To) != nil {
		d.sel = nil
	}
}

// span returns the selected offsets within block i.
func (s Selection) span(i int, b Block) (start, end int) {
	start, end = 0, b.Len()
	if i == s.From.Block {
		start = s.From.Offset
	}
	if i == s.To.Block {
		end = s.To.Offset
	}
	return start, end
}

// selectedRuns returns the text runs touched by the selection. A caret
// reports the run it sits at the end of, or the first run of its block.
func selectedRuns(blocks []Block, s Selection) []Run {
	var out []Run
	for i := s.From.Block; i <= s.To.Block; i++ {
		b := blocks[i]
		if !b.IsText() {
			continue
		}
		start, end := s.span(i, b)
		pos := 0
		for _, r := range b.Runs {
			n := r.Len()
			if r.Raw == "" && n > 0 {
				switch {
				case start == end && start > pos && start <= pos+n:
					return []Run{r}
				case start == end && start == 0 && pos == 0:
					return []Run{r}
				case start < end && pos < end && pos+n > start:
					out = append(out, r)
				}
			}
			pos += n
		}
	}
	return out
}

// selectedBlocks returns the indexes of text blocks in the selection.
func selectedBlocks(blocks []Block, s Selection) []int {
	var out []int
	for i := s.From.Block; i <= s.To.Block; i++ {
		if blocks[i].IsText() {
			out = append(out, i)
		}
	}
	return out
}

// HasSelection implements formatting.Reader.
func (d *Document) HasSelection() bool {
	return d.sel != nil
}

// MarkActive reports whether every selected run carries m.
func (d *Document) MarkActive(m formatting.Mark) bool {
	if d.sel == nil {
		return false
	}
	runs := selectedRuns(d.blocks, *d.sel)
	if len(runs) == 0 {
		return false
	}
	for _, r := range runs {
		if !r.hasMark(m) {
			return false
		}
	}
	return true
}

// TextStyle returns the text style of the first selected run.
func (d *Document) TextStyle() formatting.TextStyle {
	if r, ok := d.firstRun(); ok {
		return r.Style
	}
	return formatting.TextStyle{}
}

// LinkHref returns the link of the first selected run.
func (d *Document) LinkHref() string {
	if r, ok := d.firstRun(); ok {
		return r.Link
	}
	return ""
}

// AlignActive reports whether the first selected text block has alignment a.
func (d *Document) AlignActive(a formatting.Align) bool {
	if b, ok := d.firstBlock(); ok {
		return b.Align == a
	}
	return false
}

// LineHeight returns the line height of the first selected text block.
func (d *Document) LineHeight() string {
	if b, ok := d.firstBlock(); ok {
		return b.LineHeight
	}
	return ""
}

// Block returns the block type shared by all selected text blocks, or the
// zero Block when they differ or none is selected.
func (d *Document) Block() formatting.Block {
	if d.sel == nil {
		return formatting.Block{}
	}
	var kind formatting.Block
	for i, idx := range selectedBlocks(d.blocks, *d.sel) {
		k := d.blocks[idx].Kind
		if i > 0 && k != kind {
			return formatting.Block{}
		}
		kind = k
	}
	return kind
}

func (d *Document) firstRun() (Run, bool) {
	if d.sel == nil {
		return Run{}, false
	}
	runs := selectedRuns(d.blocks, *d.sel)
	if len(runs) == 0 {
		return Run{}, false
	}
	return runs[0], true
}

func (d *Document) firstBlock() (Block, bool) {
	if d.sel == nil {
		return Block{}, false
	}
	idx := selectedBlocks(d.blocks, *d.sel)
	if len(idx) == 0 {
		return Block{}, false
	}
	return d.blocks[idx[0]], true
}
