// Package document is an in-memory rich-text document that implements the
// formatting cursor contract. It models what the editing surface needs for
// formatting: paragraphs and headings made of styled text runs. Any other
// top-level markup (lists, tables, containers, quotes) is carried as an
// opaque block and written back untouched. Styles and attributes the model
// does not edit are carried on blocks and runs and written back as found.
package document

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/gaurav-prasanna/mailpipe/core/formatting"
	"github.com/gaurav-prasanna/mailpipe/core/sanitize"
)

// maxHistory bounds the undo stack.
const maxHistory = 100

var (
	// ErrNoSelection is returned by Batch when nothing is selected.
	ErrNoSelection = errors.New("no selection")
	// ErrOutOfRange is returned for positions outside the document.
	ErrOutOfRange = errors.New("position out of range")
	// ErrNoTextBlocks is returned by Batch when the selection covers only
	// opaque blocks.
	ErrNoTextBlocks = errors.New("no text blocks selected")
)

// Run is a stretch of text with uniform formatting. A run with Raw set is
// an inline atom, such as an image, written verbatim and zero runes long.
type Run struct {
	Text      string
	Bold      bool
	Italic    bool
	Underline bool
	Style     formatting.TextStyle
	Link      string
	// Wrap lists inline elements kept around the text but not edited,
	// outermost first (code, sub, sup).
	Wrap []string
	Raw  string
	// Extra holds style declarations written back as found. A mark set by
	// a declaration keeps it here and is not rewritten as a tag.
	Extra []sanitize.Declaration
	// LinkAttrs are the attributes of the link element other than href.
	LinkAttrs []html.Attribute
}

// Len returns the length of the run in runes.
func (r Run) Len() int {
	return utf8.RuneCountInString(r.Text)
}

func (r Run) hasMark(m formatting.Mark) bool {
	switch m {
	case formatting.Bold:
		return r.Bold
	case formatting.Italic:
		return r.Italic
	case formatting.Underline:
		return r.Underline
	}
	return false
}

// markProperty is the style property that can carry each mark.
var markProperty = map[formatting.Mark]string{
	formatting.Bold:      "font-weight",
	formatting.Italic:    "font-style",
	formatting.Underline: "text-decoration",
}

func (r *Run) setMark(m formatting.Mark, on bool) {
	switch m {
	case formatting.Bold:
		r.Bold = on
	case formatting.Italic:
		r.Italic = on
	case formatting.Underline:
		r.Underline = on
	}
	r.Extra = withoutDeclaration(r.Extra, markProperty[m])
}

// markTag reports whether mark m is written as a tag rather than through
// a declaration in Extra.
func (r Run) markTag(m formatting.Mark) bool {
	return r.hasMark(m) && !hasDeclaration(r.Extra, markProperty[m])
}

// sameFormat reports whether a and b can be merged into one run.
func sameFormat(a, b Run) bool {
	return a.Raw == "" && b.Raw == "" &&
		a.Bold == b.Bold && a.Italic == b.Italic && a.Underline == b.Underline &&
		a.Style == b.Style && a.Link == b.Link && slices.Equal(a.Wrap, b.Wrap) &&
		slices.Equal(a.Extra, b.Extra) && slices.Equal(a.LinkAttrs, b.LinkAttrs)
}

// Block is one top-level block. Text blocks have a non-zero Kind and are
// made of runs; opaque blocks have a zero Kind and carry Raw markup.
type Block struct {
	Kind       formatting.Block
	Align      formatting.Align
	LineHeight string
	Runs       []Run
	Raw        string
	// Extra and Attrs hold the block's other declarations and attributes.
	Extra []sanitize.Declaration
	Attrs []html.Attribute
}

// IsText reports whether the block holds editable runs.
func (b Block) IsText() bool {
	return !b.Kind.IsZero()
}

// Len returns the text length of the block in runes.
func (b Block) Len() int {
	n := 0
	for _, r := range b.Runs {
		n += r.Len()
	}
	return n
}

// Text returns the plain text of the block.
func (b Block) Text() string {
	var sb strings.Builder
	for _, r := range b.Runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

func (b Block) clone() Block {
	b.Runs = slices.Clone(b.Runs)
	for i := range b.Runs {
		r := &b.Runs[i]
		r.Wrap = slices.Clone(r.Wrap)
		r.Extra = slices.Clone(r.Extra)
		r.LinkAttrs = slices.Clone(r.LinkAttrs)
	}
	b.Extra = slices.Clone(b.Extra)
	b.Attrs = slices.Clone(b.Attrs)
	return b
}

func cloneBlocks(blocks []Block) []Block {
	out := make([]Block, len(blocks))
	for i, b := range blocks {
		out[i] = b.clone()
	}
	return out
}

// Document holds the blocks, the selection and the undo history.
// It is not safe for concurrent use.
type Document struct {
	blocks   []Block
	sel      *Selection
	undo     [][]Block
	redo     [][]Block
	onChange []func()
	log      *zap.Logger
}

// New returns an empty document.
func New(log *zap.Logger) *Document {
	if log == nil {
		log = zap.NewNop()
	}
	return &Document{log: log.Named("document")}
}

// Load replaces the content with src and resets selection and history.
func (d *Document) Load(src string) error {
	blocks, err := parseBlocks(src, d.log)
	if err != nil {
		return fmt.Errorf("loading document: %w", err)
	}
	d.blocks = blocks
	d.sel = nil
	d.undo, d.redo = nil, nil
	d.notify()
	return nil
}

// Replace swaps the content for src as one undoable step. The selection is
// cleared.
func (d *Document) Replace(src string) error {
	blocks, err := parseBlocks(src, d.log)
	if err != nil {
		return fmt.Errorf("replacing document: %w", err)
	}
	d.sel = nil
	d.commit(blocks)
	return nil
}

// InsertHTML inserts the blocks of src after the selection, or at the end
// when nothing is selected. The selection is kept.
func (d *Document) InsertHTML(src string) error {
	blocks, err := parseBlocks(src, d.log)
	if err != nil {
		return fmt.Errorf("inserting markup: %w", err)
	}
	if len(blocks) == 0 {
		return nil
	}

	at := len(d.blocks)
	if d.sel != nil {
		at = d.sel.To.Block + 1
	}
	next := cloneBlocks(d.blocks)
	next = slices.Insert(next, at, blocks...)
	d.commit(next)
	return nil
}

// HTML serializes the document.
func (d *Document) HTML() string {
	return renderBlocks(d.blocks)
}

// Blocks returns a copy of the blocks.
func (d *Document) Blocks() []Block {
	return cloneBlocks(d.blocks)
}

// Len returns the number of blocks.
func (d *Document) Len() int {
	return len(d.blocks)
}

// OnChange registers fn to be called after every change to the content.
func (d *Document) OnChange(fn func()) {
	d.onChange = append(d.onChange, fn)
}

// Undo reverts the last change. It reports whether there was one.
func (d *Document) Undo() bool {
	if len(d.undo) == 0 {
		return false
	}
	prev := d.undo[len(d.undo)-1]
	d.undo = d.undo[:len(d.undo)-1]
	d.redo = append(d.redo, d.blocks)
	d.blocks = prev
	d.revalidateSelection()
	d.notify()
	return true
}

// Redo reapplies the last undone change. It reports whether there was one.
func (d *Document) Redo() bool {
	if len(d.redo) == 0 {
		return false
	}
	next := d.redo[len(d.redo)-1]
	d.redo = d.redo[:len(d.redo)-1]
	d.undo = append(d.undo, d.blocks)
	d.blocks = next
	d.revalidateSelection()
	d.notify()
	return true
}

// CanUndo reports whether Undo would change anything.
func (d *Document) CanUndo() bool { return len(d.undo) > 0 }

// CanRedo reports whether Redo would change anything.
func (d *Document) CanRedo() bool { return len(d.redo) > 0 }

func (d *Document) commit(blocks []Block) {
	d.undo = append(d.undo, d.blocks)
	if len(d.undo) > maxHistory {
		d.undo = slices.Delete(d.undo, 0, len(d.undo)-maxHistory)
	}
	d.redo = nil
	d.blocks = blocks
	d.notify()
}

func (d *Document) notify() {
	for _, fn := range d.onChange {
		fn()
	}
}
