// Package formatting captures the formatting at an editor selection as a
// value and replays it onto another selection in one undoable step.
//
// The package only talks to the editing surface through the Reader, Writer
// and Cursor interfaces declared here.
package formatting

import (
	"strconv"

	"github.com/gaurav-prasanna/mailpipe/core/colors"
)

// Mark is a boolean inline format.
type Mark uint8

const (
	Bold Mark = iota + 1
	Italic
	Underline
)

// Marks lists every mark in the order they are cleared and applied.
var Marks = []Mark{Bold, Italic, Underline}

func (m Mark) String() string {
	switch m {
	case Bold:
		return "bold"
	case Italic:
		return "italic"
	case Underline:
		return "underline"
	}
	return "mark(" + strconv.Itoa(int(m)) + ")"
}

// Align is a paragraph alignment. The zero value means none.
type Align string

const (
	AlignLeft    Align = "left"
	AlignCenter  Align = "center"
	AlignRight   Align = "right"
	AlignJustify Align = "justify"
)

// Alignments is the order in which active alignments are probed.
var Alignments = []Align{AlignLeft, AlignCenter, AlignRight, AlignJustify}

// ParseAlign returns the alignment named s.
func ParseAlign(s string) (Align, bool) {
	for _, a := range Alignments {
		if string(a) == s {
			return a, true
		}
	}
	return "", false
}

// BlockKind is the type of a text block.
type BlockKind uint8

const (
	// NoBlock means unknown or mixed. In a Snapshot it means "leave alone".
	NoBlock BlockKind = iota
	ParagraphBlock
	HeadingBlock
)

// MaxHeadingLevel is the deepest heading the editor offers.
const MaxHeadingLevel = 3

// Block is a block type: a paragraph, or a heading with a level.
type Block struct {
	Kind  BlockKind
	Level int
}

// Paragraph returns the paragraph block type.
func Paragraph() Block { return Block{Kind: ParagraphBlock} }

// Heading returns the heading block type, level clamped to 1..MaxHeadingLevel.
func Heading(level int) Block {
	return Block{Kind: HeadingBlock, Level: min(max(level, 1), MaxHeadingLevel)}
}

// IsZero reports whether b carries no block type.
func (b Block) IsZero() bool { return b.Kind == NoBlock }

// Tag returns the HTML element for the block.
func (b Block) Tag() string {
	if b.Kind == HeadingBlock {
		return "h" + strconv.Itoa(b.Level)
	}
	return "p"
}

func (b Block) String() string {
	switch b.Kind {
	case ParagraphBlock:
		return "paragraph"
	case HeadingBlock:
		return "heading " + strconv.Itoa(b.Level)
	}
	return "none"
}

// TextStyle holds the raw textStyle attributes at the selection.
// Empty strings mean unset.
type TextStyle struct {
	Color           string
	BackgroundColor string
	FontSize        string
	FontFamily      string
}

// Reader queries the formatting state at the current selection.
// Implementations must not change the document while answering.
type Reader interface {
	HasSelection() bool
	MarkActive(m Mark) bool
	TextStyle() TextStyle
	AlignActive(a Align) bool
	LineHeight() string
	LinkHref() string
	Block() Block
}

// Writer issues formatting commands against the current selection.
// It is only valid inside Cursor.Batch.
type Writer interface {
	SetMark(m Mark)
	UnsetMark(m Mark)
	SetColor(c colors.Hex)
	UnsetColor()
	SetBackgroundColor(c colors.Hex)
	UnsetBackgroundColor()
	SetFontSize(size string)
	UnsetFontSize()
	SetFontFamily(family string)
	UnsetFontFamily()
	SetLink(href string)
	UnsetLink()
	SetAlign(a Align)
	UnsetAlign()
	SetLineHeight(height string)
	UnsetLineHeight()
	SetBlock(b Block)
	ClearBlock()
}

// Cursor is a selection that can be both queried and modified.
//
// Batch runs fn against a Writer and commits everything it did as one
// undoable step. If fn returns an error, or the commit fails, the document
// is left exactly as it was.
type Cursor interface {
	Reader
	Batch(fn func(w Writer) error) error
}
