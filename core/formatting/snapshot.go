package formatting

import (
	"github.com/gaurav-prasanna/mailpipe/core/colors"
)

// Snapshot is the formatting at one selection, frozen as a value.
// Empty fields mean "do not set", not "clear". Snapshots are comparable
// with == and are never modified after Capture.
type Snapshot struct {
	Bold      bool
	Italic    bool
	Underline bool

	Color           colors.Hex
	BackgroundColor colors.Hex
	FontFamily      string
	FontSize        string
	LineHeight      string

	Align Align
	Link  string
	Block Block
}

// HasMark reports whether the snapshot sets m.
func (s Snapshot) HasMark(m Mark) bool {
	switch m {
	case Bold:
		return s.Bold
	case Italic:
		return s.Italic
	case Underline:
		return s.Underline
	}
	return false
}

// Capture reads the formatting at r's selection. Colors are normalized;
// colors that cannot be normalized are left out. The alignment is the first
// active one in Alignments order.
func Capture(r Reader) Snapshot {
	if r == nil {
		return Snapshot{}
	}

	style := r.TextStyle()
	color, _ := colors.Normalize(style.Color)
	background, _ := colors.Normalize(style.BackgroundColor)

	s := Snapshot{
		Bold:            r.MarkActive(Bold),
		Italic:          r.MarkActive(Italic),
		Underline:       r.MarkActive(Underline),
		Color:           color,
		BackgroundColor: background,
		FontFamily:      style.FontFamily,
		FontSize:        style.FontSize,
		LineHeight:      r.LineHeight(),
		Link:            r.LinkHref(),
		Block:           r.Block(),
	}
	for _, a := range Alignments {
		if r.AlignActive(a) {
			s.Align = a
			break
		}
	}
	return s
}

// Apply replaces the formatting at c's selection with s in a single batch:
// every category is cleared, then every field present in s is set, block
// type first. When s carries the block type the selection already has, the
// block is left alone.
//
// Apply reports whether the batch was committed. Without a cursor or a
// selection nothing happens and false is returned.
func Apply(c Cursor, s Snapshot) bool {
	if c == nil || !c.HasSelection() {
		return false
	}

	keepBlock := !s.Block.IsZero() && s.Block == c.Block()

	err := c.Batch(func(w Writer) error {
		clearAll(w, !keepBlock)
		setPresent(w, s, !keepBlock)
		return nil
	})
	return err == nil
}

func clearAll(w Writer, block bool) {
	for _, m := range Marks {
		w.UnsetMark(m)
	}
	w.UnsetColor()
	w.UnsetBackgroundColor()
	w.UnsetFontSize()
	w.UnsetFontFamily()
	w.UnsetLink()
	w.UnsetAlign()
	w.UnsetLineHeight()
	if block {
		w.ClearBlock()
	}
}

func setPresent(w Writer, s Snapshot, block bool) {
	if block && !s.Block.IsZero() {
		w.SetBlock(s.Block)
	}
	for _, m := range Marks {
		if s.HasMark(m) {
			w.SetMark(m)
		}
	}
	if s.Color != "" {
		w.SetColor(s.Color)
	}
	if s.BackgroundColor != "" {
		w.SetBackgroundColor(s.BackgroundColor)
	}
	if s.FontSize != "" {
		w.SetFontSize(s.FontSize)
	}
	if s.FontFamily != "" {
		w.SetFontFamily(s.FontFamily)
	}
	if s.Align != "" {
		w.SetAlign(s.Align)
	}
	if s.LineHeight != "" {
		w.SetLineHeight(s.LineHeight)
	}
	if s.Link != "" {
		w.SetLink(s.Link)
	}
}
