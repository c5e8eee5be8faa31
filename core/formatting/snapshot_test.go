package formatting_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/mailpipe/core/colors"
	"github.com/gaurav-prasanna/mailpipe/core/formatting"
)

// fakeCursor records the commands of committed batches.
type fakeCursor struct {
	selection bool
	marks     map[formatting.Mark]bool
	style     formatting.TextStyle
	align     formatting.Align
	height    string
	link      string
	block     formatting.Block

	failCommit bool
	batches    [][]string
}

func (c *fakeCursor) HasSelection() bool { return c.selection }
func (c *fakeCursor) MarkActive(m formatting.Mark) bool { return c.marks[m] }
func (c *fakeCursor) TextStyle() formatting.TextStyle { return c.style }
func (c *fakeCursor) AlignActive(a formatting.Align) bool { return c.align == a }
func (c *fakeCursor) LineHeight() string { return c.height }
func (c *fakeCursor) LinkHref() string { return c.link }
func (c *fakeCursor) Block() formatting.Block { return c.block }

func (c *fakeCursor) Batch(fn func(formatting.Writer) error) error {
	w := &recorder{}
	if err := fn(w); err != nil {
		return err
	}
	if c.failCommit {
		return errors.New("editor unavailable")
	}
	c.batches = append(c.batches, w.ops)
	return nil
}

type recorder struct{ ops []string }

func (r *recorder) add(format string, args ...any) {
	r.ops = append(r.ops, fmt.Sprintf(format, args...))
}

func (r *recorder) SetMark(m formatting.Mark) { r.add("set %s", m) }
func (r *recorder) UnsetMark(m formatting.Mark) { r.add("unset %s", m) }
func (r *recorder) SetColor(c colors.Hex) { r.add("set color %s", c) }
func (r *recorder) UnsetColor() { r.add("unset color") }
func (r *recorder) SetBackgroundColor(c colors.Hex) { r.add("set background %s", c) }
func (r *recorder) UnsetBackgroundColor() { r.add("unset background") }
func (r *recorder) SetFontSize(size string) { r.add("set font-size %s", size) }
func (r *recorder) UnsetFontSize() { r.add("unset font-size") }
func (r *recorder) SetFontFamily(family string) { r.add("set font-family %s", family) }
func (r *recorder) UnsetFontFamily() { r.add("unset font-family") }
func (r *recorder) SetLink(href string) { r.add("set link %s", href) }
func (r *recorder) UnsetLink() { r.add("unset link") }
func (r *recorder) SetAlign(a formatting.Align) { r.add("set align %s", a) }
func (r *recorder) UnsetAlign() { r.add("unset align") }
func (r *recorder) SetLineHeight(height string) { r.add("set line-height %s", height) }
func (r *recorder) UnsetLineHeight() { r.add("unset line-height") }
func (r *recorder) SetBlock(b formatting.Block) { r.add("set block %s", b) }
func (r *recorder) ClearBlock() { r.add("clear block") }

var clearOps = []string{
	"unset bold", "unset italic", "unset underline",
	"unset color", "unset background", "unset font-size", "unset font-family",
	"unset link", "unset align", "unset line-height",
}

func TestCapture(t *testing.T) {
	c := &fakeCursor{
		selection: true,
		marks:     map[formatting.Mark]bool{formatting.Bold: true, formatting.Underline: true},
		style: formatting.TextStyle{
			Color:           "rgb(255, 0, 0)",
			BackgroundColor: "transparent",
			FontSize:        "14px",
			FontFamily:      "Georgia, serif",
		},
		align:  formatting.AlignCenter,
		height: "1.5",
		link:   "https://example.com",
		block:  formatting.Heading(2),
	}

	got := formatting.Capture(c)
	assert.Equal(t, formatting.Snapshot{
		Bold:       true,
		Underline:  true,
		Color:      "#ff0000",
		FontSize:   "14px",
		FontFamily: "Georgia, serif",
		LineHeight: "1.5",
		Align:      formatting.AlignCenter,
		Link:       "https://example.com",
		Block:      formatting.Heading(2),
	}, got)
	assert.Empty(t, c.batches, "capture must not write")
}

func TestCapture_Nil(t *testing.T) {
	assert.Equal(t, formatting.Snapshot{}, formatting.Capture(nil))
}

func TestApply_ClearsThenSets(t *testing.T) {
	c := &fakeCursor{selection: true, block: formatting.Paragraph()}
	s := formatting.Snapshot{
		Italic:          true,
		Color:           "#112233",
		BackgroundColor: "#ffffff",
		FontSize:        "12px",
		FontFamily:      "Arial",
		Align:           formatting.AlignRight,
		LineHeight:      "2",
		Link:            "https://x",
		Block:           formatting.Heading(1),
	}

	require.True(t, formatting.Apply(c, s))
	require.Len(t, c.batches, 1)

	want := append(append([]string{}, clearOps...), "clear block",
		"set block heading 1",
		"set italic",
		"set color #112233",
		"set background #ffffff",
		"set font-size 12px",
		"set font-family Arial",
		"set align right",
		"set line-height 2",
		"set link https://x",
	)
	assert.Equal(t, want, c.batches[0])
}

func TestApply_EmptySnapshotClearsEverything(t *testing.T) {
	c := &fakeCursor{selection: true, block: formatting.Heading(3)}
	require.True(t, formatting.Apply(c, formatting.Snapshot{}))
	assert.Equal(t, append(append([]string{}, clearOps...), "clear block"), c.batches[0])
}

func TestApply_SameBlockUntouched(t *testing.T) {
	c := &fakeCursor{selection: true, block: formatting.Heading(2)}
	require.True(t, formatting.Apply(c, formatting.Snapshot{Bold: true, Block: formatting.Heading(2)}))
	assert.Equal(t, append(append([]string{}, clearOps...), "set bold"), c.batches[0])
}

func TestApply_NoSelection(t *testing.T) {
	c := &fakeCursor{}
	assert.False(t, formatting.Apply(c, formatting.Snapshot{Bold: true}))
	assert.Empty(t, c.batches)
}

func TestApply_NilCursor(t *testing.T) {
	assert.False(t, formatting.Apply(nil, formatting.Snapshot{Bold: true}))
}

func TestApply_FailedCommit(t *testing.T) {
	c := &fakeCursor{selection: true, failCommit: true}
	assert.False(t, formatting.Apply(c, formatting.Snapshot{Bold: true}))
	assert.Empty(t, c.batches)
}

func TestPainter(t *testing.T) {
	var p formatting.Painter
	c := &fakeCursor{selection: true, marks: map[formatting.Mark]bool{formatting.Bold: true}}

	assert.False(t, p.Paste(c), "nothing held")
	_, held := p.Snapshot()
	assert.False(t, held)

	snap := p.Copy(c)
	assert.True(t, snap.Bold)
	got, held := p.Snapshot()
	assert.True(t, held)
	assert.Equal(t, snap, got)

	assert.True(t, p.Paste(c))
	assert.Len(t, c.batches, 1)

	p.Clear()
	_, held = p.Snapshot()
	assert.False(t, held)
	assert.False(t, p.Paste(c))
}

func TestHeading_Clamped(t *testing.T) {
	assert.Equal(t, 1, formatting.Heading(0).Level)
	assert.Equal(t, formatting.MaxHeadingLevel, formatting.Heading(6).Level)
	assert.Equal(t, "h2", formatting.Heading(2).Tag())
	assert.Equal(t, "p", formatting.Paragraph().Tag())
}

func TestParseAlign(t *testing.T) {
	a, ok := formatting.ParseAlign("justify")
	assert.True(t, ok)
	assert.Equal(t, formatting.AlignJustify, a)

	_, ok = formatting.ParseAlign("middle")
	assert.False(t, ok)
}
