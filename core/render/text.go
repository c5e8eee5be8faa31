package render

import (
	"github.com/gaurav-prasanna/mailpipe/core"
)

// TextRenderer writes the plain-text alternative as-is. It's the simplest
// renderer since the normalizer already produced the final text.
type TextRenderer struct{}

// NewTextRenderer creates a TextRenderer.
func NewTextRenderer() *TextRenderer {
	return &TextRenderer{}
}

// Render returns the text part as bytes (passthrough).
func (r *TextRenderer) Render(msg core.Message) ([]byte, error) {
	if msg.Text == "" {
		return nil, nil
	}
	return []byte(msg.Text + "\n"), nil
}

// Extension returns the file extension for text output.
func (r *TextRenderer) Extension() string {
	return ".txt"
}
