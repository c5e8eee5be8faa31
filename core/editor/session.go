// Package editor wires the markup pipeline around an editing document.
// Every way markup can enter the document (initial content, paste, edited
// source) goes through the sanitizer, and the only content ever handed out
// is sanitized HTML.
package editor

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/gaurav-prasanna/mailpipe/core/document"
	"github.com/gaurav-prasanna/mailpipe/core/formatting"
	"github.com/gaurav-prasanna/mailpipe/core/pretty"
	"github.com/gaurav-prasanna/mailpipe/core/sanitize"
)

// Session is one open email. It is not safe for concurrent use.
type Session struct {
	doc      *document.Document
	san      *sanitize.Sanitizer
	painter  formatting.Painter
	html     string
	onUpdate []func(html string)
	log      *zap.Logger
}

// New creates an empty session. A nil sanitizer uses the default
// allow-list.
func New(san *sanitize.Sanitizer, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	if san == nil {
		san = sanitize.New(nil, log)
	}

	s := &Session{
		doc: document.New(log),
		san: san,
		log: log.Named("session"),
	}
	s.doc.OnChange(s.sync)
	return s
}

// Document returns the editing document, for selection and undo.
func (s *Session) Document() *document.Document {
	return s.doc
}

// SetContent loads html as the new content and resets history.
func (s *Session) SetContent(html string) error {
	if err := s.doc.Load(s.san.Sanitize(html)); err != nil {
		return fmt.Errorf("setting content: %w", err)
	}
	return nil
}

// Paste inserts a pasted payload after the selection.
func (s *Session) Paste(html string) error {
	clean := s.san.SanitizePaste(html)
	if clean == "" {
		s.log.Debug("Pasted content was empty after sanitizing", zap.Int("bytes", len(html)))
		return nil
	}
	if err := s.doc.InsertHTML(clean); err != nil {
		return fmt.Errorf("pasting: %w", err)
	}
	return nil
}

// HTML returns the sanitized content. This is the only representation
// meant to be stored or sent.
func (s *Session) HTML() string {
	return s.html
}

// Source returns the content formatted for the source view.
func (s *Session) Source() string {
	return pretty.Format(s.html)
}

// ApplySource replaces the content with a hand-edited draft. The draft is
// sanitized first; the returned source is the formatted result, which may
// differ from the draft when markup was removed.
func (s *Session) ApplySource(draft string) (string, error) {
	if err := s.doc.Replace(s.san.Sanitize(draft)); err != nil {
		return "", fmt.Errorf("applying source: %w", err)
	}
	return s.Source(), nil
}

// CopyFormatting captures the formatting at the selection. It reports false,
// and keeps any previous snapshot, when nothing is selected.
func (s *Session) CopyFormatting() (formatting.Snapshot, bool) {
	if !s.doc.HasSelection() {
		return formatting.Snapshot{}, false
	}
	return s.painter.Copy(s.doc), true
}

// ApplyFormatting applies the copied formatting to the selection as one
// undo step. It reports whether anything was applied.
func (s *Session) ApplyFormatting() bool {
	return s.painter.Paste(s.doc)
}

// ClearFormatting forgets the copied formatting.
func (s *Session) ClearFormatting() {
	s.painter.Clear()
}

// CopiedFormatting returns the held snapshot, if any.
func (s *Session) CopiedFormatting() (formatting.Snapshot, bool) {
	return s.painter.Snapshot()
}

// OnUpdate registers fn to receive the sanitized content after every
// change.
func (s *Session) OnUpdate(fn func(html string)) {
	s.onUpdate = append(s.onUpdate, fn)
}

func (s *Session) sync() {
	s.html = s.san.Sanitize(s.doc.HTML())
	for _, fn := range s.onUpdate {
		fn(s.html)
	}
}
