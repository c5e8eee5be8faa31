// Package render provides export renderers for the MailPipe pipeline.
// This file implements the email document renderer: sanitized content
// placed in a fixed, client-safe document skeleton.
package render

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/microcosm-cc/bluemonday"

	"github.com/gaurav-prasanna/mailpipe/core"
	"github.com/gaurav-prasanna/mailpipe/core/colors"
	"github.com/gaurav-prasanna/mailpipe/core/sanitize"
)

// EmailOptions configures the document skeleton. Message metadata wins
// over Lang and Title when present.
type EmailOptions struct {
	Lang       string
	Title      string
	Background string
	// ContentWidth wraps the content in a centered table this many pixels
	// wide. Zero leaves the content full width.
	ContentWidth int
}

// DefaultEmailOptions returns the skeleton defaults.
func DefaultEmailOptions() EmailOptions {
	return EmailOptions{
		Lang:         "en",
		Title:        "Email",
		Background:   "#f4f5f8",
		ContentWidth: 600,
	}
}

var emailTemplate = template.Must(template.New("email").Parse(`<!DOCTYPE html>
<html lang="{{.Lang}}">
  <head>
    <meta http-equiv="Content-Type" content="text/html; charset=utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1.0" />
    <title>{{.Title}}</title>
  </head>
  <body style="margin:0; padding:0; background-color:{{.Background}};">
    <center style="width:100%; background-color:{{.Background}};">
      <table role="presentation" border="0" cellpadding="0" cellspacing="0" width="100%" style="margin:0; padding:24px 0; width:100%;">
        <tr>
          <td align="center">
{{- if .Width}}
            <table role="presentation" border="0" cellpadding="0" cellspacing="0" width="{{.Width}}" style="max-width:{{.Width}}px; width:100%;">
              <tr>
                <td align="left">
{{.Content}}
                </td>
              </tr>
            </table>
{{- else}}
{{.Content}}
{{- end}}
          </td>
        </tr>
      </table>
    </center>
  </body>
</html>
`))

type emailView struct {
	Lang       string
	Title      string
	Background string
	Width      int
	Content    template.HTML
}

// EmailRenderer produces a complete HTML email document.
type EmailRenderer struct {
	opts  EmailOptions
	guard *bluemonday.Policy
}

// NewEmailRenderer creates an EmailRenderer. Content is passed through the
// guard policy built from allow (nil means the default allow-list).
func NewEmailRenderer(opts EmailOptions, allow *sanitize.AllowList) *EmailRenderer {
	def := DefaultEmailOptions()
	if opts.Lang == "" {
		opts.Lang = def.Lang
	}
	if opts.Title == "" {
		opts.Title = def.Title
	}
	if hex, ok := colors.Normalize(opts.Background); ok {
		opts.Background = hex.String()
	} else {
		opts.Background = def.Background
	}
	if opts.ContentWidth < 0 {
		opts.ContentWidth = 0
	}
	return &EmailRenderer{opts: opts, guard: sanitize.GuardPolicy(allow)}
}

// Render wraps the message content in the email skeleton.
func (r *EmailRenderer) Render(msg core.Message) ([]byte, error) {
	view := emailView{
		Lang:       firstNonEmpty(msg.Metadata.Language, r.opts.Lang),
		Title:      firstNonEmpty(msg.Metadata.Title, r.opts.Title),
		Background: r.opts.Background,
		Width:      r.opts.ContentWidth,
		// The guard policy output is safe to embed as is.
		Content: template.HTML(r.guard.Sanitize(msg.HTML)),
	}

	var buf bytes.Buffer
	if err := emailTemplate.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("executing email template: %w", err)
	}
	return buf.Bytes(), nil
}

// Extension returns the file extension for email documents.
func (r *EmailRenderer) Extension() string {
	return ".html"
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
