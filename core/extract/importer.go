// Package extract implements the Importer interface.
// Full HTML documents (as exported by other mail tools) carry their
// styling in <style> sheets, which email clients and the sanitizer both
// drop. The importer:
//  1. Inlines stylesheet rules into style attributes with premailer
//  2. Removes noise elements that never belong in an email body
//  3. Returns the <body> inner HTML with the document title and language
//
// Fragments pass through untouched.
package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/vanng822/go-premailer/premailer"
	"go.uber.org/zap"

	"github.com/gaurav-prasanna/mailpipe/core"
)

// documentMarker matches markup that only appears in full documents.
var documentMarker = regexp.MustCompile(`(?i)<(?:!doctype|html|head|body|style)[\s>]`)

// noiseSelectors are removed from the body after styles are inlined.
var noiseSelectors = []string{
	"script", "style", "noscript", "template",
	"link", "meta", "base",
	"iframe", "object", "embed",
	"form", "button", "input", "select", "textarea",
}

// DocumentImporter turns full documents into email body fragments.
type DocumentImporter struct {
	opts *premailer.Options
	log  *zap.Logger
}

// New creates a DocumentImporter.
func New(log *zap.Logger) *DocumentImporter {
	if log == nil {
		log = zap.NewNop()
	}
	opts := premailer.NewOptions()
	opts.RemoveClasses = true
	opts.CssToAttributes = false
	return &DocumentImporter{opts: opts, log: log.Named("extract")}
}

// IsDocument reports whether html looks like a full document rather than
// a fragment.
func IsDocument(html string) bool {
	return documentMarker.MatchString(html)
}

// Import returns the email body of html.
func (i *DocumentImporter) Import(html string) (*core.Imported, error) {
	if !IsDocument(html) {
		return &core.Imported{Body: html}, nil
	}

	prem, err := premailer.NewPremailerFromString(html, i.opts)
	if err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}
	inlined, err := prem.Transform()
	if err != nil {
		return nil, fmt.Errorf("inlining styles: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(inlined))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	body := doc.Find("body").First()
	if body.Length() == 0 {
		return nil, fmt.Errorf("no body found in document")
	}
	for _, sel := range noiseSelectors {
		body.Find(sel).Remove()
	}

	content, err := body.Html()
	if err != nil {
		return nil, fmt.Errorf("serializing body: %w", err)
	}

	lang, _ := doc.Find("html").Attr("lang")
	imported := &core.Imported{
		Body:     strings.TrimSpace(content),
		Title:    strings.TrimSpace(doc.Find("head title").First().Text()),
		Language: strings.TrimSpace(lang),
	}
	i.log.Debug("Imported document",
		zap.String("title", imported.Title),
		zap.Int("in", len(html)),
		zap.Int("out", len(imported.Body)))
	return imported, nil
}
