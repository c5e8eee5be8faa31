// Package core defines the import and export interfaces for MailPipe.
// Each stage around the markup pipeline is a small, testable interface.
package core

import "context"

// Source holds raw markup read by a Loader.
type Source struct {
	Location string
	HTML     string
}

// Imported is the email body taken out of raw markup, with whatever
// document metadata was found alongside it.
type Imported struct {
	Body     string
	Title    string
	Language string
}

// Metadata describes an exported message.
type Metadata struct {
	Source     string `json:"source"`
	Title      string `json:"title"`
	Language   string `json:"language"`
	ExportedAt string `json:"exported_at"` // ISO8601
}

// Link represents a hyperlink found in the content.
type Link struct {
	Text string `json:"text"`
	Href string `json:"href"`
}

// Message is sanitized content ready for export.
type Message struct {
	Metadata Metadata
	// HTML is always the sanitizer's output.
	HTML string
	// Text is the plain-text alternative.
	Text string
}

// MessageJSON is the complete JSON output for a single message.
type MessageJSON struct {
	Metadata Metadata `json:"metadata"`
	HTML     string   `json:"html"`
	Text     string   `json:"text"`
	Links    []Link   `json:"links"`
	Images   int      `json:"images"`
}

// Loader reads raw markup from a file, stdin or a URL.
type Loader interface {
	Load(ctx context.Context, location string) (*Source, error)
}

// Importer pulls the email body out of raw markup.
type Importer interface {
	Import(html string) (*Imported, error)
}

// Normalizer converts sanitized HTML into the plain-text alternative.
type Normalizer interface {
	Normalize(html string) (string, error)
}

// Renderer converts a message into a final output format.
type Renderer interface {
	Render(msg Message) ([]byte, error)
	// Extension returns the file extension for this renderer (e.g. ".html", ".pdf").
	Extension() string
}
