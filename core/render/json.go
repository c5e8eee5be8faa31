package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/gaurav-prasanna/mailpipe/core"
)

// JSONRenderer produces structured JSON output from a message: metadata,
// sanitized HTML, plain text and the links found in the content.
type JSONRenderer struct{}

// NewJSONRenderer creates a JSONRenderer.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{}
}

// Render converts the message into the JSON structure.
func (r *JSONRenderer) Render(msg core.Message) ([]byte, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(msg.HTML))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	out := core.MessageJSON{
		Metadata: msg.Metadata,
		HTML:     msg.HTML,
		Text:     msg.Text,
		Links:    extractLinks(doc),
		Images:   doc.Find("img").Length(),
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling JSON: %w", err)
	}
	return data, nil
}

// Extension returns the file extension for JSON output.
func (r *JSONRenderer) Extension() string {
	return ".json"
}

func extractLinks(doc *goquery.Document) []core.Link {
	links := make([]core.Link, 0)
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		links = append(links, core.Link{
			Text: strings.Join(strings.Fields(s.Text()), " "),
			Href: href,
		})
	})
	return links
}
