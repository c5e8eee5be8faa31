package render_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/mailpipe/core"
	"github.com/gaurav-prasanna/mailpipe/core/render"
)

func message() core.Message {
	return core.Message{
		Metadata: core.Metadata{
			Source:     "letters/welcome.html",
			Title:      "Welcome",
			ExportedAt: "2026-01-02T03:04:05Z",
		},
		HTML: `<h1>Hi</h1><p>Read <a href="https://example.com/a" target="_blank" rel="noopener noreferrer">the  news</a></p><p><img src="https://example.com/i.png" alt="logo"></p>`,
		Text: "# Hi\n\nRead [the news](https://example.com/a)\n\n- one\n- two",
	}
}

func TestEmailRenderer(t *testing.T) {
	r := render.NewEmailRenderer(render.DefaultEmailOptions(), nil)
	assert.Equal(t, ".html", r.Extension())

	out, err := r.Render(message())
	require.NoError(t, err)
	doc := string(out)

	assert.True(t, strings.HasPrefix(doc, "<!DOCTYPE html>\n"))
	assert.Contains(t, doc, `<html lang="en">`)
	assert.Contains(t, doc, `<meta http-equiv="Content-Type" content="text/html; charset=utf-8" />`)
	assert.Contains(t, doc, `<meta name="viewport" content="width=device-width, initial-scale=1.0" />`)
	assert.Contains(t, doc, `<title>Welcome</title>`)
	assert.Contains(t, doc, `background-color:#f4f5f8;`)
	assert.Contains(t, doc, `<table role="presentation"`)
	assert.Contains(t, doc, `width="600"`)
	assert.Contains(t, doc, `<h1>Hi</h1>`)
	assert.Contains(t, doc, `href="https://example.com/a"`)
}

func TestEmailRenderer_Options(t *testing.T) {
	r := render.NewEmailRenderer(render.EmailOptions{
		Lang:       "ru",
		Title:      "Fallback",
		Background: "rgb(255, 255, 255)",
	}, nil)

	msg := message()
	msg.Metadata.Title = "a < b"
	out, err := r.Render(msg)
	require.NoError(t, err)
	doc := string(out)

	assert.Contains(t, doc, `<html lang="ru">`)
	assert.Contains(t, doc, `<title>a &lt; b</title>`)
	assert.Contains(t, doc, `background-color:#ffffff;`)
	assert.NotContains(t, doc, "max-width", "no inner table without a content width")
}

func TestEmailRenderer_Guard(t *testing.T) {
	r := render.NewEmailRenderer(render.DefaultEmailOptions(), nil)

	out, err := r.Render(core.Message{
		HTML: `<p onclick="x()">ok</p><script>alert(1)</script><a href="javascript:alert(1)">bad</a>`,
	})
	require.NoError(t, err)
	doc := string(out)

	assert.Contains(t, doc, "<p>ok</p>")
	assert.NotContains(t, doc, "<script")
	assert.NotContains(t, doc, "onclick")
	assert.NotContains(t, doc, "javascript:")
	assert.Contains(t, doc, "<title>Email</title>")
}

func TestTextRenderer(t *testing.T) {
	r := render.NewTextRenderer()
	assert.Equal(t, ".txt", r.Extension())

	out, err := r.Render(message())
	require.NoError(t, err)
	assert.Equal(t, message().Text+"\n", string(out))

	out, err = r.Render(core.Message{})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestJSONRenderer(t *testing.T) {
	r := render.NewJSONRenderer()
	assert.Equal(t, ".json", r.Extension())

	out, err := r.Render(message())
	require.NoError(t, err)

	var got core.MessageJSON
	require.NoError(t, json.Unmarshal(out, &got))
	assert.Equal(t, message().Metadata, got.Metadata)
	assert.Equal(t, message().HTML, got.HTML)
	assert.Equal(t, message().Text, got.Text)
	assert.Equal(t, []core.Link{{Text: "the news", Href: "https://example.com/a"}}, got.Links)
	assert.Equal(t, 1, got.Images)
}

func TestJSONRenderer_NoLinks(t *testing.T) {
	out, err := render.NewJSONRenderer().Render(core.Message{HTML: "<p>x</p>"})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"links": []`)
}

func TestPDFRenderer(t *testing.T) {
	r := render.NewPDFRenderer("#336699")
	assert.Equal(t, ".pdf", r.Extension())

	out, err := r.Render(message())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "%PDF-"))

	out, err = render.NewPDFRenderer("not a color").Render(core.Message{Text: "plain"})
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}
