package extract_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/gaurav-prasanna/mailpipe/core/extract"
	"github.com/gaurav-prasanna/mailpipe/core/sanitize"
)

func TestImport_Fragment(t *testing.T) {
	imp := extract.New(zaptest.NewLogger(t))

	in := `<p class="lead">Hello</p>`
	got, err := imp.Import(in)
	require.NoError(t, err)
	assert.Equal(t, in, got.Body)
	assert.Empty(t, got.Title)
}

func TestImport_Document(t *testing.T) {
	imp := extract.New(zaptest.NewLogger(t))

	got, err := imp.Import(`<!DOCTYPE html>
<html lang="de">
<head>
  <title> Newsletter </title>
  <style>.lead { color: #ff0000; }</style>
</head>
<body>
  <p class="lead">Hallo</p>
  <script>track()</script>
  <form><input name="q"></form>
</body>
</html>`)
	require.NoError(t, err)

	assert.Equal(t, "Newsletter", got.Title)
	assert.Equal(t, "de", got.Language)
	assert.Contains(t, got.Body, "Hallo")
	assert.Contains(t, got.Body, "#ff0000")
	assert.NotContains(t, got.Body, "<script")
	assert.NotContains(t, got.Body, "<form")
	assert.NotContains(t, got.Body, "<style")

	assert.Equal(t, `<p style="color: #ff0000">Hallo</p>`, sanitize.Sanitize(got.Body))
}

func TestIsDocument(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{`<!doctype html><p>x</p>`, true},
		{`<HTML><body>x</body></HTML>`, true},
		{`<style>p{}</style><p>x</p>`, true},
		{`<p>x</p>`, false},
		{`<p>bodyguard</p>`, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, extract.IsDocument(tt.in), tt.in)
	}
}
