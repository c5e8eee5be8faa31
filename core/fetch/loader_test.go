package fetch_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/gaurav-prasanna/mailpipe/core/fetch"
)

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "welcome.html")
	require.NoError(t, os.WriteFile(path, []byte("<p>hi</p>"), 0o644))

	src, err := fetch.New(0, zaptest.NewLogger(t)).Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, path, src.Location)
	assert.Equal(t, "<p>hi</p>", src.HTML)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := fetch.New(0, nil).Load(context.Background(), filepath.Join(t.TempDir(), "nope.html"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_Stdin(t *testing.T) {
	l := fetch.New(0, nil)
	l.SetStdin(strings.NewReader("<p>piped</p>"))

	src, err := l.Load(context.Background(), fetch.Stdin)
	require.NoError(t, err)
	assert.Equal(t, "<p>piped</p>", src.HTML)
}

func TestLoad_URL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		assert.Contains(t, r.Header.Get("User-Agent"), "MailPipe")
		_, _ = w.Write([]byte("<p>remote</p>"))
	}))
	defer srv.Close()

	l := fetch.New(0, zaptest.NewLogger(t))

	src, err := l.Load(context.Background(), srv.URL+"/letter")
	require.NoError(t, err)
	assert.Equal(t, "<p>remote</p>", src.HTML)

	_, err = l.Load(context.Background(), srv.URL+"/missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 404")
}

func TestIsURL(t *testing.T) {
	assert.True(t, fetch.IsURL("https://example.com/a.html"))
	assert.True(t, fetch.IsURL("http://example.com"))
	assert.False(t, fetch.IsURL("ftp://example.com/a.html"))
	assert.False(t, fetch.IsURL("letters/a.html"))
	assert.False(t, fetch.IsURL("-"))
}
