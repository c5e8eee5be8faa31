package sanitize_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/net/html"

	"github.com/gaurav-prasanna/mailpipe/core/sanitize"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "plain text", input: "hello", want: "hello"},
		{name: "javascript href", input: `<a href="javascript:alert(1)">x</a>`, want: `<a>x</a>`},
		{name: "https href", input: `<a href="https://example.com" target="_blank">x</a>`, want: `<a href="https://example.com" target="_blank">x</a>`},
		{name: "uppercase scheme", input: `<a href="  HTTPS://example.com">x</a>`, want: `<a href="HTTPS://example.com">x</a>`},
		{name: "mailto href", input: `<a href="mailto:a@b.c">mail</a>`, want: `<a href="mailto:a@b.c">mail</a>`},
		{name: "relative href", input: `<a href="/path">x</a>`, want: `<a>x</a>`},
		{name: "style filtered", input: `<p style="color:red;display:none;xx:1">t</p>`, want: `<p style="color: red; display: none">t</p>`},
		{name: "style emptied", input: `<p style="position: fixed; top: 0">t</p>`, want: `<p>t</p>`},
		{name: "style value with colon", input: `<p style="font-family: a:b">t</p>`, want: `<p style="font-family: a:b">t</p>`},
		{name: "style missing value", input: `<p style="color:;font-size: 12px">t</p>`, want: `<p style="font-size: 12px">t</p>`},
		{name: "nbsp paragraph removed", input: `<p>&nbsp;</p><p>hi</p>`, want: `<p>hi</p>`},
		{name: "br paragraph removed", input: `<p><br></p><p>hi</p>`, want: `<p>hi</p>`},
		{name: "image paragraph kept", input: `<p><img src="https://x/y.png"></p>`, want: `<p><img src="https://x/y.png"></p>`},
		{name: "nested empty paragraph removed", input: `<div><p><span> </span></p></div>`, want: `<div></div>`},
		{name: "class and handlers dropped", input: `<p class="x" onclick="y()" title="t">a</p>`, want: `<p title="t">a</p>`},
		{name: "unknown attribute dropped", input: `<p data-x="1" align="center">a</p>`, want: `<p align="center">a</p>`},
		{name: "stray cell ignored", input: `<td>a</td>`, want: `a`},
		{name: "script discarded", input: `<p>a</p><script>alert(1)</script>`, want: `<p>a</p>`},
		{name: "style element discarded", input: `<style>p{color:red}</style><p>a</p>`, want: `<p>a</p>`},
		{name: "unknown tag unwrapped", input: `<font color="red"><b>x</b> y</font>`, want: `<b>x</b> y`},
		{name: "unwrapped in place", input: `<p>a<font>b<i>c</i></font>d</p>`, want: `<p>abcd</p>`},
		{name: "javascript src", input: `<img src="javascript:x" alt="a">`, want: `<img alt="a">`},
		{name: "cid src", input: `<img src="cid:logo">`, want: `<img src="cid:logo">`},
		{name: "data image src", input: `<img src="data:image/png;base64,AAAA">`, want: `<img src="data:image/png;base64,AAAA">`},
		{name: "data html src", input: `<img src="data:text/html,x">`, want: `<img>`},
		{name: "comment dropped", input: `<p>a<!-- hidden -->b</p>`, want: `<p>ab</p>`},
		{name: "escaped text", input: `<p>&lt;script&gt; &amp;</p>`, want: `<p>&lt;script&gt; &amp;</p>`},
		{name: "attribute escaping", input: `<a title='say "hi" &amp; go'>x</a>`, want: `<a title="say &quot;hi&quot; &amp; go">x</a>`},
		{name: "nbsp preserved", input: `<p>a&nbsp;b</p>`, want: `<p>a&nbsp;b</p>`},
		{name: "uppercase tags", input: `<P STYLE="COLOR: Red">x</P>`, want: `<p style="color: Red">x</p>`},
		{name: "svg unwrapped", input: `<svg><script>alert(1)</script><a href="https://x">y</a></svg>`, want: `<a href="https://x">y</a>`},
		{name: "pre leading newline", input: "<pre>\n\nx</pre>", want: "<pre>\n\nx</pre>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitize.Sanitize(tt.input))
		})
	}
}

// idempotenceCorpus holds markup that the lenient parser reshapes.
var idempotenceCorpus = []string{
	`<p>hello <b>world</b></p>`,
	`<p><div>x</div></p>`,
	`<ul><li>a<li>b</ul>`,
	`<table><caption>cap</caption><tr><td>x</td></tr></table>`,
	`<table><form><tr><td>x</td></tr></form></table>`,
	`<b><p>bold</b> tail</p>`,
	`<a href="https://x"><div><a href="https://y">inner</a></div></a>`,
	`<p>a<font>b<p>c`,
	`<h1><h2>x</h2></h1>`,
	`<math><mtext><table><mglyph><style><img src=x onerror=alert(1)>`,
	`<noscript><p title="</noscript><img src=x onerror=alert(1)>">`,
	"   ",
	`<pre>` + "\n" + `x</pre>`,
	`<p>&nbsp;</p>`,
	`<select><option>a</option></select><p>b</p>`,
}

func TestSanitize_Idempotent(t *testing.T) {
	for _, in := range idempotenceCorpus {
		once := sanitize.Sanitize(in)
		assert.Equal(t, once, sanitize.Sanitize(once), "input: %q", in)
	}
}

func TestSanitize_Safety(t *testing.T) {
	inputs := append([]string{
		`<img src=x onerror=alert(1)>`,
		`<body onload=alert(1)><p>x</p></body>`,
		`<meta http-equiv="refresh" content="0;url=https://evil">`,
		`<div style="background:url(javascript:alert(1))">x</div>`,
		`<a href=" javascript:alert(1)">x</a>`,
		`<a href="jav&#x09;ascript:alert(1)">x</a>`,
		`<svg><a xlink:href="javascript:alert(1)">x</a></svg>`,
		`<iframe src="https://evil"></iframe><object data="x"></object>`,
	}, idempotenceCorpus...)

	for _, in := range inputs {
		out := sanitize.Sanitize(in)
		z := html.NewTokenizer(strings.NewReader(out))
		for {
			tt := z.Next()
			if tt == html.ErrorToken {
				break
			}
			tok := z.Token()
			if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
				continue
			}
			assert.NotContains(t, []string{"script", "style", "meta", "iframe", "object"}, tok.Data, "input: %q", in)
			assert.True(t, sanitize.DefaultAllowList().AllowsTag(tok.Data), "tag %q from %q", tok.Data, in)
			for _, a := range tok.Attr {
				assert.False(t, strings.HasPrefix(a.Key, "on"), "attribute %q from %q", a.Key, in)
				assert.True(t, sanitize.DefaultAllowList().AllowsAttr(a.Key), "attribute %q from %q", a.Key, in)
				if a.Key == "href" {
					assert.True(t, sanitize.DefaultAllowList().SafeHref(a.Val), "href %q from %q", a.Val, in)
				}
				if a.Key == "src" {
					assert.True(t, sanitize.DefaultAllowList().SafeSrc(a.Val), "src %q from %q", a.Val, in)
				}
			}
		}
	}
}

func TestSanitize_DeepNesting(t *testing.T) {
	const depth = 5000
	in := strings.Repeat("<section>", depth) + "deep" + strings.Repeat("</section>", depth)
	assert.Equal(t, "deep", sanitize.Sanitize(in))

	in = strings.Repeat("<section>", depth) +
		`<p><strong>deep</strong><script>x()</script></p>` +
		strings.Repeat("</section>", depth)
	assert.Equal(t, "<p><strong>deep</strong></p>", sanitize.Sanitize(in))
}

func TestSanitize_DeepAllowedNesting(t *testing.T) {
	const depth = 600
	in := strings.Repeat("<div>", depth) + "x" + strings.Repeat("</div>", depth)

	out := sanitize.Sanitize(in)
	require.NotEmpty(t, out)
	assert.Contains(t, out, ">x<")
	assert.Less(t, strings.Count(out, "<div>"), depth)
	assert.Equal(t, strings.Count(out, "<div>"), strings.Count(out, "</div>"))
	assert.Equal(t, out, sanitize.Sanitize(out))
}

func TestSanitizePaste_MatchesSanitize(t *testing.T) {
	for _, in := range idempotenceCorpus {
		assert.Equal(t, sanitize.Sanitize(in), sanitize.SanitizePaste(in))
	}
}

func TestNew_CustomAllowList(t *testing.T) {
	cfg := sanitize.DefaultConfig()
	cfg.Tags = []string{"p"}
	cfg.Attributes = nil
	cfg.Styles = nil

	s := sanitize.New(sanitize.NewAllowList(cfg), zaptest.NewLogger(t))
	assert.Equal(t, "<p>ab</p>", s.Sanitize(`<p style="color: red"><b>a</b>b</p>`))
	assert.Same(t, s.AllowList(), s.AllowList())
}

func TestParseStyle(t *testing.T) {
	decls := sanitize.ParseStyle(" Color : Red ;; background-image: url(https://x/y.png); broken ; :x")
	require.Len(t, decls, 2)
	assert.Equal(t, sanitize.Declaration{Property: "color", Value: "Red"}, decls[0])
	assert.Equal(t, sanitize.Declaration{Property: "background-image", Value: "url(https://x/y.png)"}, decls[1])
	assert.Equal(t, "color: Red; background-image: url(https://x/y.png)", sanitize.FormatStyle(decls))
}

func TestAllowList_URLSchemes(t *testing.T) {
	assert.Equal(t, []string{"http", "https", "mailto", "cid", "data"}, sanitize.DefaultAllowList().URLSchemes())
}

func TestGuardPolicy(t *testing.T) {
	p := sanitize.GuardPolicy(nil)

	out := p.Sanitize(`<p style="color: red">a</p><script>alert(1)</script><img src="cid:logo" alt="l">`)
	assert.NotContains(t, out, "<script")
	assert.Contains(t, out, "color: red")
	assert.Contains(t, out, `src="cid:logo"`)

	out = p.Sanitize(`<a href="javascript:alert(1)">x</a>`)
	assert.NotContains(t, out, "javascript")
}

func BenchmarkSanitize(b *testing.B) {
	doc := strings.Repeat(`<div class="row"><p style="color:#333;position:absolute">Hello <b>world</b> `+
		`<a href="https://example.com" onclick="x()">link</a><font>unwrapped</font></p>`+
		`<p>&nbsp;</p><script>alert(1)</script></div>`, 200)

	b.ReportAllocs()
	b.SetBytes(int64(len(doc)))
	for b.Loop() {
		sanitize.Sanitize(doc)
	}
}
