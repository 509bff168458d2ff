package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveLink(t *testing.T) {
	base := "https://a.com/dir/page.html"
	tests := []struct {
		raw  string
		want string
	}{
		{"https://b.com/x", "https://b.com/x"},
		{"other.html", "https://a.com/dir/other.html"},
		{"/root", "https://a.com/root"},
		{"//c.com/p", "https://c.com/p"},
		{"https://b.com/x#frag", "https://b.com/x"},
		{"  https://b.com/y  ", "https://b.com/y"},
		{"#top", ""},
		{"", ""},
		{"mailto:me@a.com", ""},
		{"javascript:void(0)", ""},
		{"ftp://a.com/file", ""},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveLink(base, tt.raw))
		})
	}
}

const page = `<!doctype html>
<html><head><title>
  Hello   World
</title></head>
<body>
<a href="https://b.com/one">one</a>
<p>text <a href="/two">two</a></p>
<a name="anchor-without-href">x</a>
<a href="mailto:x@a.com">mail</a>
<a href="https://b.com/one">one again</a>
<script>var s = '<a href="https://evil.com/">';</script>
</body></html>`

func TestParse(t *testing.T) {
	p := Parse("https://a.com/index.html", []byte(page))

	assert.Equal(t, "Hello World", p.Title)
	assert.Equal(t, []string{
		"https://b.com/one",
		"https://a.com/two",
		"https://b.com/one",
	}, p.Links)
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "", Title([]byte("<html><body>no title</body></html>")))

	long := "<title>" + strings.Repeat("x", 500) + "</title>"
	assert.Len(t, Title([]byte(long)), maxTitle)
}

func TestLinks_Garbage(t *testing.T) {
	assert.Empty(t, Links("https://a.com/", []byte("\x00\x01 not html")))
}
