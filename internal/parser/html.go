package parser

import (
	"bytes"

	"golang.org/x/net/html"
)

// Page is what the crawler needs from a fetched document.
type Page struct {
	Title string
	Links []string
}

// Parse extracts the title and every anchor target of content, resolved
// against currURL. Repeated anchors are kept: each one is a separate
// reference to its target.
func Parse(currURL string, content []byte) Page {
	return Page{
		Title: Title(content),
		Links: Links(currURL, content),
	}
}

// Links walks the token stream and returns absolute <a href> targets in
// document order.
func Links(currURL string, content []byte) []string {
	z := html.NewTokenizer(bytes.NewReader(content))
	links := make([]string, 0)

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}
		t := z.Token()
		if t.Data != "a" {
			continue
		}
		if href := absoluteHref(t, currURL); href != "" {
			links = append(links, href)
		}
	}
	return links
}

func absoluteHref(tok html.Token, currURL string) string {
	for _, a := range tok.Attr {
		if a.Key == "href" {
			return ResolveLink(currURL, a.Val)
		}
	}
	return ""
}
