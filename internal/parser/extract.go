// internal/parser/extract.go
package parser

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const maxTitle = 200

// Title returns the trimmed <title> text, or "" if the document has none.
func Title(htmlBody []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(htmlBody))
	if err != nil {
		return ""
	}
	title := strings.Join(strings.Fields(doc.Find("title").First().Text()), " ")
	if len(title) > maxTitle {
		title = title[:maxTitle]
	}
	return title
}
