package textutil

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PlainText strips HTML markup, dropping script and style bodies. Text
// without markup is returned unchanged; unparsable input is returned as-is.
func PlainText(content string) string {
	if !strings.Contains(content, "<") || !strings.Contains(content, ">") {
		return content
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return content
	}
	doc.Find("script, style, noscript").Remove()

	var parts []string
	doc.Find("*").Contents().Each(func(_ int, s *goquery.Selection) {
		if goquery.NodeName(s) != "#text" {
			return
		}
		if text := strings.TrimSpace(s.Text()); text != "" {
			parts = append(parts, text)
		}
	})

	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}
