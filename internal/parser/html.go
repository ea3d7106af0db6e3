package parser

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// HTMLToText reduces HTML markup to its visible text and returns every
// anchor href alongside it. html.Parse tolerates the malformed markup common
// in phishing mail; if it fails anyway, tags are stripped with a regex so
// the caller still gets usable text.
func HTMLToText(source string) (string, []string) {
	doc, err := html.Parse(strings.NewReader(source))
	if err != nil {
		return tagPattern.ReplaceAllString(source, " "), nil
	}

	var text strings.Builder
	var hrefs []string

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.ElementNode:
			// Script and style contents are never visible text
			if n.Data == "script" || n.Data == "style" {
				return
			}
			if n.Data == "a" {
				for _, attr := range n.Attr {
					if attr.Key == "href" && attr.Val != "" {
						hrefs = append(hrefs, attr.Val)
					}
				}
			}
		case html.TextNode:
			if trimmed := strings.TrimSpace(n.Data); trimmed != "" {
				if text.Len() > 0 {
					text.WriteString(" ")
				}
				text.WriteString(trimmed)
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return text.String(), hrefs
}
