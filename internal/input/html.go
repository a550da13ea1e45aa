package input

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// blockElements end a line of lyrics
var blockElements = map[string]bool{
	"br": true, "p": true, "div": true, "li": true, "tr": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"pre": true, "blockquote": true, "section": true, "article": true,
	"ul": true, "ol": true, "table": true, "hr": true,
}

// ExtractText returns the visible text of an HTML document, one line per
// <br> or block element. Script, style and similar content is skipped.
func ExtractText(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", err
	}

	var (
		lines   []string
		current strings.Builder
		spaced  bool
	)

	flush := func() {
		line := strings.TrimSpace(current.String())
		if line != "" {
			lines = append(lines, line)
		}
		current.Reset()
		spaced = false
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe", "head", "template":
				return
			}
			if blockElements[n.Data] {
				flush()
				defer flush()
			}
		}

		if n.Type == html.TextNode {
			if startsWithSpace(n.Data) {
				spaced = true
			}
			text := strings.Join(strings.Fields(n.Data), " ")
			if text != "" {
				if spaced && current.Len() > 0 {
					current.WriteString(" ")
				}
				current.WriteString(text)
				spaced = endsWithSpace(n.Data)
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(doc)
	flush()

	return strings.Join(lines, "\n"), nil
}

func startsWithSpace(s string) bool {
	return s != "" && strings.TrimLeft(s, " \t\r\n\f") != s
}

func endsWithSpace(s string) bool {
	return s != "" && strings.TrimRight(s, " \t\r\n\f") != s
}
