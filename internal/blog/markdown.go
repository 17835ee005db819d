package blog

import (
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// headingDemotion maps each heading level to the one below it. h6 stays.
var headingDemotion = map[atom.Atom]atom.Atom{
	atom.H1: atom.H2,
	atom.H2: atom.H3,
	atom.H3: atom.H4,
	atom.H4: atom.H5,
	atom.H5: atom.H6,
}

// ToMarkdown converts a post's HTML content to Markdown for export.
// The post title becomes the only top-level heading; the article's own
// headings move down one level beneath it.
func ToMarkdown(title, content string) (string, error) {
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("parse post content: %w", err)
	}
	demoteHeadings(doc)

	body, err := htmltomarkdown.ConvertNode(doc)
	if err != nil {
		return "", fmt.Errorf("convert post to markdown: %w", err)
	}
	return "# " + title + "\n\n" + strings.TrimSpace(string(body)) + "\n", nil
}

func demoteHeadings(n *html.Node) {
	if n.Type == html.ElementNode {
		if to, ok := headingDemotion[n.DataAtom]; ok {
			n.DataAtom = to
			n.Data = to.String()
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		demoteHeadings(c)
	}
}
