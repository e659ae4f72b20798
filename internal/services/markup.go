package services

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var markdown = goldmark.New()

// markdownText flattens a markdown document to one line per heading,
// paragraph line and list item. Code blocks are dropped.
func markdownText(source []byte) string {
	doc := markdown.Parser().Parse(text.NewReader(source))

	var lines []string
	_ = ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node.(type) {
		case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.HTMLBlock:
			return ast.WalkSkipChildren, nil
		case *ast.Heading, *ast.Paragraph, *ast.TextBlock:
			var b strings.Builder
			inlineText(&b, node, source)
			for _, line := range strings.Split(b.String(), "\n") {
				if line = strings.TrimSpace(line); line != "" {
					lines = append(lines, line)
				}
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return strings.Join(lines, "\n")
}

func inlineText(b *strings.Builder, node ast.Node, source []byte) {
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		switch n := child.(type) {
		case *ast.Text:
			b.Write(n.Segment.Value(source))
			if n.SoftLineBreak() || n.HardLineBreak() {
				b.WriteByte('\n')
			}
		case *ast.String:
			b.Write(n.Value)
		default:
			inlineText(b, child, source)
		}
	}
}

// htmlText returns the readable article text of an HTML page.
func htmlText(r io.Reader, name string) (string, error) {
	pageURL, _ := url.Parse("file:///" + url.PathEscape(name))
	article, err := readability.FromReader(r, pageURL)
	if err != nil {
		return "", fmt.Errorf("extract article: %w", err)
	}
	return article.TextContent, nil
}
