package parser

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// HTMLParser handles HTML files. Block elements and <br> end a line; the
// <title> element, when present, names the source.
type HTMLParser struct{}

var htmlBlocks = map[string]bool{
	"p": true, "div": true, "li": true, "blockquote": true, "pre": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"tr": true, "section": true, "article": true, "hr": true,
}

func (p *HTMLParser) Parse(r io.Reader, filename string) (*Source, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	src := &Source{Title: baseTitle(filename)}
	if title := findTitle(doc); title != "" {
		src.Title = title
	}

	var cur strings.Builder
	flush := func() {
		src.Lines = appendLine(src.Lines, strings.TrimSpace(cur.String()))
		cur.Reset()
	}

	var walk func(*html.Node, bool)
	walk = func(n *html.Node, pre bool) {
		switch n.Type {
		case html.TextNode:
			if pre {
				parts := strings.Split(n.Data, "\n")
				for i, part := range parts {
					if i > 0 {
						flush()
					}
					cur.WriteString(part)
				}
				return
			}
			cur.WriteString(collapseSpace(n.Data))
			return
		case html.ElementNode:
			switch n.Data {
			case "script", "style", "head", "nav", "template":
				return
			case "br":
				flush()
				return
			}
		}

		block := n.Type == html.ElementNode && htmlBlocks[n.Data]
		if block {
			flush()
		}
		inPre := pre || (n.Type == html.ElementNode && n.Data == "pre")
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, inPre)
		}
		if block {
			flush()
		}
	}

	// Find <body> or use whole document.
	if body := findBody(doc); body != nil {
		walk(body, false)
	} else {
		walk(doc, false)
	}
	flush()
	src.Lines = trimTrailingBlank(src.Lines)
	return src, nil
}

// collapseSpace folds whitespace runs to one space, as a browser would.
func collapseSpace(s string) string {
	var b strings.Builder
	space := false
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r', '\f':
			if !space {
				b.WriteByte(' ')
			}
			space = true
		default:
			b.WriteRune(r)
			space = false
		}
	}
	return b.String()
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(collapseSpace(buf.String()))
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		return textContent(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
