package extract

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/esg-tools/esgest/internal/section"
)

// HTMLExtractor handles HTML files.
type HTMLExtractor struct{}

func (e *HTMLExtractor) Extract(r io.Reader, filename string) (*Result, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	res := &Result{
		Metadata: Metadata{
			Filename: filename,
			Title:    strings.TrimSuffix(strings.TrimSuffix(filename, ".html"), ".htm"),
		},
	}
	if title := findTitle(doc); title != "" {
		res.Metadata.Title = title
	}
	if lang := findLang(doc); lang != "" {
		res.Metadata.Language = lang
	}

	var (
		current *Section
		pos     int
	)
	flush := func() {
		if current != nil && strings.TrimSpace(current.Content) != "" {
			current.Content = strings.TrimSpace(current.Content)
			res.Sections = append(res.Sections, *current)
		}
		current = nil
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if level := headingLevel(n.Data); level > 0 {
				pos++
				flush()
				heading := textContent(n)
				res.Headers = append(res.Headers, section.Header{
					Text:     heading,
					Level:    level,
					Position: pos,
				})
				current = &Section{
					Heading:  heading,
					Type:     sectionType(heading),
					Position: pos,
				}
				return // Heading text already extracted.
			}

			switch n.Data {
			case "script", "style", "nav", "footer", "header":
				return
			case "p", "li", "td", "blockquote":
				pos++
				t := textContent(n)
				if t != "" {
					if current == nil {
						current = &Section{Type: "observation", Position: pos}
					}
					if current.Content != "" {
						current.Content += "\n\n"
					}
					current.Content += t
				}
				return
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	if body := findBody(doc); body != nil {
		walk(body)
	} else {
		walk(doc)
	}
	flush()

	return res, nil
}

func headingLevel(tag string) int {
	switch tag {
	case "h1":
		return 1
	case "h2":
		return 2
	case "h3":
		return 3
	case "h4":
		return 4
	case "h5":
		return 5
	case "h6":
		return 6
	}
	return 0
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
	return strings.TrimSpace(buf.String())
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

func findLang(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "html" {
		for _, a := range n.Attr {
			if a.Key == "lang" {
				return a.Val
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if l := findLang(c); l != "" {
			return l
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
