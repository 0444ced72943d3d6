package extract

import (
	"bytes"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/esg-tools/esgest/internal/section"
)

// MarkdownExtractor handles Markdown files using goldmark.
type MarkdownExtractor struct{}

func (e *MarkdownExtractor) Extract(r io.Reader, filename string) (*Result, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	reader := text.NewReader(src)
	doc := md.Parser().Parse(reader)

	title := strings.TrimSuffix(strings.TrimSuffix(filename, ".md"), ".markdown")
	res := &Result{
		Metadata: Metadata{Filename: filename, Title: title},
	}

	// Walk top-level blocks in order. The block index doubles as the
	// position key shared by headers and sections.
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

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		pos++
		switch node := n.(type) {
		case *ast.Heading:
			flush()
			heading := string(node.Text(src))
			res.Headers = append(res.Headers, section.Header{
				Text:     heading,
				Level:    node.Level,
				Position: pos,
			})
			current = &Section{
				Heading:  heading,
				Type:     sectionType(heading),
				Position: pos,
			}
		default:
			t := blockText(n, src)
			if t == "" {
				continue
			}
			if current == nil {
				current = &Section{Type: "observation", Position: pos}
			}
			if current.Content != "" {
				current.Content += "\n\n"
			}
			current.Content += t
		}
	}
	flush()

	return res, nil
}

// sectionType classifies a heading. Interrogative headings mark question
// sections, which downstream consumers weight differently.
func sectionType(heading string) string {
	if strings.HasSuffix(strings.TrimSpace(heading), "?") {
		return "question"
	}
	return "observation"
}

// blockText gets the text content of a goldmark AST node. Inline children
// cover the same source segments as the block's raw lines, so the raw
// lines are only used for nodes without inline content (code blocks).
func blockText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte('\n')
			}
		} else {
			if c.Type() == ast.TypeBlock && buf.Len() > 0 {
				buf.WriteByte('\n')
			}
			buf.WriteString(blockText(c, src))
		}
	}
	if buf.Len() == 0 && n.Type() == ast.TypeBlock {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(src))
		}
	}
	return strings.TrimSpace(buf.String())
}
