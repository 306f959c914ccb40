package parser

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/dgallion1/regsplit/internal/provision"
)

// MarkdownParser handles Markdown editions using goldmark. Headings,
// paragraphs, table cells, code blocks and ordered list items each become one
// fragment; the first level-1 heading is the title.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*provision.Source, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read markdown: %w", err)
	}

	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	doc := md.Parser().Parse(text.NewReader(src))

	out := &provision.Source{Title: stem(filename)}
	titleSet := false

	err = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			t := inlineText(node, src)
			if node.Level == 1 && !titleSet && t != "" {
				out.Title = t
				titleSet = true
			}
			out.Fragments = appendFragment(out.Fragments, t)
			return ast.WalkSkipChildren, nil
		case *ast.ListItem:
			// Ordered items keep their number: "1. text" is a paragraph cue.
			list, ok := node.Parent().(*ast.List)
			if !ok || !list.IsOrdered() {
				return ast.WalkContinue, nil
			}
			idx := 0
			for s := node.PreviousSibling(); s != nil; s = s.PreviousSibling() {
				idx++
			}
			var parts []string
			for c := node.FirstChild(); c != nil; c = c.NextSibling() {
				if t := inlineText(c, src); t != "" {
					parts = append(parts, t)
				}
			}
			item := fmt.Sprintf("%d%c %s", list.Start+idx, list.Marker, strings.Join(parts, " "))
			out.Fragments = appendFragment(out.Fragments, item)
			return ast.WalkSkipChildren, nil
		case *ast.Paragraph, *ast.TextBlock, *east.TableCell:
			out.Fragments = appendFragment(out.Fragments, inlineText(node, src))
			return ast.WalkSkipChildren, nil
		case *ast.CodeBlock, *ast.FencedCodeBlock:
			out.Fragments = appendFragment(out.Fragments, blockLines(node, src))
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk markdown: %w", err)
	}
	return out, nil
}

// inlineText gets the text of a block's inline children.
func inlineText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	var collect func(ast.Node)
	collect = func(n ast.Node) {
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			switch t := c.(type) {
			case *ast.Text:
				buf.Write(t.Segment.Value(src))
				if t.HardLineBreak() || t.SoftLineBreak() {
					buf.WriteByte(' ')
				}
			case *ast.String:
				buf.Write(t.Value)
			default:
				collect(c)
			}
		}
	}
	collect(n)
	return strings.TrimSpace(buf.String())
}

func blockLines(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.Write(line.Value(src))
	}
	return strings.TrimSpace(buf.String())
}
