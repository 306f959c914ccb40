package parser

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/dgallion1/regsplit/internal/provision"
)

// HTMLParser emits one fragment per innermost text-bearing block. Containers
// such as tables, lists and wrapper divs are walked, never emitted, so no text
// appears twice.
type HTMLParser struct {
	// Selector, when set, limits the scan to the matching elements
	// (e.g. "#docHtml" on EUR-Lex pages).
	Selector string
}

// Non-content elements.
var skipTags = map[string]bool{
	"script": true, "style": true, "nav": true, "footer": true, "header": true,
	"noscript": true, "head": true, "template": true,
}

// Elements that may be emitted as a fragment when nothing block-level sits
// inside them.
var leafTags = map[string]bool{
	"p": true, "li": true, "td": true, "th": true, "dt": true, "dd": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"blockquote": true, "caption": true, "figcaption": true, "pre": true,
	"div": true, "section": true, "article": true, "aside": true, "address": true,
}

// Structural containers, walked but never emitted.
var containerTags = map[string]bool{
	"html": true, "body": true, "main": true, "table": true, "thead": true,
	"tbody": true, "tfoot": true, "tr": true, "ul": true, "ol": true, "dl": true,
	"figure": true, "colgroup": true,
}

// A first table cell holding only an enumerator, as in EUR-Lex recital grids:
// <tr><td>(1)</td><td>text</td></tr>.
var enumeratorCell = regexp.MustCompile(`^(\(?[0-9]{1,4}[.)]|\([a-z]{1,4}\)|[a-z]\))$`)

func (p *HTMLParser) Parse(r io.Reader, filename string) (*provision.Source, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	src := &provision.Source{Title: stem(filename)}
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		src.Title = title
	}

	roots := doc.Find("body")
	if p.Selector != "" {
		roots = doc.Find(p.Selector)
		if roots.Length() == 0 {
			return nil, fmt.Errorf("parse html: selector %q matched no elements", p.Selector)
		}
	}
	if roots.Length() == 0 {
		roots = doc.Selection
	}

	var frags []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if skipTags[n.Data] {
				return
			}
			if n.Data == "tr" {
				if t, ok := enumeratedRow(n); ok {
					frags = appendFragment(frags, t)
					return
				}
			}
			if leafTags[n.Data] && !hasBlockDescendant(n) {
				frags = appendFragment(frags, textContent(n))
				return
			}
		}

		// Loose text and inline elements between blocks are read as one
		// fragment, e.g. <div>Article <b>5</b><p>...</p></div>.
		var run strings.Builder
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			switch {
			case c.Type == html.TextNode:
				if !containerTags[n.Data] {
					writeText(&run, c)
				}
			case isInline(c):
				writeText(&run, c)
			case c.Type == html.ElementNode || c.Type == html.DocumentNode:
				frags = appendFragment(frags, run.String())
				run.Reset()
				walk(c)
			}
		}
		frags = appendFragment(frags, run.String())
	}

	for _, n := range outermost(roots.Nodes) {
		walk(n)
	}
	src.Fragments = frags
	return src, nil
}

// enumeratedRow joins a table row whose first cell is a bare enumerator with
// the text of the remaining cells.
func enumeratedRow(tr *html.Node) (string, bool) {
	var cells []string
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
			cells = append(cells, textContent(c))
		}
	}
	if len(cells) < 2 || !enumeratorCell.MatchString(cells[0]) {
		return "", false
	}
	rest := strings.TrimSpace(strings.Join(cells[1:], " "))
	if rest == "" {
		return "", false
	}
	return cells[0] + " " + rest, true
}

func hasBlockDescendant(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		if leafTags[c.Data] || containerTags[c.Data] || hasBlockDescendant(c) {
			return true
		}
	}
	return false
}

// isInline reports whether an element flows within a line of text: neither
// skipped nor block-level, with nothing block-level inside.
func isInline(n *html.Node) bool {
	if n.Type != html.ElementNode || skipTags[n.Data] {
		return false
	}
	if leafTags[n.Data] || containerTags[n.Data] {
		return false
	}
	return !hasBlockDescendant(n)
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	writeText(&buf, n)
	return strings.TrimSpace(buf.String())
}

func writeText(buf *strings.Builder, n *html.Node) {
	switch {
	case n.Type == html.TextNode:
		buf.WriteString(n.Data)
	case n.Type == html.ElementNode && skipTags[n.Data]:
		return
	case n.Type == html.ElementNode && n.Data == "br":
		buf.WriteByte(' ')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(buf, c)
	}
}

// outermost drops nodes nested inside other nodes of the set, so a selector
// matching both a wrapper and its children does not emit text twice.
func outermost(nodes []*html.Node) []*html.Node {
	set := make(map[*html.Node]bool, len(nodes))
	for _, n := range nodes {
		set[n] = true
	}
	out := make([]*html.Node, 0, len(nodes))
	for _, n := range nodes {
		nested := false
		for p := n.Parent; p != nil; p = p.Parent {
			if set[p] {
				nested = true
				break
			}
		}
		if !nested {
			out = append(out, n)
		}
	}
	return out
}
