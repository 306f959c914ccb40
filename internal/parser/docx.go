package parser

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fumiama/go-docx"

	"github.com/dgallion1/regsplit/internal/provision"
)

// DOCXParser handles .docx editions: one fragment per paragraph, with table
// rows flattened cell by cell.
type DOCXParser struct{}

func (p *DOCXParser) Parse(r io.Reader, filename string) (*provision.Source, error) {
	// go-docx needs a ReadSeeker+size, so write to temp file.
	tmp, err := os.CreateTemp("", "regsplit-docx-*.docx")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	size, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("seek temp file: %w", err)
	}

	doc, err := docx.Parse(tmp, size)
	tmp.Close()
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	src := &provision.Source{Title: stem(filename)}
	for _, item := range doc.Document.Body.Items {
		switch it := item.(type) {
		case *docx.Paragraph:
			src.Fragments = appendFragment(src.Fragments, docxParagraphText(it))
		case *docx.Table:
			src.Fragments = append(src.Fragments, docxTableFragments(it)...)
		}
	}
	return src, nil
}

func docxTableFragments(tbl *docx.Table) []string {
	var frags []string
	for _, row := range tbl.TableRows {
		var cells []string
		for _, cell := range row.TableCells {
			var paras []string
			for _, para := range cell.Paragraphs {
				if t := docxParagraphText(para); t != "" {
					paras = append(paras, t)
				}
			}
			cells = append(cells, strings.Join(paras, " "))
		}
		// Recital grids: "(1)" | "text" read as one fragment.
		if len(cells) >= 2 && enumeratorCell.MatchString(cells[0]) {
			frags = appendFragment(frags, cells[0]+" "+strings.Join(cells[1:], " "))
			continue
		}
		for _, c := range cells {
			frags = appendFragment(frags, c)
		}
	}
	return frags
}

func docxParagraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
