package parser

import (
	"bufio"
	"io"
	"strings"

	"github.com/dgallion1/regsplit/internal/provision"
)

// TextParser handles plain text editions. Each blank-line separated paragraph
// is one fragment; line breaks inside a paragraph become spaces.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*provision.Source, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var paragraphs []string
	var current strings.Builder

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			if current.Len() > 0 {
				paragraphs = append(paragraphs, current.String())
				current.Reset()
			}
			continue
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(line)
	}
	if current.Len() > 0 {
		paragraphs = append(paragraphs, current.String())
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return &provision.Source{
		Title:     stem(filename),
		Fragments: paragraphs,
	}, nil
}
