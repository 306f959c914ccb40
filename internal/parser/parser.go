package parser

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgallion1/regsplit/internal/provision"
)

// ErrUnsupported is returned for files no parser handles.
var ErrUnsupported = errors.New("unsupported file extension")

// Parser reduces one document to its ordered text fragments.
type Parser interface {
	Parse(r io.Reader, filename string) (*provision.Source, error)
}

// Options carries per-format settings.
type Options struct {
	// Selector restricts HTML extraction to the elements it matches.
	Selector string
	// PDFFallbackPdftotext shells out to pdftotext when the Go reader fails.
	PDFFallbackPdftotext bool
}

// SupportedExtensions lists file extensions this tool can handle.
var SupportedExtensions = map[string]bool{
	".html":     true,
	".htm":      true,
	".xhtml":    true,
	".md":       true,
	".markdown": true,
	".txt":      true,
	".pdf":      true,
	".docx":     true,
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string, opts Options) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".html", ".htm", ".xhtml":
		return &HTMLParser{Selector: opts.Selector}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".txt":
		return &TextParser{}, nil
	case ".pdf":
		return &PDFParser{FallbackPdftotext: opts.PDFFallbackPdftotext}, nil
	case ".docx":
		return &DOCXParser{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// LanguageFromFilename returns the token after the last underscore of the
// base name, without extension, lower-cased: "DMA_EN.html" -> "en". A name
// without underscore yields its whole stem.
func LanguageFromFilename(filename string) string {
	base := filepath.Base(filename)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if i := strings.LastIndex(stem, "_"); i >= 0 {
		stem = stem[i+1:]
	}
	return strings.ToLower(strings.TrimSpace(stem))
}

func stem(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// appendFragment adds t to frags when it carries text.
func appendFragment(frags []string, t string) []string {
	t = strings.TrimSpace(t)
	if t == "" {
		return frags
	}
	return append(frags, t)
}
