// Package lang holds the per-language structural cues used to segment a
// regulation: adoption formulas, article and chapter headings, annex markers.
// Adding a language is a change to languages.yaml, not to code.
package lang

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed languages.yaml
var defaultTable []byte

// ErrUnknownLanguage is returned when a language code has no rules.
var ErrUnknownLanguage = errors.New("unknown language")

// Rules is the raw, uncompiled rule set of one language.
type Rules struct {
	AdoptionPhrases    []string `yaml:"adoption_phrases"`
	ArticleOnePatterns []string `yaml:"article_one_patterns"`
	ArticleWords       []string `yaml:"article_words"`
	ArticlePatterns    []string `yaml:"article_patterns"`
	ChapterWords       []string `yaml:"chapter_words"`
	ChapterPatterns    []string `yaml:"chapter_patterns"`
	AnnexWords         []string `yaml:"annex_words"`
}

// Table maps language codes to rules.
type Table struct {
	SubparagraphArticles []int            `yaml:"subparagraph_articles"`
	Languages            map[string]Rules `yaml:"languages"`
}

// Default returns the embedded table.
func Default() (*Table, error) {
	t, err := Parse(defaultTable)
	if err != nil {
		return nil, fmt.Errorf("embedded language table: %w", err)
	}
	return t, nil
}

// Parse decodes and validates a YAML table.
func Parse(data []byte) (*Table, error) {
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("decode language table: %w", err)
	}
	normalized := make(map[string]Rules, len(t.Languages))
	for code, r := range t.Languages {
		normalized[strings.ToLower(strings.TrimSpace(code))] = r
	}
	t.Languages = normalized
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// LoadFile reads a user table and lays it over the embedded default. Languages
// in the file replace or extend the defaults; a non-empty subparagraph_articles
// list replaces the default list.
func LoadFile(path string) (*Table, error) {
	base, err := Default()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return base, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read language table: %w", err)
	}
	override, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	for code, r := range override.Languages {
		base.Languages[code] = r
	}
	if len(override.SubparagraphArticles) > 0 {
		base.SubparagraphArticles = override.SubparagraphArticles
	}
	return base, nil
}

// Validate checks that every language can detect both the preamble boundary
// and article headings, and that every pattern compiles.
func (t *Table) Validate() error {
	for code, r := range t.Languages {
		if code == "" {
			return errors.New("language table: empty language code")
		}
		if len(r.AdoptionPhrases) == 0 && len(r.ArticleOnePatterns) == 0 {
			return fmt.Errorf("language %q: needs adoption_phrases or article_one_patterns", code)
		}
		if len(r.ArticleWords) == 0 && len(r.ArticlePatterns) == 0 {
			return fmt.Errorf("language %q: needs article_words or article_patterns", code)
		}
		if _, err := compile(code, r); err != nil {
			return err
		}
	}
	for _, n := range t.SubparagraphArticles {
		if n <= 0 {
			return fmt.Errorf("subparagraph_articles: invalid article number %d", n)
		}
	}
	return nil
}

// Codes returns the language codes in sorted order.
func (t *Table) Codes() []string {
	codes := make([]string, 0, len(t.Languages))
	for code := range t.Languages {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Profile compiles the rules of one language.
func (t *Table) Profile(code string) (*Profile, error) {
	code = strings.ToLower(code)
	r, ok := t.Languages[code]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLanguage, code)
	}
	return compile(code, r)
}

// ProfileOrFallback returns the profile for code, or for fallback when code is
// unknown. The bool reports whether the fallback was used.
func (t *Table) ProfileOrFallback(code, fallback string) (*Profile, bool, error) {
	p, err := t.Profile(code)
	if err == nil {
		return p, false, nil
	}
	if !errors.Is(err, ErrUnknownLanguage) || fallback == "" {
		return nil, false, err
	}
	p, ferr := t.Profile(fallback)
	if ferr != nil {
		return nil, false, fmt.Errorf("fallback language: %w", ferr)
	}
	return p, true, nil
}
