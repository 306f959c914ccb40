package lang

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// annexLiteral is recognised in every language; editions often keep the
// English marker in page furniture.
const annexLiteral = "ANNEX"

var firstInt = regexp.MustCompile(`\d+`)

// Profile is the compiled rule set of one language. A Profile is not safe for
// concurrent use.
type Profile struct {
	Code string

	caser           cases.Caser
	adoption        []string
	articleOne      []*regexp.Regexp
	articleWords    []string
	articlePatterns []*regexp.Regexp
	chapterWords    []string
	chapterPatterns []*regexp.Regexp
	annexWords      []string
}

func compile(code string, r Rules) (*Profile, error) {
	tag, err := language.Parse(code)
	if err != nil {
		tag = language.Und
	}
	p := &Profile{
		Code:  code,
		caser: cases.Upper(tag),
	}
	p.adoption = p.upperAll(r.AdoptionPhrases)
	p.articleWords = p.upperAll(r.ArticleWords)
	p.chapterWords = p.upperAll(r.ChapterWords)
	p.annexWords = p.upperAll(r.AnnexWords)
	if !contains(p.annexWords, annexLiteral) {
		p.annexWords = append(p.annexWords, annexLiteral)
	}

	if p.articleOne, err = compileAll(code, "article_one_patterns", r.ArticleOnePatterns); err != nil {
		return nil, err
	}
	if p.articlePatterns, err = compileAll(code, "article_patterns", r.ArticlePatterns); err != nil {
		return nil, err
	}
	for _, re := range p.articlePatterns {
		if re.NumSubexp() < 1 {
			return nil, fmt.Errorf("language %q: article pattern %q has no capture group", code, re.String())
		}
	}
	if p.chapterPatterns, err = compileAll(code, "chapter_patterns", r.ChapterPatterns); err != nil {
		return nil, err
	}
	return p, nil
}

func compileAll(code, field string, patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, src := range patterns {
		re, err := regexp.Compile(src)
		if err != nil {
			return nil, fmt.Errorf("language %q: %s: %w", code, field, err)
		}
		out = append(out, re)
	}
	return out, nil
}

// Upper upper-cases s with the casing rules of the profile's language.
func (p *Profile) Upper(s string) string {
	return p.caser.String(s)
}

func (p *Profile) upperAll(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		out = append(out, p.Upper(w))
	}
	return out
}

// IsAdoption reports whether the upper-cased fragment carries an adoption formula.
func (p *Profile) IsAdoption(upper string) bool {
	for _, phrase := range p.adoption {
		if strings.Contains(upper, phrase) {
			return true
		}
	}
	return false
}

// IsArticleOne reports whether the upper-cased fragment is the heading of the
// first article.
func (p *Profile) IsArticleOne(upper string) bool {
	for _, re := range p.articleOne {
		if re.MatchString(upper) {
			return true
		}
	}
	return false
}

// ArticleNumber returns the number of an article heading. Length limits are
// the caller's concern.
func (p *Profile) ArticleNumber(upper string) (int, bool) {
	for _, w := range p.articleWords {
		rest, ok := afterWord(upper, w)
		if !ok {
			continue
		}
		if m := firstInt.FindString(rest); m != "" {
			n, err := strconv.Atoi(m)
			if err == nil && n > 0 {
				return n, true
			}
		}
		if p.IsArticleOne(upper) {
			return 1, true
		}
	}
	for _, re := range p.articlePatterns {
		m := re.FindStringSubmatch(upper)
		if m == nil {
			continue
		}
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			return n, true
		}
	}
	return 0, false
}

// IsChapter reports whether the upper-cased fragment opens a chapter.
func (p *Profile) IsChapter(upper string) bool {
	for _, w := range p.chapterWords {
		if _, ok := afterWord(upper, w); ok {
			return true
		}
	}
	for _, re := range p.chapterPatterns {
		if re.MatchString(upper) {
			return true
		}
	}
	return false
}

// IsAnnex reports whether the upper-cased fragment mentions an annex marker.
func (p *Profile) IsAnnex(upper string) bool {
	for _, w := range p.annexWords {
		if strings.Contains(upper, w) {
			return true
		}
	}
	return false
}

// Summary describes the profile for listings.
type Summary struct {
	Code            string
	ArticleWords    []string
	ChapterWords    []string
	AnnexWords      []string
	AdoptionPhrases []string
}

func (p *Profile) Summary() Summary {
	return Summary{
		Code:            p.Code,
		ArticleWords:    append(p.articleWords[:0:0], p.articleWords...),
		ChapterWords:    append(p.chapterWords[:0:0], p.chapterWords...),
		AnnexWords:      append(p.annexWords[:0:0], p.annexWords...),
		AdoptionPhrases: append(p.adoption[:0:0], p.adoption...),
	}
}

// afterWord returns what follows word at the start of s. The word must end at
// a space, a digit or the end of s, so "ARTICLES" does not match "ARTICLE".
func afterWord(s, word string) (string, bool) {
	if !strings.HasPrefix(s, word) {
		return "", false
	}
	rest := s[len(word):]
	if rest == "" {
		return rest, true
	}
	r, _ := utf8.DecodeRuneInString(rest)
	if unicode.IsSpace(r) || unicode.IsDigit(r) {
		return rest, true
	}
	return "", false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
