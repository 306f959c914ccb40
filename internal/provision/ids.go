package provision

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// AnnexMainID holds the annex body. The viewer resolves the token "annex" to it.
const AnnexMainID = "ANNEX_MAIN"

func RecitalID(n string) string { return "REC_" + n }

func ArticleID(n int) string { return "Article_" + strconv.Itoa(n) }

// SubParagraphID returns the id of numbered paragraph p of an article.
func SubParagraphID(articleID, p string) string { return articleID + "_" + p }

func ChapterID(ordinal int) string { return "CH_" + strconv.Itoa(ordinal) }

// AnnexItemID qualifies an annex point with its enclosing section and point,
// outermost first: AnnexItemID("B", "1", "a") is "ANNEX_B_1_a". Empty parts are
// skipped.
func AnnexItemID(parts ...string) string {
	id := "ANNEX"
	for _, p := range parts {
		if p = Slugify(p); p != "" {
			id += "_" + p
		}
	}
	return id
}

func RecitalLabel(n string) string { return fmt.Sprintf("Recital (%s)", n) }

func ArticleLabel(n int) string { return fmt.Sprintf("Article %d", n) }

func SubParagraphLabel(n int, p string) string { return fmt.Sprintf("Article %d(%s)", n, p) }

// AnnexItemLabel renders the point path the way the annex cites it, e.g.
// "Annex, point B.1(a)".
func AnnexItemLabel(section, point, sub string) string {
	ref := section
	if point != "" {
		if ref != "" {
			ref += "."
		}
		ref += point
	}
	if sub != "" {
		ref += "(" + sub + ")"
	}
	return "Annex, point " + ref
}

var (
	slugInvalid = regexp.MustCompile(`[^A-Za-z0-9-]`)
	slugRepeat  = regexp.MustCompile(`-+`)
)

// Slugify converts a string to an id-safe slug. Case is kept: annex section
// "A" and point "(a)" are different provisions.
func Slugify(s string) string {
	s = strings.TrimSpace(s)
	s = slugInvalid.ReplaceAllString(s, "-")
	s = slugRepeat.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > 50 {
		s = s[:50]
	}
	return s
}
