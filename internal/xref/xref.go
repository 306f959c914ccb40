// Package xref resolves the reference tokens of a link table against a
// provision table, the way the document viewer does.
//
// A link table has one row per article, keyed by ID, with a comma-separated
// Related_Recitals column ("1, 14, annex") and an optional External_Links
// column.
package xref

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/dgallion1/regsplit/internal/output"
	"github.com/dgallion1/regsplit/internal/provision"
)

// Link table columns.
const (
	ColID            = "ID"
	ColRelated       = "Related_Recitals"
	ColExternalLinks = "External_Links"
)

// Problem reasons.
const (
	ReasonUnknownRow    = "row ID not in provision table"
	ReasonUnknownTarget = "reference not in provision table"
	ReasonBadLink       = "external link is not an http(s) URL"
)

// Problem is one broken reference.
type Problem struct {
	RowID  string
	Token  string
	Target string
	Reason string
}

func (p Problem) String() string {
	if p.Token == "" {
		return fmt.Sprintf("%s: %s", p.RowID, p.Reason)
	}
	return fmt.Sprintf("%s: %q -> %s: %s", p.RowID, p.Token, p.Target, p.Reason)
}

// ResolveToken maps a reference token to a provision ID: "annex" in any case
// names the main annex, anything else is a recital number.
func ResolveToken(tok string) string {
	tok = strings.TrimSpace(tok)
	if strings.EqualFold(tok, "annex") {
		return provision.AnnexMainID
	}
	return provision.RecitalID(tok)
}

// ParseRelated splits a Related_Recitals cell on commas, dropping blanks.
func ParseRelated(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parseLinks splits an External_Links cell on commas and whitespace.
func parseLinks(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
}

func knownIDs(tbl *output.Table) map[string]bool {
	ids := make(map[string]bool, len(tbl.Rows))
	for i := range tbl.Rows {
		ids[tbl.Get(i, ColID)] = true
	}
	return ids
}

// Check verifies every link row against the provision table: the row's own
// ID, every related token and every external link.
func Check(links, table *output.Table) []Problem {
	ids := knownIDs(table)
	var problems []Problem

	for i := range links.Rows {
		rowID := strings.TrimSpace(links.Get(i, ColID))
		if rowID == "" {
			continue
		}
		if !ids[rowID] {
			problems = append(problems, Problem{RowID: rowID, Target: rowID, Reason: ReasonUnknownRow})
		}
		for _, tok := range ParseRelated(links.Get(i, ColRelated)) {
			target := ResolveToken(tok)
			if !ids[target] {
				problems = append(problems, Problem{RowID: rowID, Token: tok, Target: target, Reason: ReasonUnknownTarget})
			}
		}
		for _, link := range parseLinks(links.Get(i, ColExternalLinks)) {
			u, err := url.Parse(link)
			if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
				problems = append(problems, Problem{RowID: rowID, Token: link, Reason: ReasonBadLink})
			}
		}
	}
	return problems
}

// Backrefs returns the link rows whose Related_Recitals mention the recital
// number n, compared case-insensitively, in link table order.
func Backrefs(links *output.Table, n string) []string {
	n = strings.ToLower(strings.TrimSpace(n))
	var out []string
	for i := range links.Rows {
		for _, tok := range ParseRelated(links.Get(i, ColRelated)) {
			if strings.ToLower(tok) == n {
				out = append(out, links.Get(i, ColID))
				break
			}
		}
	}
	return out
}

// Orphans lists the recitals of the provision table that no link row
// references, in table order.
func Orphans(links, table *output.Table) []string {
	referenced := make(map[string]bool)
	for i := range links.Rows {
		for _, tok := range ParseRelated(links.Get(i, ColRelated)) {
			referenced[ResolveToken(tok)] = true
		}
	}
	var out []string
	for i := range table.Rows {
		id := table.Get(i, ColID)
		if provision.Type(table.Get(i, "Type")) == provision.TypeRecital && !referenced[id] {
			out = append(out, id)
		}
	}
	return out
}
