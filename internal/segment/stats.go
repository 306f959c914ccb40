package segment

import "github.com/dgallion1/regsplit/internal/provision"

// Trigger records how the scan left the preamble.
type Trigger string

const (
	TriggerNone       Trigger = ""
	TriggerAdoption   Trigger = "adoption"
	TriggerArticleOne Trigger = "article_one"
)

// Stats counts what happened to the fragments of one document.
type Stats struct {
	Fragments int // Fragments fed.
	Discarded int // Too short to read.
	Dropped   int // Read but matched no rule in the active zone.
	Rows      int // Provisions after merging.
	ByType    map[provision.Type]int
	Trigger   Trigger
	Annex     bool
	Zone      provision.Zone // Zone at the end of the scan.
}

// Triggered reports whether the scan ever left the preamble.
func (s Stats) Triggered() bool { return s.Trigger != TriggerNone || s.Annex }

// Warnings lists structural problems worth reporting. A document that parsed
// normally has none.
func (s Stats) Warnings() []string {
	var w []string
	if s.Rows == 0 {
		w = append(w, "no provisions extracted")
	}
	if !s.Triggered() && s.Fragments > 0 {
		w = append(w, "adoption formula not found; scan never left the preamble")
	}
	if s.Trigger == TriggerNone && s.Annex {
		w = append(w, "annex reached without adoption formula or Article 1; body not read")
	}
	return w
}
