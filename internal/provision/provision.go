package provision

// Type classifies an output row.
type Type string

const (
	TypeRecital   Type = "Recital"
	TypeArticle   Type = "Article Paragraph"
	TypeAnnex     Type = "Annex"
	TypeAnnexItem Type = "Annex Item"
	TypeChapter   Type = "Chapter"
)

// Zone is the part of the document the scan is in. Zones only move forward.
type Zone int

const (
	ZonePreamble Zone = iota
	ZoneBody
	ZoneAnnex
)

func (z Zone) String() string {
	switch z {
	case ZonePreamble:
		return "preamble"
	case ZoneBody:
		return "body"
	case ZoneAnnex:
		return "annex"
	}
	return "unknown"
}

// Source is one language edition reduced to its ordered text fragments.
type Source struct {
	Title     string   // Document title (from metadata or filename)
	Fragments []string // One entry per qualifying node, in document order
}

// Provision is one row of the output table.
type Provision struct {
	ID    string // Stable cross-language key, e.g. Article_5_2
	Type  Type
	Label string // Display string, e.g. "Article 6(2)"
	Title string // Article short title, "Annex" in the annex, empty otherwise
	Text  string // Fragments joined by Separator
}

// Separator joins the fragments of one provision. The viewer renders it as HTML.
const Separator = "<br><br>"
