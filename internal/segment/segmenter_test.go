package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/regsplit/internal/lang"
	"github.com/dgallion1/regsplit/internal/provision"
)

const adoption = "HAVE ADOPTED THIS REGULATION:"

func profile(t *testing.T, code string) *lang.Profile {
	t.Helper()
	table, err := lang.Default()
	require.NoError(t, err)
	p, err := table.Profile(code)
	require.NoError(t, err)
	return p
}

func byID(rows []provision.Provision) map[string]provision.Provision {
	m := make(map[string]provision.Provision, len(rows))
	for _, r := range rows {
		m[r.ID] = r
	}
	return m
}

func ids(rows []provision.Provision) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ID)
	}
	return out
}

// regulation is a small but complete English edition.
var regulation = []string{
	"REGULATION (EU) 2022/1925 OF THE EUROPEAN PARLIAMENT AND OF THE COUNCIL",
	"Whereas:",
	"(1) Digital services in general have a great potential.",
	"(2) Core platform services feature a number of characteristics.",
	"(2) Core platform services feature a number of characteristics.",
	adoption,
	"CHAPTER I",
	"SUBJECT MATTER, SCOPE AND DEFINITIONS",
	"Article 1",
	"Subject matter and scope",
	"1. The purpose of this Regulation is to contribute to the proper functioning of the internal market.",
	"2. This Regulation shall apply to core platform services.",
	"CHAPTER III",
	"PRACTICES OF GATEKEEPERS",
	"Article 5",
	"Obligations for gatekeepers",
	"1. The gatekeeper shall comply with all obligations set out in this Article.",
	"(a) not process personal data;",
	"2. The gatekeeper shall not prevent business users from offering the same products.",
	"Article 6",
	"Obligations for gatekeepers susceptible of being further specified",
	"(1) The gatekeeper shall comply with all obligations set out in this Article.",
	"Done at Strasbourg, 14 September 2022.",
	"ANNEX",
	"A. General",
	"1. This Annex aims to specify the methodology.",
	"CHAPTER IV",
}

func TestSegment_FullDocument(t *testing.T) {
	rows, stats := Segment(profile(t, "en"), DefaultOptions(), regulation)

	assert.Equal(t, []string{
		"REC_1", "REC_2",
		"CH_1", "Article_1",
		"CH_2", "Article_5_1", "Article_5_2",
		"Article_6_1",
		provision.AnnexMainID,
	}, ids(rows))

	got := byID(rows)
	assert.Equal(t, "CHAPTER I - SUBJECT MATTER, SCOPE AND DEFINITIONS", got["CH_1"].Label)
	assert.Equal(t, provision.TypeChapter, got["CH_1"].Type)

	art1 := got["Article_1"]
	assert.Equal(t, "Article 1", art1.Label)
	assert.Equal(t, "Subject matter and scope", art1.Title)
	assert.Equal(t, provision.TypeArticle, art1.Type)
	assert.Equal(t,
		"1. The purpose of this Regulation is to contribute to the proper functioning of the internal market."+
			provision.Separator+
			"2. This Regulation shall apply to core platform services.",
		art1.Text)

	art51 := got["Article_5_1"]
	assert.Equal(t, "Article 5(1)", art51.Label)
	assert.Equal(t, "Obligations for gatekeepers", art51.Title)
	assert.Equal(t,
		"The gatekeeper shall comply with all obligations set out in this Article."+
			provision.Separator+
			"(a) not process personal data;",
		art51.Text)

	art6 := got["Article_6_1"]
	assert.Equal(t, "Article 6(1)", art6.Label)
	assert.Contains(t, art6.Text, "Done at Strasbourg")

	annex := got[provision.AnnexMainID]
	assert.Equal(t, provision.TypeAnnex, annex.Type)
	assert.Equal(t, "Annex", annex.Label)
	assert.Equal(t, "Annex", annex.Title)
	assert.Equal(t,
		"A. General"+provision.Separator+"1. This Annex aims to specify the methodology."+provision.Separator+"CHAPTER IV",
		annex.Text)

	assert.Equal(t, TriggerAdoption, stats.Trigger)
	assert.True(t, stats.Annex)
	assert.Equal(t, provision.ZoneAnnex, stats.Zone)
	assert.Equal(t, len(regulation), stats.Fragments)
	assert.Equal(t, 2, stats.Dropped, "title line and 'Whereas:'")
	assert.Equal(t, 9, stats.Rows)
	assert.Equal(t, 2, stats.ByType[provision.TypeRecital])
	assert.Equal(t, 2, stats.ByType[provision.TypeChapter])
	assert.Empty(t, stats.Warnings())
}

func TestSegment_Deterministic(t *testing.T) {
	p := profile(t, "en")
	first, _ := Segment(p, DefaultOptions(), regulation)
	second, _ := Segment(p, DefaultOptions(), regulation)
	assert.Equal(t, first, second)
}

func TestSegment_IDsUnique(t *testing.T) {
	rows, _ := Segment(profile(t, "en"), DefaultOptions(), regulation)
	seen := make(map[string]bool)
	for _, r := range rows {
		assert.False(t, seen[r.ID], "duplicate id %s", r.ID)
		seen[r.ID] = true
	}
}

func TestSegment_NoRecitalOrChapterAfterAnnex(t *testing.T) {
	frags := []string{
		"(1) A recital.",
		"ANNEX",
		"(2) Looks like a recital.",
		"CHAPTER V",
		"Article 3",
		adoption,
	}
	rows, _ := Segment(profile(t, "en"), DefaultOptions(), frags)

	annexSeen := false
	for _, r := range rows {
		if r.ID == provision.AnnexMainID {
			annexSeen = true
			continue
		}
		if annexSeen {
			assert.NotEqual(t, provision.TypeRecital, r.Type)
			assert.NotEqual(t, provision.TypeChapter, r.Type)
		}
	}
	require.True(t, annexSeen)
	assert.Equal(t, []string{"REC_1", provision.AnnexMainID}, ids(rows))
}

func TestSegment_SubParagraphStickiness(t *testing.T) {
	frags := []string{adoption, "Article 5", "Title", "1. foo", "bar", "2. baz"}
	rows, _ := Segment(profile(t, "en"), DefaultOptions(), frags)

	require.Len(t, rows, 2)
	assert.Equal(t, "Article_5_1", rows[0].ID)
	assert.Equal(t, "foo<br><br>bar", rows[0].Text)
	assert.Equal(t, "Title", rows[0].Title)
	assert.Equal(t, "Article_5_2", rows[1].ID)
	assert.Equal(t, "baz", rows[1].Text)
}

func TestSegment_UntrackedArticleKeepsNumbering(t *testing.T) {
	frags := []string{adoption, "Article 2", "Definitions", "1. foo", "2. bar"}
	rows, _ := Segment(profile(t, "en"), DefaultOptions(), frags)

	require.Len(t, rows, 1)
	assert.Equal(t, "Article_2", rows[0].ID)
	assert.Equal(t, "Article 2", rows[0].Label)
	assert.Equal(t, "1. foo<br><br>2. bar", rows[0].Text)
}

func TestSegment_IntroBeforeFirstParagraph(t *testing.T) {
	frags := []string{adoption, "Article 7", "Interoperability", "Intro sentence.", "1. First."}
	rows, _ := Segment(profile(t, "en"), DefaultOptions(), frags)

	assert.Equal(t, []string{"Article_7", "Article_7_1"}, ids(rows))
	assert.Equal(t, "Intro sentence.", rows[0].Text)
	assert.Equal(t, "First.", rows[1].Text)
}

func TestSegment_RecitalRoundTrip(t *testing.T) {
	frag := "(14) This Regulation lays down..."
	rows, stats := Segment(profile(t, "en"), DefaultOptions(), []string{frag})

	require.Len(t, rows, 1)
	assert.Equal(t, provision.Provision{
		ID:    "REC_14",
		Type:  provision.TypeRecital,
		Label: "Recital (14)",
		Text:  frag,
	}, rows[0])
	assert.Equal(t, provision.ZonePreamble, stats.Zone)
	assert.Contains(t, stats.Warnings(), "adoption formula not found; scan never left the preamble")
}

func TestSegment_RecitalKeepsCompatibilityCharacters(t *testing.T) {
	frag := "(1) Regulation (EU) 2016/679\u00b9 applies to areas above 10 m\u00b2 and \u00bd of users."
	rows, _ := Segment(profile(t, "en"), DefaultOptions(), []string{frag, adoption})

	require.Len(t, rows, 1)
	assert.Equal(t, "REC_1", rows[0].ID)
	assert.Equal(t, frag, rows[0].Text)
}

func TestSegment_PortugueseOrdinalArticleOne(t *testing.T) {
	frags := []string{"Artigo 1.\u00ba", "Objeto", "Texto."}
	rows, stats := Segment(profile(t, "pt"), DefaultOptions(), frags)

	require.Len(t, rows, 1)
	assert.Equal(t, "Article_1", rows[0].ID)
	assert.Equal(t, "Objeto", rows[0].Title)
	assert.Equal(t, "Texto.", rows[0].Text)
	assert.Equal(t, TriggerArticleOne, stats.Trigger)
}

func TestSegment_AnnexBeforeTrigger(t *testing.T) {
	frags := []string{"(1) First.", "ANNEX", "(2) Second.", adoption, "Article 1", "Scope", "Text."}
	s := New(profile(t, "en"), DefaultOptions())
	for _, f := range frags[:2] {
		s.Feed(f)
	}
	assert.Equal(t, provision.ZoneAnnex, s.Zone())
	for _, f := range frags[2:] {
		s.Feed(f)
	}
	assert.Equal(t, provision.ZoneAnnex, s.Zone())

	rows, stats := s.Result()
	assert.Equal(t, []string{"REC_1", provision.AnnexMainID}, ids(rows))
	assert.Equal(t, TriggerNone, stats.Trigger)
	assert.True(t, stats.Triggered())
	assert.Equal(t, []string{"annex reached without adoption formula or Article 1; body not read"}, stats.Warnings())
}

func TestSegment_DuplicateCollapse(t *testing.T) {
	frags := []string{adoption, "Article 2", "Definitions", "Same text.", "Other text.", "Same text."}
	rows, _ := Segment(profile(t, "en"), DefaultOptions(), frags)

	require.Len(t, rows, 1)
	assert.Equal(t, "Same text.<br><br>Other text.", rows[0].Text)
}

func TestSegment_FallbackTrigger(t *testing.T) {
	frags := []string{"(1) A recital.", "Article 1", "Subject matter", "This Regulation lays down rules."}
	s := New(profile(t, "en"), DefaultOptions())
	s.Feed(frags[0])
	s.Feed(frags[1])
	assert.Equal(t, provision.ZoneBody, s.Zone())
	assert.Equal(t, "Article_1", s.st.articleID)
	s.Feed(frags[2])
	s.Feed(frags[3])

	rows, stats := s.Result()
	assert.Equal(t, TriggerArticleOne, stats.Trigger)
	assert.Equal(t, []string{"REC_1", "Article_1"}, ids(rows))
	assert.Equal(t, "Subject matter", rows[1].Title)
	assert.Equal(t, "This Regulation lays down rules.", rows[1].Text)
}

func TestSegment_FrenchArticlePremier(t *testing.T) {
	frags := []string{
		"(1) Les services numériques.",
		"ONT ADOPTÉ LE PRÉSENT RÈGLEMENT:",
		"Article premier",
		"Objet et champ d'application",
		"Le présent règlement vise à contribuer au bon fonctionnement du marché intérieur.",
		"ANNEXE",
		"Méthode.",
	}
	rows, stats := Segment(profile(t, "fr"), DefaultOptions(), frags)

	assert.Equal(t, []string{"REC_1", "Article_1", provision.AnnexMainID}, ids(rows))
	assert.Equal(t, "Objet et champ d'application", rows[1].Title)
	assert.Equal(t, TriggerAdoption, stats.Trigger)
}

func TestSegment_ChapterWithoutSubtitle(t *testing.T) {
	frags := []string{adoption, "CHAPTER I", "Article 1", "Scope", "Text."}
	rows, _ := Segment(profile(t, "en"), DefaultOptions(), frags)

	assert.Equal(t, []string{"CH_1", "Article_1"}, ids(rows))
	assert.Equal(t, "CHAPTER I", rows[0].Label)
	assert.Equal(t, "Scope", rows[1].Title)
}

func TestSegment_ChapterSubtitlesDisabled(t *testing.T) {
	opts := DefaultOptions()
	opts.ChapterSubtitles = false
	frags := []string{adoption, "CHAPTER I", "GENERAL PROVISIONS", "Article 1", "Scope", "Text."}
	rows, stats := Segment(profile(t, "en"), opts, frags)

	assert.Equal(t, "CHAPTER I", rows[0].Label)
	assert.Equal(t, 1, stats.Dropped, "subtitle falls through to the body and is dropped")
}

func TestSegment_SplitAnnexItems(t *testing.T) {
	opts := DefaultOptions()
	opts.SplitAnnexItems = true
	frags := []string{adoption, "Article 1", "Scope", "Text.", "ANNEX", "Intro.", "1. First point", "more", "A. Section"}
	rows, _ := Segment(profile(t, "en"), opts, frags)

	assert.Equal(t, []string{"Article_1", provision.AnnexMainID, "ANNEX_1", "ANNEX_A"}, ids(rows))
	got := byID(rows)
	assert.Equal(t, provision.TypeAnnexItem, got["ANNEX_1"].Type)
	assert.Equal(t, "Annex, point 1", got["ANNEX_1"].Label)
	assert.Equal(t, "1. First point<br><br>more", got["ANNEX_1"].Text)
	assert.Equal(t, "Annex", got["ANNEX_1"].Title)
	assert.Equal(t, "Annex, point A", got["ANNEX_A"].Label)
}

func TestSegment_AnnexPointsQualifiedBySection(t *testing.T) {
	opts := DefaultOptions()
	opts.SplitAnnexItems = true
	frags := []string{
		adoption, "Article 1", "Scope", "Text.",
		"ANNEX",
		"A. General",
		"1. This Annex aims to specify the methodology.",
		"B. Definitions",
		"1. Active end users means the number of unique end users.",
		"(a) for online intermediation services, users who engaged once.",
		"(b) for search engines, users who ran a query.",
	}
	rows, _ := Segment(profile(t, "en"), opts, frags)

	assert.Equal(t, []string{
		"Article_1", "ANNEX_A", "ANNEX_A_1", "ANNEX_B", "ANNEX_B_1", "ANNEX_B_1_a", "ANNEX_B_1_b",
	}, ids(rows))
	got := byID(rows)
	assert.Equal(t, "1. This Annex aims to specify the methodology.", got["ANNEX_A_1"].Text)
	assert.Equal(t, "1. Active end users means the number of unique end users.", got["ANNEX_B_1"].Text)
	assert.Equal(t, "Annex, point B.1(a)", got["ANNEX_B_1_a"].Label)
	assert.Equal(t, "Annex, point A.1", got["ANNEX_A_1"].Label)
}

func TestSegment_ShortAndBlankFragmentsDiscarded(t *testing.T) {
	frags := []string{adoption, "Article 1", "Scope", "", " ", "a", "Real text."}
	rows, stats := Segment(profile(t, "en"), DefaultOptions(), frags)

	require.Len(t, rows, 1)
	assert.Equal(t, "Real text.", rows[0].Text)
	assert.Equal(t, 3, stats.Discarded)
}

func TestSegment_LongArticleReferenceIsContent(t *testing.T) {
	frags := []string{adoption, "Article 1", "Scope", "Article 3 shall apply to all gatekeepers designated."}
	rows, _ := Segment(profile(t, "en"), DefaultOptions(), frags)

	require.Len(t, rows, 1)
	assert.Equal(t, "Article_1", rows[0].ID)
}

func TestSegment_EmptyDocument(t *testing.T) {
	rows, stats := Segment(profile(t, "en"), DefaultOptions(), nil)
	assert.Empty(t, rows)
	assert.Equal(t, []string{"no provisions extracted"}, stats.Warnings())
}

func TestSegment_OptionsDefaultsFilled(t *testing.T) {
	s := New(profile(t, "en"), Options{})
	assert.Equal(t, 2, s.opts.MinFragmentLen)
	assert.Equal(t, 25, s.opts.ArticleMaxLen)
	assert.Empty(t, s.subpar)
}
