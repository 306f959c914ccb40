// Package segment turns the ordered text fragments of one regulation edition
// into provision rows with identifiers that are stable across languages.
//
// The scan is a single forward pass. It starts in the preamble, where only
// numbered recitals are kept; an adoption formula (or, failing that, the first
// article heading) moves it into the body, where article headings open new
// provisions; a short annex marker moves it into the annex for good.
package segment

import (
	"regexp"
	"unicode/utf8"

	"github.com/dgallion1/regsplit/internal/lang"
	"github.com/dgallion1/regsplit/internal/provision"
)

var (
	recitalPattern    = regexp.MustCompile(`^\((\d+)\)\s+(.+)$`)
	paragraphPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^(\d+)\.\s+(.+)$`),
		regexp.MustCompile(`^\((\d+)\)\s+(.+)$`),
	}

	// Annex points nest: section "A.", point "1.", sub-point "(a)".
	annexSectionPattern  = regexp.MustCompile(`^([A-Z])\.\s+(.+)$`)
	annexPointPattern    = regexp.MustCompile(`^(\d+)\.\s+(.+)$`)
	annexSubPointPattern = regexp.MustCompile(`^\(([a-z0-9]{1,4})\)\s+(.+)$`)
)

// Options tunes the scan. The zero value is not useful; start from DefaultOptions.
type Options struct {
	// SubparagraphArticles are split into one provision per numbered paragraph.
	SubparagraphArticles []int
	// SplitAnnexItems gives numbered annex points their own ANNEX_<slug> rows.
	SplitAnnexItems bool
	// ChapterSubtitles appends the fragment after a chapter heading to its label.
	ChapterSubtitles bool

	MinFragmentLen int // Shorter fragments are discarded unread.
	ChapterMaxLen  int // Chapter headings are shorter than this.
	ArticleMaxLen  int // Article headings are shorter than this.
	AnnexMaxLen    int // Annex markers are shorter than this.
}

func DefaultOptions() Options {
	return Options{
		SubparagraphArticles: []int{5, 6, 7},
		ChapterSubtitles:     true,
		MinFragmentLen:       2,
		ChapterMaxLen:        40,
		ArticleMaxLen:        25,
		AnnexMaxLen:          30,
	}
}

// state is everything the scan carries from one fragment to the next.
type state struct {
	zone provision.Zone

	articleNum   int
	articleID    string
	articleTitle string
	expectTitle  bool

	// Active bucket: where content fragments go. Equal to articleID unless a
	// numbered paragraph or annex point has opened a narrower one.
	bucketID    string
	bucketType  provision.Type
	bucketLabel string

	// Enclosing annex section and point, for qualifying annex item IDs.
	annexSection string
	annexPoint   string

	chapterSeq     int
	pendingChapter int // index into rows of a chapter awaiting its subtitle, or -1
}

// Segmenter accumulates rows for one document. Use New, Feed every fragment in
// order, then Result.
type Segmenter struct {
	profile *lang.Profile
	opts    Options
	subpar  map[int]bool

	st    state
	rows  []provision.Provision
	stats Stats
}

func New(profile *lang.Profile, opts Options) *Segmenter {
	def := DefaultOptions()
	if opts.MinFragmentLen <= 0 {
		opts.MinFragmentLen = def.MinFragmentLen
	}
	if opts.ChapterMaxLen <= 0 {
		opts.ChapterMaxLen = def.ChapterMaxLen
	}
	if opts.ArticleMaxLen <= 0 {
		opts.ArticleMaxLen = def.ArticleMaxLen
	}
	if opts.AnnexMaxLen <= 0 {
		opts.AnnexMaxLen = def.AnnexMaxLen
	}
	subpar := make(map[int]bool, len(opts.SubparagraphArticles))
	for _, n := range opts.SubparagraphArticles {
		subpar[n] = true
	}
	return &Segmenter{
		profile: profile,
		opts:    opts,
		subpar:  subpar,
		st:      state{zone: provision.ZonePreamble, pendingChapter: -1},
	}
}

// Segment runs a whole document through a fresh Segmenter.
func Segment(profile *lang.Profile, opts Options, fragments []string) ([]provision.Provision, Stats) {
	s := New(profile, opts)
	for _, f := range fragments {
		s.Feed(f)
	}
	return s.Result()
}

// Zone reports where the scan currently is.
func (s *Segmenter) Zone() provision.Zone { return s.st.zone }

// Feed classifies one fragment.
func (s *Segmenter) Feed(raw string) {
	s.stats.Fragments++
	frag := Normalize(raw)
	n := utf8.RuneCountInString(frag)
	if n < s.opts.MinFragmentLen {
		s.stats.Discarded++
		return
	}
	upper := s.profile.Upper(matchForm(frag))

	if s.st.zone != provision.ZoneAnnex {
		if s.takeChapterSubtitle(frag, upper, n) {
			return
		}
		if n < s.opts.ChapterMaxLen && s.profile.IsChapter(upper) {
			s.st.chapterSeq++
			s.emit(provision.Provision{
				ID:    provision.ChapterID(s.st.chapterSeq),
				Type:  provision.TypeChapter,
				Label: frag,
				Text:  frag,
			})
			if s.opts.ChapterSubtitles {
				s.st.pendingChapter = len(s.rows) - 1
			}
			return
		}
	}

	if s.st.zone == provision.ZonePreamble {
		if s.profile.IsAdoption(upper) {
			s.st.zone = provision.ZoneBody
			s.stats.Trigger = TriggerAdoption
			return
		}
		if s.profile.IsArticleOne(upper) {
			// Falls through: the same fragment is the first article heading.
			s.st.zone = provision.ZoneBody
			s.stats.Trigger = TriggerArticleOne
		}
	}

	if n < s.opts.AnnexMaxLen && s.profile.IsAnnex(upper) {
		s.enterAnnex()
		return
	}

	switch s.st.zone {
	case provision.ZonePreamble:
		s.recital(frag)
		return
	case provision.ZoneBody:
		if n < s.opts.ArticleMaxLen {
			if num, ok := s.profile.ArticleNumber(upper); ok {
				s.openArticle(num)
				return
			}
		}
		if s.st.expectTitle {
			s.st.articleTitle = frag
			s.st.expectTitle = false
			return
		}
	}

	if s.st.articleID == "" {
		s.stats.Dropped++
		return
	}
	s.capture(frag)
}

// takeChapterSubtitle consumes the fragment after a chapter heading as the
// chapter's subtitle, unless the fragment is itself structural.
func (s *Segmenter) takeChapterSubtitle(frag, upper string, n int) bool {
	idx := s.st.pendingChapter
	if idx < 0 {
		return false
	}
	s.st.pendingChapter = -1
	if s.isStructural(upper, n) {
		return false
	}
	row := &s.rows[idx]
	row.Label = row.Label + " - " + frag
	row.Text = row.Label
	return true
}

func (s *Segmenter) isStructural(upper string, n int) bool {
	if n < s.opts.ChapterMaxLen && s.profile.IsChapter(upper) {
		return true
	}
	if n < s.opts.AnnexMaxLen && s.profile.IsAnnex(upper) {
		return true
	}
	if n < s.opts.ArticleMaxLen {
		if _, ok := s.profile.ArticleNumber(upper); ok {
			return true
		}
	}
	return s.st.zone == provision.ZonePreamble && s.profile.IsAdoption(upper)
}

func (s *Segmenter) enterAnnex() {
	s.st.zone = provision.ZoneAnnex
	s.st.articleNum = 0
	s.st.articleID = provision.AnnexMainID
	s.st.articleTitle = "Annex"
	s.st.expectTitle = false
	s.st.pendingChapter = -1
	s.st.annexSection = ""
	s.st.annexPoint = ""
	s.setBucket(provision.AnnexMainID, provision.TypeAnnex, "Annex")
	s.stats.Annex = true
}

func (s *Segmenter) recital(frag string) {
	m := recitalPattern.FindStringSubmatch(frag)
	if m == nil {
		s.stats.Dropped++
		return
	}
	s.emit(provision.Provision{
		ID:    provision.RecitalID(m[1]),
		Type:  provision.TypeRecital,
		Label: provision.RecitalLabel(m[1]),
		Text:  frag,
	})
}

func (s *Segmenter) openArticle(num int) {
	s.st.articleNum = num
	s.st.articleID = provision.ArticleID(num)
	s.st.articleTitle = ""
	s.st.expectTitle = true
	s.setBucket(s.st.articleID, provision.TypeArticle, provision.ArticleLabel(num))
}

func (s *Segmenter) setBucket(id string, typ provision.Type, label string) {
	s.st.bucketID = id
	s.st.bucketType = typ
	s.st.bucketLabel = label
}

// capture files a content fragment under the active bucket, first letting a
// paragraph number or annex point open a new one.
func (s *Segmenter) capture(frag string) {
	text := frag
	switch {
	case s.st.zone == provision.ZoneAnnex:
		if s.opts.SplitAnnexItems {
			s.annexItem(frag)
		}
	case s.subpar[s.st.articleNum]:
		if p, rest, ok := matchAny(paragraphPatterns, frag); ok {
			s.setBucket(
				provision.SubParagraphID(s.st.articleID, p),
				provision.TypeArticle,
				provision.SubParagraphLabel(s.st.articleNum, p),
			)
			text = rest
		}
	}
	s.emit(provision.Provision{
		ID:    s.st.bucketID,
		Type:  s.st.bucketType,
		Label: s.st.bucketLabel,
		Title: s.st.articleTitle,
		Text:  text,
	})
}

// annexItem opens the bucket of an annex section, point or sub-point. Points
// are qualified by their section and sub-points by both, since numbering
// restarts in every section.
func (s *Segmenter) annexItem(frag string) {
	var sub string
	switch {
	case annexSectionPattern.MatchString(frag):
		s.st.annexSection = annexSectionPattern.FindStringSubmatch(frag)[1]
		s.st.annexPoint = ""
	case annexPointPattern.MatchString(frag):
		s.st.annexPoint = annexPointPattern.FindStringSubmatch(frag)[1]
	case annexSubPointPattern.MatchString(frag):
		sub = annexSubPointPattern.FindStringSubmatch(frag)[1]
	default:
		return
	}
	section, point := s.st.annexSection, s.st.annexPoint
	s.setBucket(
		provision.AnnexItemID(section, point, sub),
		provision.TypeAnnexItem,
		provision.AnnexItemLabel(section, point, sub),
	)
}

func matchAny(patterns []*regexp.Regexp, s string) (marker, rest string, ok bool) {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(s); m != nil {
			return m[1], m[2], true
		}
	}
	return "", "", false
}

func (s *Segmenter) emit(p provision.Provision) {
	s.rows = append(s.rows, p)
}

// Result merges the accumulated rows and returns them with the scan's counters.
func (s *Segmenter) Result() ([]provision.Provision, Stats) {
	merged := Merge(s.rows)
	stats := s.stats
	stats.Zone = s.st.zone
	stats.Rows = len(merged)
	stats.ByType = make(map[provision.Type]int)
	for _, p := range merged {
		stats.ByType[p.Type]++
	}
	return merged, stats
}
