package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/dgallion1/regsplit/internal/config"
	"github.com/dgallion1/regsplit/internal/lang"
	"github.com/dgallion1/regsplit/internal/metrics"
	"github.com/dgallion1/regsplit/internal/output"
	"github.com/dgallion1/regsplit/internal/parser"
	"github.com/dgallion1/regsplit/internal/segment"
)

// Runner extracts every document of the input directory, one after another.
type Runner struct {
	cfg   config.Config
	table *lang.Table
	rec   *metrics.Recorder
	log   *slog.Logger
}

func NewRunner(cfg config.Config, table *lang.Table, rec *metrics.Recorder, log *slog.Logger) *Runner {
	if rec == nil {
		rec = metrics.NewRecorder()
	}
	return &Runner{cfg: cfg, table: table, rec: rec, log: log}
}

// Discover lists the files under dir matching pattern, sorted. Paths are
// joined with dir.
func Discover(dir, pattern string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("input dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("input dir %s: not a directory", dir)
	}

	matches, err := doublestar.Glob(os.DirFS(dir), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", pattern, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w in %s (pattern %q)", ErrNoDocuments, dir, pattern)
	}
	sort.Strings(matches)

	paths := make([]string, len(matches))
	for i, m := range matches {
		paths[i] = filepath.Join(dir, filepath.FromSlash(m))
	}
	return paths, nil
}

// Run processes every discovered document. Failures of single documents are
// recorded in the report; Run itself fails when nothing was found, when every
// document failed, or when ctx is cancelled.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	paths, err := Discover(r.cfg.InputDir, r.cfg.Pattern)
	if err != nil {
		return nil, err
	}
	r.log.Info("starting extraction", "documents", len(paths), "input_dir", r.cfg.InputDir, "output_dir", r.cfg.OutputDir)

	report := &Report{}
	seen := make(map[string]string)
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		res := r.process(path, seen)
		r.rec.Document(string(res.Status))
		report.Documents = append(report.Documents, res)
	}
	report.Durations = r.rec.Durations()

	if r.cfg.MetricsFile != "" {
		if err := r.rec.WriteFile(r.cfg.MetricsFile); err != nil {
			return report, err
		}
	}

	if n := report.Count(StatusFailed); n == len(report.Documents) {
		return report, fmt.Errorf("%w: %d of %d", ErrAllFailed, n, len(report.Documents))
	}
	return report, nil
}

func (r *Runner) segmentOptions() segment.Options {
	opts := segment.DefaultOptions()
	opts.SubparagraphArticles = r.table.SubparagraphArticles
	if r.cfg.SubparagraphArticles != nil {
		opts.SubparagraphArticles = r.cfg.SubparagraphArticles
	}
	opts.SplitAnnexItems = r.cfg.SplitAnnexItems
	return opts
}

// process runs parse, segment and write for one document.
func (r *Runner) process(path string, seen map[string]string) (res DocumentResult) {
	start := time.Now()
	name := filepath.Base(path)
	code := parser.LanguageFromFilename(name)
	res = DocumentResult{File: name, Lang: code}
	defer func() { res.Duration = time.Since(start) }()

	log := r.log.With("lang", code, "file", name)
	log.Info("processing document")

	if code == "" {
		res.fail("language", fmt.Errorf("no language code in file name %q", name))
		log.Error("document failed", "phase", res.Phase, "error", res.Err)
		return res
	}
	if prev, dup := seen[code]; dup {
		res.fail("language", fmt.Errorf("%w %q: already produced by %s", ErrDuplicateLanguage, code, prev))
		log.Error("document failed", "phase", res.Phase, "error", res.Err)
		return res
	}
	seen[code] = name

	profile, fellBack, err := r.table.ProfileOrFallback(code, r.cfg.DefaultLanguage)
	if err != nil {
		res.fail("language", err)
		log.Error("document failed", "phase", res.Phase, "error", err)
		return res
	}
	if fellBack {
		res.Fallback = profile.Code
		res.Warnings = append(res.Warnings, fmt.Sprintf("no rules for %q; used %q", code, profile.Code))
		log.Warn("unknown language, using fallback rules", "fallback", profile.Code)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		res.fail("read", err)
		log.Error("document failed", "phase", res.Phase, "error", err)
		return res
	}
	res.ContentHash = ContentHashHex(data)

	p, err := parser.ForFile(name, parser.Options{
		Selector:             r.cfg.Selector,
		PDFFallbackPdftotext: r.cfg.PDFFallbackPdftotext,
	})
	if err != nil {
		res.fail("parse", err)
		log.Error("document failed", "phase", res.Phase, "error", err)
		return res
	}
	src, err := p.Parse(bytes.NewReader(data), name)
	if err != nil {
		res.fail("parse", err)
		log.Error("document failed", "phase", res.Phase, "error", err)
		return res
	}
	res.Title = src.Title
	log.Debug("parsed document", "title", src.Title, "fragments", len(src.Fragments))

	rows, stats := segment.Segment(profile, r.segmentOptions(), src.Fragments)
	r.rec.Segment(time.Since(start))
	res.Rows = len(rows)
	res.Stats = stats
	for _, w := range stats.Warnings() {
		res.Warnings = append(res.Warnings, w)
		log.Warn(w, "fragments", stats.Fragments, "zone", stats.Zone.String())
	}

	out := output.Path(r.cfg.OutputDir, r.cfg.OutputPrefix, code)
	if err := output.WriteFile(out, rows); err != nil {
		res.fail("write", err)
		log.Error("document failed", "phase", res.Phase, "error", err)
		return res
	}
	res.Output = out
	res.Status = StatusWritten
	if len(rows) == 0 {
		res.Status = StatusEmpty
	}

	r.rec.Provisions(code, stats.ByType)
	r.rec.Dropped(code, stats.Dropped)
	log.Info("document written",
		"rows", res.Rows,
		"dropped", stats.Dropped,
		"trigger", string(stats.Trigger),
		"output", out,
	)
	return res
}
