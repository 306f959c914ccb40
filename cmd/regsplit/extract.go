package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dgallion1/regsplit/internal/config"
	"github.com/dgallion1/regsplit/internal/metrics"
	"github.com/dgallion1/regsplit/internal/pipeline"
)

func newExtractCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Write one provision table per language edition",
		Example: `  regsplit extract --input ./editions --output ./tables
  regsplit extract --input ./editions --output ./tables --selector '#docHtml' --strict`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runExtract(cmd)
		},
	}

	f := cmd.Flags()
	f.String("input", "", "directory holding one document per language")
	f.String("output", "", "directory for the CSV tables")
	f.String("pattern", config.DefaultPattern, "glob selecting input documents")
	f.String("prefix", "provisions", "table name prefix: <prefix>_<lang>.csv")
	f.String("selector", "", "CSS selector limiting HTML extraction")
	f.String("subparagraph-articles", "", "articles split per numbered paragraph, e.g. 5,6,7")
	f.Bool("split-annex-items", false, "give numbered annex points their own rows")
	f.Bool("pdf-fallback", true, "use pdftotext when the PDF reader fails")
	f.String("metrics-file", "", "write Prometheus metrics to this file")
	f.Bool("strict", false, "exit non-zero when any document has warnings")

	for key, name := range map[string]string{
		config.KeyInputDir:             "input",
		config.KeyOutputDir:            "output",
		config.KeyPattern:              "pattern",
		config.KeyOutputPrefix:         "prefix",
		config.KeySelector:             "selector",
		config.KeySubparagraphArticles: "subparagraph-articles",
		config.KeySplitAnnexItems:      "split-annex-items",
		config.KeyPDFFallback:          "pdf-fallback",
		config.KeyMetricsFile:          "metrics-file",
		config.KeyStrict:               "strict",
	} {
		mustBind(a.v, key, f.Lookup(name))
	}
	return cmd
}

func (a *app) runExtract(cmd *cobra.Command) error {
	if err := a.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	table, err := a.languageTable()
	if err != nil {
		return err
	}

	runner := pipeline.NewRunner(a.cfg, table, metrics.NewRecorder(), a.log)
	report, err := runner.Run(cmd.Context())
	if report != nil {
		report.Render(cmd.OutOrStdout())
	}
	if err != nil {
		return err
	}

	if warnings := report.Warnings(); a.cfg.Strict && len(warnings) > 0 {
		return fmt.Errorf("strict mode: %d warning(s)", len(warnings))
	}
	a.log.Info("extraction finished",
		"written", report.Count(pipeline.StatusWritten),
		"empty", report.Count(pipeline.StatusEmpty),
		"failed", report.Count(pipeline.StatusFailed),
	)
	return nil
}
