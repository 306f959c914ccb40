package main

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newLanguagesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List the language rules in effect",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tbl, err := a.languageTable()
			if err != nil {
				return err
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Code", "Article", "Chapter", "Annex", "Adoption"})
			for _, code := range tbl.Codes() {
				p, err := tbl.Profile(code)
				if err != nil {
					return err
				}
				s := p.Summary()
				t.AppendRow(table.Row{
					s.Code,
					strings.Join(s.ArticleWords, ", "),
					strings.Join(s.ChapterWords, ", "),
					strings.Join(s.AnnexWords, ", "),
					strings.Join(s.AdoptionPhrases, " | "),
				})
			}
			t.Render()

			articles := make([]string, len(tbl.SubparagraphArticles))
			for i, n := range tbl.SubparagraphArticles {
				articles[i] = fmt.Sprint(n)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "sub-paragraph articles: %s\n", strings.Join(articles, ", "))
			return nil
		},
	}
}
