package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dgallion1/regsplit/internal/output"
	"github.com/dgallion1/regsplit/internal/xref"
)

func newXrefCmd(a *app) *cobra.Command {
	var linksPath, tablePath string
	var orphans bool

	cmd := &cobra.Command{
		Use:   "xref",
		Short: "Check a link table's references against a provision table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			links, err := output.ReadFile(linksPath)
			if err != nil {
				return err
			}
			table, err := output.ReadFile(tablePath)
			if err != nil {
				return err
			}
			if !links.Has(xref.ColID) {
				return fmt.Errorf("%s: no %s column", linksPath, xref.ColID)
			}

			out := cmd.OutOrStdout()
			problems := xref.Check(links, table)
			for _, p := range problems {
				fmt.Fprintln(out, p.String())
			}
			if orphans {
				for _, id := range xref.Orphans(links, table) {
					fmt.Fprintf(out, "unreferenced: %s\n", id)
				}
			}
			a.log.Info("cross-references checked", "links", len(links.Rows), "problems", len(problems))

			if len(problems) > 0 {
				return fmt.Errorf("%d broken reference(s)", len(problems))
			}
			fmt.Fprintln(out, "all references resolve")
			return nil
		},
	}

	cmd.Flags().StringVar(&linksPath, "links", "", "link table with ID and Related_Recitals columns")
	cmd.Flags().StringVar(&tablePath, "table", "", "provision table written by extract")
	cmd.Flags().BoolVar(&orphans, "orphans", false, "also list recitals no article references")
	_ = cmd.MarkFlagRequired("links")
	_ = cmd.MarkFlagRequired("table")
	return cmd
}
