package main

import (
	"fmt"

	"github.com/kasyap600/AlgoPath/backend/catalog"
	"github.com/spf13/cobra"
)

func newCatalogCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the problem catalog",
	}
	var dir string
	check := &cobra.Command{
		Use:   "check",
		Short: "Validate the catalog and print a summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				cat *catalog.Catalog
				err error
			)
			if dir != "" {
				cat, err = catalog.LoadDir(dir)
			} else {
				cat, err = e.catalog()
			}
			if err != nil {
				return fmt.Errorf("catalog invalid: %w", err)
			}

			out := cmd.OutOrStdout()
			total := 0
			for _, t := range cat.Topics {
				total += len(t.Problems)
			}
			fmt.Fprintf(out, "Topics:   %d\n", len(cat.Topics))
			fmt.Fprintf(out, "Problems: %d\n", total)
			fmt.Fprintf(out, "Plans:    %d\n", len(cat.Plans()))
			for _, p := range cat.Plans() {
				switch p.Type {
				case catalog.PlanChallenge:
					fmt.Fprintf(out, "  %-22s %-9s %3d days  %4d keys\n", p.ID, p.Type, len(p.Schedule), len(p.Keys()))
				default:
					fmt.Fprintf(out, "  %-22s %-9s %13d keys\n", p.ID, p.Type, len(p.Keys()))
				}
			}
			fmt.Fprintln(out, "OK")
			return nil
		},
	}
	check.Flags().StringVar(&dir, "dir", "", "read problems.yaml and plans.yaml from this directory")
	cmd.AddCommand(check)
	return cmd
}
