package main

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"

	"github.com/kasyap600/AlgoPath/backend/docstore"
	"github.com/spf13/cobra"
)

func newMigrateLegacyCmd(e *env) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "migrate-legacy <user> <file.json>",
		Short: "Re-key an exported legacy progress document and merge it",
		Long: `migrate-legacy reads a JSON object of {"<old key>": true|false}
as exported from the old web client, maps every key to its current form
and merges the result into the user's progress document. Keys that match
no catalog problem are listed and skipped.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}
			var legacy map[string]bool
			if err := json.Unmarshal(raw, &legacy); err != nil {
				return fmt.Errorf("parse %s: %w", args[1], err)
			}
			path, err := docstore.ProgressPath(args[0])
			if err != nil {
				return err
			}
			cat, err := e.catalog()
			if err != nil {
				return err
			}

			fields := docstore.Document{}
			var skipped []string
			for old, solved := range legacy {
				key, ok := cat.MigrateLegacyKey(old)
				if !ok {
					skipped = append(skipped, old)
					continue
				}
				// two legacy spellings of one problem: solved wins
				if prev, seen := fields[key].(bool); seen && prev {
					continue
				}
				fields[key] = solved
			}
			slices.Sort(skipped)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "migrated: %d\n", len(fields))
			fmt.Fprintf(out, "skipped:  %d\n", len(skipped))
			for _, k := range skipped {
				fmt.Fprintf(out, "  %s\n", k)
			}
			if dryRun || len(fields) == 0 {
				return nil
			}

			store, err := e.openStore(cmd.Context())
			if err != nil {
				return err
			}
			if err := store.Set(cmd.Context(), path, fields); err != nil {
				return err
			}
			e.logger.Info("legacy progress merged", "user", args[0], "keys", len(fields), "skipped", len(skipped))
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the mapping without writing")
	return cmd
}
