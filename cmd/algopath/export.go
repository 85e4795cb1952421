package main

import (
	"encoding/json"
	"os"
	"time"

	"github.com/kasyap600/AlgoPath/backend/profile"
	"github.com/kasyap600/AlgoPath/backend/stats"
	"github.com/spf13/cobra"
)

func newExportCmd(e *env) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "export <user>",
		Short: "Write everything stored for a user as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := e.catalog()
			if err != nil {
				return err
			}
			sessions, err := e.sessions(cmd.Context())
			if err != nil {
				return err
			}
			defer sessions.Close(cmd.Context())
			s, err := sessions.Open(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			now := time.Now()
			svc := profile.NewService(e.store)
			doc, err := svc.Export(cmd.Context(), cat, s, stats.DayOf(now.In(e.cfg.Location())), now)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if file != "" {
				f, err := os.Create(file)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(doc)
		},
	}
	cmd.Flags().StringVarP(&file, "output", "o", "", "write to this file instead of stdout")
	return cmd
}
