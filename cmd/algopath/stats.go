package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/kasyap600/AlgoPath/backend/stats"
	"github.com/spf13/cobra"
)

func newStatsCmd(e *env) *cobra.Command {
	var (
		asJSON bool
		on     string
	)
	cmd := &cobra.Command{
		Use:   "stats <user>",
		Short: "Print a user's progress statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			today := stats.DayOf(time.Now().In(e.cfg.Location()))
			if on != "" {
				d, err := stats.ParseDay(on)
				if err != nil {
					return err
				}
				today = d
			}
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

			snap := stats.Compute(cat, s.Progress.Snapshot(), s.Dates.Days(), today)
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(snap)
			}

			fmt.Fprintf(out, "Statistics for %s (%s)\n", args[0], today)
			fmt.Fprintln(out, "-------------")
			fmt.Fprintf(out, "Solved:         %d/%d (%d%%)\n", snap.Overall.Solved, snap.Overall.Total, snap.Percent)
			fmt.Fprintf(out, "Easy:           %d/%d\n", snap.Difficulty.Easy.Solved, snap.Difficulty.Easy.Total)
			fmt.Fprintf(out, "Medium:         %d/%d\n", snap.Difficulty.Medium.Solved, snap.Difficulty.Medium.Total)
			fmt.Fprintf(out, "Hard:           %d/%d\n", snap.Difficulty.Hard.Solved, snap.Difficulty.Hard.Total)
			fmt.Fprintf(out, "Current streak: %d\n", snap.CurrentStreak)
			fmt.Fprintf(out, "Longest streak: %d\n", snap.LongestStreak)
			if snap.NextTopic != "" {
				fmt.Fprintf(out, "Next topic:     %s\n", snap.NextTopic)
			}
			for _, b := range snap.Badges {
				fmt.Fprintf(out, "Badge:          %s\n", b.Label)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the snapshot as JSON")
	cmd.Flags().StringVar(&on, "today", "", "compute streaks as of this day (YYYY-MM-DD)")
	return cmd
}
