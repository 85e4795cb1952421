package main

import (
	"fmt"
	"slices"
	"time"

	"github.com/kasyap600/AlgoPath/backend/stats"
	"github.com/spf13/cobra"
)

func newMarkCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "mark <user> [date]",
		Short: "Record a solve day for a user (default today)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now()
			day := stats.DayOf(now.In(e.cfg.Location()))
			if len(args) == 2 {
				d, err := stats.ParseDay(args[1])
				if err != nil {
					return err
				}
				day = d
			}
			sessions, err := e.sessions(cmd.Context())
			if err != nil {
				return err
			}
			s, err := sessions.Open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			added := s.Dates.Mark(day, now)
			if err := sessions.Close(cmd.Context()); err != nil {
				return err
			}
			if !slices.Contains(s.Dates.Days(), day) {
				return fmt.Errorf("mark %s: write failed", day)
			}
			if added {
				fmt.Fprintf(cmd.OutOrStdout(), "marked %s for %s\n", day, args[0])
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s already marked for %s\n", day, args[0])
			}
			return nil
		},
	}
}
