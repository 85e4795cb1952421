package main

import (
	"fmt"

	"github.com/kasyap600/AlgoPath/backend/utils"
	"github.com/spf13/cobra"
)

func newTokenCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "token <user>",
		Short: "Mint a development JWT for a user id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := utils.GenerateJWTToken(args[0], e.cfg)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
}
