package main

import (
	"context"
	"fmt"

	"github.com/lerenn/verba/cmd/verba/internal/cli"
	"github.com/spf13/cobra"
)

func createWhoAmICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print the account owning the token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd, func(ctx context.Context, s *cli.Session) error {
				user, err := s.Manager.WhoAmI(ctx)
				if err != nil {
					return err
				}
				if user.Name != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", user.Username, user.Name)
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), user.Username)
				return nil
			})
		},
	}
}
