package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/lerenn/verba/cmd/verba/internal/cli"
	"github.com/spf13/cobra"
)

func createCreateCmd() *cobra.Command {
	var creator string

	createCmd := &cobra.Command{
		Use:   "create <title> [--creator <login>]",
		Short: "Create a revision",
		Long: `Create a revision: a branch from the base branch, a revision log file and
a pull request, in draft and assigned to its creator.

The creator defaults to the owner of the token.

Examples:
  verba create "About page"
  verba create "Pricing update" --creator test-owner`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.Join(args, " ")

			return withSession(cmd, func(ctx context.Context, s *cli.Session) error {
				if creator == "" {
					user, err := s.Manager.WhoAmI(ctx)
					if err != nil {
						return err
					}
					creator = user.Username
				}

				rev, err := s.Manager.Create(ctx, title, creator)
				if err != nil {
					return fmt.Errorf("failed to create revision: %w", err)
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Revision #%d created on branch %s\n", rev.ID(), rev.BranchName())
				return nil
			})
		},
	}

	createCmd.Flags().StringVar(&creator, "creator", "", "Login of the revision creator (default: token owner)")

	return createCmd
}
