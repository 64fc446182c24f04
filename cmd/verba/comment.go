package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/lerenn/verba/cmd/verba/internal/cli"
	"github.com/spf13/cobra"
)

func createCommentCmd() *cobra.Command {
	commentCmd := &cobra.Command{
		Use:   "comment <id> <text>",
		Short: "Comment on a revision",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := parseRevisionRef(args[0])
			if err != nil {
				return err
			}

			return withSession(cmd, func(ctx context.Context, s *cli.Session) error {
				id, err := ref.ID(s.Config.Repo)
				if err != nil {
					return err
				}

				rev, err := s.Manager.Get(ctx, id)
				if err != nil {
					return err
				}
				if err := rev.AddComment(ctx, strings.Join(args[1:], " ")); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Comment added to revision #%d\n", rev.ID())
				return nil
			})
		},
	}

	return commentCmd
}
