package main

import (
	"context"
	"fmt"

	"github.com/lerenn/verba/cmd/verba/internal/cli"
	"github.com/lerenn/verba/pkg/revision"
	"github.com/spf13/cobra"
)

func createEditCmd() *cobra.Command {
	var title, description string

	editCmd := &cobra.Command{
		Use:   "edit <id> [--title <title>] [--description <text>]",
		Short: "Change the title or the description of a revision",
		Args:  cobra.ExactArgs(1),
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

				newTitle, newDescription := rev.Title(), rev.Description()
				if cmd.Flags().Changed("title") {
					newTitle = title
				}
				if cmd.Flags().Changed("description") {
					newDescription = description
				}

				if err := rev.Edit(ctx, newTitle, newDescription); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Revision #%d updated\n", rev.ID())
				return nil
			})
		},
	}

	editCmd.Flags().StringVar(&title, "title", "", "New title")
	editCmd.Flags().StringVar(&description, "description", "", "New description")

	return editCmd
}

func createCloseCmd() *cobra.Command {
	var yes bool

	closeCmd := &cobra.Command{
		Use:   "close <id>",
		Short: "Close a revision",
		Args:  cobra.ExactArgs(1),
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
				if !yes {
					ok, err := newPrompter(cmd).PromptForConfirmation(
						fmt.Sprintf("Close revision #%d %q?", rev.ID(), rev.Title()), false)
					if err != nil {
						return err
					}
					if !ok {
						fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
						return nil
					}
				}

				if err := revision.Transition(ctx, rev, revision.StateClosed,
					revision.DefaultPrecondition(revision.StateClosed)); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Revision #%d closed\n", rev.ID())
				return nil
			})
		},
	}

	closeCmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")

	return closeCmd
}

func createDiffCmd() *cobra.Command {
	diffCmd := &cobra.Command{
		Use:   "diff <id>",
		Short: "Print the diff of a revision",
		Args:  cobra.ExactArgs(1),
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
				diff, err := rev.Diff(ctx)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), diff)
				return nil
			})
		},
	}

	return diffCmd
}
