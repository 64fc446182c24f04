package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/lerenn/verba/cmd/verba/internal/cli"
	"github.com/spf13/cobra"
)

func createListCmd() *cobra.Command {
	listCmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List open revisions",
		Long: `List the open pull requests of the configured repository whose branch is a revision branch.

Examples:
  verba list
  verba ls`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd, func(ctx context.Context, s *cli.Session) error {
				revisions, err := s.Manager.GetAll(ctx)
				if err != nil {
					return fmt.Errorf("failed to list revisions: %w", err)
				}

				if len(revisions) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No revisions found.")
					return nil
				}

				t := table.NewWriter()
				t.SetOutputMirror(cmd.OutOrStdout())
				t.AppendHeader(table.Row{"ID", "Title", "State", "Creator", "Assignees"})
				for _, rev := range revisions {
					state, err := rev.State(ctx)
					if err != nil {
						return err
					}
					assignees, err := rev.Assignees(ctx)
					if err != nil {
						return err
					}
					t.AppendRow(table.Row{rev.ID(), rev.Title(), state, rev.Creator(), strings.Join(assignees, ", ")})
				}
				t.Render()
				return nil
			})
		},
	}

	return listCmd
}
