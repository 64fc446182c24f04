package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/lerenn/verba/cmd/verba/internal/cli"
	"github.com/spf13/cobra"
)

func createFilesCmd() *cobra.Command {
	var assignments []string

	filesCmd := &cobra.Command{
		Use:   "files <id> [path] [--set key=value]...",
		Short: "List or edit the content files of a revision",
		Long: `Without a path, list the content files of a revision. With a path, print the
content items of that file, or change them with --set.

Values of items stored in an included file are written to that file.

Examples:
  verba files 12
  verba files 12 about
  verba files 12 about --set title="About us" --set body="We write things."`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := parseRevisionRef(args[0])
			if err != nil {
				return err
			}

			values, err := parseAssignments(assignments)
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

				if len(args) == 1 {
					files, err := rev.GetFiles(ctx)
					if err != nil {
						return err
					}
					if len(files) == 0 {
						fmt.Fprintln(cmd.OutOrStdout(), "No content files found.")
						return nil
					}
					for _, f := range files {
						fmt.Fprintf(cmd.OutOrStdout(), "/%s\n", f.Path())
					}
					return nil
				}

				file, err := rev.GetFile(ctx, args[1])
				if err != nil {
					return err
				}

				if len(values) > 0 {
					if err := file.SaveContentItems(ctx, values); err != nil {
						return err
					}
				}

				items, err := file.ContentItems(ctx)
				if err != nil {
					return err
				}

				t := table.NewWriter()
				t.SetOutputMirror(cmd.OutOrStdout())
				t.AppendHeader(table.Row{"Name", "Value"})
				for _, item := range items {
					t.AppendRow(table.Row{item.Name, item.Value})
				}
				t.Render()
				return nil
			})
		},
	}

	filesCmd.Flags().StringArrayVar(&assignments, "set", nil, "Set a content item (key=value), may be repeated")

	return filesCmd
}

func parseAssignments(assignments []string) (map[string]string, error) {
	values := make(map[string]string, len(assignments))
	for _, a := range assignments {
		key, value, ok := strings.Cut(a, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidAssignment, a)
		}
		values[key] = value
	}
	return values, nil
}
