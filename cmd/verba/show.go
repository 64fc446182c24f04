package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lerenn/verba/cmd/verba/internal/cli"
	"github.com/lerenn/verba/pkg/prompt"
	"github.com/lerenn/verba/pkg/revision"
	"github.com/spf13/cobra"
)

func createShowCmd() *cobra.Command {
	showCmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Show a revision and its activity",
		Long: `Show a revision and its activity. Without an id, the revision is picked
from the open ones.

Examples:
  verba show 12
  verba show acme/website#12
  verba show`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var ref revisionRef
			if len(args) == 1 {
				var err error
				if ref, err = parseRevisionRef(args[0]); err != nil {
					return err
				}
			}

			return withSession(cmd, func(ctx context.Context, s *cli.Session) error {
				id, err := ref.ID(s.Config.Repo)
				if err != nil {
					return err
				}
				if id == 0 {
					if id, err = selectRevision(ctx, newPrompter(cmd), s.Manager); err != nil {
						return err
					}
				}

				rev, err := s.Manager.Get(ctx, id)
				if err != nil {
					return err
				}

				state, err := rev.State(ctx)
				if err != nil {
					return err
				}
				assignees, err := rev.Assignees(ctx)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "#%d %s\n", rev.ID(), rev.Title())
				fmt.Fprintf(out, "  State:     %s\n", state)
				fmt.Fprintf(out, "  Creator:   %s\n", rev.Creator())
				fmt.Fprintf(out, "  Assignees: %s\n", strings.Join(assignees, ", "))
				fmt.Fprintf(out, "  Branch:    %s\n", rev.BranchName())
				fmt.Fprintf(out, "  URL:       %s\n", rev.URL())
				if d := rev.Description(); d != "" {
					fmt.Fprintf(out, "\n%s\n", d)
				}

				activities, err := rev.Activities(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, "\nActivity:")
				for a := range activities {
					when := a.CreatedAt.Format(time.DateTime)
					switch a.Kind {
					case revision.ActivityCreated:
						fmt.Fprintf(out, "  %s %s created the revision\n", when, a.CreatedBy)
					case revision.ActivityComment:
						fmt.Fprintf(out, "  %s %s: %s\n", when, a.CreatedBy, a.Body)
					}
				}
				return nil
			})
		},
	}

	return showCmd
}

// selectRevision lets the user pick one of the open revisions.
func selectRevision(ctx context.Context, p prompt.Prompter, manager revision.Manager) (int, error) {
	revisions, err := manager.GetAll(ctx)
	if err != nil {
		return 0, err
	}

	choices := make([]prompt.RevisionChoice, 0, len(revisions))
	for _, rev := range revisions {
		state, err := rev.State(ctx)
		if err != nil {
			return 0, err
		}
		choices = append(choices, prompt.RevisionChoice{ID: rev.ID(), Title: rev.Title(), State: state.String()})
	}

	choice, err := p.PromptSelectRevision(choices)
	if err != nil {
		return 0, err
	}
	return choice.ID, nil
}
