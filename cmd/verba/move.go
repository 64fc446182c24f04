package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/lerenn/verba/cmd/verba/internal/cli"
	"github.com/lerenn/verba/pkg/revision"
	"github.com/spf13/cobra"
)

func createMoveCmd() *cobra.Command {
	var force bool

	moveCmd := &cobra.Command{
		Use:   "move <id> <draft|2i|ready for publishing>",
		Short: "Move a revision to another state",
		Long: `Move a revision to another workflow state and assign the matching person.

  draft                 assigns the creator
  2i                    assigns a random writer other than the creator, from draft only
  ready for publishing  assigns a random developer, from draft or 2i only

Flags:
  --force   Skip the check on the current state

Examples:
  verba move 12 2i
  verba move 12 ready for publishing`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := parseRevisionRef(args[0])
			if err != nil {
				return err
			}
			target, ok := revision.ParseState(strings.Join(args[1:], " "))
			if !ok || target == revision.StateClosed {
				return fmt.Errorf("%w: %q", ErrInvalidState, strings.Join(args[1:], " "))
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

				precondition := revision.DefaultPrecondition(target)
				if force {
					precondition = nil
				}
				if err := revision.Transition(ctx, rev, target, precondition); err != nil {
					return err
				}

				assignees, err := rev.Assignees(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Revision #%d moved to %s, assigned to %s\n",
					rev.ID(), target, strings.Join(assignees, ", "))
				return nil
			})
		},
	}

	moveCmd.Flags().BoolVar(&force, "force", false, "Skip the check on the current state")

	return moveCmd
}
