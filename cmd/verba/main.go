// Package main provides the command-line interface for verba.
package main

import (
	"context"
	"log"

	"github.com/lerenn/verba/cmd/verba/internal/cli"
	"github.com/lerenn/verba/pkg/prompt"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "verba",
		Short: "Verba - content revisions on GitHub",
		Long: `Manage content revisions stored as pull requests: create them, move them
through draft, 2i and ready for publishing, comment on them and edit their content.

The GitHub token is read from the GITHUB_TOKEN environment variable or from a .env file.`,
		SilenceUsage: true,
	}

	// Add global flags
	rootCmd.PersistentFlags().BoolVarP(&cli.Verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&cli.ConfigPath, "config", "c", "", "Specify a custom config file path")
	rootCmd.PersistentFlags().StringVar(&cli.EnvFile, "env-file", "", "Read the token from this dotenv file (default .env)")
	rootCmd.PersistentFlags().BoolVar(&cli.Stats, "stats", false, "Print upstream request counters after the command")

	rootCmd.AddCommand(
		createInitCmd(),
		createListCmd(),
		createShowCmd(),
		createCreateCmd(),
		createMoveCmd(),
		createCommentCmd(),
		createEditCmd(),
		createCloseCmd(),
		createDiffCmd(),
		createFilesCmd(),
		createWhoAmICmd(),
	)

	return rootCmd
}

// newPrompter returns the prompter reading answers from the command input.
var newPrompter = func(cmd *cobra.Command) prompt.Prompter {
	return prompt.NewPrompt(prompt.NewPromptParams{In: cmd.InOrStdin(), Out: cmd.OutOrStdout()})
}

// withSession opens a session, runs fn and prints the counters when asked.
func withSession(cmd *cobra.Command, fn func(ctx context.Context, s *cli.Session) error) error {
	s, err := cli.NewSession()
	if err != nil {
		return err
	}

	if err := fn(cmd.Context(), s); err != nil {
		return err
	}

	if cli.Stats {
		return cli.PrintStats(cmd.ErrOrStderr(), s.Registry)
	}
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}
