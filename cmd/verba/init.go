package main

import (
	"fmt"
	"os"
	"slices"

	"github.com/lerenn/verba/cmd/verba/internal/cli"
	"github.com/lerenn/verba/pkg/config"
	"github.com/lerenn/verba/pkg/prompt"
	"github.com/spf13/cobra"
)

type initOpts struct {
	Repo       string
	Base       string
	Writers    []string
	Developers []string
	Force      bool
}

func createInitCmd() *cobra.Command {
	var opts initOpts

	initCmd := &cobra.Command{
		Use:   "init [--repo <org/name>] [--writers <login,...>] [--developers <login,...>]",
		Short: "Write the verba configuration file",
		Long: `Write the configuration file, starting from the defaults.

Writers and developers are added to the allowed assignees. Values missing
from the flags are asked for.

Examples:
  verba init --repo acme/website --writers alice,bob --developers carol`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			manager := cli.NewConfigManager()
			path := manager.GetConfigPath()

			if _, err := os.Stat(path); err == nil && !opts.Force {
				return fmt.Errorf("%w: %s", ErrConfigExists, path)
			}

			if err := completeInitOpts(newPrompter(cmd), cmd, &opts); err != nil {
				return err
			}

			if err := writeInitConfig(manager, opts); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", path)
			return nil
		},
	}

	initCmd.Flags().StringVar(&opts.Repo, "repo", "", "Repository holding the content (org/name)")
	initCmd.Flags().StringVar(&opts.Base, "base", "", "Branch revisions start from and merge into")
	initCmd.Flags().StringSliceVar(&opts.Writers, "writers", nil, "Logins reviewing revisions in 2i")
	initCmd.Flags().StringSliceVar(&opts.Developers, "developers", nil, "Logins publishing revisions")
	initCmd.Flags().BoolVar(&opts.Force, "force", false, "Overwrite an existing configuration file")

	return initCmd
}

// writeInitConfig saves the defaults completed with opts.
func writeInitConfig(manager config.Manager, opts initOpts) error {
	cfg := manager.DefaultConfig()
	cfg.Repo = opts.Repo
	if opts.Base != "" {
		cfg.Branches.Base = opts.Base
	}
	cfg.Assignees.Writers = opts.Writers
	cfg.Assignees.Developers = opts.Developers
	cfg.Assignees.Allowed = nil
	for _, login := range slices.Concat(opts.Writers, opts.Developers) {
		if !slices.Contains(cfg.Assignees.Allowed, login) {
			cfg.Assignees.Allowed = append(cfg.Assignees.Allowed, login)
		}
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	return manager.SaveConfig(cfg)
}

// completeInitOpts asks for the values missing from the flags.
func completeInitOpts(p prompt.Prompter, cmd *cobra.Command, opts *initOpts) error {
	var err error
	if opts.Repo == "" {
		if opts.Repo, err = p.PromptForRepo(""); err != nil {
			return err
		}
	}
	if !cmd.Flags().Changed("writers") {
		if opts.Writers, err = p.PromptForLogins("writers"); err != nil {
			return err
		}
	}
	if !cmd.Flags().Changed("developers") {
		if opts.Developers, err = p.PromptForLogins("developers"); err != nil {
			return err
		}
	}
	return nil
}
