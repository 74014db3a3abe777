package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/sol/project"
)

func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Write a " + project.ConfigFile + " with the defaults detected for a project",
		Long: `Write a ` + project.ConfigFile + ` with the defaults detected for a project.

The layout is detected from foundry.toml or a hardhat config file and
decides the default source and library directories. Edit the file to
change them, add remappings or exclude patterns.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			proj, err := project.LoadFrom(dir)
			if err != nil {
				return err
			}
			if proj.ConfigPath != "" && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", proj.ConfigPath)
			}
			if err := proj.Save(); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "wrote %s (%s layout)\n", proj.ConfigPath, proj.Layout)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing configuration file")

	return cmd
}
