package main

import (
	"github.com/spf13/cobra"

	"github.com/dhamidi/sol/codebase"
	"github.com/dhamidi/sol/project"
)

func newLSPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server on stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			// log settings from .sol.yaml apply unless given on the command line
			if proj, err := project.Load(); err == nil {
				flags := cmd.Flags()
				verbosity, _ := flags.GetCount("verbose")
				logFile, _ := flags.GetString("log-file")
				if !flags.Changed("verbose") {
					verbosity = proj.Config.Log.Verbosity
				}
				if !flags.Changed("log-file") {
					logFile = proj.Config.Log.File
				}
				configureLogging(verbosity, logFile)
			}
			server := codebase.NewLSPServer(version)
			return server.RunStdio()
		},
	}
}
