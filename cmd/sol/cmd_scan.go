package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/dhamidi/sol/codebase"
	"github.com/dhamidi/sol/project"
)

func newScanCmd() *cobra.Command {
	var showErrors bool

	cmd := &cobra.Command{
		Use:   "scan [directory]",
		Short: "Parse every source file of a project and report what was found",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) > 0 {
				root = args[0]
			}
			proj, err := project.LoadFrom(root)
			if err != nil {
				return err
			}

			start := time.Now()
			c := codebase.New(proj)
			if err := c.ScanAll(cmd.Context()); err != nil {
				return err
			}

			declarations, errors := 0, 0
			for _, doc := range c.Documents() {
				rel, err := filepath.Rel(proj.RootDir, doc.Path())
				if err != nil {
					rel = doc.Path()
				}
				fmt.Printf("%s\t%d declarations\t%d parse errors\n", rel, len(doc.Members()), len(doc.ParseErrors()))
				declarations += len(doc.Members())
				errors += len(doc.ParseErrors())
				if showErrors {
					for _, n := range doc.ParseErrors() {
						fmt.Printf("  %s:%s: %s\n", rel, n.Span.Start, n.Error.Message)
					}
				}
			}

			fmt.Printf("\n=== SCAN COMPLETE ===\n")
			fmt.Printf("Layout: %s\n", proj.Layout)
			fmt.Printf("Files: %d\n", len(c.Documents()))
			fmt.Printf("Declarations: %d\n", declarations)
			fmt.Printf("Parse errors: %d\n", errors)
			fmt.Printf("Time: %s\n", time.Since(start).Round(time.Millisecond))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&showErrors, "errors", "e", false, "list parse errors")

	return cmd
}
