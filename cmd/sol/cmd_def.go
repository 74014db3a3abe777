package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDefCmd() *cobra.Command {
	var root string

	cmd := &cobra.Command{
		Use:   "def <file:line:column>",
		Short: "Print the declaration of the name at a position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, pos, err := parseFilePosition(args[0])
			if err != nil {
				return err
			}
			c, err := openCodebase(cmd.Context(), root, path)
			if err != nil {
				return err
			}
			loc, ok := c.DefinitionAt(path, pos)
			if !ok {
				return fmt.Errorf("no declaration found at %s", args[0])
			}
			fmt.Println(formatLocation(loc))
			return nil
		},
	}

	cmd.Flags().StringVarP(&root, "root", "r", ".", "project root directory")

	return cmd
}
