package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHoverCmd() *cobra.Command {
	var root string

	cmd := &cobra.Command{
		Use:   "hover <file:line:column>",
		Short: "Print the documentation of the entity at a position",
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
			info, ok := c.HoverAt(path, pos)
			if !ok {
				return fmt.Errorf("nothing at %s", args[0])
			}
			fmt.Print(info)
			return nil
		},
	}

	cmd.Flags().StringVarP(&root, "root", "r", ".", "project root directory")

	return cmd
}
