package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRefsCmd() *cobra.Command {
	var root string
	var noDeclaration bool

	cmd := &cobra.Command{
		Use:   "refs <file:line:column>",
		Short: "List every reference to the entity at a position",
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
			for _, loc := range c.ReferencesAt(path, pos, !noDeclaration) {
				fmt.Println(formatLocation(loc))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&root, "root", "r", ".", "project root directory")
	cmd.Flags().BoolVar(&noDeclaration, "no-declaration", false, "leave out the declaration itself")

	return cmd
}
