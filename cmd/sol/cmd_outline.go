package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/sol/format"
	"github.com/dhamidi/sol/solidity"
)

func newOutlineCmd() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "outline <file>",
		Short: "Print the declarations of a .sol file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read solidity file: %w", err)
			}
			encoder, ok := format.NewEncoder(outputFormat, os.Stdout)
			if !ok {
				return fmt.Errorf("unknown format: %s", outputFormat)
			}
			doc := solidity.NewDocument(args[0], content, nil)
			if err := encoder.Encode(doc); err != nil {
				return fmt.Errorf("encode outline: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "line", "output format (json, line)")

	return cmd
}
