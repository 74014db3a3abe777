package main

import (
	"fmt"
	"os"
	"reflect"

	"github.com/spf13/cobra"

	"github.com/dhamidi/sol/solidity/parser"
)

func newGrammarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grammar [production...]",
		Short: "Print the declaration grammar the parser recognizes",
		RunE: func(cmd *cobra.Command, args []string) error {
			grammar, err := parser.Grammar()
			if err != nil {
				printErrors(err)
				return err
			}
			if len(args) == 0 {
				_, err := os.Stdout.Write(parser.GrammarSource())
				return err
			}
			for _, name := range args {
				text, err := parser.ProductionText(grammar, name)
				if err != nil {
					return err
				}
				fmt.Println(text)
			}
			return nil
		},
	}

	cmd.AddCommand(newGrammarCheckCmd())

	return cmd
}

func newGrammarCheckCmd() *cobra.Command {
	var startProduction string

	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Parse and verify an EBNF grammar file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			src, err := os.ReadFile(filename)
			if err != nil {
				return fmt.Errorf("read grammar: %w", err)
			}

			if _, err := parser.ParseGrammar(filename, src, startProduction); err != nil {
				printErrors(err)
				return fmt.Errorf("%s: invalid grammar", filename)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&startProduction, "start", parser.GrammarStart, "start production for verification (if empty, only checks syntax)")

	return cmd
}

// printErrors prints one line per error when err is a list.
func printErrors(err error) {
	v := reflect.ValueOf(err)
	if v.Kind() == reflect.Slice {
		for i := 0; i < v.Len(); i++ {
			fmt.Fprintln(os.Stderr, v.Index(i).Interface())
		}
		return
	}
	fmt.Fprintln(os.Stderr, err)
}
