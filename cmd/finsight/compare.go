package main

import (
	"errors"

	"github.com/spf13/cobra"
)

func newCompareCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "compare <file1> <file2>",
		Short: "Compare two versions of a document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] == stdinArg && args[1] == stdinArg {
				return errors.New("stdin can supply at most one input")
			}

			engine, err := opts.engine()
			if err != nil {
				return err
			}

			first, err := opts.readInput(cmd, args[0])
			if err != nil {
				return err
			}
			second, err := opts.readInput(cmd, args[1])
			if err != nil {
				return err
			}

			result, err := engine.Compare(first, second)
			if err != nil {
				return err
			}
			return writeJSON(cmd, result)
		},
	}
}
