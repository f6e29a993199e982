package main

import (
	"github.com/spf13/cobra"
)

func newAnalyzeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <file|->",
		Short: "Analyze one document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := opts.engine()
			if err != nil {
				return err
			}

			text, err := opts.readInput(cmd, args[0])
			if err != nil {
				return err
			}

			result, err := engine.Analyze(text)
			if err != nil {
				return err
			}
			return writeJSON(cmd, result)
		},
	}
}
