package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/finsight/internal/analysis"
	"github.com/JaimeStill/finsight/pkg/logging"
)

// stdinArg reads the input text from standard input.
const stdinArg = "-"

type rootOptions struct {
	maxLength   int
	lexiconPath string
	logLevel    string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "finsight",
		Short: "Financial document risk and anomaly analysis",
		Long: `Analyzes financial text for entities, risk and sentiment scores,
and anomaly findings. Inputs are UTF-8 text files, or - for stdin.`,
		SilenceUsage: true,
	}

	flags := cmd.PersistentFlags()
	flags.IntVar(&opts.maxLength, "max-length", analysis.DefaultMaxTextLength, "truncate each input to this many characters (0 disables)")
	flags.StringVar(&opts.lexiconPath, "lexicon", "", "path to a custom lexicon YAML file")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	cmd.AddCommand(
		newAnalyzeCmd(opts),
		newCompareCmd(opts),
		newBatchCmd(opts),
	)

	return cmd
}

func (o *rootOptions) engine() (*analysis.Engine, error) {
	cfg := analysis.Config{LexiconPath: o.lexiconPath}
	return cfg.Engine()
}

func (o *rootOptions) logger(cmd *cobra.Command) (*logging.Logger, error) {
	cfg := &logging.Config{Level: o.logLevel}
	if err := cfg.Finalize(nil); err != nil {
		return nil, fmt.Errorf("log-level: %w", err)
	}
	return logging.NewWithWriter(cfg, cmd.ErrOrStderr()), nil
}

func (o *rootOptions) readInput(cmd *cobra.Command, name string) (string, error) {
	var (
		data []byte
		err  error
	)
	if name == stdinArg {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	return analysis.Truncate(string(data), o.maxLength), nil
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}
