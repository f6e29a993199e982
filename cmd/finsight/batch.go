package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/finsight/internal/analysis"
)

type batchOptions struct {
	concurrency int
	rate        float64
	burst       int
	strict      bool
}

func newBatchCmd(opts *rootOptions) *cobra.Command {
	bopts := &batchOptions{}

	cmd := &cobra.Command{
		Use:   "batch <file>...",
		Short: "Analyze many documents concurrently",
		Long: `Analyzes every file and prints one outcome entry per file, keyed by
the file argument. A failed document never stops the rest of the batch.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, opts, bopts, args)
		},
	}

	flags := cmd.Flags()
	flags.IntVarP(&bopts.concurrency, "concurrency", "c", analysis.DefaultBatchConcurrency, "maximum documents analyzed at once")
	flags.Float64Var(&bopts.rate, "rate", 0, "maximum documents started per second (0 disables)")
	flags.IntVar(&bopts.burst, "burst", 1, "rate limiter burst size")
	flags.BoolVar(&bopts.strict, "strict", false, "exit non-zero when any document fails")

	return cmd
}

func runBatch(cmd *cobra.Command, opts *rootOptions, bopts *batchOptions, files []string) error {
	if bopts.rate < 0 {
		return fmt.Errorf("rate must be non-negative: %v", bopts.rate)
	}
	if bopts.burst < 1 {
		return fmt.Errorf("burst must be positive: %d", bopts.burst)
	}

	log, err := opts.logger(cmd)
	if err != nil {
		return err
	}
	logger := log.With("system", "batch")

	engine, err := opts.engine()
	if err != nil {
		return err
	}

	docs := make([]analysis.Document, 0, len(files))
	for _, f := range files {
		text, err := opts.readInput(cmd, f)
		if err != nil {
			return err
		}
		docs = append(docs, analysis.Document{ID: f, Text: text})
	}

	cfg := analysis.BatchConfig{Rate: bopts.rate, Burst: bopts.burst}.WithConcurrency(bopts.concurrency)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	start := time.Now()
	outcome := engine.Batch(ctx, docs, cfg)

	logger.Info("batch complete",
		"documents", len(docs),
		"succeeded", outcome.Succeeded(),
		"failed", len(outcome.Failed()),
		"duration", time.Since(start),
	)

	if err := writeJSON(cmd, outcome); err != nil {
		return err
	}

	if bopts.strict {
		return outcome.Err()
	}
	return nil
}
