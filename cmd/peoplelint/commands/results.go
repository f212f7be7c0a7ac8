package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/dyluth/peoplelint/internal/filter"
	"github.com/dyluth/peoplelint/internal/lint"
	"github.com/dyluth/peoplelint/internal/printer"
	"github.com/dyluth/peoplelint/internal/report"
	"github.com/dyluth/peoplelint/internal/resolver"
	"github.com/dyluth/peoplelint/internal/store"
	"github.com/dyluth/peoplelint/internal/watch"
)

var (
	resultsRedisAddr    string
	resultsOutputFormat string
	resultsFailed       bool
	resultsFollow       bool
	resultsTimeout      time.Duration
)

var resultsCmd = &cobra.Command{
	Use:   "results RUN_ID [ABBR_GLOB]",
	Short: "Show results published by lint --publish",
	Long: `Read back the results of a published lint run from Redis.

RUN_ID may be shortened to a unique prefix of at least 6 characters.
With ABBR_GLOB, only matching jurisdictions are shown.

Examples:
  peoplelint results 0b7a3c1e-9f6d-4b2a-8e5c-1d2f3a4b5c6d
  peoplelint results 0b7a3c nc --output=json
  peoplelint results 0b7a3c 'n*' --failed
  peoplelint results 0b7a3c --follow`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runResults,
}

func init() {
	resultsCmd.Flags().StringVar(&resultsRedisAddr, "redis", "", "Redis address (default $"+EnvRedis+" or localhost:6379)")
	resultsCmd.Flags().StringVarP(&resultsOutputFormat, "output", "o", "text", "Output format: text or json")
	resultsCmd.Flags().BoolVar(&resultsFailed, "failed", false, "Only show jurisdictions with errors")
	resultsCmd.Flags().BoolVarP(&resultsFollow, "follow", "f", false, "Keep streaming result events after printing")
	resultsCmd.Flags().DurationVar(&resultsTimeout, "timeout", 0, "Stop following after this long (0 = until interrupted)")

	rootCmd.AddCommand(resultsCmd)
}

func runResults(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if resultsOutputFormat != "text" && resultsOutputFormat != "json" {
		return printer.Error(
			"invalid output format",
			fmt.Sprintf("Unknown format: %s", resultsOutputFormat),
			[]string{"Valid formats: text, json"},
		)
	}

	redisOpts := &redis.Options{Addr: resolve(resultsRedisAddr, EnvRedis, "localhost:6379")}

	runs := store.NewRuns(redisOpts)
	defer runs.Close()

	if err := runs.Ping(ctx); err != nil {
		return printer.Error("redis not reachable", err.Error(), []string{"Check the --redis address"})
	}

	runID, err := resolver.ResolveRunID(ctx, runs, args[0])
	if err != nil {
		var ambiguous *resolver.AmbiguousError
		var notFound *resolver.NotFoundError
		switch {
		case errors.As(err, &ambiguous):
			return printer.Error("ambiguous run id", resolver.FormatAmbiguousError(ambiguous), nil)
		case errors.As(err, &notFound):
			return printer.Error("run not found", notFound.Error(), []string{"Use the run id printed by lint --publish"})
		}
		return printer.Error("invalid run id", err.Error(), []string{"Use the run id printed by lint --publish"})
	}

	client, err := store.NewClient(redisOpts, runID)
	if err != nil {
		return printer.Error("invalid run id", err.Error(), nil)
	}
	defer client.Close()

	results, err := client.ListResults(ctx)
	if err != nil {
		return printer.Error("failed to read results", err.Error(), nil)
	}

	criteria := filter.Criteria{FailedOnly: resultsFailed}
	if len(args) == 2 {
		criteria.AbbrGlob = args[1]
	}
	results = criteria.Apply(results)
	if len(results) == 0 {
		msg := fmt.Sprintf("Run %s has no published results", runID)
		if criteria.HasFilters() {
			msg = fmt.Sprintf("No results in run %s match the filters", runID)
		}
		return printer.Error("no results found", msg, nil)
	}

	if resultsOutputFormat == "json" {
		merged := lint.NewResult()
		for _, stored := range results {
			merged.Merge(stored.Result)
		}
		if err := report.WriteJSON(out, merged); err != nil {
			return err
		}
	} else {
		for _, stored := range results {
			printer.Heading(out, fmt.Sprintf("==== %s ====", stored.Abbr))
			report.WriteText(out, stored.Result, verbosity > 0)
			printer.Line(out, fmt.Sprintf("%d errors", stored.ErrorCount))
		}
	}

	if resultsFollow {
		return follow(ctx, client, out)
	}
	return nil
}

func follow(ctx context.Context, client *store.Client, out io.Writer) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	if resultsTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, resultsTimeout)
		defer cancel()
	}

	if err := watch.Stream(ctx, client, watch.Printer(out)); err != nil {
		return printer.Error("failed to follow results", err.Error(), nil)
	}
	return nil
}
