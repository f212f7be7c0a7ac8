package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/dyluth/peoplelint/internal/dataset"
	"github.com/dyluth/peoplelint/internal/git"
	"github.com/dyluth/peoplelint/internal/lint"
	"github.com/dyluth/peoplelint/internal/printer"
	"github.com/dyluth/peoplelint/internal/report"
	"github.com/dyluth/peoplelint/internal/runner"
	"github.com/dyluth/peoplelint/internal/store"
	"github.com/dyluth/peoplelint/internal/timespec"
)

var (
	lintData         string
	lintSettings     string
	lintMetadata     string
	lintDate         string
	lintMunicipal    bool
	lintNoMunicipal  bool
	lintRetire       bool
	lintOutputFormat string
	lintPublish      bool
	lintRedisAddr    string
	lintJobs         int
)

var lintCmd = &cobra.Command{
	Use:   "lint [ABBR...]",
	Short: "Lint person records",
	Long: `Lint the YAML records of one or more jurisdictions.

With no ABBR, every jurisdiction directory under the data root is linted.
Jurisdictions are linted in parallel; the report is printed in
abbreviation order.

Exit status:
  0    no errors
  99   one or more errors were reported
  255  a vacancy in settings has expired or names an unknown seat

Examples:
  # Lint everything
  peoplelint lint

  # Lint North Carolina as of the start of 2023
  peoplelint lint nc --date=2023-01-01

  # Retire people without an active role instead of failing
  peoplelint lint nc --retire

  # Machine-readable output, also published to Redis
  peoplelint lint --output=json --publish`,
	RunE: runLint,
}

func init() {
	lintCmd.Flags().StringVar(&lintData, "data", "", "Data root (default $"+EnvData+" or ./data)")
	lintCmd.Flags().StringVar(&lintSettings, "settings", "", "Settings file (default $"+EnvSettings+" or ./settings.yml)")
	lintCmd.Flags().StringVar(&lintMetadata, "metadata", "", "Jurisdiction metadata file (default $"+EnvMetadata+" or ./jurisdictions.yml)")
	lintCmd.Flags().StringVar(&lintDate, "date", "", "Lint roles as of this date (YYYY-MM-DD, RFC3339 or duration ago)")
	lintCmd.Flags().BoolVar(&lintMunicipal, "municipal", true, "Lint municipal records")
	lintCmd.Flags().BoolVar(&lintNoMunicipal, "no-municipal", false, "Skip municipal records")
	lintCmd.Flags().BoolVar(&lintRetire, "retire", false, "Retire people reported with no active roles instead of failing")
	lintCmd.Flags().StringVarP(&lintOutputFormat, "output", "o", "text", "Output format: text or json")
	lintCmd.Flags().BoolVar(&lintPublish, "publish", false, "Publish results to Redis under a new run id")
	lintCmd.Flags().StringVar(&lintRedisAddr, "redis", "", "Redis address for --publish (default $"+EnvRedis+" or localhost:6379)")
	lintCmd.Flags().IntVarP(&lintJobs, "jobs", "j", 0, "Maximum jurisdictions linted concurrently (0 = unlimited)")

	rootCmd.AddCommand(lintCmd)
}

func runLint(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	if lintOutputFormat != "text" && lintOutputFormat != "json" {
		return printer.Error(
			"invalid output format",
			fmt.Sprintf("Unknown format: %s", lintOutputFormat),
			[]string{"Valid formats: text, json"},
		)
	}

	now := time.Now()
	asOf, err := timespec.Parse(lintDate, now)
	if err != nil {
		return printer.Error("invalid --date", err.Error(), []string{"Use YYYY-MM-DD, RFC3339, or a duration such as 720h"})
	}

	dataRoot := resolve(lintData, EnvData, "data")
	settingsPath := resolve(lintSettings, EnvSettings, "settings.yml")
	metadataPath := resolve(lintMetadata, EnvMetadata, "jurisdictions.yml")

	env, err := runner.LoadEnv(settingsPath, metadataPath)
	if err != nil {
		return printer.ErrorWithContext(
			"failed to load configuration",
			err.Error(),
			map[string]string{"Settings": settingsPath, "Metadata": metadataPath},
			nil,
		)
	}

	abbrs := args
	if len(abbrs) == 0 {
		abbrs, err = dataset.Abbreviations(dataRoot)
		if err != nil {
			return printer.ErrorWithContext("failed to list jurisdictions", err.Error(), map[string]string{"Data": dataRoot}, nil)
		}
	}

	if lintRetire {
		warnIfDirty(dataRoot)
	}

	batches, err := runner.RunAll(ctx, env, runner.Options{
		DataRoot:       dataRoot,
		AsOf:           asOf,
		Municipal:      lintMunicipal && !lintNoMunicipal,
		RetireInactive: lintRetire,
		Jobs:           lintJobs,
		Now:            now,
	}, abbrs)
	if err != nil {
		var bad *lint.BadVacancyError
		if errors.As(err, &bad) {
			printer.ErrorLine(errOut, bad.Error())
			return &ExitError{Code: ExitBadVacancy}
		}
		return printer.Error("lint failed", err.Error(), nil)
	}

	merged := runner.Merge(batches)
	switch lintOutputFormat {
	case "json":
		if err := report.WriteJSON(out, merged); err != nil {
			return err
		}
	default:
		for _, b := range batches {
			printer.Heading(out, fmt.Sprintf("==== %s ====", b.Abbr))
			report.WriteText(out, b.Result, verbosity > 0)
		}
	}

	if lintPublish {
		runID, err := publish(cmd, batches)
		if err != nil {
			return printer.Error("failed to publish results", err.Error(), []string{"Check that Redis is reachable at --redis"})
		}
		fmt.Fprintf(errOut, "published run %s\n", runID)
	}

	if count := merged.ErrorCount(); count > 0 {
		status := out
		if lintOutputFormat == "json" {
			status = errOut
		}
		printer.ErrorLine(status, fmt.Sprintf("exiting with %d errors", count))
		return &ExitError{Code: ExitLintErrors}
	}
	return nil
}

func publish(cmd *cobra.Command, batches []runner.Batch) (string, error) {
	ctx := cmd.Context()
	client, err := store.NewClient(&redis.Options{Addr: resolve(lintRedisAddr, EnvRedis, "localhost:6379")}, store.NewRunID())
	if err != nil {
		return "", err
	}
	defer client.Close()

	if err := client.Ping(ctx); err != nil {
		return "", fmt.Errorf("redis not reachable: %w", err)
	}
	for _, b := range batches {
		if err := client.SaveResult(ctx, b.Abbr, b.Result); err != nil {
			return "", err
		}
	}
	return client.RunID(), nil
}

// warnIfDirty warns when --retire is about to move files in a data root with
// uncommitted changes.
func warnIfDirty(dataRoot string) {
	checker := git.NewChecker(dataRoot)
	if isRepo, err := checker.IsGitRepository(); err != nil || !isRepo {
		return
	}
	dirty, err := checker.GetDirtyFiles()
	if err != nil || dirty == "" {
		return
	}
	printer.Warning("data has uncommitted changes; retired files will be mixed in with them\n\n%s\n\n", dirty)
}
