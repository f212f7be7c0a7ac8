package commands

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
)

var (
	version string
	commit  string
	date    string

	verbosity int
)

// Environment variables that supply flag defaults.
const (
	EnvData     = "PEOPLELINT_DATA"
	EnvSettings = "PEOPLELINT_SETTINGS"
	EnvMetadata = "PEOPLELINT_METADATA"
	EnvRedis    = "PEOPLELINT_REDIS"
)

// Exit statuses.
const (
	ExitLintErrors = 99
	ExitBadVacancy = 255
)

// ExitError carries a process exit status out of a command.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "peoplelint",
	Short: "peoplelint - consistency linter for public official records",
	Long: `peoplelint validates YAML records describing legislators, executives,
municipal officers and retired officials.

Each record is checked against a declarative schema and a set of domain
rules, and every jurisdiction's batch is reconciled against its known seats,
declared vacancies and the identifiers used by other records.`,
	Version: version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbosity == 0 {
			log.SetOutput(io.Discard)
		} else {
			log.SetOutput(cmd.ErrOrStderr())
		}
	},
	// Prevent silent success when unknown flags are passed to root command
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
	// Enable strict flag parsing - unknown flags will cause an error
	FParseErrWhitelist: cobra.FParseErrWhitelist{},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	// Silence Cobra's default error and usage printing
	// We print formatted colored errors directly in the printer package
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	return rootCmd.Execute()
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "List clean files and enable diagnostic logging")
}

// resolve returns the flag value, else the environment variable, else def.
func resolve(flag, env, def string) string {
	if flag != "" {
		return flag
	}
	if v := os.Getenv(env); v != "" {
		return v
	}
	return def
}
