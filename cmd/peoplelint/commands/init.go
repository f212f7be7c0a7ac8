package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dyluth/peoplelint/internal/printer"
	"github.com/dyluth/peoplelint/internal/scaffold"
)

var (
	forceInit bool
)

var initCmd = &cobra.Command{
	Use:   "init [DIR]",
	Short: "Create a starter workspace",
	Long: `Create a starter peoplelint workspace in DIR (default: current directory).

Creates:
  • settings.yml - valid parties, vacancies and legacy districts
  • jurisdictions.yml - jurisdiction metadata with expected seats
  • data/ex/legislature/ - one example record that lints clean

Use --force to overwrite existing files.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&forceInit, "force", false, "Overwrite existing workspace files")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}

	created, err := scaffold.Initialize(dir, forceInit)
	if err != nil {
		return printer.Error("initialization failed", err.Error(), nil)
	}

	out := cmd.OutOrStdout()
	printer.OKLine(out, "Initialized peoplelint workspace")
	printer.Line(out, "\nCreated:")
	for _, path := range created {
		printer.Line(out, "  ✓ "+filepath.ToSlash(path))
	}
	printer.Line(out, fmt.Sprintf("\nNext: peoplelint lint --data %s --settings %s --metadata %s",
		filepath.Join(dir, "data"), filepath.Join(dir, "settings.yml"), filepath.Join(dir, "jurisdictions.yml")))
	return nil
}
