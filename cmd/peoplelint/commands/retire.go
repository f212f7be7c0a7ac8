package commands

import (
	"github.com/spf13/cobra"

	"github.com/dyluth/peoplelint/internal/printer"
	"github.com/dyluth/peoplelint/internal/retire"
	"github.com/dyluth/peoplelint/internal/timespec"
)

var (
	retireReason string
	retireDeath  bool
)

var retireCmd = &cobra.Command{
	Use:   "retire FILE END_DATE",
	Short: "Retire a person",
	Long: `Set END_DATE on every active role of the person in FILE, remove their
contact details and move the file into the jurisdiction's retired/ directory.

Examples:
  peoplelint retire data/nc/legislature/Jane-Doe-<uuid>.yml 2024-01-31 --reason=resigned
  peoplelint retire data/nc/executive/John-Roe-<uuid>.yml 2024-02-10 --death`,
	Args: cobra.ExactArgs(2),
	RunE: runRetire,
}

func init() {
	retireCmd.Flags().StringVar(&retireReason, "reason", "", "Reason written to end_reason")
	retireCmd.Flags().BoolVar(&retireDeath, "death", false, "Also set death_date to END_DATE")

	rootCmd.AddCommand(retireCmd)
}

func runRetire(cmd *cobra.Command, args []string) error {
	endDate, err := timespec.ParseEndDate(args[1])
	if err != nil {
		return printer.Error("invalid END_DATE", err.Error(), []string{"Use YYYY-MM-DD"})
	}

	newPath, ended, err := retire.File(args[0], retire.Options{
		EndDate: endDate,
		Reason:  retireReason,
		Death:   retireDeath,
	})
	if err != nil {
		return printer.Error("failed to retire person", err.Error(), nil)
	}

	if ended == 0 {
		printer.Warning("no active roles to end\n")
	}
	printer.Success("retired %s (%d roles ended)\n", newPath, ended)
	return nil
}
