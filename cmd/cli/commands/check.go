package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jcorbett/rostergen/pkg/core/services"
)

// CheckCmd creates the check command
func CheckCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check <roster.csv>",
		Short: "Re-check an exported roster for compliance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := services.CheckRoster(app.Cfg, app.Logger, args[0])
			if err != nil {
				return err
			}

			fmt.Printf("\nChecked %d assignments (%s to %s).\n\n",
				len(result.Roster.Assignments),
				result.Roster.StartDate.Format("2006-01-02"),
				result.Roster.EndDate.Format("2006-01-02"))
			fmt.Printf("Coverage: %.1f%% overall, %.1f%% on peaks.\n",
				result.Metrics.CoverageScore*100, result.Metrics.PeakCoverageScore*100)
			fmt.Printf("Estimated labour cost: AUD %.0f\n\n", result.Metrics.LabourCostEstimate)

			printViolations(result.Violations)
			return nil
		},
	}
}
