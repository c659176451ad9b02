package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jcorbett/rostergen/pkg/core/model"
	"github.com/jcorbett/rostergen/pkg/core/services"
)

// GenerateCmd creates the generate command
func GenerateCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Generate a 2-week roster for the configured store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := services.GenerateRoster(app.Ctx, app.Cfg, app.Logger)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Roster generated successfully!\n\n")
			fmt.Printf("Run ID:      %s\n", result.RunID)
			fmt.Printf("Assignments: %d\n", len(result.Roster.Assignments))
			fmt.Printf("Roster file: %s\n", result.RosterPath)
			if result.ViolationsPath != "" {
				fmt.Printf("Violations:  %s\n", result.ViolationsPath)
			}
			fmt.Println()

			for _, line := range result.Summary {
				fmt.Printf("  %s\n", line)
			}
			fmt.Println()

			printViolations(result.Violations)
			return nil
		},
	}
}

func printViolations(violations []model.Violation) {
	if len(violations) == 0 {
		fmt.Println("No compliance violations.")
		return
	}
	fmt.Printf("Compliance violations (%d):\n", len(violations))
	for _, v := range violations {
		marker := "⚠"
		if v.Severity == model.SeverityHard {
			marker = "✗"
		}
		fmt.Printf("  %s [%s] %s\n", marker, v.Code, v.Message)
	}
	fmt.Println()
}
