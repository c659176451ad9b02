package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jcorbett/rostergen/pkg/ingest"
)

// ListEmployeesCmd creates the listEmployees command
func ListEmployeesCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "listEmployees",
		Short: "List all employees from the employee sheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			employees, availability, err := ingest.LoadEmployees(app.Cfg.EmployeeCSV)
			if err != nil {
				return fmt.Errorf("failed to list employees: %w", err)
			}

			app.Logger.Info("Employees loaded", zap.Int("count", len(employees)))

			ids := make([]string, 0, len(employees))
			for id := range employees {
				ids = append(ids, id)
			}
			sort.Strings(ids)

			fmt.Printf("\nFound %d employees:\n\n", len(employees))
			for _, id := range ids {
				emp := employees[id]
				skills := make([]string, len(emp.SkillTags))
				for i, tag := range emp.SkillTags {
					skills[i] = string(tag)
				}
				fmt.Printf("- %s (%s) - %s - %s - available %d days\n",
					emp.Name,
					emp.ID,
					strings.ReplaceAll(string(emp.ContractType), "_", " "),
					strings.Join(skills, ", "),
					len(availability[id]),
				)
			}

			return nil
		},
	}
}
