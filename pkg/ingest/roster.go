package ingest

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jcorbett/rostergen/pkg/core/model"
)

var rosterColumns = []string{
	"date", "store_id", "employee_id", "employee_name", "contract_type", "shift_code", "station",
}

// LoadRoster reads a previously exported roster CSV back into a Roster so it
// can be re-checked for compliance. The window bounds are derived from the
// earliest and latest dates present.
func LoadRoster(path string) (*model.Roster, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open roster file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read roster file: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("roster file %s has no assignments", path)
	}

	header := rows[0]
	if len(header) != len(rosterColumns) {
		return nil, fmt.Errorf("roster file header has %d columns, want %d", len(header), len(rosterColumns))
	}
	for i, want := range rosterColumns {
		if !strings.EqualFold(strings.TrimSpace(header[i]), want) {
			return nil, fmt.Errorf("roster file column %d is %q, want %q", i, header[i], want)
		}
	}

	roster := &model.Roster{}
	for rowIdx, row := range rows[1:] {
		date, err := time.Parse("2006-01-02", strings.TrimSpace(row[0]))
		if err != nil {
			return nil, fmt.Errorf("roster file row %d: bad date %q: %w", rowIdx+2, row[0], err)
		}
		day := model.Day(date)

		roster.Assignments = append(roster.Assignments, model.ShiftAssignment{
			EmployeeID: strings.TrimSpace(row[2]),
			Date:       day,
			ShiftCode:  strings.TrimSpace(row[5]),
			Station:    model.SkillTag(strings.TrimSpace(row[6])),
			StoreID:    strings.TrimSpace(row[1]),
		})

		if roster.StoreID == "" {
			roster.StoreID = strings.TrimSpace(row[1])
		}
		if roster.StartDate.IsZero() || day.Before(roster.StartDate) {
			roster.StartDate = day
		}
		if day.After(roster.EndDate) {
			roster.EndDate = day
		}
	}

	return roster, nil
}
