// Package export writes run outputs to disk: the roster CSV that stores
// print for the wall, and the violation report for compliance reviews.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/jcorbett/rostergen/pkg/core/model"
)

var rosterHeader = []string{
	"date", "store_id", "employee_id", "employee_name", "contract_type", "shift_code", "station",
}

var violationHeader = []string{"severity", "code", "employee_id", "date", "message"}

// WriteRoster writes one row per assignment ordered by (date, employee ID)
// and returns the file path. runID keeps repeated runs for the same store
// from clobbering each other.
func WriteRoster(dir string, runID string, sys *model.Context, roster *model.Roster) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("roster_%s_%s.csv", roster.StoreID, runID))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create roster file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(rosterHeader); err != nil {
		return "", fmt.Errorf("failed to write roster header: %w", err)
	}

	assignments := make([]model.ShiftAssignment, len(roster.Assignments))
	copy(assignments, roster.Assignments)
	sort.Slice(assignments, func(i, j int) bool {
		if !assignments[i].Date.Equal(assignments[j].Date) {
			return assignments[i].Date.Before(assignments[j].Date)
		}
		return assignments[i].EmployeeID < assignments[j].EmployeeID
	})

	for _, a := range assignments {
		name, contract := "", ""
		if emp, ok := sys.Employees[a.EmployeeID]; ok {
			name = emp.Name
			contract = string(emp.ContractType)
		}
		row := []string{
			a.Date.Format("2006-01-02"),
			a.StoreID,
			a.EmployeeID,
			name,
			contract,
			a.ShiftCode,
			string(a.Station),
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("failed to write roster row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to flush roster file: %w", err)
	}
	return path, nil
}

// WriteViolations writes the ordered violation report next to the roster.
func WriteViolations(dir string, runID string, storeID string, violations []model.Violation) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("violations_%s_%s.csv", storeID, runID))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create violations file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(violationHeader); err != nil {
		return "", fmt.Errorf("failed to write violations header: %w", err)
	}

	for _, v := range violations {
		date := ""
		if v.Date != nil {
			date = v.Date.Format("2006-01-02")
		}
		row := []string{string(v.Severity), v.Code, v.EmployeeID, date, v.Message}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("failed to write violations row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to flush violations file: %w", err)
	}
	return path, nil
}
