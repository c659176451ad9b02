// Package ingest loads the core's typed inputs from files: the wide
// employee/availability sheet, previously exported rosters, and the demand
// rules from configuration.
package ingest

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jcorbett/rostergen/pkg/core/model"
)

// Base columns expected before the per-date availability columns.
var baseColumns = []string{"ID", "Employee Name", "Type", "Station"}

// LoadEmployees parses the wide availability sheet:
//
//	ID,Employee Name,Type,Station,2025-06-02,2025-06-03,...
//	101,Ava Chen,Casual,Kitchen / Counter,1F,/,...
//
// Date columns are ISO dates. A cell holds the shift codes the employee may
// work that day, "|"-separated; empty or "/" means unavailable.
func LoadEmployees(path string) (map[string]*model.Employee, model.Availability, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open employee sheet: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read employee sheet: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil, fmt.Errorf("employee sheet %s has no data rows", path)
	}

	header := rows[0]
	if len(header) < len(baseColumns) {
		return nil, nil, fmt.Errorf("employee sheet header has %d columns, want at least %d", len(header), len(baseColumns))
	}
	for i, want := range baseColumns {
		if !strings.EqualFold(strings.TrimSpace(header[i]), want) {
			return nil, nil, fmt.Errorf("employee sheet column %d is %q, want %q", i, header[i], want)
		}
	}

	dates := make([]time.Time, 0, len(header)-len(baseColumns))
	for _, cell := range header[len(baseColumns):] {
		d, err := time.Parse("2006-01-02", strings.TrimSpace(cell))
		if err != nil {
			return nil, nil, fmt.Errorf("employee sheet date column %q: %w", cell, err)
		}
		dates = append(dates, model.Day(d))
	}

	employees := make(map[string]*model.Employee)
	availability := make(model.Availability)

	for rowIdx, row := range rows[1:] {
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		if len(row) < len(baseColumns) {
			return nil, nil, fmt.Errorf("employee sheet row %d has %d columns, want at least %d", rowIdx+2, len(row), len(baseColumns))
		}

		id := strings.TrimSpace(row[0])
		name := strings.TrimSpace(row[1])

		contract, err := ParseContractType(row[2])
		if err != nil {
			return nil, nil, fmt.Errorf("employee sheet row %d: %w", rowIdx+2, err)
		}

		if _, exists := employees[id]; exists {
			return nil, nil, fmt.Errorf("employee sheet row %d: duplicate employee ID %q", rowIdx+2, id)
		}
		employees[id] = &model.Employee{
			ID:           id,
			Name:         name,
			ContractType: contract,
			SkillTags:    ParseSkillTags(row[3]),
		}

		byDay := make(map[time.Time][]string)
		for colIdx, day := range dates {
			cellIdx := len(baseColumns) + colIdx
			if cellIdx >= len(row) {
				break
			}
			cell := strings.TrimSpace(row[cellIdx])
			if cell == "" || cell == "/" {
				continue
			}
			for _, code := range strings.Split(cell, "|") {
				code = strings.TrimSpace(code)
				if code == "" {
					continue
				}
				if !contains(byDay[day], code) {
					byDay[day] = append(byDay[day], code)
				}
			}
		}
		availability[id] = byDay
	}

	if len(employees) == 0 {
		return nil, nil, fmt.Errorf("employee sheet %s contains no employees", path)
	}

	return employees, availability, nil
}

// ParseContractType maps sheet values like "Full-time" onto contract types.
func ParseContractType(raw string) (model.ContractType, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case strings.HasPrefix(s, "full"):
		return model.ContractFullTime, nil
	case strings.HasPrefix(s, "part"):
		return model.ContractPartTime, nil
	case strings.HasPrefix(s, "casual"):
		return model.ContractCasual, nil
	default:
		return "", fmt.Errorf("unexpected contract type value %q", raw)
	}
}

// ParseSkillTags extracts skill tags from a free-text station cell. Rows with
// no recognised station default to counter as generic front-of-house.
func ParseSkillTags(raw string) []model.SkillTag {
	s := strings.ToLower(raw)
	var tags []model.SkillTag
	if strings.Contains(s, "kitchen") {
		tags = append(tags, model.SkillKitchen)
	}
	if strings.Contains(s, "counter") {
		tags = append(tags, model.SkillCounter)
	}
	if strings.Contains(s, "cafe") {
		tags = append(tags, model.SkillCafe)
	}
	if strings.Contains(s, "dessert") {
		tags = append(tags, model.SkillDessert)
	}
	if strings.Contains(s, "delivery") {
		tags = append(tags, model.SkillDelivery)
	}
	if strings.Contains(s, "manager") {
		tags = append(tags, model.SkillManager)
	}
	if len(tags) == 0 {
		tags = append(tags, model.SkillCounter)
	}
	return tags
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
