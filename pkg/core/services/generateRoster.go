package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jcorbett/rostergen/internal/config"
	"github.com/jcorbett/rostergen/pkg/core/compliance"
	"github.com/jcorbett/rostergen/pkg/core/costing"
	"github.com/jcorbett/rostergen/pkg/core/coverage"
	"github.com/jcorbett/rostergen/pkg/core/explain"
	"github.com/jcorbett/rostergen/pkg/core/generator"
	"github.com/jcorbett/rostergen/pkg/core/model"
	"github.com/jcorbett/rostergen/pkg/core/resolver"
	"github.com/jcorbett/rostergen/pkg/core/rules"
	"github.com/jcorbett/rostergen/pkg/core/stationing"
	"github.com/jcorbett/rostergen/pkg/export"
	"github.com/jcorbett/rostergen/pkg/ingest"
)

// GenerateResult represents the result of a full roster generation run
type GenerateResult struct {
	RunID          string
	Roster         *model.Roster
	Violations     []model.Violation
	Metrics        model.Metrics
	Summary        []string
	ResolverUsed   bool
	ResolverLog    []string
	RosterPath     string
	ViolationsPath string
}

// GenerateRoster runs the full pipeline: load inputs, solve the initial
// roster, assign stations, check compliance, repair hour overloads if any
// hard violation remains, re-check, score, and export.
func GenerateRoster(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*GenerateResult, error) {
	runID := uuid.New().String()[:8]
	logger.Info("Starting roster generation run",
		zap.String("run_id", runID),
		zap.String("store_id", cfg.StoreID))

	start, err := cfg.Start()
	if err != nil {
		return nil, err
	}
	end, err := cfg.End()
	if err != nil {
		return nil, err
	}

	sys, err := loadContext(cfg, start, end, logger)
	if err != nil {
		return nil, err
	}

	catalog := rules.NewCatalog(templateOverrides(cfg))

	gen := generator.New(catalog, nil, cfg.SolveBudget(), logger)
	roster, err := gen.GenerateInitialRoster(ctx, sys, cfg.StoreID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to generate roster: %w", err)
	}
	logger.Info("Initial roster generated", zap.Int("assignments", len(roster.Assignments)))

	roster = stationing.Assign(sys, roster)

	oracle := compliance.NewOracle(catalog)
	violations := oracle.Check(sys, roster)
	logger.Info("Compliance check complete",
		zap.Int("violations", len(violations)),
		zap.Int("hard", countHard(violations)))

	result := &GenerateResult{RunID: runID, Roster: roster}

	if countHard(violations) > 0 {
		logger.Info("Hard violations found, running conflict resolver")
		res := resolver.New(catalog, cfg.ResolverMaxIterations, logger)
		repaired, resolverLog := res.RebalanceHours(sys, roster)
		repaired = stationing.Assign(sys, repaired)
		violations = oracle.Check(sys, repaired)
		logger.Info("Compliance re-check after resolution",
			zap.Int("violations", len(violations)),
			zap.Int("hard", countHard(violations)))
		roster = repaired
		result.Roster = repaired
		result.ResolverUsed = true
		result.ResolverLog = resolverLog
	}
	result.Violations = violations

	metrics := coverage.NewEvaluator(catalog).Evaluate(sys, roster, start, end)
	metrics.LabourCostEstimate = costing.NewEstimator(catalog, costing.DefaultRates()).Estimate(sys, roster)
	result.Metrics = metrics

	rosterPath, err := export.WriteRoster(cfg.OutputDir, runID, sys, roster)
	if err != nil {
		return nil, fmt.Errorf("failed to export roster: %w", err)
	}
	result.RosterPath = rosterPath

	if len(violations) > 0 {
		violationsPath, err := export.WriteViolations(cfg.OutputDir, runID, cfg.StoreID, violations)
		if err != nil {
			return nil, fmt.Errorf("failed to export violations: %w", err)
		}
		result.ViolationsPath = violationsPath
	}

	result.Summary = explain.Summarize(sys, roster, violations, metrics, result.ResolverUsed)

	logger.Info("Roster generation run complete",
		zap.String("run_id", runID),
		zap.String("roster_path", rosterPath))

	return result, nil
}

// loadContext builds the read-only planning context from the employee sheet,
// the demand rules, and the manager template.
func loadContext(cfg *config.Config, start, end time.Time, logger *zap.Logger) (*model.Context, error) {
	logger.Debug("Loading employee sheet", zap.String("path", cfg.EmployeeCSV))
	employees, availability, err := ingest.LoadEmployees(cfg.EmployeeCSV)
	if err != nil {
		return nil, fmt.Errorf("failed to load employees: %w", err)
	}
	logger.Info("Employees loaded", zap.Int("count", len(employees)))

	demand, err := ingest.BuildDemand(cfg.DemandRules, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to build demand: %w", err)
	}
	logger.Debug("Demand built", zap.Int("days", len(demand)))

	return &model.Context{
		Employees:                employees,
		Availability:             availability,
		DemandByDate:             demand,
		ManagerTemplateByWeekday: cfg.ManagerTemplateByWeekday(),
	}, nil
}

func templateOverrides(cfg *config.Config) map[string]rules.TemplateOverride {
	if len(cfg.ShiftOverrides) == 0 {
		return nil
	}
	out := make(map[string]rules.TemplateOverride, len(cfg.ShiftOverrides))
	for code, o := range cfg.ShiftOverrides {
		out[code] = rules.TemplateOverride{TimeRange: o.TimeRange, Hours: o.Hours}
	}
	return out
}

func countHard(violations []model.Violation) int {
	n := 0
	for _, v := range violations {
		if v.Severity == model.SeverityHard {
			n++
		}
	}
	return n
}
