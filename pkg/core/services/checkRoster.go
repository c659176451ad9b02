package services

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/jcorbett/rostergen/internal/config"
	"github.com/jcorbett/rostergen/pkg/core/compliance"
	"github.com/jcorbett/rostergen/pkg/core/costing"
	"github.com/jcorbett/rostergen/pkg/core/coverage"
	"github.com/jcorbett/rostergen/pkg/core/model"
	"github.com/jcorbett/rostergen/pkg/core/rules"
	"github.com/jcorbett/rostergen/pkg/ingest"
)

// CheckResult represents the result of re-checking an existing roster
type CheckResult struct {
	Roster     *model.Roster
	Violations []model.Violation
	Metrics    model.Metrics
}

// CheckRoster re-runs the compliance oracle and coverage scoring over a
// previously exported roster file, against the current employee sheet and
// demand configuration.
func CheckRoster(cfg *config.Config, logger *zap.Logger, rosterPath string) (*CheckResult, error) {
	logger.Info("Checking existing roster", zap.String("path", rosterPath))

	roster, err := ingest.LoadRoster(rosterPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster: %w", err)
	}
	logger.Debug("Roster loaded",
		zap.Int("assignments", len(roster.Assignments)),
		zap.Time("start", roster.StartDate),
		zap.Time("end", roster.EndDate))

	sys, err := loadContext(cfg, roster.StartDate, roster.EndDate, logger)
	if err != nil {
		return nil, err
	}

	catalog := rules.NewCatalog(templateOverrides(cfg))

	violations := compliance.NewOracle(catalog).Check(sys, roster)
	logger.Info("Compliance check complete",
		zap.Int("violations", len(violations)),
		zap.Int("hard", countHard(violations)))

	metrics := coverage.NewEvaluator(catalog).Evaluate(sys, roster, roster.StartDate, roster.EndDate)
	metrics.LabourCostEstimate = costing.NewEstimator(catalog, costing.DefaultRates()).Estimate(sys, roster)

	return &CheckResult{
		Roster:     roster,
		Violations: violations,
		Metrics:    metrics,
	}, nil
}
