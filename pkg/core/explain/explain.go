// Package explain renders a run's outcome as plain-language summary lines
// for managers who will never read a violation struct.
package explain

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jcorbett/rostergen/pkg/core/model"
)

// Summarize produces ordered human-readable lines covering staffing mix,
// coverage, manager presence, cost and remaining compliance issues.
func Summarize(
	sys *model.Context,
	roster *model.Roster,
	violations []model.Violation,
	metrics model.Metrics,
	conflictResolverUsed bool,
) []string {
	var lines []string

	lines = append(lines, fmt.Sprintf(
		"Summary: Scheduled %d shifts for %d employees over 2 weeks.",
		len(roster.Assignments), len(sys.Employees)))

	contractCounts := map[model.ContractType]int{}
	for _, emp := range sys.Employees {
		contractCounts[emp.ContractType]++
	}
	var ctParts []string
	for _, ct := range []model.ContractType{model.ContractFullTime, model.ContractPartTime, model.ContractCasual} {
		if n := contractCounts[ct]; n > 0 {
			ctParts = append(ctParts, fmt.Sprintf("%d %s", n, strings.ReplaceAll(string(ct), "_", " ")))
		}
	}
	if len(ctParts) > 0 {
		lines = append(lines, "Contract mix: "+strings.Join(ctParts, ", ")+".")
	}

	lines = append(lines, fmt.Sprintf(
		"Coverage: %.1f%% overall, %.1f%% on lunch/dinner peaks.",
		metrics.CoverageScore*100, metrics.PeakCoverageScore*100))

	if metrics.ManagerCoverageScore > 0 {
		lines = append(lines, fmt.Sprintf(
			"Manager coverage: %.1f%% of days had at least one manager on duty.",
			metrics.ManagerCoverageScore*100))
	}
	if metrics.ManagerOpeningCoverage > 0 || metrics.ManagerClosingCoverage > 0 {
		lines = append(lines, fmt.Sprintf(
			"Opening/closing coverage: %.1f%% of days had a manager at opening, and %.1f%% had a manager at close.",
			metrics.ManagerOpeningCoverage*100, metrics.ManagerClosingCoverage*100))
	}
	if metrics.ManagerPeakTwoCoverageScore > 0 {
		lines = append(lines, fmt.Sprintf(
			"Peak manager coverage: %.1f%% of lunch/dinner windows had at least two managers scheduled.",
			metrics.ManagerPeakTwoCoverageScore*100))
	}
	if metrics.LabourCostEstimate > 0 {
		lines = append(lines, fmt.Sprintf(
			"Estimated labour cost for this 2-week roster: AUD %.0f.",
			metrics.LabourCostEstimate))
	}
	if metrics.FairnessScore > 0 {
		lines = append(lines, fmt.Sprintf(
			"Weekend uplift: staff levels on weekends are %.2fx the weekday average.",
			metrics.FairnessScore))
	}

	var hard, soft []model.Violation
	for _, v := range violations {
		if v.Severity == model.SeverityHard {
			hard = append(hard, v)
		} else {
			soft = append(soft, v)
		}
	}

	stage := "initial generation"
	if conflictResolverUsed {
		stage = "conflict resolution"
	}
	lines = append(lines, fmt.Sprintf(
		"Compliance: %d hard and %d soft violations after %s.", len(hard), len(soft), stage))

	if len(soft) > 0 {
		lines = append(lines, "Most common remaining soft issues: "+topCodes(soft, 3)+".")
	}
	for _, v := range soft {
		if v.Code == model.CodeWeeklyMaxHoursExceeded {
			lines = append(lines,
				"Weekly hours above the contract band are only flagged when they exceed the cap "+
					"by more than ~2 hours; smaller overtime is allowed but still discouraged by "+
					"the optimisation objective.")
			break
		}
	}

	return lines
}

// topCodes renders the n most frequent violation codes as "CODE x3, ...",
// most frequent first, ties broken by code.
func topCodes(violations []model.Violation, n int) string {
	counts := map[string]int{}
	for _, v := range violations {
		counts[v.Code]++
	}
	codes := make([]string, 0, len(counts))
	for code := range counts {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool {
		if counts[codes[i]] != counts[codes[j]] {
			return counts[codes[i]] > counts[codes[j]]
		}
		return codes[i] < codes[j]
	})
	if len(codes) > n {
		codes = codes[:n]
	}
	parts := make([]string, len(codes))
	for i, code := range codes {
		parts[i] = fmt.Sprintf("%s x%d", code, counts[code])
	}
	return strings.Join(parts, ", ")
}
