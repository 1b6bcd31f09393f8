package analyzer

import (
	"fmt"
	"sort"

	"github.com/danieljhkim/phpsweep/internal/action"
	"github.com/danieljhkim/phpsweep/internal/report"
)

// Thresholds define the complexity tiers. A file is classified by the
// first tier whose depth or branch bound it reaches.
type Thresholds struct {
	CriticalDepth    int `yaml:"critical_depth"`
	CriticalBranches int `yaml:"critical_branches"`
	HighDepth        int `yaml:"high_depth"`
	HighBranches     int `yaml:"high_branches"`
	ModerateDepth    int `yaml:"moderate_depth"`
	ModerateBranches int `yaml:"moderate_branches"`
}

// DefaultThresholds returns the stock complexity tiers.
func DefaultThresholds() Thresholds {
	return Thresholds{
		CriticalDepth:    15,
		CriticalBranches: 100,
		HighDepth:        10,
		HighBranches:     50,
		ModerateDepth:    5,
		ModerateBranches: 20,
	}
}

// ComplexityAnalyzer flags overly complex files for refactoring. It never
// proposes file mutations; all its actions are REPORT_ONLY.
type ComplexityAnalyzer struct {
	summary    report.Summary
	thresholds Thresholds
}

// NewComplexityAnalyzer creates a ComplexityAnalyzer. The report summary
// is consulted for most-complex entries that the files object misses.
func NewComplexityAnalyzer(summary report.Summary, thresholds Thresholds) *ComplexityAnalyzer {
	return &ComplexityAnalyzer{summary: summary, thresholds: thresholds}
}

// Name returns the analyzer identifier.
func (a *ComplexityAnalyzer) Name() string { return "complexity_analyzer" }

// scoredRecord pairs a record with its complexity score.
type scoredRecord struct {
	score  int
	record report.FileRecord
}

// Analyze classifies every record against the thresholds and emits one
// REPORT_ONLY action per classified file, worst first.
func (a *ComplexityAnalyzer) Analyze(records map[string]*report.FileRecord) (*Result, error) {
	var scored []scoredRecord
	classified := make(map[string]struct{})

	for _, p := range sortedPaths(records) {
		record := records[p]
		if a.classify(*record) == "" {
			continue
		}
		scored = append(scored, scoredRecord{score: a.score(*record), record: *record})
		classified[p] = struct{}{}
	}

	// Summary entries can name files the files object is missing.
	for _, entry := range a.summary.MostComplex {
		if _, seen := classified[entry.File]; seen {
			continue
		}
		synthetic := report.FileRecord{
			Path:          entry.File,
			MaxDepth:      entry.MaxDepth,
			TotalBranches: entry.TotalBranches,
		}
		if a.classify(synthetic) == "" {
			continue
		}
		scored = append(scored, scoredRecord{score: a.score(synthetic), record: synthetic})
		classified[entry.File] = struct{}{}
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return scored[i].record.Path < scored[j].record.Path
	})

	var actions []action.Action
	criticalCount, highCount, moderateCount := 0, 0, 0

	for _, sr := range scored {
		risk := a.classify(sr.record)
		switch risk {
		case action.RiskHigh:
			criticalCount++
		case action.RiskMedium:
			highCount++
		case action.RiskLow:
			moderateCount++
		}

		actions = append(actions, action.Action{
			Type:   action.ReportOnly,
			Source: sr.record.Path,
			Risk:   risk,
			Reason: fmt.Sprintf(
				"Complexity score %d (max_depth=%d, total_branches=%d). Refactoring recommended.",
				sr.score, sr.record.MaxDepth, sr.record.TotalBranches),
		})
	}

	top := scored
	if len(top) > 10 {
		top = top[:10]
	}
	top10 := make([]map[string]any, 0, len(top))
	for _, sr := range top {
		top10 = append(top10, map[string]any{
			"file":           sr.record.Path,
			"score":          sr.score,
			"max_depth":      sr.record.MaxDepth,
			"total_branches": sr.record.TotalBranches,
		})
	}

	return &Result{
		Analyzer: a.Name(),
		Actions:  actions,
		Metadata: map[string]any{
			"total_analyzed": len(records),
			"critical_count": criticalCount,
			"high_count":     highCount,
			"moderate_count": moderateCount,
			"top10":          top10,
		},
	}, nil
}

// classify returns the risk tier for a record, or "" when it is below
// every threshold.
func (a *ComplexityAnalyzer) classify(r report.FileRecord) action.RiskLevel {
	t := a.thresholds
	switch {
	case r.MaxDepth >= t.CriticalDepth || r.TotalBranches >= t.CriticalBranches:
		return action.RiskHigh
	case r.MaxDepth >= t.HighDepth || r.TotalBranches >= t.HighBranches:
		return action.RiskMedium
	case r.MaxDepth >= t.ModerateDepth || r.TotalBranches >= t.ModerateBranches:
		return action.RiskLow
	default:
		return ""
	}
}

func (a *ComplexityAnalyzer) score(r report.FileRecord) int {
	return r.MaxDepth*3 + r.TotalBranches
}
