package analyzer

import (
	"strings"
	"testing"

	"github.com/danieljhkim/phpsweep/internal/action"
	"github.com/danieljhkim/phpsweep/internal/report"
)

func complexityRecords(entries map[string][2]int) map[string]*report.FileRecord {
	records := make(map[string]*report.FileRecord, len(entries))
	for p, v := range entries {
		records[p] = &report.FileRecord{Path: p, MaxDepth: v[0], TotalBranches: v[1], ExistsOnDisk: true}
	}
	return records
}

func TestComplexityAnalyzer_Classification(t *testing.T) {
	tests := []struct {
		name     string
		depth    int
		branches int
		wantRisk action.RiskLevel
	}{
		{"critical by depth", 15, 0, action.RiskHigh},
		{"critical by branches", 0, 100, action.RiskHigh},
		{"high by depth", 10, 0, action.RiskMedium},
		{"high by branches", 3, 50, action.RiskMedium},
		{"moderate by depth", 5, 0, action.RiskLow},
		{"moderate by branches", 2, 20, action.RiskLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewComplexityAnalyzer(report.Summary{}, DefaultThresholds())
			result, err := a.Analyze(complexityRecords(map[string][2]int{
				"file.php": {tt.depth, tt.branches},
			}))
			if err != nil {
				t.Fatalf("Analyze failed: %v", err)
			}
			if len(result.Actions) != 1 {
				t.Fatalf("got %d actions, want 1", len(result.Actions))
			}
			got := result.Actions[0]
			if got.Type != action.ReportOnly {
				t.Errorf("type = %s, want REPORT_ONLY", got.Type)
			}
			if got.Risk != tt.wantRisk {
				t.Errorf("risk = %s, want %s", got.Risk, tt.wantRisk)
			}
			if got.Destination != nil {
				t.Error("REPORT_ONLY actions must not carry a destination")
			}
		})
	}
}

func TestComplexityAnalyzer_BelowThresholdsIgnored(t *testing.T) {
	a := NewComplexityAnalyzer(report.Summary{}, DefaultThresholds())
	result, err := a.Analyze(complexityRecords(map[string][2]int{
		"simple.php": {4, 19},
	}))
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if len(result.Actions) != 0 {
		t.Errorf("actions = %+v, want none below every tier", result.Actions)
	}
}

func TestComplexityAnalyzer_WorstFirst(t *testing.T) {
	a := NewComplexityAnalyzer(report.Summary{}, DefaultThresholds())
	result, err := a.Analyze(complexityRecords(map[string][2]int{
		"mild.php":  {6, 10},   // score 28
		"worst.php": {20, 150}, // score 210
		"bad.php":   {12, 60},  // score 96
	}))
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	wantOrder := []string{"worst.php", "bad.php", "mild.php"}
	if len(result.Actions) != len(wantOrder) {
		t.Fatalf("got %d actions, want %d", len(result.Actions), len(wantOrder))
	}
	for i, a := range result.Actions {
		if a.Source != wantOrder[i] {
			t.Errorf("position %d = %s, want %s", i, a.Source, wantOrder[i])
		}
	}
	if !strings.Contains(result.Actions[0].Reason, "score 210") {
		t.Errorf("reason = %q, want the score named", result.Actions[0].Reason)
	}
}

func TestComplexityAnalyzer_SummarySupplementsRecords(t *testing.T) {
	summary := report.Summary{
		MostComplex: []report.ComplexEntry{
			{File: "only_in_summary.php", MaxDepth: 16, TotalBranches: 40},
			{File: "also_in_files.php", MaxDepth: 16, TotalBranches: 40},
		},
	}
	a := NewComplexityAnalyzer(summary, DefaultThresholds())
	result, err := a.Analyze(complexityRecords(map[string][2]int{
		"also_in_files.php": {16, 40},
	}))
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if len(result.Actions) != 2 {
		t.Fatalf("got %d actions, want 2: summary entries must not double-count", len(result.Actions))
	}
	sources := map[string]bool{}
	for _, a := range result.Actions {
		sources[a.Source] = true
	}
	if !sources["only_in_summary.php"] {
		t.Error("summary-only file should be flagged")
	}
}

func TestComplexityAnalyzer_CustomThresholds(t *testing.T) {
	custom := Thresholds{
		CriticalDepth: 5, CriticalBranches: 30,
		HighDepth: 3, HighBranches: 15,
		ModerateDepth: 2, ModerateBranches: 8,
	}
	a := NewComplexityAnalyzer(report.Summary{}, custom)
	result, err := a.Analyze(complexityRecords(map[string][2]int{
		"file.php": {5, 0},
	}))
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if len(result.Actions) != 1 || result.Actions[0].Risk != action.RiskHigh {
		t.Errorf("actions = %+v, want one HIGH under custom thresholds", result.Actions)
	}
}
