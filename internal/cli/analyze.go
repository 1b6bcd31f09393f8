package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/phpsweep/internal/action"
	"github.com/danieljhkim/phpsweep/internal/analyzer"
	"github.com/danieljhkim/phpsweep/internal/clock"
	"github.com/danieljhkim/phpsweep/internal/config"
	"github.com/danieljhkim/phpsweep/internal/fsops"
	"github.com/danieljhkim/phpsweep/internal/hash"
	"github.com/danieljhkim/phpsweep/internal/planner"
	"github.com/danieljhkim/phpsweep/internal/report"
)

var (
	analyzeReport     string
	analyzeProjectDir string
	analyzeRiskLevel  string
	analyzeOutputPlan string
	analyzeConfig     string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a complexity report and save a cleanup plan",
	Long: `Load the JSON analysis report, cross-validate it against the files on
disk, run all analyzers, and save a deduplicated, conflict-resolved
cleanup plan.

The plan is not executed; review it and run 'phpsweep execute'.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(analyzeConfig, analyzeProjectDir)
		if err != nil {
			return err
		}

		ceiling, ok := action.ParseRiskLevel(analyzeRiskLevel)
		if !ok {
			return fmt.Errorf("invalid risk level %q (want LOW, MEDIUM, or HIGH)", analyzeRiskLevel)
		}

		loader := report.NewLoader(analyzeReport)
		summary, records, err := loader.Load()
		if err != nil {
			return err
		}
		for _, w := range loader.Warnings {
			PrintWarning(w)
		}

		scanner := report.NewScanner(analyzeProjectDir)
		scanResult, err := scanner.CrossValidate(records)
		if err != nil {
			return err
		}
		for _, w := range scanner.Warnings {
			PrintWarning(w)
		}
		if len(scanResult.Ghost) > 0 {
			PrintWarning(fmt.Sprintf("%s in the report are missing from disk",
				PrintCount(len(scanResult.Ghost), "file", "files")))
		}

		fs := fsops.NewRealFS()
		analyzers := []analyzer.Analyzer{
			analyzer.NewBackupAnalyzer(),
			analyzer.NewComplexityAnalyzer(summary, cfg.Complexity),
			analyzer.NewDuplicateAnalyzer(fs, analyzeProjectDir, hash.NewSHA256Hasher()),
			analyzer.NewStructureAnalyzer(cfg.SimilarityThreshold),
			analyzer.NewVendorAnalyzer(cfg.VendorDirs),
		}
		results, err := analyzer.RunAll(analyzers, records)
		if err != nil {
			return fmt.Errorf("analysis failed: %w", err)
		}

		clk := &clock.RealClock{}
		plan := planner.BuildPlan(results, analyzeProjectDir, clk)

		resolver := planner.NewResolver()
		plan = resolver.Resolve(plan)
		plan = plan.FilterMaxRisk(ceiling)

		printAnalyzerResults(results)
		printConflicts(resolver.Conflicts())
		printPlanSummary(plan)

		if err := action.SavePlan(fs, analyzeOutputPlan, plan); err != nil {
			return err
		}
		PrintSuccess(fmt.Sprintf("Plan saved to %s", analyzeOutputPlan))
		return nil
	},
}

// printAnalyzerResults shows per-analyzer action counts.
func printAnalyzerResults(results []*analyzer.Result) {
	PrintSection("Analyzers")
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{r.Analyzer, fmt.Sprintf("%d", len(r.Actions))})
	}
	PrintTable([]string{"ANALYZER", "ACTIONS"}, rows)
}

// printPlanSummary shows total and per-risk/per-type counts plus the
// action table.
func printPlanSummary(plan *action.Plan) {
	s := plan.Summarize()

	PrintSection("Plan Summary")
	PrintLabelValue("Total actions", fmt.Sprintf("%d", s.Total))
	PrintLabelValue("By risk", fmt.Sprintf("LOW=%d MEDIUM=%d HIGH=%d",
		s.ByRisk[action.RiskLow], s.ByRisk[action.RiskMedium], s.ByRisk[action.RiskHigh]))
	PrintLabelValue("By type", fmt.Sprintf("GITIGNORE=%d DELETE=%d MOVE=%d REPORT=%d",
		s.ByType[action.AddGitignore], s.ByType[action.Delete],
		s.ByType[action.Move], s.ByType[action.ReportOnly]))

	if len(plan.Actions) == 0 {
		return
	}
	rows := make([][]string, 0, len(plan.Actions))
	for _, a := range plan.Actions {
		dest := a.Dest()
		if dest == "" {
			dest = "-"
		}
		rows = append(rows, []string{
			string(a.Risk), string(a.Type), a.Source, dest,
		})
	}
	fmt.Println()
	PrintTable([]string{"RISK", "TYPE", "SOURCE", "DEST"}, rows)
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeReport, "report", "", "Path to the JSON analysis report (required)")
	analyzeCmd.Flags().StringVar(&analyzeProjectDir, "project-dir", "", "Project root directory (required)")
	analyzeCmd.Flags().StringVar(&analyzeRiskLevel, "risk-level", "HIGH", "Only include actions up to this risk level")
	analyzeCmd.Flags().StringVar(&analyzeOutputPlan, "output-plan", "action_plan.json", "Where to save the plan")
	analyzeCmd.Flags().StringVar(&analyzeConfig, "config", "", "Config file (default .phpsweep.yaml in the project dir)")
	_ = analyzeCmd.MarkFlagRequired("report")
	_ = analyzeCmd.MarkFlagRequired("project-dir")
}
