package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/phpsweep/internal/action"
	"github.com/danieljhkim/phpsweep/internal/clock"
	"github.com/danieljhkim/phpsweep/internal/config"
	"github.com/danieljhkim/phpsweep/internal/executor"
	"github.com/danieljhkim/phpsweep/internal/fileops"
	"github.com/danieljhkim/phpsweep/internal/fsops"
	"github.com/danieljhkim/phpsweep/internal/gitignore"
)

var (
	executePlan       string
	executeProjectDir string
	executeLive       bool
	executeYes        bool
	executeConfig     string
)

var executeCmd = &cobra.Command{
	Use:   "execute",
	Short: "Execute a saved cleanup plan (dry-run by default)",
	Long: `Load a saved plan and walk it action by action.

Without --execute this is a dry run: every action is printed and nothing
on disk changes. With --execute, a backup directory is created first,
MEDIUM actions need one batch confirmation, HIGH actions are confirmed
one by one, and every mutation is preceded by a backup snapshot.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(executeConfig, executeProjectDir)
		if err != nil {
			return err
		}

		fs := fsops.NewRealFS()
		clk := &clock.RealClock{}

		plan, err := action.LoadPlan(fs, executePlan)
		if err != nil {
			return err
		}

		// Gitignore entries are realized here, outside the executor.
		gen := gitignore.NewGen(fs, executeProjectDir, clk)
		diff, err := gen.Apply(plan.Actions, !executeLive)
		if err != nil {
			return err
		}
		if diff != "" {
			PrintSection(".gitignore")
			PrintInfo(diff)
		}

		var confirm executor.ConfirmFunc
		if !executeYes {
			confirm = terminalConfirm
		}

		exec := executor.New(fs, clk, plan, executeProjectDir, cfg.BackupRoot, executor.Options{
			DryRun:  !executeLive,
			Confirm: confirm,
			Logf: func(format string, args ...any) {
				PrintInfo(fmt.Sprintf(format, args...))
			},
		})

		info, err := exec.Execute()
		if err != nil {
			return err
		}

		if !executeLive {
			PrintSection("Dry Run")
			PrintInfo(fmt.Sprintf("Would execute %s; re-run with --execute to apply",
				PrintCount(len(plan.Actions), "action", "actions")))
			return nil
		}

		printExecutionSummary(info)
		PrintLabelValue("Backup dir", info.BackupDir)
		PrintLabelValue("Run ID", info.RunID)
		return nil
	},
}

// printExecutionSummary reports per-status counts and every error entry.
func printExecutionSummary(info *executor.BackupInfo) {
	executed, skipped, failed := 0, 0, 0
	for _, entry := range info.Log {
		switch entry.Status {
		case fileops.StatusExecuted:
			executed++
		case fileops.StatusSkipped:
			skipped++
		case fileops.StatusError:
			failed++
		}
	}

	PrintSection("Execution")
	PrintSuccess(fmt.Sprintf("%s executed, %d skipped, %d failed",
		PrintCount(executed, "action", "actions"), skipped, failed))

	for _, entry := range info.Log {
		if entry.Status == fileops.StatusError {
			PrintError(fmt.Sprintf("%s %s: %s", entry.Action.Type, entry.Action.Source, entry.Error))
		}
	}
}

func init() {
	executeCmd.Flags().StringVar(&executePlan, "plan", "", "Path to the saved plan (required)")
	executeCmd.Flags().StringVar(&executeProjectDir, "project-dir", "", "Project root directory (required)")
	executeCmd.Flags().BoolVar(&executeLive, "execute", false, "Actually execute actions (default is dry-run)")
	executeCmd.Flags().BoolVarP(&executeYes, "yes", "y", false, "Approve all confirmations")
	executeCmd.Flags().StringVar(&executeConfig, "config", "", "Config file (default .phpsweep.yaml in the project dir)")
	_ = executeCmd.MarkFlagRequired("plan")
	_ = executeCmd.MarkFlagRequired("project-dir")
}
