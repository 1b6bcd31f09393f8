package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/phpsweep/internal/executor"
	"github.com/danieljhkim/phpsweep/internal/fileops"
	"github.com/danieljhkim/phpsweep/internal/fsops"
)

var (
	rollbackBackupDir  string
	rollbackProjectDir string
)

var rollbackCmd = &cobra.Command{
	Use:   "rollback",
	Short: "Restore files from a backup directory",
	Long: `Read the action log inside a backup directory and restore every
executed action byte-for-byte, newest first. Renamed files are traced
back through the rename chain so the original path gets the original
content.

Per-file restore failures are reported but never abort the run.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fs := fsops.NewRealFS()

		info, err := executor.LoadLog(fs, rollbackBackupDir)
		if err != nil {
			return err
		}

		ops, err := fileops.New(fs, rollbackProjectDir, info.BackupDir)
		if err != nil {
			return err
		}

		PrintSection("Rollback")
		PrintLabelValue("Backup dir", rollbackBackupDir)
		PrintLabelValue("Run ID", info.RunID)

		outcome := ops.Rollback(rollbackBackupDir, info.RollbackEntries())

		for _, s := range outcome.Skipped {
			PrintWarning(s)
		}
		for _, f := range outcome.Failures {
			PrintError(f)
		}
		PrintSuccess(fmt.Sprintf("Restored %s", PrintCount(outcome.Restored, "file", "files")))
		return nil
	},
}

func init() {
	rollbackCmd.Flags().StringVar(&rollbackBackupDir, "backup-dir", "", "Backup directory holding action_log.json (required)")
	rollbackCmd.Flags().StringVar(&rollbackProjectDir, "project-dir", "", "Project root directory (required)")
	_ = rollbackCmd.MarkFlagRequired("backup-dir")
	_ = rollbackCmd.MarkFlagRequired("project-dir")
}
