// Package cli wires the phpsweep commands: analyze, execute, rollback,
// and archive. Commands stay thin; the pipeline lives in the internal
// packages and the CLI only assembles dependencies and prints results.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd is the root command for phpsweep.
var rootCmd = &cobra.Command{
	Use:     "phpsweep",
	Version: "dev",
	Short:   "Safe, reversible PHP project cleanup",
	Long: `phpsweep turns per-file findings about a PHP codebase into one safe,
reversible cleanup transaction.

It analyzes a complexity report against the files on disk, merges every
finding into a single deduplicated plan, resolves cross-action conflicts,
and executes the plan with per-risk gating and byte-for-byte rollback.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

// SetVersion overrides the build version shown by --version.
func SetVersion(v string) {
	if v == "" {
		return
	}
	rootCmd.Version = v
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

func init() {
	rootCmd.AddGroup(&cobra.Group{
		ID:    "pipeline",
		Title: "Cleanup Pipeline:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "backups",
		Title: "Backup Management:",
	})

	analyzeCmd.GroupID = "pipeline"
	executeCmd.GroupID = "pipeline"
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(executeCmd)

	rollbackCmd.GroupID = "backups"
	archiveCmd.GroupID = "backups"
	rootCmd.AddCommand(rollbackCmd)
	rootCmd.AddCommand(archiveCmd)

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the phpsweep version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintln(os.Stdout, rootCmd.Version)
		},
	}
	rootCmd.AddCommand(versionCmd)
}

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}
