package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/phpsweep/internal/archive"
	"github.com/danieljhkim/phpsweep/internal/fsops"
)

var archiveCmd = &cobra.Command{
	Use:   "archive <backup-dir>",
	Short: "Compress a backup directory into a .tar.zst archive",
	Long: `Pack a backup directory into a zstd-compressed tar archive next to
the directory itself. The directory is left in place; remove it by hand
once the archive is verified.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := archive.Create(fsops.NewRealFS(), args[0])
		if err != nil {
			return err
		}
		PrintSuccess(fmt.Sprintf("Archive written to %s", path))
		return nil
	},
}
