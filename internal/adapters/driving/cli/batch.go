package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/fitedit/internal/core/domain"
)

var uploadAllCmd = &cobra.Command{
	Use:   "upload-all <dir>",
	Short: "Rewrite and upload every new activity file in a directory",
	Long: `Rewrites and uploads every FIT file directly under <dir> that the
directory's .uploaded_files.json ledger does not list yet, then records the
uploaded files in the ledger. Files that already exist on Garmin Connect are
recorded as uploaded.`,
	Args: cobra.ExactArgs(1),
	RunE: batchRunner(domain.ModeEditAndUpload),
}

var editAllCmd = &cobra.Command{
	Use:   "edit-all <dir>",
	Short: "Rewrite every new activity file in a directory",
	Long: `Writes a <name>_modified.fit copy of every FIT file directly under <dir>
that the ledger does not list yet. Nothing is uploaded and the ledger is not
updated.`,
	Args: cobra.ExactArgs(1),
	RunE: batchRunner(domain.ModeEditOnly),
}

var markProcessedCmd = &cobra.Command{
	Use:   "mark-processed <dir>",
	Short: "Record every activity file in a directory as uploaded",
	Long: `Adds every FIT file directly under <dir> to the directory's ledger without
rewriting or uploading it. Use this to skip files that were uploaded by other
means.`,
	Args: cobra.ExactArgs(1),
	RunE: batchRunner(domain.ModeMarkProcessed),
}

func init() {
	rootCmd.AddCommand(uploadAllCmd)
	rootCmd.AddCommand(editAllCmd)
	rootCmd.AddCommand(markProcessedCmd)
}

func batchRunner(mode domain.Mode) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if orchestrator == nil {
			return errors.New("upload service not configured")
		}

		report, err := orchestrator.ProcessDirectory(cmd.Context(), args[0], mode, dryRun)
		if report != nil && (err == nil || len(report.Files) > 0) {
			renderReport(cmd.OutOrStdout(), report)
		}
		if err != nil {
			return fmt.Errorf("%s failed: %w", cmd.Name(), err)
		}
		return nil
	}
}
