package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Rewrite and upload one activity file",
	Long: `Rewrites the device attribution of a single FIT file and uploads the result.
No ledger is consulted or updated, so the file is uploaded even if a batch
has uploaded it before. An activity that already exists is not an error.`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	if orchestrator == nil {
		return errors.New("upload service not configured")
	}

	res, err := orchestrator.UploadFile(cmd.Context(), args[0], dryRun)
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}

	switch {
	case dryRun:
		cmd.Printf("Would upload %s (%d messages changed)\n", args[0], res.Changed)
	case res.Conflict:
		cmd.Printf("%s already exists on Garmin Connect\n", args[0])
	default:
		cmd.Printf("Uploaded %s (%d messages changed)\n", args[0], res.Changed)
	}
	return nil
}
