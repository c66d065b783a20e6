package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent processing attempts",
	Long: `Lists the most recent files processed by upload-all, edit-all,
mark-processed and monitor, newest first. Dry runs are not recorded.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 20, "number of entries to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if historyService == nil {
		return errors.New("history not available")
	}
	if historyLimit <= 0 {
		return fmt.Errorf("--limit must be positive, got %d", historyLimit)
	}

	entries, err := historyService.Recent(cmd.Context(), historyLimit)
	if err != nil {
		return fmt.Errorf("read history: %w", err)
	}
	renderHistory(cmd.OutOrStdout(), entries)
	return nil
}
