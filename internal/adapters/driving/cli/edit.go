package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var editOutput string

var editCmd = &cobra.Command{
	Use:   "edit <file>",
	Short: "Rewrite the device attribution of one activity file",
	Long: `Rewrites the device attribution of a single FIT file and writes the result
next to it as <name>_modified.fit, or to the path given with --output.
The source file is never modified.`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	editCmd.Flags().StringVarP(&editOutput, "output", "o", "", "output file (default <name>_modified.fit)")
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	if orchestrator == nil {
		return errors.New("upload service not configured")
	}

	res, err := orchestrator.EditFile(cmd.Context(), args[0], editOutput, dryRun)
	if err != nil {
		return fmt.Errorf("edit failed: %w", err)
	}

	verb := "Wrote"
	if dryRun {
		verb = "Would write"
	}
	cmd.Printf("%s %s (%d messages changed)\n", verb, res.Output, res.Changed)
	return nil
}
