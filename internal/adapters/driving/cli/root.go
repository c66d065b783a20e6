// Package cli implements the fitedit command line.
package cli

import (
	"context"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/fitedit/internal/core/domain"
	"github.com/custodia-labs/fitedit/internal/core/ports/driving"
	"github.com/custodia-labs/fitedit/internal/logger"
)

// version is set at build time through SetVersion.
var version = "dev"

// Persistent flags.
var (
	dryRun     bool
	verbose    bool
	configPath string
)

// Services used by the commands. They are set by wire before a command runs.
var (
	settingsService driving.SettingsService
	orchestrator    driving.UploadOrchestrator
	watcher         driving.DirectoryWatcher
	historyService  driving.HistoryService
	metricsHandler  http.Handler
	appConfig       *domain.Config
)

// Command annotations controlling how much of the application is wired.
const (
	annotationWire = "wire"
	wireNone       = "none"
	wireSettings   = "settings"
)

var rootCmd = &cobra.Command{
	Use:   "fitedit",
	Short: "Re-attribute activity files and upload them to Garmin Connect",
	Long: `fitedit rewrites the device attribution of FIT activity files so that
recordings from unregistered or third-party devices appear to come from a
Garmin device, then uploads them to Garmin Connect.

Each directory keeps a .uploaded_files.json ledger so that files are only
uploaded once. Use --dry-run to see what would happen without writing or
uploading anything.`,
	SilenceUsage:      true,
	PersistentPreRunE: preRun,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&dryRun, "dry-run", "n", false, "show what would happen without writing files or uploading")
	flags.BoolVarP(&verbose, "verbose", "v", false, "print debug output")
	flags.StringVarP(&configPath, "config", "c", "", "config file (default ~/.fitedit/config.toml)")
}

func preRun(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	if cmd.Annotations[annotationWire] == wireNone {
		return nil
	}
	return wire(cmd)
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command.
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the root command with ctx, which commands use for
// cancellation. Resources opened for the command are released afterwards,
// whether or not it succeeded.
func ExecuteContext(ctx context.Context) error {
	defer closeResources()
	return rootCmd.ExecuteContext(ctx)
}
