package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/fitedit/internal/adapters/driving/tui"
	"github.com/custodia-labs/fitedit/internal/logger"
)

// metricsShutdownTimeout bounds the graceful stop of the metrics server.
const metricsShutdownTimeout = 5 * time.Second

var monitorCmd = &cobra.Command{
	Use:   "monitor <dir>",
	Short: "Watch a directory tree and upload new activity files",
	Long: `Watches <dir> and every directory below it. When a new FIT file appears,
its directory is processed like upload-all after a short settle delay
(watch.debounce). Directories created while monitoring are watched too.

Press Ctrl-C to stop. A file that is being uploaded when the signal arrives
is finished first. When metrics.addr is set, Prometheus metrics are served
on /metrics. With --dashboard, the watcher state and recent files are shown
in a full-screen view.`,
	Args: cobra.ExactArgs(1),
	RunE: runMonitor,
}

var monitorDashboard bool

// runDashboard runs the full-screen monitor. Tests replace it.
var runDashboard = func(ctx context.Context, root string) error {
	app, err := tui.NewApp(&tui.Ports{Watcher: watcher, History: historyService}, root, dryRun)
	if err != nil {
		return err
	}
	return app.Run(ctx)
}

func init() {
	monitorCmd.Flags().BoolVarP(&monitorDashboard, "dashboard", "d", false, "show a live dashboard")
	rootCmd.AddCommand(monitorCmd)
}

func runMonitor(cmd *cobra.Command, args []string) error {
	if watcher == nil {
		return errors.New("watcher not configured")
	}

	ctx := cmd.Context()
	if appConfig != nil && appConfig.Metrics.Addr != "" && metricsHandler != nil {
		stop, err := serveMetrics(ctx, appConfig.Metrics.Addr)
		if err != nil {
			return err
		}
		defer stop()
	}

	if monitorDashboard {
		if err := runDashboard(ctx, args[0]); err != nil {
			return fmt.Errorf("monitor failed: %w", err)
		}
		return nil
	}

	cmd.Printf("Monitoring %s (Ctrl-C to stop)\n", args[0])
	if err := watcher.Watch(ctx, args[0], dryRun); err != nil {
		return fmt.Errorf("monitor failed: %w", err)
	}
	cmd.Println("Stopped.")
	return nil
}

// serveMetrics exposes metricsHandler on addr until the returned stop
// function is called or ctx is done.
func serveMetrics(ctx context.Context, addr string) (func(), error) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metricsHandler)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	// Surface bind errors before the watcher starts.
	select {
	case err := <-errCh:
		return nil, fmt.Errorf("metrics server: %w", err)
	case <-time.After(100 * time.Millisecond):
	}
	logger.Info("Serving metrics on %s/metrics", addr)

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), metricsShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("Metrics server shutdown: %v", err)
		}
	}, nil
}
