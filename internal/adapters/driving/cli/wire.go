package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/fitedit/internal/adapters/driven/auth"
	"github.com/custodia-labs/fitedit/internal/adapters/driven/codec/fit"
	"github.com/custodia-labs/fitedit/internal/adapters/driven/config/file"
	"github.com/custodia-labs/fitedit/internal/adapters/driven/metrics"
	storagefile "github.com/custodia-labs/fitedit/internal/adapters/driven/storage/file"
	"github.com/custodia-labs/fitedit/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/fitedit/internal/connectors/filesystem"
	"github.com/custodia-labs/fitedit/internal/connectors/garmin"
	"github.com/custodia-labs/fitedit/internal/core/domain"
	"github.com/custodia-labs/fitedit/internal/core/ports/driven"
	"github.com/custodia-labs/fitedit/internal/core/services"
	"github.com/custodia-labs/fitedit/internal/logger"
)

// wire builds the services cmd needs. Tests replace it.
var wire = wireServices

// closers are released after the command finishes.
var closers []io.Closer

func wireServices(cmd *cobra.Command) error {
	var (
		store *file.ConfigStore
		err   error
	)
	if configPath != "" {
		store, err = file.NewConfigStoreFromFile(configPath)
	} else {
		store, err = file.NewConfigStore("")
	}
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	settings := services.NewSettingsService(store)
	settingsService = settings

	if cmd.Annotations[annotationWire] == wireSettings {
		return nil
	}

	cfg, err := settings.Load()
	if err != nil {
		return fmt.Errorf("load config %s: %w", settings.Path(), err)
	}
	appConfig = cfg
	logger.Debug("Loaded config from %s", settings.Path())

	ledgers, err := storagefile.NewLedgerStore()
	if err != nil {
		return err
	}

	client := garmin.NewClient(cfg.Garmin)
	credentials := newCredentialProvider(cfg, canPrompt(cmd))
	sessions := services.NewSessionManager(client, credentials, storagefile.NewSessionStore(cfg.Paths.DataDir))

	var history driven.HistoryStore
	if db, err := sqlite.NewStore(cfg.Paths.DataDir); err != nil {
		logger.Warn("Upload history disabled: %v", err)
	} else {
		closers = append(closers, db)
		history = db.HistoryStore()
		historyService = history
	}

	recorder := metrics.NewRecorder()
	metricsHandler = recorder.Handler()

	orch := services.NewUploadOrchestrator(services.OrchestratorDeps{
		Codec:    fit.NewCodec(),
		Ledgers:  ledgers,
		Service:  client,
		Sessions: sessions,
		Rewriter: services.NewMessageRewriter(services.NewAttributionRuleSet(cfg.Device), cfg.Rewrite.DropMessages),
		History:  history,
		Metrics:  recorder,
		TempDir:  cfg.Paths.TempDir,
	})
	orchestrator = orch

	events := filesystem.New()
	closers = append(closers, events)
	watcher = services.NewDirectoryWatcher(events, orch, recorder, services.WatcherOptions{
		Debounce:    cfg.Watch.Debounce,
		Mode:        domain.ModeEditAndUpload,
		InitialScan: cfg.Watch.InitialScan,
	})

	return nil
}

// newCredentialProvider resolves credentials from the environment, then the
// config file. Whatever is still missing is prompted for when prompt is set.
func newCredentialProvider(cfg *domain.Config, prompt bool) *auth.ChainProvider {
	var completer auth.Completer
	if prompt {
		completer = auth.NewPromptProvider(os.Stdin, os.Stderr)
	}
	return auth.NewChainProvider(
		completer,
		auth.NewEnvProvider(),
		auth.NewStaticProvider(cfg.Garmin.Credentials()),
	)
}

// canPrompt reports whether cmd leaves the terminal free for a password
// prompt. The dashboard and the MCP stdio transport both own stdin.
func canPrompt(cmd *cobra.Command) bool {
	switch cmd {
	case monitorCmd:
		return !monitorDashboard
	case mcpServeCmd:
		return false
	}
	return true
}

// closeResources releases everything wire opened.
func closeResources() {
	var errs []error
	for _, c := range closers {
		errs = append(errs, c.Close())
	}
	closers = nil
	if err := errors.Join(errs...); err != nil {
		logger.Warn("Failed to release resources: %v", err)
	}
}
