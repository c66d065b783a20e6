package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/fitedit/internal/logger"
)

// Version is reported to MCP clients during initialisation.
const Version = "0.1.0"

// shutdownGrace bounds how long in-flight tool calls get once the HTTP
// listener is asked to stop. Uploads already handed to the orchestrator
// finish regardless.
const shutdownGrace = 30 * time.Second

const instructions = `fitedit re-attributes FIT activity files to a Garmin device and uploads them to Garmin Connect.
Use edit_file to rewrite one file, upload_file to rewrite and upload one file without touching any ledger,
and process_directory to run a batch (upload, edit or mark-processed) over the .fit files directly inside a directory.
Batches skip files already listed in the directory's .uploaded_files.json. Set dry_run to preview without side effects.`

// Server exposes the upload orchestrator, upload history and settings
// to MCP clients.
type Server struct {
	ports  *Ports
	server *mcp.Server
}

// NewServer registers the fitedit tools and resources.
// ports.Orchestrator is required; history and settings resources are only
// served when their ports are set.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	s := &Server{
		ports: ports,
		server: mcp.NewServer(
			&mcp.Implementation{Name: "fitedit", Version: Version},
			&mcp.ServerOptions{Instructions: instructions},
		),
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Run serves a single client over stdin/stdout until ctx is cancelled or
// the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP serves the streamable HTTP transport on addr until ctx is cancelled.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("MCP server shutdown: %v", err)
		}
	}()

	logger.Info("Serving fitedit tools over MCP on %s", addr)
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
