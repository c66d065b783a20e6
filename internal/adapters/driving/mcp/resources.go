package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	uriScheme = "fitedit://"

	// defaultHistoryLimit is the number of entries fitedit://history returns.
	defaultHistoryLimit = 20
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "history",
		Name:        "history",
		Description: "Most recent processing attempts, newest first",
		MIMEType:    "application/json",
	}, s.handleHistoryResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "history/{limit}",
		Name:        "history-limit",
		Description: "The given number of most recent processing attempts",
		MIMEType:    "application/json",
	}, s.handleHistoryResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "config",
		Name:        "config",
		Description: "Effective configuration, without credentials",
		MIMEType:    "application/json",
	}, s.handleConfigResource)
}

// historyInfo is the JSON form of a history entry.
type historyInfo struct {
	Dir          string     `json:"dir"`
	Path         string     `json:"path"`
	Mode         string     `json:"mode"`
	State        string     `json:"state"`
	Conflict     bool       `json:"conflict,omitempty"`
	ActivityTime *time.Time `json:"activity_time,omitempty"`
	Error        string     `json:"error,omitempty"`
	RecordedAt   time.Time  `json:"recorded_at"`
}

func (s *Server) handleHistoryResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.History == nil {
		return jsonResult(req.Params.URI, "[]"), nil
	}

	limit, ok := extractHistoryLimit(req.Params.URI)
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	entries, err := s.ports.History.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}

	infos := make([]historyInfo, len(entries))
	for i, e := range entries {
		infos[i] = historyInfo{
			Dir:          e.Dir,
			Path:         e.Path,
			Mode:         e.Mode.String(),
			State:        string(e.State),
			Conflict:     e.Conflict,
			ActivityTime: e.ActivityTime,
			Error:        e.Error,
			RecordedAt:   e.RecordedAt,
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling history: %w", err)
	}
	return jsonResult(req.Params.URI, string(data)), nil
}

func (s *Server) handleConfigResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Settings == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	cfg, err := s.ports.Settings.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	thirdParty := make([]uint16, len(cfg.Device.ThirdParty))
	for i, m := range cfg.Device.ThirdParty {
		thirdParty[i] = uint16(m)
	}

	info := map[string]any{
		"path": s.ports.Settings.Path(),
		"garmin": map[string]any{
			"username":           cfg.Garmin.Username,
			"base_url":           cfg.Garmin.BaseURL,
			"uploads_per_minute": cfg.Garmin.UploadsPerMinute,
		},
		"device": map[string]any{
			"manufacturer": uint16(cfg.Device.Manufacturer),
			"product":      cfg.Device.Product,
			"third_party":  thirdParty,
		},
		"rewrite": map[string]any{
			"drop_messages": cfg.Rewrite.DropMessages,
		},
		"watch": map[string]any{
			"debounce":     cfg.Watch.Debounce.String(),
			"initial_scan": cfg.Watch.InitialScan,
		},
	}

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling config: %w", err)
	}
	return jsonResult(req.Params.URI, string(data)), nil
}

func jsonResult(uri, text string) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     text,
		}},
	}
}

// extractHistoryLimit reads the limit from fitedit://history or
// fitedit://history/{limit}.
func extractHistoryLimit(uri string) (int, bool) {
	const base = uriScheme + "history"

	if uri == base {
		return defaultHistoryLimit, true
	}
	rest, ok := strings.CutPrefix(uri, base+"/")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
