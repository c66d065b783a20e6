package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/fitedit/internal/core/domain"
)

// EditInput is the input schema for the edit_file tool.
type EditInput struct {
	Path   string `json:"path" jsonschema:"the FIT file to rewrite"`
	Output string `json:"output,omitempty" jsonschema:"output path (default <name>_modified.fit next to the source)"`
	DryRun bool   `json:"dry_run,omitempty" jsonschema:"report the changes without writing"`
}

// UploadInput is the input schema for the upload_file tool.
type UploadInput struct {
	Path   string `json:"path" jsonschema:"the FIT file to rewrite and upload"`
	DryRun bool   `json:"dry_run,omitempty" jsonschema:"rewrite in memory without uploading"`
}

// FileOutput describes a single-file edit or upload.
type FileOutput struct {
	Output       string     `json:"output,omitempty"`
	Changed      int        `json:"changed"`
	Conflict     bool       `json:"conflict,omitempty"`
	ActivityTime *time.Time `json:"activity_time,omitempty"`
}

// DirectoryInput is the input schema for the process_directory tool.
type DirectoryInput struct {
	Dir    string `json:"dir" jsonschema:"directory whose FIT files are processed"`
	Mode   string `json:"mode,omitempty" jsonschema:"one of upload (default), edit or mark-processed"`
	DryRun bool   `json:"dry_run,omitempty" jsonschema:"report what would happen without writing or uploading"`
}

// DirectoryOutput summarises a directory batch.
type DirectoryOutput struct {
	Mode        string           `json:"mode"`
	Discovered  int              `json:"discovered"`
	Known       int              `json:"known"`
	Rewritten   int              `json:"rewritten"`
	Uploaded    int              `json:"uploaded"`
	Conflicts   int              `json:"conflicts"`
	Skipped     int              `json:"skipped"`
	Failed      int              `json:"failed"`
	Interrupted bool             `json:"interrupted,omitempty"`
	Files       []FileResultInfo `json:"files"`
}

// FileResultInfo is one file of a directory batch.
type FileResultInfo struct {
	Path     string `json:"path"`
	State    string `json:"state"`
	Conflict bool   `json:"conflict,omitempty"`
	Error    string `json:"error,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "edit_file",
		Description: "Rewrite the device attribution of one FIT activity file",
	}, s.handleEdit)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "upload_file",
		Description: "Rewrite one FIT activity file and upload it to Garmin Connect",
	}, s.handleUpload)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "process_directory",
		Description: "Edit, upload or mark every FIT file in a directory that its ledger does not list yet",
	}, s.handleDirectory)
}

func (s *Server) handleEdit(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input EditInput,
) (*mcp.CallToolResult, FileOutput, error) {
	res, err := s.ports.Orchestrator.EditFile(ctx, input.Path, input.Output, input.DryRun)
	if err != nil {
		return nil, FileOutput{}, err
	}
	return nil, FileOutput{
		Output:       res.Output,
		Changed:      res.Changed,
		ActivityTime: res.ActivityTime,
	}, nil
}

func (s *Server) handleUpload(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input UploadInput,
) (*mcp.CallToolResult, FileOutput, error) {
	res, err := s.ports.Orchestrator.UploadFile(ctx, input.Path, input.DryRun)
	if err != nil {
		return nil, FileOutput{}, err
	}
	return nil, FileOutput{
		Changed:      res.Changed,
		Conflict:     res.Conflict,
		ActivityTime: res.ActivityTime,
	}, nil
}

func (s *Server) handleDirectory(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DirectoryInput,
) (*mcp.CallToolResult, DirectoryOutput, error) {
	mode, err := parseMode(input.Mode)
	if err != nil {
		return nil, DirectoryOutput{}, err
	}

	report, err := s.ports.Orchestrator.ProcessDirectory(ctx, input.Dir, mode, input.DryRun)
	if err != nil {
		return nil, DirectoryOutput{}, err
	}

	output := DirectoryOutput{
		Mode:        report.Mode.String(),
		Discovered:  report.Discovered,
		Known:       report.Known,
		Rewritten:   report.Rewritten,
		Uploaded:    report.Uploaded,
		Conflicts:   report.Conflicts,
		Skipped:     report.Skipped,
		Failed:      report.Failed,
		Interrupted: report.Interrupted,
		Files:       make([]FileResultInfo, len(report.Files)),
	}
	for i, f := range report.Files {
		output.Files[i] = FileResultInfo{
			Path:     f.Path,
			State:    string(f.State),
			Conflict: f.Conflict,
		}
		if f.Err != nil {
			output.Files[i].Error = f.Err.Error()
		}
	}

	return nil, output, nil
}

// parseMode maps a mode name to a processing mode. An empty name means upload.
func parseMode(name string) (domain.Mode, error) {
	switch name {
	case "", domain.ModeEditAndUpload.String():
		return domain.ModeEditAndUpload, nil
	case domain.ModeEditOnly.String():
		return domain.ModeEditOnly, nil
	case domain.ModeMarkProcessed.String():
		return domain.ModeMarkProcessed, nil
	default:
		return 0, fmt.Errorf("%w: unknown mode %q", domain.ErrInvalidInput, name)
	}
}
