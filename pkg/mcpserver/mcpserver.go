// Package mcpserver exposes patch decoding and the DATA directory as MCP
// tools over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/james-see/rc0patch/pkg/converter"
	"github.com/james-see/rc0patch/pkg/library"
	"github.com/james-see/rc0patch/pkg/rc0"
)

// Tools holds what the tool handlers work on. Lib may be nil when no DATA
// directory is configured.
type Tools struct {
	conv   *converter.Converter
	lib    *library.Library
	logger *log.Logger
}

// NewTools creates the tool handlers. A nil logger discards output.
func NewTools(conv *converter.Converter, lib *library.Library, logger *log.Logger) *Tools {
	if conv == nil {
		conv = converter.New(nil)
	}
	if logger == nil {
		logger = log.New(io.Discard)
		logger.SetLevel(log.FatalLevel)
	}
	return &Tools{conv: conv, lib: lib, logger: logger}
}

// NewServer registers every tool on a new MCP server
func (t *Tools) NewServer(version string) *server.MCPServer {
	s := server.NewMCPServer(
		"rc0patch MCP",
		version,
		server.WithToolCapabilities(false),
	)

	s.AddTool(mcp.NewTool("rc0_list-effects",
		mcp.WithDescription("Lists the effect types a slot can hold, with their ids and whether they support the step sequencer."),
	), t.listEffects)

	s.AddTool(mcp.NewTool("rc0_decode-patch",
		mcp.WithDescription("Decodes the text of a MEMORYnnnA/B.RC0 file into a JSON patch."),
		mcp.WithString("rc0", mcp.Required(), mcp.Description("The full text of the .RC0 file.")),
	), t.decodePatch)

	s.AddTool(mcp.NewTool("rc0_encode-patch",
		mcp.WithDescription("Encodes a JSON patch into .RC0 text."),
		mcp.WithString("patch-json", mcp.Required(), mcp.Description("The patch in JSON format, as returned by rc0_decode-patch.")),
	), t.encodePatch)

	s.AddTool(mcp.NewTool("rc0_list-patches",
		mcp.WithDescription("Lists the memory and system files of the DATA directory."),
	), t.listPatches)

	s.AddTool(mcp.NewTool("rc0_get-memory",
		mcp.WithDescription("Reads the current copy of a memory from the DATA directory."),
		mcp.WithNumber("memory", mcp.Required(), mcp.Description("The memory number (1-99).")),
	), t.getMemory)

	s.AddTool(mcp.NewTool("rc0_save-patch",
		mcp.WithDescription("Writes a JSON patch into the DATA directory."),
		mcp.WithString("file", mcp.Required(), mcp.Description("The file name, e.g. MEMORY001A.RC0.")),
		mcp.WithString("patch-json", mcp.Required(), mcp.Description("The patch in JSON format.")),
	), t.savePatch)

	return s
}

// Serve runs the MCP server on stdin and stdout
func (t *Tools) Serve(version string) error {
	t.logger.Info("starting rc0patch MCP server")
	return server.ServeStdio(t.NewServer(version))
}

func (t *Tools) listEffects(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	t.logger.Debug("handling list effects request")
	return jsonResult(rc0.Effects())
}

func (t *Tools) decodePatch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("rc0")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	t.logger.Debug("handling decode request", "bytes", len(text))

	out, err := t.conv.Encode(t.conv.GetCodec().DecodePatch(text), converter.FormatJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal patch to JSON: %w", err)
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (t *Tools) encodePatch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	patchJSON, err := request.RequireString("patch-json")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	out, err := t.conv.JSONToRC0([]byte(patchJSON))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (t *Tools) listPatches(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if t.lib == nil {
		return mcp.NewToolResultError("no DATA directory configured"), nil
	}
	entries, err := t.lib.List()
	if err != nil {
		return nil, err
	}
	return jsonResult(entries)
}

func (t *Tools) getMemory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if t.lib == nil {
		return mcp.NewToolResultError("no DATA directory configured"), nil
	}
	n, err := request.RequireInt("memory")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	p, name, err := t.lib.Memory(n)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	t.logger.Debug("read memory", "memory", n, "file", name)
	return jsonResult(p)
}

func (t *Tools) savePatch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if t.lib == nil {
		return mcp.NewToolResultError("no DATA directory configured"), nil
	}
	file, err := request.RequireString("file")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	patchJSON, err := request.RequireString("patch-json")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	p, err := t.conv.Decode([]byte(patchJSON), converter.FormatJSON)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := t.lib.Save(file, p); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Patch %q saved to %s.", p.Name, file)), nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result to JSON: %w", err)
	}
	return mcp.NewToolResultText(string(out)), nil
}
