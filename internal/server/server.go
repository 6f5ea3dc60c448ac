// Package server exposes the toolbox to MCP clients.
package server

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/neoclaw-ai/filetransformer/internal/logging"
	"github.com/neoclaw-ai/filetransformer/internal/tools"
)

const implementationName = "file-transformer"

const instructions = `This server transforms local files: merging, splitting and reading PDFs,
resizing, converting and compressing images, and building zip archives.

Every path must lie inside one of the server's allowed directories. Use dry_run
to check paths before writing.`

// Server serves one Toolbox over MCP.
type Server struct {
	toolbox     *tools.Toolbox
	callTimeout time.Duration
	mcp         *mcp.Server
}

// New registers every tool of tb. A positive callTimeout bounds each call.
func New(tb *tools.Toolbox, version string, callTimeout time.Duration) *Server {
	s := &Server{
		toolbox:     tb,
		callTimeout: callTimeout,
		mcp: mcp.NewServer(&mcp.Implementation{
			Name:    implementationName,
			Version: version,
		}, &mcp.ServerOptions{Instructions: instructions}),
	}

	addTool[tools.MergePDFsParams](s, tools.MergePDFs)
	addTool[tools.SplitPDFParams](s, tools.SplitPDF)
	addTool[tools.ExtractTextParams](s, tools.ExtractText)
	addTool[tools.ResizeImageParams](s, tools.ResizeImage)
	addTool[tools.ConvertImageFormatParams](s, tools.ConvertImageFormat)
	addTool[tools.CompressImageParams](s, tools.CompressImage)
	addTool[tools.ZipFilesParams](s, tools.ZipFiles)
	return s
}

// addTool registers name with an input schema inferred from In. The decoded
// value only drives schema validation; the raw arguments go through
// Toolbox.Call so dispatch stays in one place.
func addTool[In any](s *Server, name tools.Name) {
	tool := &mcp.Tool{
		Name:        string(name),
		Description: tools.Describe(name),
	}
	mcp.AddTool(s.mcp, tool, func(ctx context.Context, req *mcp.CallToolRequest, _ In) (*mcp.CallToolResult, any, error) {
		return s.call(ctx, name, req.Params.Arguments), nil, nil
	})
}

func (s *Server) call(ctx context.Context, name tools.Name, args json.RawMessage) *mcp.CallToolResult {
	if s.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.callTimeout)
		defer cancel()
	}

	log := logging.Logger().With("tool", string(name), "request_id", uuid.NewString())
	start := time.Now()
	log.Debug("tool call started")

	res, err := s.toolbox.Call(ctx, name, args)
	if err != nil {
		log.Warn("tool call failed", "duration", time.Since(start), "err", err)
		return errorResult(err)
	}
	log.Info("tool call finished", "duration", time.Since(start), "truncated", res.Truncated)
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: res.Text()}},
	}
}

func errorResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: "Error: " + err.Error()}},
		IsError: true,
	}
}

// Run serves MCP over stdin/stdout until ctx is canceled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}
