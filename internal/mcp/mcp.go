// Package mcp provides the hosttriple MCP server, registering the
// host_triple tool and publishing model instructions.
package mcp

import (
	_ "embed"

	"github.com/deixis/hosttriple"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

//go:embed instructions.md
var Instructions string

// handler holds shared dependencies for all tool handlers.
type handler struct {
	opts []hosttriple.Option
}

// NewServer creates an MCP server with the host_triple tool registered.
// opts are applied to every query, before any per-call overrides.
func NewServer(opts ...hosttriple.Option) *mcp.Server {
	h := &handler{opts: opts}

	mcpOpts := &mcp.ServerOptions{
		Instructions: Instructions,
		Capabilities: &mcp.ServerCapabilities{
			Tools: &mcp.ToolCapabilities{ListChanged: false},
		},
	}
	s := mcp.NewServer(&mcp.Implementation{Name: "hosttriple", Version: hosttriple.Version}, mcpOpts)

	mcp.AddTool(s, &mcp.Tool{
		Name: "host_triple",
		Description: `Return the host triple of the installed Rust toolchain (e.g. x86_64-unknown-linux-gnu).

Runs rustc -vV once and returns the value of its "host:" line. Nothing is cached.`,
	}, h.hostTripleHandler)

	return s
}

// textResult is a helper to build a text-only tool result.
func textResult(text string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}, nil, nil
}

// errorResult is a helper to build an error tool result.
func errorResult(text string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}, nil, nil
}
