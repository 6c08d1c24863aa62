// Package mcp exposes novarum's validate, exec, test, schema and doc
// operations as MCP tools for AI agents.
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewServer creates a new MCP server with novarum tools registered.
func NewServer(version string) *server.MCPServer {
	s := server.NewMCPServer(
		"novarum",
		version,
		server.WithToolCapabilities(true),
	)

	s.AddTool(
		mcp.NewTool("novarum/validate",
			mcp.WithDescription("Validate a novarum script (.novconf) or scenario file (.yaml)"),
			mcp.WithString("path", mcp.Required(), mcp.Description("Path to the script or scenario file")),
		),
		HandleValidate,
	)

	s.AddTool(
		mcp.NewTool("novarum/exec",
			mcp.WithDescription("Run a novarum script without touching the system: dry-run answers every prompt with its first option, replay answers from a scenario"),
			mcp.WithString("path", mcp.Required(), mcp.Description("Path to the script")),
			mcp.WithString("mode", mcp.Description("Execution mode: dry-run (default) or replay")),
			mcp.WithString("scenario", mcp.Description("Scenario file, required for replay")),
		),
		HandleExec,
	)

	s.AddTool(
		mcp.NewTool("novarum/test",
			mcp.WithDescription("Run scenario tests for a novarum script"),
			mcp.WithString("path", mcp.Required(), mcp.Description("Path to the script")),
			mcp.WithString("scenario", mcp.Description("Run only the named scenario (optional)")),
		),
		HandleTest,
	)

	s.AddTool(
		mcp.NewTool("novarum/schema",
			mcp.WithDescription("Export the scenario file JSON Schema"),
		),
		HandleSchema,
	)

	s.AddTool(
		mcp.NewTool("novarum/doc",
			mcp.WithDescription("Show a script's documentation as markdown: its header comment and the prompts it asks"),
			mcp.WithString("path", mcp.Required(), mcp.Description("Path to the script")),
			mcp.WithString("diagram", mcp.Description("Append a control-flow diagram: mermaid or ascii")),
		),
		HandleDoc,
	)

	return s
}
