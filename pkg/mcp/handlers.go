package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/antoKeinanen/novarum/pkg/diagram"
	"github.com/antoKeinanen/novarum/pkg/interp"
	"github.com/antoKeinanen/novarum/pkg/lint"
	"github.com/antoKeinanen/novarum/pkg/providers"
	"github.com/antoKeinanen/novarum/pkg/replay"
	"github.com/antoKeinanen/novarum/pkg/schema"
	ntesting "github.com/antoKeinanen/novarum/pkg/testing"
)

// HandleValidate implements the novarum/validate MCP tool.
func HandleValidate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	path, _ := args["path"].(string)
	if path == "" {
		return errorResult("path argument is required"), nil
	}

	// Detect scenario vs script
	if isScenarioFile(path) {
		s, errs := schema.ValidateFile(path)
		if schema.HasErrors(errs) {
			return errorResult(formatScenarioErrors(errs)), nil
		}
		return textResult(fmt.Sprintf("✓ scenario %s is valid (%d answers, %d commands)", s.Name, len(s.Answers), len(s.Commands))), nil
	}

	res, err := lint.CheckFile(path)
	if err != nil {
		return errorResult(err.Error()), nil
	}
	if lint.HasErrors(res.Diagnostics) {
		return errorResult(formatDiagnostics(res.Diagnostics)), nil
	}
	msg := fmt.Sprintf("✓ %s is valid (%d prompts)", filepath.Base(path), len(res.Blocks))
	if len(res.Diagnostics) > 0 {
		msg += "\n" + formatDiagnostics(res.Diagnostics)
	}
	return textResult(msg), nil
}

// HandleSchema implements the novarum/schema MCP tool.
func HandleSchema(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, err := schema.GenerateJSONSchema()
	if err != nil {
		return errorResult(err.Error()), nil
	}
	return textResult(string(data)), nil
}

// HandleDoc implements the novarum/doc MCP tool.
func HandleDoc(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	path, _ := args["path"].(string)
	if path == "" {
		return errorResult("path argument is required"), nil
	}
	doc, err := lint.Document(path)
	if err != nil {
		return errorResult(err.Error()), nil
	}
	if format, _ := args["diagram"].(string); format != "" {
		f, err := os.Open(path)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		defer f.Close()
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		d, err := diagram.Generate(name, f, diagram.Format(format))
		if err != nil {
			return errorResult(err.Error()), nil
		}
		doc += "\n## Flow\n\n```" + format + "\n" + d + "```\n"
	}
	return textResult(doc), nil
}

// HandleExec implements the novarum/exec MCP tool. Real execution is not
// offered: nobody is at the terminal to answer prompts.
func HandleExec(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	path, _ := args["path"].(string)
	if path == "" {
		return errorResult("path argument is required"), nil
	}
	mode, _ := args["mode"].(string)
	if mode == "" {
		mode = "dry-run" // safe default for AI agents
	}

	var log bytes.Buffer
	cfg := interp.Config{}
	switch mode {
	case "dry-run":
		cfg.Prompter = &providers.DryRunPrompter{Out: &log}
		cfg.Actions = &providers.DryRunActions{Out: &log}
	case "replay":
		scenarioPath, _ := args["scenario"].(string)
		if scenarioPath == "" {
			return errorResult("replay mode requires a scenario argument"), nil
		}
		s, err := replay.LoadScenario(scenarioPath)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		cfg.Prompter = replay.NewPrompter(s)
		cfg.Actions = replay.NewActions(s)
	default:
		return errorResult(fmt.Sprintf("unknown mode %q, use 'dry-run' or 'replay'", mode)), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return errorResult(err.Error()), nil
	}
	defer f.Close()

	var out bytes.Buffer
	cfg.Stdout = &out
	it := interp.New(cfg)
	start := time.Now()
	runErr := it.Run(ctx, f)

	response := map[string]any{
		"status":   "success",
		"duration": time.Since(start).String(),
		"mode":     mode,
		"bindings": map[string]any{
			"single": it.Bindings().SingleMap(),
			"multi":  it.Bindings().MultiMap(),
		},
	}
	if runErr != nil {
		response["status"] = "failed"
		response["error"] = runErr.Error()
	}
	if out.Len() > 0 {
		response["output"] = out.String()
	}
	if log.Len() > 0 {
		response["actions"] = log.String()
	}

	data, _ := json.MarshalIndent(response, "", "  ")
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(string(data))},
		IsError: runErr != nil,
	}, nil
}

// HandleTest implements the novarum/test MCP tool.
func HandleTest(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	path, _ := args["path"].(string)
	if path == "" {
		return errorResult("path argument is required"), nil
	}

	scenarioName, _ := args["scenario"].(string)

	runner := &ntesting.Runner{Timeout: 30 * time.Second}

	var output *ntesting.TestOutput
	var err error

	if scenarioName != "" {
		result, e := runner.RunScenario(path, scenarioName)
		if e != nil {
			return errorResult(fmt.Sprintf("run scenario: %s", e)), nil
		}
		output = &ntesting.TestOutput{
			Script:    result.ScriptName,
			Scenarios: []ntesting.TestResult{*result},
			Summary:   ntesting.TestSummary{Total: 1},
		}
		switch result.Status {
		case "passed":
			output.Summary.Passed = 1
		case "failed":
			output.Summary.Failed = 1
		case "skipped":
			output.Summary.Skipped = 1
		default:
			output.Summary.Errors = 1
		}
	} else {
		output, err = runner.RunAll(path, false)
		if err != nil {
			return errorResult(fmt.Sprintf("run tests: %s", err)), nil
		}
	}

	data, _ := json.MarshalIndent(output, "", "  ")

	isErr := output.Summary.Failed > 0 || output.Summary.Errors > 0
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(string(data))},
		IsError: isErr,
	}, nil
}

// isScenarioFile checks if a file is a scenario rather than a script.
func isScenarioFile(path string) bool {
	ext := filepath.Ext(path)
	return ext == ".yaml" || ext == ".yml"
}

func formatScenarioErrors(errs []*schema.ValidationError) string {
	var msgs []string
	for _, e := range errs {
		if e.Severity != "warning" {
			msgs = append(msgs, e.Error())
		}
	}
	return strings.Join(msgs, "; ")
}

func formatDiagnostics(diags []*lint.Diagnostic) string {
	msgs := make([]string, len(diags))
	for i, d := range diags {
		msgs[i] = d.String()
	}
	return strings.Join(msgs, "\n")
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}

func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(msg),
		},
		IsError: true,
	}
}
