// Package main provides the novarum-mcp binary, an MCP server that lets
// agents validate, document and dry-run novarum scripts.
package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	nmcp "github.com/antoKeinanen/novarum/pkg/mcp"
)

var version = "dev"

func main() {
	s := nmcp.NewServer(version)
	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
