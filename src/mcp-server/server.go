// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/H0llyW00dzZ/tls-trust-path-builder/src/version"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

var serverName = "TLS Trust Path Builder" // MCP server name
var appVersion = version.Version          // default version

// GetVersion returns the current version of the MCP server.
//
// The version is initially set to the default from the version package, but
// can be overridden when calling Run() with a specific version string.
func GetVersion() string {
	return appVersion
}

// createTools defines every MCP tool the server exposes, using the loaded
// configuration for parameter defaults.
func createTools(config *Config) []server.ServerTool {
	checkTrustPathTool := mcp.NewTool("check_trust_path",
		mcp.WithDescription("Build the preferred trust path from a leaf certificate through an unordered candidate bag to an explicitly trusted root"),
		mcp.WithString("leaf",
			mcp.Required(),
			mcp.Description("Leaf certificate file path or base64-encoded certificate data"),
		),
		mcp.WithString("bag",
			mcp.Description("Candidate certificate bundle file path or base64-encoded data (unordered)"),
		),
		mcp.WithString("roots",
			mcp.Required(),
			mcp.Description("Trusted root certificates file path or base64-encoded data"),
		),
		mcp.WithString("format",
			mcp.Description("Output format: 'pem', 'der', 'json', 'tree', or 'table' (default: "+config.Defaults.Format+")"),
			mcp.DefaultString(config.Defaults.Format),
		),
		mcp.WithBoolean("intermediate_only",
			mcp.Description("Output only intermediate certificates (default: false)"),
			mcp.DefaultBool(false),
		),
	)

	evaluateTrustJSONTool := mcp.NewTool("evaluate_trust_json",
		mcp.WithDescription("Evaluate a JSON-described trust request (PEM leaf, bag, and roots) and return visualization JSON"),
		mcp.WithString("request",
			mcp.Required(),
			mcp.Description("JSON document with 'leaf' (PEM string), optional 'bag' (PEM array), and 'roots' (PEM array)"),
		),
	)

	fetchRemoteBagTool := mcp.NewTool("fetch_remote_bag",
		mcp.WithDescription("Capture the leaf and candidate certificate bag presented by a remote TLS server, optionally evaluating against trusted roots"),
		mcp.WithString("hostname",
			mcp.Required(),
			mcp.Description("Remote hostname to connect to"),
		),
		mcp.WithNumber("port",
			mcp.Description(fmt.Sprintf("Port number (default: %d)", config.Defaults.Port)),
			mcp.DefaultNumber(float64(config.Defaults.Port)),
		),
		mcp.WithString("roots",
			mcp.Description("Trusted root certificates file path or base64-encoded data; when set, the captured bag is evaluated"),
		),
		mcp.WithString("format",
			mcp.Description("Output format when evaluating: 'pem', 'der', 'json', 'tree', or 'table' (default: "+config.Defaults.Format+")"),
			mcp.DefaultString(config.Defaults.Format),
		),
	)

	linkCacheMetricsTool := mcp.NewTool("link_cache_metrics",
		mcp.WithDescription("Report verified-link cache metrics (size, hits, misses, evictions)"),
	)

	return []server.ServerTool{
		{
			Tool: checkTrustPathTool,
			Handler: func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return handleCheckTrustPath(ctx, request, config)
			},
		},
		{
			Tool:    evaluateTrustJSONTool,
			Handler: handleEvaluateTrustJSON,
		},
		{
			Tool: fetchRemoteBagTool,
			Handler: func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return handleFetchRemoteBag(ctx, request, config)
			},
		},
		{
			Tool:    linkCacheMetricsTool,
			Handler: handleLinkCacheMetrics,
		},
	}
}

// Run starts the MCP server with trust path evaluation tools.
//
// Parameters:
//   - version: Version string to set for the server
//
// Returns:
//   - error: Server startup or runtime error, or graceful shutdown signal
//
// Configuration is loaded from the MCP_TRUSTPATH_CONFIG_FILE environment
// variable, falling back to defaults when unset. The server responds to
// SIGINT and SIGTERM by cancelling the context and stopping the stdio
// transport cleanly.
func Run(version string) error {
	// Set the version for GetVersion
	appVersion = version

	// Load configuration
	config, err := loadConfig(os.Getenv("MCP_TRUSTPATH_CONFIG_FILE"))
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	// Create MCP server
	s := server.NewMCPServer(
		serverName,
		appVersion,
		server.WithToolCapabilities(true),
	)

	// Register tool handlers
	for _, tool := range createTools(config) {
		s.AddTool(tool.Tool, tool.Handler)
	}

	// Create cancellable context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	// Create stdio server to connect with our context
	stdioServer := server.NewStdioServer(s)

	// Start server with graceful shutdown support
	errChan := make(chan error, 1)
	go func() {
		errChan <- stdioServer.Listen(ctx, os.Stdin, os.Stdout)
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		// Graceful shutdown triggered by signal
		return fmt.Errorf("server shutdown: %w", ctx.Err())
	}
}
