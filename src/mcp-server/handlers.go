// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"context"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/H0llyW00dzZ/tls-trust-path-builder/src/internal/helper/jsonrpc"
	x509certs "github.com/H0llyW00dzZ/tls-trust-path-builder/src/internal/x509/certs"
	"github.com/H0llyW00dzZ/tls-trust-path-builder/src/internal/x509/trustpath"
	"github.com/mark3labs/mcp-go/mcp"
)

// readCertInput loads certificate bytes from a file path or base64-encoded data.
// File paths are tried first so relative names behave the way CLI users expect.
func readCertInput(input string) ([]byte, error) {
	if fileData, err := os.ReadFile(input); err == nil {
		return fileData, nil
	}
	if decoded, err := base64.StdEncoding.DecodeString(input); err == nil {
		return decoded, nil
	}
	return nil, fmt.Errorf("not a valid file path or base64 data")
}

// decodeBundleInput loads and decodes a multi-certificate input (file path or
// base64) in any supported format.
func decodeBundleInput(input string) ([]*x509.Certificate, error) {
	data, err := readCertInput(input)
	if err != nil {
		return nil, err
	}
	return x509certs.New().DecodeBundle(data)
}

// decodePEMList decodes a list of PEM strings into certificates.
func decodePEMList(pems []string) ([]*x509.Certificate, error) {
	codec := x509certs.New()
	certs := make([]*x509.Certificate, 0, len(pems))
	for i, p := range pems {
		cert, err := codec.Decode([]byte(p))
		if err != nil {
			return nil, fmt.Errorf("certificate %d: %w", i, err)
		}
		certs = append(certs, cert)
	}
	return certs, nil
}

// renderChain formats a resolved trust path in the requested output format.
// DER output is base64-encoded since MCP tool results are text content.
func renderChain(chain *trustpath.Chain, format string, intermediateOnly bool) (string, error) {
	certsToOutput := chain.Certs
	if intermediateOnly {
		certsToOutput = chain.FilterIntermediates()
	}

	codec := x509certs.New()
	switch format {
	case "json":
		data, err := chain.ToVisualizationJSON()
		if err != nil {
			return "", fmt.Errorf("failed to render JSON: %w", err)
		}
		return string(data), nil
	case "tree":
		return chain.RenderASCIITree(), nil
	case "table":
		return chain.RenderTable(), nil
	case "der":
		return base64.StdEncoding.EncodeToString(codec.EncodeMultipleDER(certsToOutput)), nil
	default:
		return string(codec.EncodeMultiplePEM(certsToOutput)), nil
	}
}

// handleCheckTrustPath builds the preferred trust path from a leaf certificate
// through a candidate bag to an explicitly trusted root.
//
// Parameters:
//   - ctx: Context for cancellation and timeout handling
//   - request: MCP tool call request containing leaf, bag, roots, and format options
//   - config: Server configuration providing output defaults
//
// Returns:
//   - The tool execution result containing the resolved trust path
//   - An error only for protocol-level failures; evaluation failures are tool results
//
// The leaf and roots parameters are required; the bag is optional. All
// certificate inputs accept file paths or base64-encoded data in PEM, DER,
// or PKCS#7 form.
func handleCheckTrustPath(ctx context.Context, request mcp.CallToolRequest, config *Config) (*mcp.CallToolResult, error) {
	leafInput, err := request.RequireString("leaf")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("leaf parameter required: %v", err)), nil
	}
	rootsInput, err := request.RequireString("roots")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("roots parameter required: %v", err)), nil
	}

	bagInput := request.GetString("bag", "")
	format := request.GetString("format", config.Defaults.Format)
	intermediateOnly := request.GetBool("intermediate_only", false)

	leafData, err := readCertInput(leafInput)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read leaf certificate: %v", err)), nil
	}
	leaf, err := x509certs.New().Decode(leafData)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to decode leaf certificate: %v", err)), nil
	}

	roots, err := decodeBundleInput(rootsInput)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to decode trusted roots: %v", err)), nil
	}

	bag := []*x509.Certificate{leaf}
	if bagInput != "" {
		extra, err := decodeBundleInput(bagInput)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to decode candidate bag: %v", err)), nil
		}
		bag = append(bag, extra...)
	}

	chain, err := trustpath.NewEvaluator().CheckServerTrusted(ctx, bag, roots, leaf)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("trust path evaluation failed: %v", err)), nil
	}

	output, err := renderChain(chain, format, intermediateOnly)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(output), nil
}

// handleEvaluateTrustJSON evaluates a JSON-described trust request.
//
// The request parameter carries a JSON document with PEM-encoded leaf, bag,
// and roots fields. The payload is validated against a JSON Schema before
// decoding, so malformed requests fail with a precise list of violations
// instead of decode errors. The result is always visualization JSON.
func handleEvaluateTrustJSON(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	payload, err := request.RequireString("request")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("request parameter required: %v", err)), nil
	}

	if err := validateTrustRequest(payload); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	// The payload already passed schema validation; round-trip through a map
	// to normalize before decoding into the typed request.
	var raw map[string]any
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to parse request: %v", err)), nil
	}
	var req trustRequest
	if err := jsonrpc.UnmarshalFromMap(raw, &req); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to decode request: %v", err)), nil
	}

	leafCerts, err := decodePEMList([]string{req.Leaf})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to decode leaf: %v", err)), nil
	}
	leaf := leafCerts[0]

	bag, err := decodePEMList(req.Bag)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to decode bag: %v", err)), nil
	}
	roots, err := decodePEMList(req.Roots)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to decode roots: %v", err)), nil
	}

	chain, err := trustpath.NewEvaluator().CheckServerTrusted(ctx, append([]*x509.Certificate{leaf}, bag...), roots, leaf)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("trust path evaluation failed: %v", err)), nil
	}

	output, err := chain.ToVisualizationJSON()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to render JSON: %v", err)), nil
	}
	return mcp.NewToolResultText(string(output)), nil
}

// handleFetchRemoteBag captures the leaf and candidate bag presented by a
// remote TLS server, optionally evaluating them against supplied roots.
//
// Without a roots parameter the tool returns the captured certificates as
// PEM. With roots, the captured material is fed straight into trust path
// evaluation and the resolved path is returned in the requested format.
func handleFetchRemoteBag(ctx context.Context, request mcp.CallToolRequest, config *Config) (*mcp.CallToolResult, error) {
	hostname, err := request.RequireString("hostname")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("hostname parameter required: %v", err)), nil
	}

	port := request.GetInt("port", config.Defaults.Port)
	format := request.GetString("format", config.Defaults.Format)
	rootsInput := request.GetString("roots", "")
	timeout := time.Duration(config.Defaults.Timeout) * time.Second

	leaf, bag, err := trustpath.FetchRemoteBag(ctx, hostname, port, timeout)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to fetch remote certificates: %v", err)), nil
	}

	if rootsInput == "" {
		captured := append([]*x509.Certificate{leaf}, bag...)
		return mcp.NewToolResultText(string(x509certs.New().EncodeMultiplePEM(captured))), nil
	}

	roots, err := decodeBundleInput(rootsInput)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to decode trusted roots: %v", err)), nil
	}

	chain, err := trustpath.NewEvaluator().CheckServerTrusted(ctx, append([]*x509.Certificate{leaf}, bag...), roots, leaf)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("trust path evaluation failed: %v", err)), nil
	}

	output, err := renderChain(chain, format, false)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(output), nil
}

// handleLinkCacheMetrics reports the shared verified-link cache metrics.
func handleLinkCacheMetrics(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	metrics := trustpath.GetLinkCacheMetrics()
	data, err := json.MarshalIndent(map[string]any{
		"size":      metrics.Size,
		"hits":      metrics.Hits,
		"misses":    metrics.Misses,
		"evictions": metrics.Evictions,
		"maxSize":   trustpath.GetLinkCacheConfig().MaxSize,
	}, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal metrics: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
