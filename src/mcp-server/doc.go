// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package mcpserver provides the [MCP] server for [X509] trust path evaluation.
// It implements the Model Context Protocol ([MCP]) server with tools for building
// the preferred trust path from a leaf certificate through an unordered candidate
// bag to an explicitly trusted root, evaluating JSON-described trust requests,
// fetching candidate bags from remote TLS servers, and inspecting the shared
// verified-link cache.
//
// [X509]: https://grokipedia.com/page/X.509
// [MCP]: https://modelcontextprotocol.io/docs/getting-started/intro
package mcpserver
