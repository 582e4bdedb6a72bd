// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package cli provides the command-line interface for the TLS trust path builder.
// It implements a Cobra-based CLI that evaluates the preferred trust path from a
// leaf certificate through an unordered candidate bag to an explicitly trusted root,
// with output formats including PEM, DER, visualization JSON, ASCII tree, and table.
// The package handles file I/O, remote bag capture, context cancellation, and
// integrates with the logger package for structured output and error reporting.
package cli
