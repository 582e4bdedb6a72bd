// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
// Use of this source code is governed by a BSD 3-Clause
// license that can be found in the LICENSE file.

// tls-trust-path-builder is a command-line tool for building and inspecting
// TLS trust paths from an unordered certificate bag to an explicitly trusted
// root.
//
// # Installation
//
// Install with Go 1.25.5 or later:
//
//	go install github.com/H0llyW00dzZ/tls-trust-path-builder/cmd/tls-trust-path-builder@latest
//
// # Usage
//
//	tls-trust-path-builder -f LEAF_CERT -r ROOTS_FILE [FLAGS]
//
// # Flags
//
//	-f, --file              Leaf certificate file (PEM, DER, or PKCS#7)
//	-b, --bag               Candidate certificate bundle file (unordered)
//	-r, --roots             Trusted root certificates file [required]
//	    --host              Fetch the leaf and candidate bag from a remote TLS server
//	    --port              Remote TLS port (default: 443)
//	-o, --output            Destination file (default: stdout)
//	-i, --intermediate-only Emit only intermediate certificates
//	-d, --der               Output bundle in DER format
//	-j, --json              Emit visualization JSON
//	-t, --tree              Display trust path as ASCII tree diagram
//	    --table             Display trust path as markdown table
//
// # Examples
//
// Build the trust path for a leaf against a set of private roots:
//
//	tls-trust-path-builder -f leaf.pem -r roots.pem -o path.pem
//
// Include an unordered candidate bag with cross-signed variants:
//
//	tls-trust-path-builder -f leaf.pem -b bundle.pem -r roots.pem
//
// Evaluate the certificates presented by a live server:
//
//	tls-trust-path-builder --host example.com -r roots.pem --tree
//
// Visualize the resolved path as a markdown table:
//
//	tls-trust-path-builder -f leaf.pem -r roots.pem --table
//
// Verify the output with OpenSSL:
//
//	openssl verify -CAfile roots.pem -untrusted path.pem path.pem
package main
