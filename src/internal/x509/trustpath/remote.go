// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package trustpath

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net"
	"time"
)

// FetchRemoteBag establishes a TLS connection to the target host and
// collects the certificates presented during the handshake: the leaf plus
// the remaining peer certificates as an unordered candidate bag. Servers
// routinely send extras out of order or include cross-signed variants, which
// is exactly the input [Evaluator.CheckServerTrusted] is built for.
//
// The handshake deliberately skips verification; trust is decided afterward
// against the caller's roots, not the system pool.
func FetchRemoteBag(ctx context.Context, hostname string, port int, timeout time.Duration) (leaf *x509.Certificate, bag []*x509.Certificate, err error) {
	dialer := &net.Dialer{Timeout: timeout}

	if deadline, ok := ctx.Deadline(); ok {
		dialer.Deadline = deadline
	}

	conn, err := tls.DialWithDialer(dialer, "tcp", fmt.Sprintf("%s:%d", hostname, port),
		// We just want the presented certificates, not to verify
		&tls.Config{InsecureSkipVerify: true})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to %s:%d: %w", hostname, port, err)
	}
	defer conn.Close()

	select {
	case <-ctx.Done():
		return nil, nil, ctx.Err()
	default:
	}

	peerCerts := conn.ConnectionState().PeerCertificates
	if len(peerCerts) == 0 {
		return nil, nil, fmt.Errorf("no certificates received from server")
	}

	return peerCerts[0], peerCerts[1:], nil
}
