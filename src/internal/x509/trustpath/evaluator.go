// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package trustpath

import (
	"context"
	"crypto/x509"
	"fmt"
)

// Evaluator is the trust decision boundary exposed to callers. It wraps
// [PathBuilder] and [ChainValidator] behind a single entry point and owns
// construction of the [Store] per call, so evaluations share no state and
// may run concurrently.
type Evaluator struct {
	validator *ChainValidator
}

// NewEvaluator creates an Evaluator using the default signature verifier.
func NewEvaluator() *Evaluator {
	return &Evaluator{validator: NewChainValidator()}
}

// NewEvaluatorWithVerifier creates an Evaluator with a custom verification
// function, for conformance testing across verifier implementations.
func NewEvaluatorWithVerifier(verify VerifyFunc) *Evaluator {
	return &Evaluator{validator: NewChainValidatorFunc(verify)}
}

// CheckServerTrusted builds the preferred trust chain for leaf from the
// unordered bag and the trusted roots.
//
// It fails fast with [ErrMalformedInput] when leaf is nil or no certificates
// were supplied at all, and with [ErrNoPathFound] when the search exhausts
// every candidate. An empty root set with a non-empty bag is searchable and
// simply cannot terminate, so it yields [ErrNoPathFound] in bounded time
// rather than failing fast.
//
// Signature verification failures never surface as errors of their own; a
// rejected link only narrows the search.
func (e *Evaluator) CheckServerTrusted(ctx context.Context, bag, roots []*x509.Certificate, leaf *x509.Certificate) (*Chain, error) {
	if leaf == nil {
		return nil, fmt.Errorf("%w: nil leaf certificate", ErrMalformedInput)
	}
	if len(bag) == 0 && len(roots) == 0 {
		return nil, fmt.Errorf("%w: no candidate or root certificates supplied", ErrMalformedInput)
	}

	store := NewStore(bag, roots)
	builder := NewPathBuilder(store, e.validator)

	certs, err := builder.BuildPath(ctx, leaf)
	if err != nil {
		return nil, err
	}

	return &Chain{Certs: certs}, nil
}

// Chain is an ordered leaf-to-root trust path. Each certificate's issuer DN
// matches the subject DN of the certificate following it, every link's
// signature verified during the search, the final certificate is a trusted
// root, and no subject DN repeats.
type Chain struct {
	Certs []*x509.Certificate
}

// Leaf returns the first certificate of the chain.
func (c *Chain) Leaf() *x509.Certificate {
	if len(c.Certs) == 0 {
		return nil
	}
	return c.Certs[0]
}

// Root returns the trusted root terminating the chain.
func (c *Chain) Root() *x509.Certificate {
	if len(c.Certs) == 0 {
		return nil
	}
	return c.Certs[len(c.Certs)-1]
}

// FilterIntermediates returns the certificates between the leaf and the
// root, or nil when the chain has no intermediates.
func (c *Chain) FilterIntermediates() []*x509.Certificate {
	if len(c.Certs) <= 2 {
		return nil
	}
	return c.Certs[1 : len(c.Certs)-1]
}
