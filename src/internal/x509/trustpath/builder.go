// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package trustpath

import (
	"bytes"
	"context"
	"crypto/x509"
	"fmt"
	"sort"
)

// PathBuilder performs the ordered depth-first search for a trust path.
// It is stateless between calls; all search state lives on the stack as
// [pathNode] records, so a single builder may serve concurrent searches.
type PathBuilder struct {
	store     *Store
	validator *ChainValidator
}

// NewPathBuilder creates a PathBuilder over the given store and validator.
func NewPathBuilder(store *Store, validator *ChainValidator) *PathBuilder {
	return &PathBuilder{store: store, validator: validator}
}

// pathNode is one link of a partial chain under construction. The parent
// pointer is a back-reference, never an ownership edge; cycle checks walk
// the ancestor list, so the chain is acyclic by construction.
type pathNode struct {
	cert   *x509.Certificate
	parent *pathNode
	depth  int
}

// onPath reports whether a subject DN already appears on the partial chain.
// Walking every ancestor (not just the immediate parent) is what catches
// loops spanning multiple certificates, e.g. cross-signed pairs A->B->A.
func (n *pathNode) onPath(rawSubject []byte) bool {
	for node := n; node != nil; node = node.parent {
		if bytes.Equal(node.cert.RawSubject, rawSubject) {
			return true
		}
	}
	return false
}

// chain materializes the partial chain in leaf-first order.
func (n *pathNode) chain() []*x509.Certificate {
	out := make([]*x509.Certificate, n.depth+1)
	for node := n; node != nil; node = node.parent {
		out[node.depth] = node.cert
	}
	return out
}

// BuildPath finds the preferred certificate chain from leaf to a trusted
// root. It returns [ErrNoPathFound] when the search exhausts every candidate,
// or the context error if the caller's deadline fires mid-search.
//
// A leaf that is itself a trusted root yields the single-element chain.
func (b *PathBuilder) BuildPath(ctx context.Context, leaf *x509.Certificate) ([]*x509.Certificate, error) {
	if leaf == nil {
		return nil, fmt.Errorf("%w: nil leaf certificate", ErrMalformedInput)
	}

	if b.store.IsTrusted(leaf) {
		return []*x509.Certificate{leaf}, nil
	}

	chain := b.extend(ctx, &pathNode{cert: leaf})
	if chain == nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: leaf %q", ErrNoPathFound, leaf.Subject.String())
	}
	return chain, nil
}

// extend tries every ordered issuer candidate for the deepest certificate of
// the partial chain. A validated trusted root is terminal: the completed
// chain is returned immediately without exploring the remaining candidates
// at that level. A nil return means this branch is exhausted and the caller
// backtracks.
func (b *PathBuilder) extend(ctx context.Context, node *pathNode) []*x509.Certificate {
	candidates := b.orderCandidates(b.store.FindIssuers(node.cert.RawIssuer))

	for _, candidate := range candidates {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		// Cycle guard. This also rejects a self-referential certificate
		// acting as its own issuer: only membership in the trusted root
		// set makes a self-signed certificate a valid terminus, and that
		// case terminates in BuildPath before the search starts.
		if node.onPath(candidate.RawSubject) {
			continue
		}

		if !b.validator.VerifyLink(node.cert, candidate) {
			continue
		}

		if b.store.IsTrusted(candidate) {
			return append(node.chain(), candidate)
		}

		child := &pathNode{cert: candidate, parent: node, depth: node.depth + 1}
		if chain := b.extend(ctx, child); chain != nil {
			return chain
		}
	}

	return nil
}

// orderCandidates sorts issuer candidates most-preferred first:
//
//  1. trusted roots before cross-signed (non-root) certificates
//  2. stronger signature digest first (SHA-256 over SHA-1)
//  3. self-issued certificates before bridge certificates
//  4. original input order (stable sort) for full determinism
//
// The ordering is the provider tie-break contract observed by the
// conformance tests; identical inputs must always yield identical chains.
func (b *PathBuilder) orderCandidates(candidates []*x509.Certificate) []*x509.Certificate {
	if len(candidates) < 2 {
		return candidates
	}

	ordered := make([]*x509.Certificate, len(candidates))
	copy(ordered, candidates)

	sort.SliceStable(ordered, func(i, j int) bool {
		ci, cj := ordered[i], ordered[j]

		trustedI, trustedJ := b.store.IsTrusted(ci), b.store.IsTrusted(cj)
		if trustedI != trustedJ {
			return trustedI
		}

		rankI, rankJ := digestRank(ci), digestRank(cj)
		if rankI != rankJ {
			return rankI > rankJ
		}

		selfI, selfJ := isSelfIssued(ci), isSelfIssued(cj)
		if selfI != selfJ {
			return selfI
		}

		return false
	})

	return ordered
}

// isSelfIssued reports whether a certificate's subject and issuer DNs are
// byte-identical. Self-issued is a statement about names only; it does not
// imply the signature verifies under the certificate's own key.
func isSelfIssued(cert *x509.Certificate) bool {
	return bytes.Equal(cert.RawSubject, cert.RawIssuer)
}
