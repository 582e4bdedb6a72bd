// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package trustpath_test

import (
	"context"
	"crypto/x509"
	"errors"
	"fmt"
	"testing"

	"github.com/H0llyW00dzZ/tls-trust-path-builder/src/internal/x509/trustpath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckServerTrustedMalformedInput(t *testing.T) {
	p := testGraph(t)
	eval := trustpath.NewEvaluator()

	t.Run("NilLeaf", func(t *testing.T) {
		_, err := eval.CheckServerTrusted(context.Background(),
			[]*x509.Certificate{p.rootA}, []*x509.Certificate{p.rootA}, nil)
		assert.ErrorIs(t, err, trustpath.ErrMalformedInput)
	})

	t.Run("EmptyBagAndRoots", func(t *testing.T) {
		_, err := eval.CheckServerTrusted(context.Background(), nil, nil, p.leaf1)
		assert.ErrorIs(t, err, trustpath.ErrMalformedInput)
	})

	t.Run("EmptyRootsSearches", func(t *testing.T) {
		// A bag with no trusted roots is a well-formed search that simply
		// cannot complete.
		_, err := eval.CheckServerTrusted(context.Background(),
			[]*x509.Certificate{p.leaf1, p.rootA}, nil, p.leaf1)
		assert.ErrorIs(t, err, trustpath.ErrNoPathFound)
	})
}

func TestCheckServerTrustedDeterminism(t *testing.T) {
	p := testGraph(t)
	eval := trustpath.NewEvaluator()

	bag := []*x509.Certificate{p.leaf1, p.rootA, p.rootAtoB, p.rootBtoA}
	roots := []*x509.Certificate{p.rootA, p.rootB}

	first, err := eval.CheckServerTrusted(context.Background(), bag, roots, p.leaf1)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		chain, err := eval.CheckServerTrusted(context.Background(), bag, roots, p.leaf1)
		require.NoError(t, err)
		require.Equal(t, certNames(first.Certs), certNames(chain.Certs),
			"identical inputs must yield identical chains")
	}
}

func TestCheckServerTrustedCustomVerifier(t *testing.T) {
	p := testGraph(t)

	// A pluggable verifier must produce the same chains as the default
	// crypto-backed one when it agrees on link validity.
	var calls int
	eval := trustpath.NewEvaluatorWithVerifier(func(subject, issuer *x509.Certificate) error {
		calls++
		return subject.CheckSignatureFrom(issuer)
	})

	chain, err := eval.CheckServerTrusted(context.Background(),
		[]*x509.Certificate{p.leaf1, p.rootAtoB},
		[]*x509.Certificate{p.rootB},
		p.leaf1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Leaf 1", "Root A", "Root B"}, certNames(chain.Certs))
	assert.Positive(t, calls, "custom verifier was never consulted")

	// A verifier that rejects everything turns every search into a dead-end.
	deny := trustpath.NewEvaluatorWithVerifier(func(subject, issuer *x509.Certificate) error {
		return fmt.Errorf("rejected by policy")
	})
	_, err = deny.CheckServerTrusted(context.Background(),
		[]*x509.Certificate{p.leaf1, p.rootA},
		[]*x509.Certificate{p.rootA},
		p.leaf1)
	assert.ErrorIs(t, err, trustpath.ErrNoPathFound)
}

func TestChainAccessors(t *testing.T) {
	p := testGraph(t)

	chain, err := trustpath.NewEvaluator().CheckServerTrusted(context.Background(),
		[]*x509.Certificate{p.leaf2, p.intermediateB},
		[]*x509.Certificate{p.rootB},
		p.leaf2)
	require.NoError(t, err)

	assert.True(t, chain.Leaf().Equal(p.leaf2))
	assert.True(t, chain.Root().Equal(p.rootB))

	intermediates := chain.FilterIntermediates()
	require.Len(t, intermediates, 1)
	assert.True(t, intermediates[0].Equal(p.intermediateB))
}

func TestChainFilterIntermediatesShortChain(t *testing.T) {
	p := testGraph(t)

	chain, err := trustpath.NewEvaluator().CheckServerTrusted(context.Background(),
		[]*x509.Certificate{p.leaf1},
		[]*x509.Certificate{p.rootA},
		p.leaf1)
	require.NoError(t, err)
	assert.Nil(t, chain.FilterIntermediates())
}

func TestErrorTaxonomyDistinct(t *testing.T) {
	assert.False(t, errors.Is(trustpath.ErrNoPathFound, trustpath.ErrMalformedInput))
	assert.False(t, errors.Is(trustpath.ErrMalformedInput, trustpath.ErrNoPathFound))
}
