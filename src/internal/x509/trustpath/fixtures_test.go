// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package trustpath_test

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"sync"
	"testing"
	"time"
)

// testPKI holds two certificate graphs exercising every path-building
// hazard: cross-signed root pairs, a weak-digest root variant, and two
// intermediates sharing a subject (bridge crossing).
//
// First graph:
//
//	rootA:      a root CA (RSA, SHA-256)
//	rootASha1:  rootA's subject and key, self-signed with SHA-1
//	rootB:      another root CA
//	rootAtoB:   rootA cross-signed by rootB
//	rootBtoA:   rootB cross-signed by rootA
//	leaf1:      issued by rootA
//
//	  [A] <-------> [B]
//	   |
//	   v
//	[leaf1]
//
// Second graph:
//
//	intermediateA: intermediate I issued by rootA
//	intermediateB: intermediate I issued by rootB
//	leaf2:         issued by I
//
//	[A]   [B]
//	   \ /
//	   [I]
//	    |
//	    v
//	 [leaf2]
type testPKI struct {
	rootA, rootASha1, rootB    *x509.Certificate
	rootAtoB, rootBtoA         *x509.Certificate
	leaf1, leaf2               *x509.Certificate
	intermediateA, intermediateB *x509.Certificate
}

var (
	pkiOnce sync.Once
	pkiErr  error
	pki     *testPKI
)

// testGraph builds the fixture graphs once per test binary. Certificates
// are immutable, so sharing them across tests is safe.
func testGraph(t testing.TB) *testPKI {
	t.Helper()

	pkiOnce.Do(func() {
		pki, pkiErr = buildTestPKI()
	})
	if pkiErr != nil {
		t.Fatalf("building test PKI: %v", pkiErr)
	}
	return pki
}

func buildTestPKI() (*testPKI, error) {
	keyA, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, err
	}
	keyB, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, err
	}
	keyI, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, err
	}
	keyLeaf1, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, err
	}
	keyLeaf2, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, err
	}

	p := &testPKI{}

	caA := caTemplate("Root A")
	if p.rootA, err = issue(caA, caA, keyA.Public(), keyA); err != nil {
		return nil, err
	}

	caASha1 := caTemplate("Root A")
	caASha1.SignatureAlgorithm = x509.SHA1WithRSA
	if p.rootASha1, err = issue(caASha1, caASha1, keyA.Public(), keyA); err != nil {
		return nil, err
	}

	caB := caTemplate("Root B")
	if p.rootB, err = issue(caB, caB, keyB.Public(), keyB); err != nil {
		return nil, err
	}

	// Cross-signed pair: each root's key certified by the other authority.
	if p.rootAtoB, err = issue(caTemplate("Root A"), p.rootB, keyA.Public(), keyB); err != nil {
		return nil, err
	}
	if p.rootBtoA, err = issue(caTemplate("Root B"), p.rootA, keyB.Public(), keyA); err != nil {
		return nil, err
	}

	if p.leaf1, err = issue(leafTemplate("Leaf 1"), p.rootA, keyLeaf1.Public(), keyA); err != nil {
		return nil, err
	}

	// Both intermediates certify the same key for the same subject, issued
	// by different roots.
	if p.intermediateA, err = issue(caTemplate("Intermediate"), p.rootA, keyI.Public(), keyA); err != nil {
		return nil, err
	}
	if p.intermediateB, err = issue(caTemplate("Intermediate"), p.rootB, keyI.Public(), keyB); err != nil {
		return nil, err
	}

	if p.leaf2, err = issue(leafTemplate("Leaf 2"), p.intermediateA, keyLeaf2.Public(), keyI); err != nil {
		return nil, err
	}

	return p, nil
}

var serialCounter int64 = 1000

func caTemplate(cn string) *x509.Certificate {
	serialCounter++
	return &x509.Certificate{
		SerialNumber:          big.NewInt(serialCounter),
		Subject:               pkix.Name{CommonName: cn},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(365 * 24 * time.Hour),
		IsCA:                  true,
		BasicConstraintsValid: true,
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageCRLSign,
	}
}

func leafTemplate(cn string) *x509.Certificate {
	serialCounter++
	return &x509.Certificate{
		SerialNumber: big.NewInt(serialCounter),
		Subject:      pkix.Name{CommonName: cn},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(90 * 24 * time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
	}
}

func issue(template, parent *x509.Certificate, pub crypto.PublicKey, parentKey crypto.Signer) (*x509.Certificate, error) {
	der, err := x509.CreateCertificate(rand.Reader, template, parent, pub, parentKey)
	if err != nil {
		return nil, err
	}
	return x509.ParseCertificate(der)
}

// certNames renders a chain as a compact list of common names for test
// failure messages and exact-path assertions.
func certNames(certs []*x509.Certificate) []string {
	names := make([]string, len(certs))
	for i, cert := range certs {
		names[i] = cert.Subject.CommonName
	}
	return names
}
