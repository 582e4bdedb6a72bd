// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package trustpath

import (
	"bytes"
	"crypto/x509"
)

// VerifyFunc checks that subject's signature verifies under issuer's public
// key. A nil error means the link is cryptographically sound. Implementations
// must not mutate either certificate.
type VerifyFunc func(subject, issuer *x509.Certificate) error

// ChainValidator checks a single subject/issuer link of a candidate chain.
// It has no side effects and never reports why a link failed; inside the
// search a bad link is an ordinary "candidate rejected" outcome, not an
// error.
type ChainValidator struct {
	verify VerifyFunc

	// cached is set only for the default verifier. Custom verify functions
	// bypass the shared link cache since their outcomes may differ from the
	// standard library's.
	cached bool
}

// NewChainValidator creates a validator using the standard library's
// signature verification ([x509.Certificate.CheckSignatureFrom]). Verified
// links are memoized in the shared link cache.
func NewChainValidator() *ChainValidator {
	return &ChainValidator{
		verify: func(subject, issuer *x509.Certificate) error {
			return subject.CheckSignatureFrom(issuer)
		},
		cached: true,
	}
}

// NewChainValidatorFunc creates a validator with a custom verification
// function. Used by the conformance tests to run the same search against
// multiple verifier implementations and require identical output.
func NewChainValidatorFunc(verify VerifyFunc) *ChainValidator {
	return &ChainValidator{verify: verify}
}

// VerifyLink reports whether issuerCert is a valid issuer link for
// subjectCert: the raw issuer DN must match the issuer's raw subject DN and
// the signature must verify under the issuer's public key. It returns false
// (never an error) for any structural or cryptographic mismatch.
func (v *ChainValidator) VerifyLink(subjectCert, issuerCert *x509.Certificate) bool {
	if subjectCert == nil || issuerCert == nil {
		return false
	}
	if !bytes.Equal(subjectCert.RawIssuer, issuerCert.RawSubject) {
		return false
	}

	if v.cached {
		if ok, hit := lookupLink(subjectCert, issuerCert); hit {
			return ok
		}
		ok := v.verify(subjectCert, issuerCert) == nil
		storeLink(subjectCert, issuerCert, ok)
		return ok
	}

	return v.verify(subjectCert, issuerCert) == nil
}
