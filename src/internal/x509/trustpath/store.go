// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package trustpath

import (
	"crypto/sha256"
	"crypto/x509"
)

// Store indexes candidate certificates by raw subject DN for issuer lookups
// during path building. The supplied bag and the trusted roots are indexed
// separately so that lookups can yield roots first.
//
// A Store is built once per evaluation and is read-only afterward, so it
// needs no locking even when independent evaluations run concurrently.
type Store struct {
	bagBySubject  map[string][]*x509.Certificate
	rootBySubject map[string][]*x509.Certificate
	trusted       map[[sha256.Size]byte]struct{}
	count         int
}

// NewStore indexes the unordered certificate bag and the trusted root set.
// Exact duplicates (byte-identical certificates) are dropped, keeping the
// first occurrence so that input order remains the final tie-break during
// candidate ordering.
func NewStore(bag, roots []*x509.Certificate) *Store {
	s := &Store{
		bagBySubject:  make(map[string][]*x509.Certificate),
		rootBySubject: make(map[string][]*x509.Certificate),
		trusted:       make(map[[sha256.Size]byte]struct{}, len(roots)),
	}

	seen := make(map[[sha256.Size]byte]struct{}, len(bag)+len(roots))

	for _, cert := range roots {
		if cert == nil {
			continue
		}
		fp := sha256.Sum256(cert.Raw)
		s.trusted[fp] = struct{}{}
		if _, dup := seen[fp]; dup {
			continue
		}
		seen[fp] = struct{}{}
		key := string(cert.RawSubject)
		s.rootBySubject[key] = append(s.rootBySubject[key], cert)
		s.count++
	}

	for _, cert := range bag {
		if cert == nil {
			continue
		}
		fp := sha256.Sum256(cert.Raw)
		if _, dup := seen[fp]; dup {
			continue
		}
		seen[fp] = struct{}{}
		key := string(cert.RawSubject)
		s.bagBySubject[key] = append(s.bagBySubject[key], cert)
		s.count++
	}

	return s
}

// FindIssuers returns every indexed certificate whose raw subject DN equals
// the given raw issuer DN. Trusted roots come first, then bag certificates,
// each group in input order. An absent subject yields nil.
func (s *Store) FindIssuers(rawIssuer []byte) []*x509.Certificate {
	key := string(rawIssuer)

	roots := s.rootBySubject[key]
	bag := s.bagBySubject[key]
	if len(roots) == 0 {
		return bag
	}

	out := make([]*x509.Certificate, 0, len(roots)+len(bag))
	out = append(out, roots...)
	return append(out, bag...)
}

// IsTrusted reports whether cert is byte-identical to one of the trusted
// roots. Trust is exact: a certificate sharing a root's subject and key but
// differing elsewhere (a cross-signed variant) is not trusted.
func (s *Store) IsTrusted(cert *x509.Certificate) bool {
	_, ok := s.trusted[sha256.Sum256(cert.Raw)]
	return ok
}

// Len returns the number of distinct certificates indexed.
func (s *Store) Len() int { return s.count }
