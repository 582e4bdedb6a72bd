// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package trustpath

import (
	"crypto/x509"
	encasn1 "encoding/asn1"

	"golang.org/x/crypto/cryptobyte"
	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"
)

// Digest strength ranks used to order candidate issuers. Higher is stronger.
// Only the digest matters here; the key algorithm is irrelevant to the
// preference policy.
const (
	digestUnknown = iota
	digestMD5
	digestSHA1
	digestSHA256
	digestSHA384
	digestSHA512
)

// digestRank maps a certificate's signature algorithm to its digest strength.
// Certificates whose algorithm the standard library does not recognize fall
// back to parsing the AlgorithmIdentifier OID out of the TBSCertificate.
func digestRank(cert *x509.Certificate) int {
	switch cert.SignatureAlgorithm {
	case x509.SHA512WithRSA, x509.SHA512WithRSAPSS, x509.ECDSAWithSHA512:
		return digestSHA512
	case x509.SHA384WithRSA, x509.SHA384WithRSAPSS, x509.ECDSAWithSHA384:
		return digestSHA384
	case x509.SHA256WithRSA, x509.SHA256WithRSAPSS, x509.ECDSAWithSHA256,
		x509.DSAWithSHA256, x509.PureEd25519:
		return digestSHA256
	case x509.SHA1WithRSA, x509.ECDSAWithSHA1, x509.DSAWithSHA1:
		return digestSHA1
	case x509.MD5WithRSA:
		return digestMD5
	case x509.MD2WithRSA:
		return digestUnknown
	}

	oid, ok := tbsSignatureOID(cert)
	if !ok {
		return digestUnknown
	}
	return digestRankForOID(oid)
}

// Signature algorithm OIDs not covered by crypto/x509's enum, keyed by the
// digest they carry.
var (
	oidSHA512Algorithms = []encasn1.ObjectIdentifier{
		{1, 2, 840, 113549, 1, 1, 13}, // sha512WithRSAEncryption
		{2, 16, 840, 1, 101, 3, 4, 3, 4},
	}
	oidSHA384Algorithms = []encasn1.ObjectIdentifier{
		{1, 2, 840, 113549, 1, 1, 12}, // sha384WithRSAEncryption
		{2, 16, 840, 1, 101, 3, 4, 3, 3},
	}
	oidSHA256Algorithms = []encasn1.ObjectIdentifier{
		{1, 2, 840, 113549, 1, 1, 11}, // sha256WithRSAEncryption
		{1, 2, 840, 10045, 4, 3, 2},   // ecdsa-with-SHA256
		{2, 16, 840, 1, 101, 3, 4, 3, 2},
	}
	oidSHA1Algorithms = []encasn1.ObjectIdentifier{
		{1, 2, 840, 113549, 1, 1, 5}, // sha1WithRSAEncryption
		{1, 2, 840, 10045, 4, 1},     // ecdsa-with-SHA1
		{1, 2, 840, 10040, 4, 3},     // dsa-with-sha1
	}
	oidMD5Algorithms = []encasn1.ObjectIdentifier{
		{1, 2, 840, 113549, 1, 1, 4}, // md5WithRSAEncryption
	}
)

func digestRankForOID(oid encasn1.ObjectIdentifier) int {
	for rank, group := range map[int][]encasn1.ObjectIdentifier{
		digestSHA512: oidSHA512Algorithms,
		digestSHA384: oidSHA384Algorithms,
		digestSHA256: oidSHA256Algorithms,
		digestSHA1:   oidSHA1Algorithms,
		digestMD5:    oidMD5Algorithms,
	} {
		for _, candidate := range group {
			if oid.Equal(candidate) {
				return rank
			}
		}
	}
	return digestUnknown
}

// tbsSignatureOID extracts the signature AlgorithmIdentifier OID from the
// raw TBSCertificate: SEQUENCE { [0] version OPTIONAL, serialNumber,
// signature AlgorithmIdentifier, ... }.
func tbsSignatureOID(cert *x509.Certificate) (encasn1.ObjectIdentifier, bool) {
	input := cryptobyte.String(cert.RawTBSCertificate)

	var tbs cryptobyte.String
	if !input.ReadASN1(&tbs, cbasn1.SEQUENCE) {
		return nil, false
	}
	if !tbs.SkipOptionalASN1(cbasn1.Tag(0).Constructed().ContextSpecific()) {
		return nil, false
	}
	if !tbs.SkipASN1(cbasn1.INTEGER) {
		return nil, false
	}

	var algID cryptobyte.String
	if !tbs.ReadASN1(&algID, cbasn1.SEQUENCE) {
		return nil, false
	}

	var oid encasn1.ObjectIdentifier
	if !algID.ReadASN1ObjectIdentifier(&oid) {
		return nil, false
	}
	return oid, true
}
