// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package trustpath

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	encasn1 "encoding/asn1"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDigestRank(t *testing.T) {
	tests := []struct {
		name string
		alg  x509.SignatureAlgorithm
		want int
	}{
		{name: "SHA512WithRSA", alg: x509.SHA512WithRSA, want: digestSHA512},
		{name: "ECDSAWithSHA512", alg: x509.ECDSAWithSHA512, want: digestSHA512},
		{name: "SHA384WithRSAPSS", alg: x509.SHA384WithRSAPSS, want: digestSHA384},
		{name: "SHA256WithRSA", alg: x509.SHA256WithRSA, want: digestSHA256},
		{name: "ECDSAWithSHA256", alg: x509.ECDSAWithSHA256, want: digestSHA256},
		{name: "PureEd25519", alg: x509.PureEd25519, want: digestSHA256},
		{name: "SHA1WithRSA", alg: x509.SHA1WithRSA, want: digestSHA1},
		{name: "ECDSAWithSHA1", alg: x509.ECDSAWithSHA1, want: digestSHA1},
		{name: "MD5WithRSA", alg: x509.MD5WithRSA, want: digestMD5},
		{name: "MD2WithRSA", alg: x509.MD2WithRSA, want: digestUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cert := &x509.Certificate{SignatureAlgorithm: tt.alg}
			assert.Equal(t, tt.want, digestRank(cert))
		})
	}
}

func TestDigestRankOrdering(t *testing.T) {
	// The ranks themselves must order strictly: every stronger digest
	// outranks every weaker one.
	assert.Greater(t, digestSHA512, digestSHA384)
	assert.Greater(t, digestSHA384, digestSHA256)
	assert.Greater(t, digestSHA256, digestSHA1)
	assert.Greater(t, digestSHA1, digestMD5)
	assert.Greater(t, digestMD5, digestUnknown)
}

func TestDigestRankForOID(t *testing.T) {
	tests := []struct {
		name string
		oid  encasn1.ObjectIdentifier
		want int
	}{
		{name: "sha512WithRSA", oid: encasn1.ObjectIdentifier{1, 2, 840, 113549, 1, 1, 13}, want: digestSHA512},
		{name: "sha384WithRSA", oid: encasn1.ObjectIdentifier{1, 2, 840, 113549, 1, 1, 12}, want: digestSHA384},
		{name: "ecdsaWithSHA256", oid: encasn1.ObjectIdentifier{1, 2, 840, 10045, 4, 3, 2}, want: digestSHA256},
		{name: "sha1WithRSA", oid: encasn1.ObjectIdentifier{1, 2, 840, 113549, 1, 1, 5}, want: digestSHA1},
		{name: "md5WithRSA", oid: encasn1.ObjectIdentifier{1, 2, 840, 113549, 1, 1, 4}, want: digestMD5},
		{name: "unknown", oid: encasn1.ObjectIdentifier{1, 2, 3, 4}, want: digestUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, digestRankForOID(tt.oid))
		})
	}
}

func TestTBSSignatureOID(t *testing.T) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	template := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "OID Probe"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, key.Public(), key)
	require.NoError(t, err)
	cert, err := x509.ParseCertificate(der)
	require.NoError(t, err)

	oid, ok := tbsSignatureOID(cert)
	require.True(t, ok, "failed to parse signature OID from TBSCertificate")
	assert.True(t, oid.Equal(encasn1.ObjectIdentifier{1, 2, 840, 10045, 4, 3, 2}),
		"OID = %v, want ecdsa-with-SHA256", oid)
	assert.Equal(t, digestSHA256, digestRankForOID(oid))
}

func TestTBSSignatureOIDGarbage(t *testing.T) {
	_, ok := tbsSignatureOID(&x509.Certificate{RawTBSCertificate: []byte{0x02, 0x01, 0x00}})
	assert.False(t, ok)

	_, ok = tbsSignatureOID(&x509.Certificate{})
	assert.False(t, ok)
}
