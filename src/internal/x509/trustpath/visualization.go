// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package trustpath

import (
	"crypto/ecdsa"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
)

// RenderASCIITree renders the trust path as an ASCII tree diagram, root
// first, showing each certificate's role and signature digest.
func (c *Chain) RenderASCIITree() string {
	if len(c.Certs) == 0 {
		return "No certificates in chain"
	}

	var result strings.Builder
	for i := len(c.Certs) - 1; i >= 0; i-- {
		cert := c.Certs[i]
		depth := len(c.Certs) - 1 - i

		connector := "└── "
		if depth > 0 {
			connector = strings.Repeat("    ", depth-1) + "    └── "
		}

		info := fmt.Sprintf("%s (%s, %s)", cert.Subject.CommonName, c.certificateRole(i), cert.SignatureAlgorithm)
		result.WriteString(connector + info + "\n")
	}

	return result.String()
}

// RenderTable renders the trust path as a formatted markdown table with
// per-certificate role, names, signature algorithm, and key information.
func (c *Chain) RenderTable() string {
	if len(c.Certs) == 0 {
		return "No certificates to display"
	}

	var buf strings.Builder
	table := tablewriter.NewTable(&buf,
		tablewriter.WithRenderer(renderer.NewMarkdown(tw.Rendition{Streaming: true})),
	)

	headers := []string{"#", "Role", "Subject", "Issuer", "Signature", "Key", "Self-Issued"}
	table.Header(headers)

	var rows [][]string
	for i, cert := range c.Certs {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			c.certificateRole(i),
			cert.Subject.CommonName,
			cert.Issuer.CommonName,
			cert.SignatureAlgorithm.String(),
			keyInfo(cert.PublicKey),
			fmt.Sprintf("%v", isSelfIssued(cert)),
		})
	}

	table.Bulk(rows)
	table.Render()
	return buf.String()
}

// ToVisualizationJSON converts the trust path to structured JSON for
// external tools: per-certificate details plus the issuer relationships
// linking adjacent chain positions.
func (c *Chain) ToVisualizationJSON() ([]byte, error) {
	type CertificateVizData struct {
		Index              int       `json:"index"`
		Role               string    `json:"role"`
		Subject            string    `json:"subject"`
		Issuer             string    `json:"issuer"`
		SerialNumber       string    `json:"serialNumber"`
		SignatureAlgorithm string    `json:"signatureAlgorithm"`
		SelfIssued         bool      `json:"selfIssued"`
		NotBefore          time.Time `json:"notBefore"`
		NotAfter           time.Time `json:"notAfter"`
		IsCA               bool      `json:"isCA"`
	}

	type RelationshipData struct {
		FromIndex int    `json:"fromIndex"`
		ToIndex   int    `json:"toIndex"`
		Type      string `json:"type"`
	}

	type VisualizationData struct {
		Timestamp     string               `json:"timestamp"`
		ChainLength   int                  `json:"chainLength"`
		Certificates  []CertificateVizData `json:"certificates"`
		Relationships []RelationshipData   `json:"relationships"`
	}

	data := VisualizationData{
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		ChainLength:   len(c.Certs),
		Certificates:  make([]CertificateVizData, len(c.Certs)),
		Relationships: make([]RelationshipData, 0, max(len(c.Certs)-1, 0)),
	}

	for i, cert := range c.Certs {
		data.Certificates[i] = CertificateVizData{
			Index:              i,
			Role:               c.certificateRole(i),
			Subject:            cert.Subject.String(),
			Issuer:             cert.Issuer.String(),
			SerialNumber:       cert.SerialNumber.String(),
			SignatureAlgorithm: cert.SignatureAlgorithm.String(),
			SelfIssued:         isSelfIssued(cert),
			NotBefore:          cert.NotBefore,
			NotAfter:           cert.NotAfter,
			IsCA:               cert.IsCA,
		}
	}

	for i := 0; i < len(c.Certs)-1; i++ {
		data.Relationships = append(data.Relationships, RelationshipData{
			FromIndex: i,
			ToIndex:   i + 1,
			Type:      "issued_by",
		})
	}

	return json.MarshalIndent(data, "", "  ")
}

// certificateRole labels a chain position. The final certificate is always
// the trusted root.
func (c *Chain) certificateRole(i int) string {
	switch {
	case i == len(c.Certs)-1:
		return "Trusted Root"
	case i == 0:
		return "Leaf"
	default:
		return "Intermediate CA"
	}
}

func keyInfo(pub any) string {
	switch key := pub.(type) {
	case *rsa.PublicKey:
		return fmt.Sprintf("%d-bit RSA", key.Size()*8)
	case *ecdsa.PublicKey:
		return fmt.Sprintf("%d-bit ECDSA", key.Curve.Params().BitSize)
	}
	return "unknown"
}
