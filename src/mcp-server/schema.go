// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// trustRequestSchema is the JSON Schema for the evaluate_trust_json tool input.
// The bag is optional; the leaf always participates in the search. Roots must
// contain at least one certificate since trust is explicit, never ambient.
const trustRequestSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"properties": {
		"leaf": {
			"type": "string",
			"minLength": 1,
			"description": "PEM-encoded leaf certificate"
		},
		"bag": {
			"type": "array",
			"items": {"type": "string", "minLength": 1},
			"description": "PEM-encoded candidate certificates, unordered"
		},
		"roots": {
			"type": "array",
			"items": {"type": "string", "minLength": 1},
			"minItems": 1,
			"description": "PEM-encoded trusted root certificates"
		}
	},
	"required": ["leaf", "roots"],
	"additionalProperties": false
}`

// trustRequest is the decoded form of a validated evaluate_trust_json payload.
type trustRequest struct {
	Leaf  string   `json:"leaf"`
	Bag   []string `json:"bag"`
	Roots []string `json:"roots"`
}

var compiledTrustRequestSchema = gojsonschema.NewStringLoader(trustRequestSchema)

// validateTrustRequest checks a raw JSON payload against the trust request
// schema and returns a single aggregated error describing every violation.
func validateTrustRequest(payload string) error {
	result, err := gojsonschema.Validate(compiledTrustRequestSchema, gojsonschema.NewStringLoader(payload))
	if err != nil {
		return fmt.Errorf("invalid JSON payload: %w", err)
	}
	if result.Valid() {
		return nil
	}

	var problems []string
	for _, desc := range result.Errors() {
		problems = append(problems, desc.String())
	}
	return fmt.Errorf("trust request failed schema validation: %s", strings.Join(problems, "; "))
}
