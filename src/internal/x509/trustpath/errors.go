// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package trustpath

import "errors"

var (
	// ErrNoPathFound indicates the search exhausted every candidate chain
	// without reaching a trusted root.
	ErrNoPathFound = errors.New("trustpath: no trust path found")

	// ErrMalformedInput indicates the evaluation was given nothing to work
	// with: a nil leaf, or neither candidate nor root certificates.
	ErrMalformedInput = errors.New("trustpath: malformed input")
)
