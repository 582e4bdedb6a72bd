// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package trustpath builds certification paths from a leaf certificate to a
// trusted root given an unordered bag of candidate certificates.
//
// The search is an ordered depth-first walk over issuer candidates with
// backtracking. At each step candidates are ranked so that trusted roots come
// before cross-signed bridges, stronger signature digests before weaker ones,
// and self-issued certificates before cross-signed variants of the same
// authority. Cyclic certificate graphs (cross-signed pairs, bridge CAs) are
// handled by rejecting any candidate whose subject already appears on the
// partial chain, so the chain under construction is acyclic by construction.
//
// The entry point is [Evaluator.CheckServerTrusted], which owns a fresh
// [Store] per call. Independent evaluations may run concurrently; they share
// no mutable state apart from the verified-link cache, which only memoizes
// immutable signature facts.
package trustpath
