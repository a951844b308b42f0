// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package x509verify decides whether a single end-entity [X.509] certificate
// is trusted by a [x509trust.Store] under an explicit policy: a signature
// algorithm [Allowlist], a required [KeyUsage] and a reference time.
//
// Verification is a pure function of its inputs. Checks run cheapest first and
// stop at the first failure:
//
//  1. well-formedness
//  2. validity window (closed interval)
//  3. end-entity and key usage
//  4. signature algorithm admissibility
//  5. issuer lookup by raw name
//  6. signature verification against each matching anchor
//  7. anchor name constraints
//
// Every rejection carries a [Reason]; [Result.Err] exposes it as an error that
// matches the reason's sentinel with [errors.Is].
//
// [X.509]: https://grokipedia.com/page/X.509
package x509verify
