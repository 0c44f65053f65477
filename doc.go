/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package selectivedisclosure provides the format-agnostic core of
// selective disclosure for verifiable credentials.
//
// Packages for end developer usage
//
// pkg/doc/sd/redact: Splits a claim document into a mandatory claims tree
// and a list of salted disclosures, placing disclosure digests at the
// claims' original nesting depth.
// Reference: https://pkg.go.dev/github.com/hyperledger/selective-disclosure-go/pkg/doc/sd/redact
//
// pkg/doc/sd/token: Assembles and parses the combined token format carrying
// the issuer-signed segment, disclosures and an optional key-binding
// segment, and reconstructs disclosed claims from a presentation.
// Reference: https://pkg.go.dev/github.com/hyperledger/selective-disclosure-go/pkg/doc/sd/token
//
// pkg/doc/sd/keybinding: Validates the claims of a holder's key-binding
// payload.
// Reference: https://pkg.go.dev/github.com/hyperledger/selective-disclosure-go/pkg/doc/sd/keybinding
//
// pkg/doc/ld/partition: Splits the canonical RDF statements of a JSON-LD
// document into mandatory and non-mandatory index sets for statement-level
// disclosure proofs.
// Reference: https://pkg.go.dev/github.com/hyperledger/selective-disclosure-go/pkg/doc/ld/partition
//
// Basic workflow
//
//      1) Convert the source document with the value package.
//      2) Redact the disclosable claims, producing mandatory claims and disclosures.
//      3) Sign the mandatory claims externally and assemble the token.
//      4) On presentation, parse the token, verify the disclosures and
//         validate the key binding.
package selectivedisclosure
