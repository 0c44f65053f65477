/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package disclosure defines a single disclosure and its compact wire codec.
package disclosure

import (
	"bytes"

	"github.com/hyperledger/selective-disclosure-go/pkg/doc/sd/value"
)

// Disclosure holds one removed claim: the caller-supplied salt, the claim
// name for property disclosures (empty for array-element disclosures) and
// the claim value. Two disclosures with identical content remain distinct on
// the wire because their salts differ; salt uniqueness is the caller's
// contract.
type Disclosure struct {
	Salt []byte

	// Name is the claim name. It is meaningful only when ArrayElement is
	// false.
	Name string

	// ArrayElement marks the two-element wire form.
	ArrayElement bool

	Value value.Value

	// Encoded is the compact wire form the disclosure was decoded from or
	// encoded to, when known. Digests are computed over this exact string.
	Encoded string
}

// Equal reports whether two disclosures carry the same salt, addressing and
// value.
func (d *Disclosure) Equal(other *Disclosure) bool {
	if d == nil || other == nil {
		return d == other
	}

	if !bytes.Equal(d.Salt, other.Salt) {
		return false
	}

	if d.ArrayElement != other.ArrayElement {
		return false
	}

	if !d.ArrayElement && d.Name != other.Name {
		return false
	}

	return value.Equal(d.Value, other.Value)
}
