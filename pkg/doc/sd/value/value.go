/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package value defines the host-format-neutral representation of claim
// values. A claim tree is converted into this representation once, at the
// source document boundary, and all redaction logic operates on it only.
package value

import (
	"encoding/json"
)

// Kind identifies the variant of a Value.
type Kind int

// Value kinds.
const (
	KindNull Kind = iota
	KindBool
	KindInteger
	KindDecimal
	KindString
	KindSequence
	KindObject
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInteger:
		return "integer"
	case KindDecimal:
		return "decimal"
	case KindString:
		return "string"
	case KindSequence:
		return "sequence"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is a closed sum over the claim value variants. Implementations are
// restricted to this package.
type Value interface {
	Kind() Kind

	sealed()
}

// Null is the null value.
type Null struct{}

// Kind returns KindNull.
func (Null) Kind() Kind { return KindNull }

func (Null) sealed() {}

// Bool is a boolean value.
type Bool bool

// Kind returns KindBool.
func (Bool) Kind() Kind { return KindBool }

func (Bool) sealed() {}

// Integer is a whole-number value.
type Integer int64

// Kind returns KindInteger.
func (Integer) Kind() Kind { return KindInteger }

func (Integer) sealed() {}

// Decimal is a non-integer numeric value. The original literal is preserved
// so that re-serialization reproduces the source bytes.
type Decimal json.Number

// Kind returns KindDecimal.
func (Decimal) Kind() Kind { return KindDecimal }

func (Decimal) sealed() {}

// Number returns the decimal literal as json.Number.
func (d Decimal) Number() json.Number { return json.Number(d) }

// String is a string value.
type String string

// Kind returns KindString.
func (String) Kind() Kind { return KindString }

func (String) sealed() {}

// Sequence is an ordered list of values.
type Sequence []Value

// Kind returns KindSequence.
func (Sequence) Kind() Kind { return KindSequence }

func (Sequence) sealed() {}

// Copy returns a deep copy of v. The copy shares no mutable state with the
// original, so the source document's backing storage may be released after
// conversion.
func Copy(v Value) Value {
	switch tv := v.(type) {
	case Sequence:
		cp := make(Sequence, len(tv))
		for i := range tv {
			cp[i] = Copy(tv[i])
		}

		return cp
	case *Object:
		return tv.Copy()
	default:
		// scalars are immutable
		return v
	}
}

// Equal reports whether two values have the same structure and content.
// Decimal literals are compared textually.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	if a.Kind() != b.Kind() {
		return false
	}

	switch av := a.(type) {
	case Null:
		return true
	case Bool:
		return av == b.(Bool)
	case Integer:
		return av == b.(Integer)
	case Decimal:
		return av == b.(Decimal)
	case String:
		return av == b.(String)
	case Sequence:
		bv := b.(Sequence)
		if len(av) != len(bv) {
			return false
		}

		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}

		return true
	case *Object:
		return av.Equal(b.(*Object))
	default:
		return false
	}
}
