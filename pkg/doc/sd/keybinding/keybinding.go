/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package keybinding validates the required claims of a key-binding payload
// whose signature was already verified externally. Claim mismatches are
// expected, caller-branchable business outcomes, so validation returns a
// closed result enumeration instead of errors.
package keybinding

import (
	"encoding/json"
	"time"

	"github.com/go-jose/go-jose/v3/jwt"
)

// TypeHeader is the JOSE typ header value of a key-binding segment.
const TypeHeader = "kb+jwt"

// Claim names checked by ValidateClaims.
const (
	iatClaim    = "iat"
	audClaim    = "aud"
	nonceClaim  = "nonce"
	sdHashClaim = "sd_hash"
)

// Outcome is the closed result of key-binding claim validation.
type Outcome int

// Validation outcomes.
const (
	Valid Outcome = iota
	MissingIat
	InvalidIat
	IatInFuture
	MissingAud
	InvalidAud
	AudienceMismatch
	MissingNonce
	InvalidNonce
	NonceMismatch
	MissingSdHash
	InvalidSdHash
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case Valid:
		return "Valid"
	case MissingIat:
		return "MissingIat"
	case InvalidIat:
		return "InvalidIat"
	case IatInFuture:
		return "IatInFuture"
	case MissingAud:
		return "MissingAud"
	case InvalidAud:
		return "InvalidAud"
	case AudienceMismatch:
		return "AudienceMismatch"
	case MissingNonce:
		return "MissingNonce"
	case InvalidNonce:
		return "InvalidNonce"
	case NonceMismatch:
		return "NonceMismatch"
	case MissingSdHash:
		return "MissingSdHash"
	case InvalidSdHash:
		return "InvalidSdHash"
	default:
		return "Unknown"
	}
}

type opts struct {
	expectedAudience string
	expectedNonce    string
	expectedSDHash   string
	now              func() time.Time
	allowedSkew      time.Duration
}

// Opt is a claim validation option.
type Opt func(*opts)

// WithExpectedAudience requires an exact audience match.
func WithExpectedAudience(audience string) Opt {
	return func(o *opts) {
		o.expectedAudience = audience
	}
}

// WithExpectedNonce requires an exact nonce match.
func WithExpectedNonce(nonce string) Opt {
	return func(o *opts) {
		o.expectedNonce = nonce
	}
}

// WithExpectedSDHash requires an exact sd_hash match. The expected value is
// the digest of the token's for-hashing form, computed by the caller.
func WithExpectedSDHash(sdHash string) Opt {
	return func(o *opts) {
		o.expectedSDHash = sdHash
	}
}

// WithTimeNow overrides the clock used for issued-at validation.
func WithTimeNow(now func() time.Time) Opt {
	return func(o *opts) {
		o.now = now
	}
}

// WithAllowedSkew overrides the clock skew tolerated on issued-at.
func WithAllowedSkew(skew time.Duration) Opt {
	return func(o *opts) {
		o.allowedSkew = skew
	}
}

// ValidateClaims checks the required claims of an already-authenticated
// key-binding payload: issued-at, audience, nonce and sd_hash. The first
// failing check determines the outcome; every comparison is exact.
func ValidateClaims(payload map[string]interface{}, options ...Opt) Outcome {
	o := &opts{
		now:         time.Now,
		allowedSkew: jwt.DefaultLeeway,
	}

	for _, opt := range options {
		opt(o)
	}

	if outcome := validateIat(payload, o); outcome != Valid {
		return outcome
	}

	if outcome := validateString(payload, audClaim, o.expectedAudience,
		MissingAud, InvalidAud, AudienceMismatch); outcome != Valid {
		return outcome
	}

	if outcome := validateString(payload, nonceClaim, o.expectedNonce,
		MissingNonce, InvalidNonce, NonceMismatch); outcome != Valid {
		return outcome
	}

	return validateString(payload, sdHashClaim, o.expectedSDHash,
		MissingSdHash, InvalidSdHash, InvalidSdHash)
}

func validateIat(payload map[string]interface{}, o *opts) Outcome {
	raw, ok := payload[iatClaim]
	if !ok {
		return MissingIat
	}

	sec, ok := numericSeconds(raw)
	if !ok {
		return InvalidIat
	}

	numericDate := jwt.NumericDate(sec)
	issuedAt := numericDate.Time()

	if issuedAt.After(o.now().Add(o.allowedSkew)) {
		return IatInFuture
	}

	return Valid
}

func numericSeconds(raw interface{}) (int64, bool) {
	switch v := raw.(type) {
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}

		return int64(f), true
	case float64:
		return int64(v), true
	case int64:
		return v, true
	case int:
		return int64(v), true
	default:
		return 0, false
	}
}

func validateString(payload map[string]interface{}, claim, expected string,
	missing, invalid, mismatch Outcome) Outcome {
	raw, ok := payload[claim]
	if !ok {
		return missing
	}

	s, ok := raw.(string)
	if !ok {
		return invalid
	}

	if s == "" {
		return missing
	}

	if expected != "" && s != expected {
		return mismatch
	}

	return Valid
}
