/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package token assembles and decomposes the compact multi-segment token
// string carrying an issuer-signed segment, disclosures and an optional
// key-binding segment.
package token

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-jose/go-jose/v3"
	"github.com/mitchellh/mapstructure"

	"github.com/hyperledger/selective-disclosure-go/pkg/doc/sd/common"
	"github.com/hyperledger/selective-disclosure-go/pkg/doc/sd/disclosure"
	"github.com/hyperledger/selective-disclosure-go/pkg/doc/sd/value"
	"github.com/hyperledger/selective-disclosure-go/pkg/doc/util/maphelpers"
)

// Structural parse failures; both surface wrapped in a FormatError.
var (
	// ErrMissingIssuerSegment is returned when the serialized token has no
	// issuer-signed segment.
	ErrMissingIssuerSegment = errors.New("missing issuer-signed segment")

	// ErrInvalidIssuerStructure is returned when the issuer-signed segment
	// does not match the three-part signed-segment shape.
	ErrInvalidIssuerStructure = errors.New("invalid issuer-signed segment structure")
)

// Token holds the decomposed parts of a serialized token. Disclosure order
// matters for the wire round trip only; matching during verification is by
// digest-set membership.
type Token struct {
	// IssuerSegment is the opaque issuer-signed segment. Its signature is
	// verified externally.
	IssuerSegment string

	Disclosures []*disclosure.Disclosure

	// KeyBinding is the holder-signed companion segment, empty when absent.
	KeyBinding string
}

// Serialize assembles the combined wire form: the issuer segment, each
// disclosure followed by the separator and then either the key-binding
// segment or a trailing separator.
func (t *Token) Serialize() string {
	return t.ForHashingForm() + t.KeyBinding
}

// ForHashingForm returns the serialized token without its key-binding
// segment: the exact input hashed for a key-binding sd_hash claim, and a
// strict prefix of Serialize output.
func (t *Token) ForHashingForm() string {
	var sb strings.Builder

	sb.WriteString(t.IssuerSegment)

	for _, d := range t.Disclosures {
		sb.WriteString(common.CombinedFormatSeparator)
		sb.WriteString(d.Encoded)
	}

	sb.WriteString(common.CombinedFormatSeparator)

	return sb.String()
}

type parseOpts struct {
	codec *disclosure.Codec
}

// ParseOpt is a token parsing option.
type ParseOpt func(*parseOpts)

// WithCodec overrides the disclosure codec used during parsing.
func WithCodec(codec *disclosure.Codec) ParseOpt {
	return func(o *parseOpts) {
		o.codec = codec
	}
}

// Parse splits a serialized token on the separator and decodes its parts.
// The first part must match the three-part signed-segment shape. Among the
// remaining non-empty parts the last one is taken as a key-binding segment
// if and only if it independently matches that shape; every other part is
// decoded as a disclosure.
func Parse(serialized string, opts ...ParseOpt) (*Token, error) {
	po := &parseOpts{codec: disclosure.DefaultCodec()}

	for _, opt := range opts {
		opt(po)
	}

	parts := strings.Split(serialized, common.CombinedFormatSeparator)

	if parts[0] == "" {
		return nil, common.NewFormatError(ErrMissingIssuerSegment, "parse token")
	}

	if err := checkSignedSegment(parts[0]); err != nil {
		return nil, common.NewFormatError(fmt.Errorf("%w: %v", ErrInvalidIssuerStructure, err), "parse token")
	}

	t := &Token{IssuerSegment: parts[0]}

	rest := parts[1:]

	lastNonEmpty := -1

	for i := len(rest) - 1; i >= 0; i-- {
		if rest[i] != "" {
			lastNonEmpty = i
			break
		}
	}

	for i, part := range rest {
		if part == "" {
			continue
		}

		if i == lastNonEmpty && checkSignedSegment(part) == nil {
			t.KeyBinding = part
			continue
		}

		d, err := po.codec.Decode(part)
		if err != nil {
			return nil, fmt.Errorf("decode disclosure at segment %d: %w", i+1, err)
		}

		t.Disclosures = append(t.Disclosures, d)
	}

	return t, nil
}

// TryParse parses a serialized token, reporting failure instead of an error.
func TryParse(serialized string) (*Token, bool) {
	t, err := Parse(serialized)
	if err != nil {
		return nil, false
	}

	return t, true
}

// checkSignedSegment verifies the compact three-part signed-segment shape.
func checkSignedSegment(segment string) error {
	if strings.Count(segment, ".") != 2 {
		return errors.New("segment must have three parts")
	}

	if _, err := jose.ParseSigned(segment); err != nil {
		return err
	}

	return nil
}

// IssuerClaims decodes the issuer segment's payload into the claim value
// tree, preserving member order. The signature is not checked here.
func (t *Token) IssuerClaims() (*value.Object, error) {
	payload, err := t.issuerPayload()
	if err != nil {
		return nil, err
	}

	claims, err := value.UnmarshalObject(payload)
	if err != nil {
		return nil, common.NewFormatError(err, "unmarshal issuer claims")
	}

	return claims, nil
}

// DecodeClaims decodes the issuer segment's payload into c.
func (t *Token) DecodeClaims(c interface{}) error {
	payload, err := t.issuerPayload()
	if err != nil {
		return err
	}

	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()

	var claims map[string]interface{}

	if err := dec.Decode(&claims); err != nil {
		return common.NewFormatError(err, "unmarshal issuer claims")
	}

	d, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           c,
		TagName:          "json",
		Squash:           true,
		WeaklyTypedInput: true,
		DecodeHook:       maphelpers.JSONNumberToJwtNumericDate(),
	})
	if err != nil {
		return fmt.Errorf("create claims decoder: %w", err)
	}

	return d.Decode(claims)
}

func (t *Token) issuerPayload() ([]byte, error) {
	segmentParts := strings.Split(t.IssuerSegment, ".")
	if len(segmentParts) != 3 {
		return nil, common.NewFormatError(ErrInvalidIssuerStructure, "decode issuer payload")
	}

	payload, err := base64.RawURLEncoding.DecodeString(segmentParts[1])
	if err != nil {
		return nil, common.NewFormatError(err, "decode issuer payload")
	}

	return payload, nil
}
