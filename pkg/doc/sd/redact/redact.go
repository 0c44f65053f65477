/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package redact walks a claim tree and splits it into a mandatory subtree
// and a flat disclosure list, inserting digest arrays at the claims'
// original nesting depth.
package redact

import (
	"crypto"
	"errors"
	"fmt"

	"github.com/hyperledger/selective-disclosure-go/pkg/doc/sd/claimpath"
	"github.com/hyperledger/selective-disclosure-go/pkg/doc/sd/common"
	"github.com/hyperledger/selective-disclosure-go/pkg/doc/sd/disclosure"
	"github.com/hyperledger/selective-disclosure-go/pkg/doc/sd/value"
)

// SaltFactory supplies cryptographically random salt bytes. Randomness
// quality is entirely the caller's responsibility; salts are stored opaquely
// and never inspected.
type SaltFactory func() ([]byte, error)

// DigestFn computes the digest string of an encoded disclosure.
type DigestFn func(encodedDisclosure string) (string, error)

// DigestSuite bundles the disclosure encoder and digest capabilities
// injected into redaction. Its absence selects split-only mode, which
// produces the mandatory/disclosed partition without any digesting.
type DigestSuite struct {
	Codec *disclosure.Codec

	Digest DigestFn

	// Algorithm is the wire identifier written under the reserved
	// hash-algorithm property at the root.
	Algorithm string
}

// NewDigestSuite creates a suite over the given hash function and codec.
// A nil codec selects the default base64url codec.
func NewDigestSuite(hash crypto.Hash, codec *disclosure.Codec) (*DigestSuite, error) {
	if !hash.Available() {
		return nil, fmt.Errorf("hash function not available for: %d", hash)
	}

	if codec == nil {
		codec = disclosure.DefaultCodec()
	}

	return &DigestSuite{
		Codec: codec,
		Digest: func(encoded string) (string, error) {
			return common.GetHash(hash, encoded)
		},
		Algorithm: common.HashAlgorithm(hash),
	}, nil
}

// SHA256Suite returns the default sha-256 digest suite.
func SHA256Suite() *DigestSuite {
	suite, err := NewDigestSuite(crypto.SHA256, nil)
	if err != nil {
		// sha-256 is always linked in
		panic(err)
	}

	return suite
}

// ParentDigests holds the ordered digest list produced under one parent
// path, the intermediate artifact between the walker and digest placement.
type ParentDigests struct {
	Parent  claimpath.Path
	Digests []string
}

// Result is the output of a redaction walk.
type Result struct {
	// Claims mirrors the source document with disclosed subtrees removed.
	// When digesting is enabled the digest arrays are already placed and the
	// root carries the hash-algorithm identifier.
	Claims *value.Object

	// Disclosures lists the removed claims in processing order.
	Disclosures []*disclosure.Disclosure

	// DigestsByParent preserves the per-parent digest lists in processing
	// order. It is nil in split-only mode.
	DigestsByParent []ParentDigests
}

type opts struct {
	suite  *DigestSuite
	decoys int
}

// Opt is a redaction option.
type Opt func(*opts)

// WithDigestSuite enables digesting with the given suite.
func WithDigestSuite(suite *DigestSuite) Opt {
	return func(o *opts) {
		o.suite = suite
	}
}

// WithDecoyDigests appends n decoy digests to every produced digest array.
// Decoys follow the real digests so that digest-list processing order is
// preserved.
func WithDecoyDigests(n int) Opt {
	return func(o *opts) {
		o.decoys = n
	}
}

// Redact splits the claim tree into the mandatory subtree and the disclosure
// list. With a digest suite the digests are also computed and placed. The
// input document is not modified; all returned values are owned by the
// result.
func Redact(doc *value.Object, disclosable []claimpath.Path, salt SaltFactory, options ...Opt) (*Result, error) {
	if doc == nil {
		return nil, errors.New("document must be provided")
	}

	if salt == nil && len(disclosable) > 0 {
		return nil, errors.New("salt factory must be provided")
	}

	o := &opts{}

	for _, opt := range options {
		opt(o)
	}

	grouping, err := claimpath.GroupByParent(disclosable)
	if err != nil {
		return nil, err
	}

	claims, disclosures, digests, err := walk(doc, claimpath.Root, grouping, salt, o)
	if err != nil {
		return nil, err
	}

	result := &Result{Claims: claims, Disclosures: disclosures}

	if o.suite == nil {
		return result, nil
	}

	result.DigestsByParent = digests

	if err := PlaceDigests(claims, digests, o.suite.Algorithm); err != nil {
		return nil, err
	}

	return result, nil
}

// walk recursively partitions one object node, returning the mandatory
// counterpart plus the disclosures and digest entries created below it.
func walk(obj *value.Object, p claimpath.Path, grouping *claimpath.Grouping,
	salt SaltFactory, o *opts) (*value.Object, []*disclosure.Disclosure, []ParentDigests, error) {
	out := value.NewObject()

	var disclosures []*disclosure.Disclosure

	var childDigests []ParentDigests

	var levelDigests []string

	for _, name := range obj.Keys() {
		v, _ := obj.Get(name)

		childObj, isObj := v.(*value.Object)

		switch {
		case grouping.IsDisclosable(p, name):
			d, digest, err := createDisclosure(name, v, salt, o)
			if err != nil {
				return nil, nil, nil, err
			}

			disclosures = append(disclosures, d)

			if digest != "" {
				levelDigests = append(levelDigests, digest)
			}
		case isObj && grouping.HasDisclosableDescendants(p.Append(name)):
			childOut, childDisclosures, nested, err := walk(childObj, p.Append(name), grouping, salt, o)
			if err != nil {
				return nil, nil, nil, err
			}

			// written back even when empty, to preserve sibling
			// identifier and type fields
			out.Set(name, childOut)

			disclosures = append(disclosures, childDisclosures...)
			childDigests = append(childDigests, nested...)
		default:
			out.Set(name, value.Copy(v))
		}
	}

	if o.suite != nil && len(levelDigests) > 0 {
		decoys, err := createDecoyDigests(salt, o)
		if err != nil {
			return nil, nil, nil, err
		}

		levelDigests = append(levelDigests, decoys...)
	}

	var digests []ParentDigests

	if len(levelDigests) > 0 {
		digests = append(digests, ParentDigests{Parent: p, Digests: levelDigests})
	}

	digests = append(digests, childDigests...)

	return out, disclosures, digests, nil
}

func createDisclosure(name string, v value.Value, salt SaltFactory, o *opts) (*disclosure.Disclosure, string, error) {
	saltBytes, err := salt()
	if err != nil {
		return nil, "", fmt.Errorf("generate salt: %w", err)
	}

	d := &disclosure.Disclosure{Salt: saltBytes, Name: name, Value: value.Copy(v)}

	if o.suite == nil {
		return d, "", nil
	}

	encoded, err := o.suite.Codec.Encode(d)
	if err != nil {
		return nil, "", fmt.Errorf("encode disclosure: %w", err)
	}

	d.Encoded = encoded

	digest, err := o.suite.Digest(encoded)
	if err != nil {
		return nil, "", fmt.Errorf("hash disclosure: %w", err)
	}

	return d, digest, nil
}

func createDecoyDigests(salt SaltFactory, o *opts) ([]string, error) {
	var decoys []string

	for i := 0; i < o.decoys; i++ {
		saltBytes, err := salt()
		if err != nil {
			return nil, fmt.Errorf("generate decoy salt: %w", err)
		}

		digest, err := o.suite.Digest(o.suite.Codec.Encoding().EncodeToString(saltBytes))
		if err != nil {
			return nil, fmt.Errorf("hash decoy: %w", err)
		}

		decoys = append(decoys, digest)
	}

	return decoys, nil
}
