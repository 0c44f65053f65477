/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package token

import (
	"fmt"

	"github.com/hyperledger/selective-disclosure-go/pkg/doc/sd/common"
	"github.com/hyperledger/selective-disclosure-go/pkg/doc/sd/value"
)

// arrayElementKey marks an undisclosed array element inside the payload.
const arrayElementKey = "..."

// VerifyDisclosures checks that the digest of every presented disclosure is
// contained in some digest array of the issuer-signed claims.
func VerifyDisclosures(t *Token) error {
	if len(t.Disclosures) == 0 {
		return nil
	}

	claims, err := t.IssuerClaims()
	if err != nil {
		return err
	}

	hash, err := claimsHash(claims)
	if err != nil {
		return err
	}

	digests := make(map[string]bool)
	collectDigests(claims, digests)

	for _, d := range t.Disclosures {
		digest, err := common.GetHash(hash, d.Encoded)
		if err != nil {
			return err
		}

		if !digests[digest] {
			return fmt.Errorf("disclosure digest '%s' not found in issuer-signed claims", digest)
		}
	}

	return nil
}

// collectDigests gathers digest strings from every digest array and every
// array-element marker, recursively.
func collectDigests(v value.Value, out map[string]bool) {
	switch tv := v.(type) {
	case *value.Object:
		if sdRaw, ok := tv.Get(common.SDKey); ok {
			if sdArr, ok := sdRaw.(value.Sequence); ok {
				for _, entry := range sdArr {
					if digest, ok := entry.(value.String); ok {
						out[string(digest)] = true
					}
				}
			}
		}

		if tv.Len() == 1 {
			if marker, ok := tv.Get(arrayElementKey); ok {
				if digest, ok := marker.(value.String); ok {
					out[string(digest)] = true
				}
			}
		}

		for _, k := range tv.Keys() {
			child, _ := tv.Get(k)
			collectDigests(child, out)
		}
	case value.Sequence:
		for _, e := range tv {
			collectDigests(e, out)
		}
	}
}

// ResolveClaims reconstructs the disclosed claim tree: digests in the
// issuer-signed claims are substituted with the matching disclosed values
// and the reserved properties are removed. A digest included in more than
// one place, a claim name collision, or a disclosed value smuggling its own
// digest array all reject the presentation.
func ResolveClaims(t *Token) (*value.Object, error) {
	claims, err := t.IssuerClaims()
	if err != nil {
		return nil, err
	}

	byDigest, err := disclosuresByDigest(t, claims)
	if err != nil {
		return nil, err
	}

	included := make(map[string]bool)

	resolved, err := resolveObject(claims, byDigest, included)
	if err != nil {
		return nil, err
	}

	return resolved, nil
}

func resolveObject(obj *value.Object, byDigest map[string]matchedDisclosure,
	included map[string]bool) (*value.Object, error) {
	out := value.NewObject()

	for _, name := range obj.Keys() {
		if name == common.SDKey || name == common.SDAlgorithmKey {
			continue
		}

		v, _ := obj.Get(name)

		resolved, err := resolveValue(v, byDigest, included)
		if err != nil {
			return nil, err
		}

		out.Set(name, resolved)
	}

	sdRaw, ok := obj.Get(common.SDKey)
	if !ok {
		return out, nil
	}

	sdArr, ok := sdRaw.(value.Sequence)
	if !ok {
		return nil, fmt.Errorf("%s must be an array", common.SDKey)
	}

	for _, entry := range sdArr {
		digest, ok := entry.(value.String)
		if !ok {
			return nil, fmt.Errorf("%s entries must be strings", common.SDKey)
		}

		match, found := byDigest[string(digest)]
		if !found || match.disclosure.ArrayElement {
			continue
		}

		if err := includeDisclosure(out, match, included); err != nil {
			return nil, err
		}

		resolved, err := resolveValue(match.disclosure.Value, byDigest, included)
		if err != nil {
			return nil, err
		}

		out.Set(match.disclosure.Name, resolved)
	}

	return out, nil
}

func includeDisclosure(out *value.Object, match matchedDisclosure, included map[string]bool) error {
	if included[match.digest] {
		// a digest placed in more than one spot would let one disclosure
		// satisfy several claims
		return fmt.Errorf("digest '%s' has been included in more than one place", match.digest)
	}

	included[match.digest] = true

	if out.Has(match.disclosure.Name) {
		return fmt.Errorf("claim name '%s' already exists at the same level", match.disclosure.Name)
	}

	if containsKey(match.disclosure.Value, common.SDKey) {
		return fmt.Errorf("claim value contains an object with an '%s' key", common.SDKey)
	}

	return nil
}

func resolveValue(v value.Value, byDigest map[string]matchedDisclosure,
	included map[string]bool) (value.Value, error) {
	switch tv := v.(type) {
	case *value.Object:
		return resolveObject(tv, byDigest, included)
	case value.Sequence:
		return resolveSequence(tv, byDigest, included)
	default:
		return value.Copy(v), nil
	}
}

// resolveSequence substitutes array-element markers with their disclosed
// values; undisclosed markers are dropped.
func resolveSequence(seq value.Sequence, byDigest map[string]matchedDisclosure,
	included map[string]bool) (value.Value, error) {
	out := value.Sequence{}

	for _, e := range seq {
		if marker, ok := arrayElementDigest(e); ok {
			match, found := byDigest[marker]
			if !found || !match.disclosure.ArrayElement {
				continue
			}

			if included[marker] {
				return nil, fmt.Errorf("digest '%s' has been included in more than one place", marker)
			}

			included[marker] = true

			resolved, err := resolveValue(match.disclosure.Value, byDigest, included)
			if err != nil {
				return nil, err
			}

			out = append(out, resolved)

			continue
		}

		resolved, err := resolveValue(e, byDigest, included)
		if err != nil {
			return nil, err
		}

		out = append(out, resolved)
	}

	return out, nil
}

func arrayElementDigest(v value.Value) (string, bool) {
	obj, ok := v.(*value.Object)
	if !ok || obj.Len() != 1 {
		return "", false
	}

	marker, ok := obj.Get(arrayElementKey)
	if !ok {
		return "", false
	}

	digest, ok := marker.(value.String)
	if !ok {
		return "", false
	}

	return string(digest), true
}

func containsKey(v value.Value, key string) bool {
	switch tv := v.(type) {
	case *value.Object:
		if tv.Has(key) {
			return true
		}

		for _, k := range tv.Keys() {
			child, _ := tv.Get(k)
			if containsKey(child, key) {
				return true
			}
		}
	case value.Sequence:
		for _, e := range tv {
			if containsKey(e, key) {
				return true
			}
		}
	}

	return false
}
