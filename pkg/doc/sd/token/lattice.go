/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package token

import (
	"crypto"
	"fmt"

	"github.com/hyperledger/selective-disclosure-go/pkg/doc/sd/claimpath"
	"github.com/hyperledger/selective-disclosure-go/pkg/doc/sd/common"
	"github.com/hyperledger/selective-disclosure-go/pkg/doc/sd/disclosure"
	"github.com/hyperledger/selective-disclosure-go/pkg/doc/sd/value"
)

// PathInfo describes one path recoverable from a parsed token.
type PathInfo struct {
	Path claimpath.Path

	// Mandatory is true for claims present verbatim in the issuer-signed
	// payload.
	Mandatory bool

	// Disclosure is the disclosure reconstructing the claim at Path; nil for
	// mandatory claims.
	Disclosure *disclosure.Disclosure

	// Digest is the digest the disclosure matched, empty for mandatory
	// claims.
	Digest string
}

// Lattice is a read-only view over a parsed token exposing all recoverable
// named-property paths and which of them are mandatory versus
// disclosed-on-demand. Array-element disclosures carry no property name and
// contribute no path entries.
type Lattice struct {
	infos     []PathInfo
	byKey     map[string]int
	unmatched []string
}

// Extract reconstructs the disclosure-to-path mapping from an already-issued
// token. Disclosures are matched to digest arrays by digest-set membership
// using the hash algorithm the issuer payload declares.
func Extract(t *Token) (*Lattice, error) {
	claims, err := t.IssuerClaims()
	if err != nil {
		return nil, err
	}

	byDigest, err := disclosuresByDigest(t, claims)
	if err != nil {
		return nil, err
	}

	l := &Lattice{byKey: make(map[string]int)}

	l.walkClaims(claims, claimpath.Root, byDigest, true)

	return l, nil
}

// Paths returns every recoverable path.
func (l *Lattice) Paths() []PathInfo {
	infos := make([]PathInfo, len(l.infos))
	copy(infos, l.infos)

	return infos
}

// IsMandatory reports whether p is recoverable as a mandatory claim.
func (l *Lattice) IsMandatory(p claimpath.Path) bool {
	i, ok := l.byKey[p.String()]

	return ok && l.infos[i].Mandatory
}

// DisclosureFor returns the disclosure reconstructing the claim at p.
func (l *Lattice) DisclosureFor(p claimpath.Path) (*disclosure.Disclosure, bool) {
	i, ok := l.byKey[p.String()]
	if !ok || l.infos[i].Disclosure == nil {
		return nil, false
	}

	return l.infos[i].Disclosure, true
}

// UndisclosedDigests returns digests found in the payload's digest arrays
// for which no disclosure was presented.
func (l *Lattice) UndisclosedDigests() []string {
	out := make([]string, len(l.unmatched))
	copy(out, l.unmatched)

	return out
}

func (l *Lattice) add(info PathInfo) {
	l.byKey[info.Path.String()] = len(l.infos)
	l.infos = append(l.infos, info)
}

type matchedDisclosure struct {
	disclosure *disclosure.Disclosure
	digest     string
}

// walkClaims records paths for one object level. mandatory is false inside a
// disclosed subtree: everything below a disclosed claim is itself
// disclosed-on-demand.
func (l *Lattice) walkClaims(obj *value.Object, p claimpath.Path, byDigest map[string]matchedDisclosure, mandatory bool) {
	for _, name := range obj.Keys() {
		if name == common.SDKey || name == common.SDAlgorithmKey {
			continue
		}

		childPath := p.Append(name)

		v, _ := obj.Get(name)

		info := PathInfo{Path: childPath, Mandatory: mandatory}
		if !mandatory {
			if i, ok := l.byKey[p.String()]; ok {
				info.Disclosure = l.infos[i].Disclosure
				info.Digest = l.infos[i].Digest
			}
		}

		l.add(info)

		if childObj, ok := v.(*value.Object); ok {
			l.walkClaims(childObj, childPath, byDigest, mandatory)
		}
	}

	l.matchDigests(obj, p, byDigest)
}

func (l *Lattice) matchDigests(obj *value.Object, p claimpath.Path, byDigest map[string]matchedDisclosure) {
	sdRaw, ok := obj.Get(common.SDKey)
	if !ok {
		return
	}

	sdArr, ok := sdRaw.(value.Sequence)
	if !ok {
		return
	}

	for _, entry := range sdArr {
		digest, ok := entry.(value.String)
		if !ok {
			continue
		}

		match, found := byDigest[string(digest)]
		if !found || match.disclosure.ArrayElement {
			l.unmatched = append(l.unmatched, string(digest))
			continue
		}

		childPath := p.Append(match.disclosure.Name)

		l.add(PathInfo{
			Path:       childPath,
			Disclosure: match.disclosure,
			Digest:     match.digest,
		})

		// paths below the disclosed claim are disclosed through the same
		// disclosure, or through nested digest arrays it carries
		if childObj, ok := match.disclosure.Value.(*value.Object); ok {
			l.walkClaims(childObj, childPath, byDigest, false)
		}
	}
}

func disclosuresByDigest(t *Token, claims *value.Object) (map[string]matchedDisclosure, error) {
	if len(t.Disclosures) == 0 {
		return nil, nil
	}

	hash, err := claimsHash(claims)
	if err != nil {
		return nil, err
	}

	byDigest := make(map[string]matchedDisclosure, len(t.Disclosures))

	for _, d := range t.Disclosures {
		if d.Encoded == "" {
			return nil, fmt.Errorf("disclosure has no encoded form")
		}

		digest, err := common.GetHash(hash, d.Encoded)
		if err != nil {
			return nil, err
		}

		byDigest[digest] = matchedDisclosure{disclosure: d, digest: digest}
	}

	return byDigest, nil
}

// claimsHash reads the hash algorithm the payload declares at its root.
func claimsHash(claims *value.Object) (crypto.Hash, error) {
	algRaw, ok := claims.Get(common.SDAlgorithmKey)
	if !ok {
		return 0, fmt.Errorf("%s must be present in issuer claims", common.SDAlgorithmKey)
	}

	alg, ok := algRaw.(value.String)
	if !ok {
		return 0, fmt.Errorf("%s must be a string", common.SDAlgorithmKey)
	}

	return common.GetCryptoHash(string(alg))
}
